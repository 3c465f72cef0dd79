package interfaces

import (
	"context"

	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/preceptor-dev/preceptor/pkg/domain/model/auth"
)

// AccountsClient covers the supervisor account endpoints
type AccountsClient interface {
	// Login exchanges credentials for a session. The caller decides where to store it.
	Login(ctx context.Context, input *model.LoginInput) (*auth.Session, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*model.User, error)
	UpdateMe(ctx context.Context, input *model.ProfileInput) (*model.User, error)
}

type CaseClient interface {
	ListCases(ctx context.Context, opts ...ListOption) ([]*model.Case, error)
	GetCase(ctx context.Context, id model.ID) (*model.Case, error)
	CreateCase(ctx context.Context, input *model.CaseInput) (*model.Case, error)
	UpdateCase(ctx context.Context, id model.ID, input *model.CaseInput) (*model.Case, error)
	ListCaseHistory(ctx context.Context, id model.ID) ([]*model.CaseHistoryEntry, error)
	ListAssignmentRequests(ctx context.Context, opts ...ListOption) ([]*model.AssignmentRequest, error)
	RespondAssignmentRequest(ctx context.Context, id model.ID, input *model.AssignmentResponseInput) (*model.AssignmentRequest, error)
}

type SessionClient interface {
	ListSessionsNeedingReview(ctx context.Context, opts ...ListOption) ([]*model.Session, error)
	ListCaseSessions(ctx context.Context, caseID model.ID) ([]*model.Session, error)
	GetSessionReview(ctx context.Context, id model.ID) (*model.Session, error)
	ReviewSession(ctx context.Context, id model.ID, input *model.SessionReviewInput) (*model.Session, error)
}

type AppointmentClient interface {
	ListAppointments(ctx context.Context, opts ...ListOption) ([]*model.Appointment, error)
	GetAppointment(ctx context.Context, id model.ID) (*model.Appointment, error)
	CreateAppointment(ctx context.Context, input *model.AppointmentInput) (*model.Appointment, error)
	UpdateAppointment(ctx context.Context, id model.ID, input *model.AppointmentInput) (*model.Appointment, error)
}

type EvaluationClient interface {
	ListEvaluations(ctx context.Context, opts ...ListOption) ([]*model.Evaluation, error)
	GetEvaluation(ctx context.Context, id model.ID) (*model.Evaluation, error)
	CreateEvaluation(ctx context.Context, input *model.EvaluationInput) (*model.Evaluation, error)
	UpdateEvaluation(ctx context.Context, id model.ID, input *model.EvaluationInput) (*model.Evaluation, error)
	SubmitEvaluation(ctx context.Context, id model.ID) (*model.Evaluation, error)
	AdjustEvaluation(ctx context.Context, id model.ID, input *model.AdjustmentInput) (*model.Evaluation, error)
	FinalizeEvaluation(ctx context.Context, id model.ID) (*model.Evaluation, error)
	GetStudentRating(ctx context.Context, studentID model.ID) (*model.StudentRating, error)
}

type CommunityClient interface {
	ListPosts(ctx context.Context, opts ...ListOption) ([]*model.ContentPost, error)
	ListPendingPosts(ctx context.Context, opts ...ListOption) ([]*model.ContentPost, error)
	CreatePost(ctx context.Context, input *model.PostInput) (*model.ContentPost, error)
	ApprovePost(ctx context.Context, id model.ID) (*model.ContentPost, error)
	RejectPost(ctx context.Context, id model.ID, reason string) (*model.ContentPost, error)
	ReactPost(ctx context.Context, id model.ID) error
	ListComments(ctx context.Context, postID model.ID) ([]model.Comment, error)
	AddComment(ctx context.Context, postID model.ID, body string) (*model.Comment, error)
}

type ReportClient interface {
	ListReports(ctx context.Context, opts ...ListOption) ([]*model.Report, error)
	GetReport(ctx context.Context, id model.ID) (*model.Report, error)
	CreateReport(ctx context.Context, input *model.ReportInput) (*model.Report, error)
	UpdateReport(ctx context.Context, id model.ID, input *model.ReportInput) (*model.Report, error)
	SubmitReport(ctx context.Context, id model.ID) (*model.Report, error)
	ApproveReport(ctx context.Context, id model.ID, comment string) (*model.Report, error)
	RejectReport(ctx context.Context, id model.ID, reason string) (*model.Report, error)
}

type NotificationClient interface {
	ListNotifications(ctx context.Context, opts ...ListOption) ([]*model.Notification, error)
	MarkNotificationRead(ctx context.Context, id model.ID) error
	MarkAllNotificationsRead(ctx context.Context) error
}

type MessagingClient interface {
	ListThreads(ctx context.Context, opts ...ListOption) ([]*model.Thread, error)
	GetThread(ctx context.Context, id model.ID) (*model.Thread, error)
	CreateThread(ctx context.Context, input *model.ThreadInput) (*model.Thread, error)
	// ListMessages returns one page, newest first. An empty cursor requests the latest page.
	ListMessages(ctx context.Context, threadID model.ID, cursor string, limit int) (*model.MessagePage, error)
	SendMessage(ctx context.Context, threadID model.ID, content string) (*model.Message, error)
	MarkMessageRead(ctx context.Context, messageID model.ID) error
}

type SupportClient interface {
	CreateSupportTicket(ctx context.Context, input *model.TicketInput) (*model.SupportTicket, error)
}

// Platform is the whole platform API surface
type Platform interface {
	AccountsClient
	CaseClient
	SessionClient
	AppointmentClient
	EvaluationClient
	CommunityClient
	ReportClient
	NotificationClient
	MessagingClient
	SupportClient
}

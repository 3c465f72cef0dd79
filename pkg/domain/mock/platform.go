package mock

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/preceptor-dev/preceptor/pkg/domain/model/auth"
)

// ErrNotMocked is returned by single-item methods without a stub
var ErrNotMocked = goerr.New("method is not mocked")

// PlatformMock implements interfaces.Platform with overridable functions and
// call counting. Unset list methods return nothing; unset single-item methods
// return ErrNotMocked.
type PlatformMock struct {
	LoginFunc                     func(ctx context.Context, input *model.LoginInput) (*auth.Session, error)
	LogoutFunc                    func(ctx context.Context) error
	MeFunc                        func(ctx context.Context) (*model.User, error)
	UpdateMeFunc                  func(ctx context.Context, input *model.ProfileInput) (*model.User, error)
	ListCasesFunc                 func(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Case, error)
	GetCaseFunc                   func(ctx context.Context, id model.ID) (*model.Case, error)
	CreateCaseFunc                func(ctx context.Context, input *model.CaseInput) (*model.Case, error)
	UpdateCaseFunc                func(ctx context.Context, id model.ID, input *model.CaseInput) (*model.Case, error)
	ListCaseHistoryFunc           func(ctx context.Context, id model.ID) ([]*model.CaseHistoryEntry, error)
	ListAssignmentRequestsFunc    func(ctx context.Context, opts ...interfaces.ListOption) ([]*model.AssignmentRequest, error)
	RespondAssignmentRequestFunc  func(ctx context.Context, id model.ID, input *model.AssignmentResponseInput) (*model.AssignmentRequest, error)
	ListSessionsNeedingReviewFunc func(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Session, error)
	ListCaseSessionsFunc          func(ctx context.Context, caseID model.ID) ([]*model.Session, error)
	GetSessionReviewFunc          func(ctx context.Context, id model.ID) (*model.Session, error)
	ReviewSessionFunc             func(ctx context.Context, id model.ID, input *model.SessionReviewInput) (*model.Session, error)
	ListAppointmentsFunc          func(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Appointment, error)
	GetAppointmentFunc            func(ctx context.Context, id model.ID) (*model.Appointment, error)
	CreateAppointmentFunc         func(ctx context.Context, input *model.AppointmentInput) (*model.Appointment, error)
	UpdateAppointmentFunc         func(ctx context.Context, id model.ID, input *model.AppointmentInput) (*model.Appointment, error)
	ListEvaluationsFunc           func(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Evaluation, error)
	GetEvaluationFunc             func(ctx context.Context, id model.ID) (*model.Evaluation, error)
	CreateEvaluationFunc          func(ctx context.Context, input *model.EvaluationInput) (*model.Evaluation, error)
	UpdateEvaluationFunc          func(ctx context.Context, id model.ID, input *model.EvaluationInput) (*model.Evaluation, error)
	SubmitEvaluationFunc          func(ctx context.Context, id model.ID) (*model.Evaluation, error)
	AdjustEvaluationFunc          func(ctx context.Context, id model.ID, input *model.AdjustmentInput) (*model.Evaluation, error)
	FinalizeEvaluationFunc        func(ctx context.Context, id model.ID) (*model.Evaluation, error)
	GetStudentRatingFunc          func(ctx context.Context, studentID model.ID) (*model.StudentRating, error)
	ListPostsFunc                 func(ctx context.Context, opts ...interfaces.ListOption) ([]*model.ContentPost, error)
	ListPendingPostsFunc          func(ctx context.Context, opts ...interfaces.ListOption) ([]*model.ContentPost, error)
	CreatePostFunc                func(ctx context.Context, input *model.PostInput) (*model.ContentPost, error)
	ApprovePostFunc               func(ctx context.Context, id model.ID) (*model.ContentPost, error)
	RejectPostFunc                func(ctx context.Context, id model.ID, reason string) (*model.ContentPost, error)
	ReactPostFunc                 func(ctx context.Context, id model.ID) error
	ListCommentsFunc              func(ctx context.Context, postID model.ID) ([]model.Comment, error)
	AddCommentFunc                func(ctx context.Context, postID model.ID, body string) (*model.Comment, error)
	ListReportsFunc               func(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Report, error)
	GetReportFunc                 func(ctx context.Context, id model.ID) (*model.Report, error)
	CreateReportFunc              func(ctx context.Context, input *model.ReportInput) (*model.Report, error)
	UpdateReportFunc              func(ctx context.Context, id model.ID, input *model.ReportInput) (*model.Report, error)
	SubmitReportFunc              func(ctx context.Context, id model.ID) (*model.Report, error)
	ApproveReportFunc             func(ctx context.Context, id model.ID, comment string) (*model.Report, error)
	RejectReportFunc              func(ctx context.Context, id model.ID, reason string) (*model.Report, error)
	ListNotificationsFunc         func(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Notification, error)
	MarkNotificationReadFunc      func(ctx context.Context, id model.ID) error
	MarkAllNotificationsReadFunc  func(ctx context.Context) error
	ListThreadsFunc               func(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Thread, error)
	GetThreadFunc                 func(ctx context.Context, id model.ID) (*model.Thread, error)
	CreateThreadFunc              func(ctx context.Context, input *model.ThreadInput) (*model.Thread, error)
	ListMessagesFunc              func(ctx context.Context, threadID model.ID, cursor string, limit int) (*model.MessagePage, error)
	SendMessageFunc               func(ctx context.Context, threadID model.ID, content string) (*model.Message, error)
	MarkMessageReadFunc           func(ctx context.Context, messageID model.ID) error
	CreateSupportTicketFunc       func(ctx context.Context, input *model.TicketInput) (*model.SupportTicket, error)

	mu    sync.Mutex
	calls map[string]int
}

var _ interfaces.Platform = &PlatformMock{}

// Calls returns how many times the named method was invoked
func (m *PlatformMock) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// TotalCalls returns the number of invocations of any method
func (m *PlatformMock) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

func (m *PlatformMock) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
}

func (m *PlatformMock) Login(ctx context.Context, input *model.LoginInput) (*auth.Session, error) {
	m.record("Login")
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, input)
	}
	return nil, goerr.Wrap(ErrNotMocked, "Login")
}

func (m *PlatformMock) Logout(ctx context.Context) error {
	m.record("Logout")
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx)
	}
	return nil
}

func (m *PlatformMock) Me(ctx context.Context) (*model.User, error) {
	m.record("Me")
	if m.MeFunc != nil {
		return m.MeFunc(ctx)
	}
	return nil, goerr.Wrap(ErrNotMocked, "Me")
}

func (m *PlatformMock) UpdateMe(ctx context.Context, input *model.ProfileInput) (*model.User, error) {
	m.record("UpdateMe")
	if m.UpdateMeFunc != nil {
		return m.UpdateMeFunc(ctx, input)
	}
	return nil, goerr.Wrap(ErrNotMocked, "UpdateMe")
}

func (m *PlatformMock) ListCases(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Case, error) {
	m.record("ListCases")
	if m.ListCasesFunc != nil {
		return m.ListCasesFunc(ctx, opts...)
	}
	return nil, nil
}

func (m *PlatformMock) GetCase(ctx context.Context, id model.ID) (*model.Case, error) {
	m.record("GetCase")
	if m.GetCaseFunc != nil {
		return m.GetCaseFunc(ctx, id)
	}
	return nil, goerr.Wrap(ErrNotMocked, "GetCase")
}

func (m *PlatformMock) CreateCase(ctx context.Context, input *model.CaseInput) (*model.Case, error) {
	m.record("CreateCase")
	if m.CreateCaseFunc != nil {
		return m.CreateCaseFunc(ctx, input)
	}
	return nil, goerr.Wrap(ErrNotMocked, "CreateCase")
}

func (m *PlatformMock) UpdateCase(ctx context.Context, id model.ID, input *model.CaseInput) (*model.Case, error) {
	m.record("UpdateCase")
	if m.UpdateCaseFunc != nil {
		return m.UpdateCaseFunc(ctx, id, input)
	}
	return nil, goerr.Wrap(ErrNotMocked, "UpdateCase")
}

func (m *PlatformMock) ListCaseHistory(ctx context.Context, id model.ID) ([]*model.CaseHistoryEntry, error) {
	m.record("ListCaseHistory")
	if m.ListCaseHistoryFunc != nil {
		return m.ListCaseHistoryFunc(ctx, id)
	}
	return nil, nil
}

func (m *PlatformMock) ListAssignmentRequests(ctx context.Context, opts ...interfaces.ListOption) ([]*model.AssignmentRequest, error) {
	m.record("ListAssignmentRequests")
	if m.ListAssignmentRequestsFunc != nil {
		return m.ListAssignmentRequestsFunc(ctx, opts...)
	}
	return nil, nil
}

func (m *PlatformMock) RespondAssignmentRequest(ctx context.Context, id model.ID, input *model.AssignmentResponseInput) (*model.AssignmentRequest, error) {
	m.record("RespondAssignmentRequest")
	if m.RespondAssignmentRequestFunc != nil {
		return m.RespondAssignmentRequestFunc(ctx, id, input)
	}
	return nil, goerr.Wrap(ErrNotMocked, "RespondAssignmentRequest")
}

func (m *PlatformMock) ListSessionsNeedingReview(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Session, error) {
	m.record("ListSessionsNeedingReview")
	if m.ListSessionsNeedingReviewFunc != nil {
		return m.ListSessionsNeedingReviewFunc(ctx, opts...)
	}
	return nil, nil
}

func (m *PlatformMock) ListCaseSessions(ctx context.Context, caseID model.ID) ([]*model.Session, error) {
	m.record("ListCaseSessions")
	if m.ListCaseSessionsFunc != nil {
		return m.ListCaseSessionsFunc(ctx, caseID)
	}
	return nil, nil
}

func (m *PlatformMock) GetSessionReview(ctx context.Context, id model.ID) (*model.Session, error) {
	m.record("GetSessionReview")
	if m.GetSessionReviewFunc != nil {
		return m.GetSessionReviewFunc(ctx, id)
	}
	return nil, goerr.Wrap(ErrNotMocked, "GetSessionReview")
}

func (m *PlatformMock) ReviewSession(ctx context.Context, id model.ID, input *model.SessionReviewInput) (*model.Session, error) {
	m.record("ReviewSession")
	if m.ReviewSessionFunc != nil {
		return m.ReviewSessionFunc(ctx, id, input)
	}
	return nil, goerr.Wrap(ErrNotMocked, "ReviewSession")
}

func (m *PlatformMock) ListAppointments(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Appointment, error) {
	m.record("ListAppointments")
	if m.ListAppointmentsFunc != nil {
		return m.ListAppointmentsFunc(ctx, opts...)
	}
	return nil, nil
}

func (m *PlatformMock) GetAppointment(ctx context.Context, id model.ID) (*model.Appointment, error) {
	m.record("GetAppointment")
	if m.GetAppointmentFunc != nil {
		return m.GetAppointmentFunc(ctx, id)
	}
	return nil, goerr.Wrap(ErrNotMocked, "GetAppointment")
}

func (m *PlatformMock) CreateAppointment(ctx context.Context, input *model.AppointmentInput) (*model.Appointment, error) {
	m.record("CreateAppointment")
	if m.CreateAppointmentFunc != nil {
		return m.CreateAppointmentFunc(ctx, input)
	}
	return nil, goerr.Wrap(ErrNotMocked, "CreateAppointment")
}

func (m *PlatformMock) UpdateAppointment(ctx context.Context, id model.ID, input *model.AppointmentInput) (*model.Appointment, error) {
	m.record("UpdateAppointment")
	if m.UpdateAppointmentFunc != nil {
		return m.UpdateAppointmentFunc(ctx, id, input)
	}
	return nil, goerr.Wrap(ErrNotMocked, "UpdateAppointment")
}

func (m *PlatformMock) ListEvaluations(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Evaluation, error) {
	m.record("ListEvaluations")
	if m.ListEvaluationsFunc != nil {
		return m.ListEvaluationsFunc(ctx, opts...)
	}
	return nil, nil
}

func (m *PlatformMock) GetEvaluation(ctx context.Context, id model.ID) (*model.Evaluation, error) {
	m.record("GetEvaluation")
	if m.GetEvaluationFunc != nil {
		return m.GetEvaluationFunc(ctx, id)
	}
	return nil, goerr.Wrap(ErrNotMocked, "GetEvaluation")
}

func (m *PlatformMock) CreateEvaluation(ctx context.Context, input *model.EvaluationInput) (*model.Evaluation, error) {
	m.record("CreateEvaluation")
	if m.CreateEvaluationFunc != nil {
		return m.CreateEvaluationFunc(ctx, input)
	}
	return nil, goerr.Wrap(ErrNotMocked, "CreateEvaluation")
}

func (m *PlatformMock) UpdateEvaluation(ctx context.Context, id model.ID, input *model.EvaluationInput) (*model.Evaluation, error) {
	m.record("UpdateEvaluation")
	if m.UpdateEvaluationFunc != nil {
		return m.UpdateEvaluationFunc(ctx, id, input)
	}
	return nil, goerr.Wrap(ErrNotMocked, "UpdateEvaluation")
}

func (m *PlatformMock) SubmitEvaluation(ctx context.Context, id model.ID) (*model.Evaluation, error) {
	m.record("SubmitEvaluation")
	if m.SubmitEvaluationFunc != nil {
		return m.SubmitEvaluationFunc(ctx, id)
	}
	return nil, goerr.Wrap(ErrNotMocked, "SubmitEvaluation")
}

func (m *PlatformMock) AdjustEvaluation(ctx context.Context, id model.ID, input *model.AdjustmentInput) (*model.Evaluation, error) {
	m.record("AdjustEvaluation")
	if m.AdjustEvaluationFunc != nil {
		return m.AdjustEvaluationFunc(ctx, id, input)
	}
	return nil, goerr.Wrap(ErrNotMocked, "AdjustEvaluation")
}

func (m *PlatformMock) FinalizeEvaluation(ctx context.Context, id model.ID) (*model.Evaluation, error) {
	m.record("FinalizeEvaluation")
	if m.FinalizeEvaluationFunc != nil {
		return m.FinalizeEvaluationFunc(ctx, id)
	}
	return nil, goerr.Wrap(ErrNotMocked, "FinalizeEvaluation")
}

func (m *PlatformMock) GetStudentRating(ctx context.Context, studentID model.ID) (*model.StudentRating, error) {
	m.record("GetStudentRating")
	if m.GetStudentRatingFunc != nil {
		return m.GetStudentRatingFunc(ctx, studentID)
	}
	return nil, goerr.Wrap(ErrNotMocked, "GetStudentRating")
}

func (m *PlatformMock) ListPosts(ctx context.Context, opts ...interfaces.ListOption) ([]*model.ContentPost, error) {
	m.record("ListPosts")
	if m.ListPostsFunc != nil {
		return m.ListPostsFunc(ctx, opts...)
	}
	return nil, nil
}

func (m *PlatformMock) ListPendingPosts(ctx context.Context, opts ...interfaces.ListOption) ([]*model.ContentPost, error) {
	m.record("ListPendingPosts")
	if m.ListPendingPostsFunc != nil {
		return m.ListPendingPostsFunc(ctx, opts...)
	}
	return nil, nil
}

func (m *PlatformMock) CreatePost(ctx context.Context, input *model.PostInput) (*model.ContentPost, error) {
	m.record("CreatePost")
	if m.CreatePostFunc != nil {
		return m.CreatePostFunc(ctx, input)
	}
	return nil, goerr.Wrap(ErrNotMocked, "CreatePost")
}

func (m *PlatformMock) ApprovePost(ctx context.Context, id model.ID) (*model.ContentPost, error) {
	m.record("ApprovePost")
	if m.ApprovePostFunc != nil {
		return m.ApprovePostFunc(ctx, id)
	}
	return nil, goerr.Wrap(ErrNotMocked, "ApprovePost")
}

func (m *PlatformMock) RejectPost(ctx context.Context, id model.ID, reason string) (*model.ContentPost, error) {
	m.record("RejectPost")
	if m.RejectPostFunc != nil {
		return m.RejectPostFunc(ctx, id, reason)
	}
	return nil, goerr.Wrap(ErrNotMocked, "RejectPost")
}

func (m *PlatformMock) ReactPost(ctx context.Context, id model.ID) error {
	m.record("ReactPost")
	if m.ReactPostFunc != nil {
		return m.ReactPostFunc(ctx, id)
	}
	return nil
}

func (m *PlatformMock) ListComments(ctx context.Context, postID model.ID) ([]model.Comment, error) {
	m.record("ListComments")
	if m.ListCommentsFunc != nil {
		return m.ListCommentsFunc(ctx, postID)
	}
	return nil, nil
}

func (m *PlatformMock) AddComment(ctx context.Context, postID model.ID, body string) (*model.Comment, error) {
	m.record("AddComment")
	if m.AddCommentFunc != nil {
		return m.AddCommentFunc(ctx, postID, body)
	}
	return nil, goerr.Wrap(ErrNotMocked, "AddComment")
}

func (m *PlatformMock) ListReports(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Report, error) {
	m.record("ListReports")
	if m.ListReportsFunc != nil {
		return m.ListReportsFunc(ctx, opts...)
	}
	return nil, nil
}

func (m *PlatformMock) GetReport(ctx context.Context, id model.ID) (*model.Report, error) {
	m.record("GetReport")
	if m.GetReportFunc != nil {
		return m.GetReportFunc(ctx, id)
	}
	return nil, goerr.Wrap(ErrNotMocked, "GetReport")
}

func (m *PlatformMock) CreateReport(ctx context.Context, input *model.ReportInput) (*model.Report, error) {
	m.record("CreateReport")
	if m.CreateReportFunc != nil {
		return m.CreateReportFunc(ctx, input)
	}
	return nil, goerr.Wrap(ErrNotMocked, "CreateReport")
}

func (m *PlatformMock) UpdateReport(ctx context.Context, id model.ID, input *model.ReportInput) (*model.Report, error) {
	m.record("UpdateReport")
	if m.UpdateReportFunc != nil {
		return m.UpdateReportFunc(ctx, id, input)
	}
	return nil, goerr.Wrap(ErrNotMocked, "UpdateReport")
}

func (m *PlatformMock) SubmitReport(ctx context.Context, id model.ID) (*model.Report, error) {
	m.record("SubmitReport")
	if m.SubmitReportFunc != nil {
		return m.SubmitReportFunc(ctx, id)
	}
	return nil, goerr.Wrap(ErrNotMocked, "SubmitReport")
}

func (m *PlatformMock) ApproveReport(ctx context.Context, id model.ID, comment string) (*model.Report, error) {
	m.record("ApproveReport")
	if m.ApproveReportFunc != nil {
		return m.ApproveReportFunc(ctx, id, comment)
	}
	return nil, goerr.Wrap(ErrNotMocked, "ApproveReport")
}

func (m *PlatformMock) RejectReport(ctx context.Context, id model.ID, reason string) (*model.Report, error) {
	m.record("RejectReport")
	if m.RejectReportFunc != nil {
		return m.RejectReportFunc(ctx, id, reason)
	}
	return nil, goerr.Wrap(ErrNotMocked, "RejectReport")
}

func (m *PlatformMock) ListNotifications(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Notification, error) {
	m.record("ListNotifications")
	if m.ListNotificationsFunc != nil {
		return m.ListNotificationsFunc(ctx, opts...)
	}
	return nil, nil
}

func (m *PlatformMock) MarkNotificationRead(ctx context.Context, id model.ID) error {
	m.record("MarkNotificationRead")
	if m.MarkNotificationReadFunc != nil {
		return m.MarkNotificationReadFunc(ctx, id)
	}
	return nil
}

func (m *PlatformMock) MarkAllNotificationsRead(ctx context.Context) error {
	m.record("MarkAllNotificationsRead")
	if m.MarkAllNotificationsReadFunc != nil {
		return m.MarkAllNotificationsReadFunc(ctx)
	}
	return nil
}

func (m *PlatformMock) ListThreads(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Thread, error) {
	m.record("ListThreads")
	if m.ListThreadsFunc != nil {
		return m.ListThreadsFunc(ctx, opts...)
	}
	return nil, nil
}

func (m *PlatformMock) GetThread(ctx context.Context, id model.ID) (*model.Thread, error) {
	m.record("GetThread")
	if m.GetThreadFunc != nil {
		return m.GetThreadFunc(ctx, id)
	}
	return nil, goerr.Wrap(ErrNotMocked, "GetThread")
}

func (m *PlatformMock) CreateThread(ctx context.Context, input *model.ThreadInput) (*model.Thread, error) {
	m.record("CreateThread")
	if m.CreateThreadFunc != nil {
		return m.CreateThreadFunc(ctx, input)
	}
	return nil, goerr.Wrap(ErrNotMocked, "CreateThread")
}

func (m *PlatformMock) ListMessages(ctx context.Context, threadID model.ID, cursor string, limit int) (*model.MessagePage, error) {
	m.record("ListMessages")
	if m.ListMessagesFunc != nil {
		return m.ListMessagesFunc(ctx, threadID, cursor, limit)
	}
	return &model.MessagePage{}, nil
}

func (m *PlatformMock) SendMessage(ctx context.Context, threadID model.ID, content string) (*model.Message, error) {
	m.record("SendMessage")
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, threadID, content)
	}
	return nil, goerr.Wrap(ErrNotMocked, "SendMessage")
}

func (m *PlatformMock) MarkMessageRead(ctx context.Context, messageID model.ID) error {
	m.record("MarkMessageRead")
	if m.MarkMessageReadFunc != nil {
		return m.MarkMessageReadFunc(ctx, messageID)
	}
	return nil
}

func (m *PlatformMock) CreateSupportTicket(ctx context.Context, input *model.TicketInput) (*model.SupportTicket, error) {
	m.record("CreateSupportTicket")
	if m.CreateSupportTicketFunc != nil {
		return m.CreateSupportTicketFunc(ctx, input)
	}
	return nil, goerr.Wrap(ErrNotMocked, "CreateSupportTicket")
}

package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for use case layer. Actions refused client-side never reach the API.
var (
	ErrInvalidInput = goerr.New("invalid input")
	ErrNotFound     = goerr.New("not found")
	ErrNotLoggedIn  = goerr.New("not logged in, please run `preceptor login`")

	// Auth
	ErrLockedOut = goerr.New("too many failed login attempts")

	// Status gating
	ErrCaseClosed               = goerr.New("case is completed or closed")
	ErrAssignmentNotPending     = goerr.New("assignment request was already answered")
	ErrAppointmentClosed        = goerr.New("appointment is completed, cancelled or marked no-show")
	ErrSessionNotReviewable     = goerr.New("session is not awaiting review")
	ErrFeedbackRequired         = goerr.New("feedback is required to reject a session")
	ErrEvaluationFinalized      = goerr.New("evaluation is finalized")
	ErrEvaluationNotDraft       = goerr.New("only draft evaluations can be submitted")
	ErrEvaluationNotSubmitted   = goerr.New("evaluation has not been submitted")
	ErrAdjustmentReasonRequired = goerr.New("a reason is required to adjust a score")
	ErrRejectionReasonRequired  = goerr.New("a non-empty reason is required to reject")
	ErrReportNotEditable        = goerr.New("report is not editable")
	ErrReportNotSubmitted       = goerr.New("report has not been submitted")
	ErrThreadClosed             = goerr.New("thread is closed")
	ErrUnknownEvent             = goerr.New("unknown messaging event")
	ErrStaleResponse            = goerr.New("response discarded because the thread view changed")
	ErrReportSinkNotConfigured  = goerr.New("report sink is not configured")
)

// Context keys for error values
const (
	CaseIDKey         = "case_id"
	AppointmentIDKey  = "appointment_id"
	SessionIDKey      = "session_id"
	EvaluationIDKey   = "evaluation_id"
	PostIDKey         = "post_id"
	ReportIDKey       = "report_id"
	NotificationIDKey = "notification_id"
	ThreadIDKey       = "thread_id"
	MessageIDKey      = "message_id"
	StatusKey         = "status"
	RemainingKey      = "remaining"
)

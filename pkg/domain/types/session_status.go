package types

import "fmt"

// SessionStatus represents the review status of a clinical session
type SessionStatus string

const (
	SessionStatusDraft       SessionStatus = "draft"
	SessionStatusCompleted   SessionStatus = "completed"
	SessionStatusNeedsReview SessionStatus = "needs_review"
	SessionStatusApproved    SessionStatus = "approved"
	SessionStatusRejected    SessionStatus = "rejected"
)

// IsValid checks if the session status is valid
func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionStatusDraft,
		SessionStatusCompleted,
		SessionStatusNeedsReview,
		SessionStatusApproved,
		SessionStatusRejected:
		return true
	default:
		return false
	}
}

// IsReviewable reports whether a supervisor may approve or reject the session
func (s SessionStatus) IsReviewable() bool {
	return s == SessionStatusCompleted || s == SessionStatusNeedsReview
}

func (s SessionStatus) String() string {
	return string(s)
}

// ParseSessionStatus parses a string into a SessionStatus
func ParseSessionStatus(s string) (SessionStatus, error) {
	status := SessionStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid session status: %s", s)
	}
	return status, nil
}

// ReviewDecision is the supervisor's verdict on a session review
type ReviewDecision string

const (
	ReviewDecisionApprove ReviewDecision = "approve"
	ReviewDecisionReject  ReviewDecision = "reject"
)

// IsValid checks if the decision is valid
func (d ReviewDecision) IsValid() bool {
	return d == ReviewDecisionApprove || d == ReviewDecisionReject
}

// ParseReviewDecision parses a string into a ReviewDecision
func ParseReviewDecision(s string) (ReviewDecision, error) {
	d := ReviewDecision(s)
	if !d.IsValid() {
		return "", fmt.Errorf("invalid review decision: %s", s)
	}
	return d, nil
}

package types

import "fmt"

// CaseStatus represents the lifecycle status of a clinical case
type CaseStatus string

const (
	CaseStatusNew               CaseStatus = "new"
	CaseStatusPendingAssignment CaseStatus = "pending_assignment"
	CaseStatusAssigned          CaseStatus = "assigned"
	CaseStatusInProgress        CaseStatus = "in_progress"
	CaseStatusCompleted         CaseStatus = "completed"
	CaseStatusClosed            CaseStatus = "closed"
)

// AllCaseStatuses returns all valid case statuses
func AllCaseStatuses() []CaseStatus {
	return []CaseStatus{
		CaseStatusNew,
		CaseStatusPendingAssignment,
		CaseStatusAssigned,
		CaseStatusInProgress,
		CaseStatusCompleted,
		CaseStatusClosed,
	}
}

// IsValid checks if the case status is valid
func (s CaseStatus) IsValid() bool {
	switch s {
	case CaseStatusNew,
		CaseStatusPendingAssignment,
		CaseStatusAssigned,
		CaseStatusInProgress,
		CaseStatusCompleted,
		CaseStatusClosed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further supervisor action is allowed
func (s CaseStatus) IsTerminal() bool {
	return s == CaseStatusCompleted || s == CaseStatusClosed
}

// String returns the string representation of the case status
func (s CaseStatus) String() string {
	return string(s)
}

// ParseCaseStatus parses a string into a CaseStatus
func ParseCaseStatus(s string) (CaseStatus, error) {
	status := CaseStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid case status: %s", s)
	}
	return status, nil
}

// CasePriority represents how urgently a case needs attention
type CasePriority string

const (
	CasePriorityLow    CasePriority = "low"
	CasePriorityMedium CasePriority = "medium"
	CasePriorityHigh   CasePriority = "high"
	CasePriorityUrgent CasePriority = "urgent"
)

// IsValid checks if the priority is valid
func (p CasePriority) IsValid() bool {
	switch p {
	case CasePriorityLow, CasePriorityMedium, CasePriorityHigh, CasePriorityUrgent:
		return true
	default:
		return false
	}
}

func (p CasePriority) String() string {
	return string(p)
}

// ParseCasePriority parses a string into a CasePriority
func ParseCasePriority(s string) (CasePriority, error) {
	p := CasePriority(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid case priority: %s", s)
	}
	return p, nil
}

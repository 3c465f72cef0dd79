package types

import "fmt"

// ReportStatus represents the review status of a report:
// draft -> submitted -> approved/rejected, or locked
type ReportStatus string

const (
	ReportStatusDraft     ReportStatus = "draft"
	ReportStatusSubmitted ReportStatus = "submitted"
	ReportStatusApproved  ReportStatus = "approved"
	ReportStatusRejected  ReportStatus = "rejected"
	ReportStatusLocked    ReportStatus = "locked"
)

// IsValid checks if the report status is valid
func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportStatusDraft,
		ReportStatusSubmitted,
		ReportStatusApproved,
		ReportStatusRejected,
		ReportStatusLocked:
		return true
	default:
		return false
	}
}

// IsEditable reports whether the report content may still change
func (s ReportStatus) IsEditable() bool {
	return s == ReportStatusDraft || s == ReportStatusRejected
}

func (s ReportStatus) String() string {
	return string(s)
}

// ParseReportStatus parses a string into a ReportStatus
func ParseReportStatus(s string) (ReportStatus, error) {
	status := ReportStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid report status: %s", s)
	}
	return status, nil
}

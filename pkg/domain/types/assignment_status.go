package types

// AssignmentStatus represents the status of a student's request to be assigned to a case
type AssignmentStatus string

const (
	AssignmentStatusPending  AssignmentStatus = "pending"
	AssignmentStatusAccepted AssignmentStatus = "accepted"
	AssignmentStatusRejected AssignmentStatus = "rejected"
)

// IsValid checks if the assignment status is valid
func (s AssignmentStatus) IsValid() bool {
	switch s {
	case AssignmentStatusPending, AssignmentStatusAccepted, AssignmentStatusRejected:
		return true
	default:
		return false
	}
}

func (s AssignmentStatus) String() string {
	return string(s)
}

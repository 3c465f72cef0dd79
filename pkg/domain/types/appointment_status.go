package types

import "fmt"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled   AppointmentStatus = "scheduled"
	AppointmentStatusRescheduled AppointmentStatus = "rescheduled"
	AppointmentStatusCompleted   AppointmentStatus = "completed"
	AppointmentStatusCancelled   AppointmentStatus = "cancelled"
	AppointmentStatusNoShow      AppointmentStatus = "no_show"
)

// AllAppointmentStatuses returns all valid appointment statuses
func AllAppointmentStatuses() []AppointmentStatus {
	return []AppointmentStatus{
		AppointmentStatusScheduled,
		AppointmentStatusRescheduled,
		AppointmentStatusCompleted,
		AppointmentStatusCancelled,
		AppointmentStatusNoShow,
	}
}

// IsValid checks if the appointment status is valid
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusScheduled,
		AppointmentStatusRescheduled,
		AppointmentStatusCompleted,
		AppointmentStatusCancelled,
		AppointmentStatusNoShow:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the appointment can no longer change
func (s AppointmentStatus) IsTerminal() bool {
	switch s {
	case AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	default:
		return false
	}
}

func (s AppointmentStatus) String() string {
	return string(s)
}

// ParseAppointmentStatus parses a string into an AppointmentStatus
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	status := AppointmentStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid appointment status: %s", s)
	}
	return status, nil
}

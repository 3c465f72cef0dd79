package types

// NotificationPriority ranks notifications
type NotificationPriority string

const (
	NotificationPriorityLow      NotificationPriority = "low"
	NotificationPriorityNormal   NotificationPriority = "normal"
	NotificationPriorityHigh     NotificationPriority = "high"
	NotificationPriorityCritical NotificationPriority = "critical"
)

// Rank orders priorities from 0 (low) to 3 (critical). Unknown values rank as normal.
func (p NotificationPriority) Rank() int {
	switch p {
	case NotificationPriorityLow:
		return 0
	case NotificationPriorityHigh:
		return 2
	case NotificationPriorityCritical:
		return 3
	default:
		return 1
	}
}

// AtLeast reports whether p is as urgent as min
func (p NotificationPriority) AtLeast(min NotificationPriority) bool {
	return p.Rank() >= min.Rank()
}

func (p NotificationPriority) String() string {
	return string(p)
}

// NotificationStatus is the action state attached to a notification
type NotificationStatus string

const (
	NotificationStatusPending  NotificationStatus = "pending"
	NotificationStatusAccepted NotificationStatus = "accepted"
	NotificationStatusRejected NotificationStatus = "rejected"
	NotificationStatusInfo     NotificationStatus = "info"
)

func (s NotificationStatus) String() string {
	return string(s)
}

package model

import (
	"time"

	"github.com/preceptor-dev/preceptor/pkg/domain/types"
)

// Notification is an in-app notice for the supervisor
type Notification struct {
	ID             ID                         `json:"id"`
	Title          string                     `json:"title"`
	Message        string                     `json:"message"`
	Priority       types.NotificationPriority `json:"priority"`
	Status         types.NotificationStatus   `json:"status,omitempty"`
	IsRead         bool                       `json:"is_read"`
	TargetType     types.TargetType           `json:"target_type,omitempty"`
	TargetObjectID ID                         `json:"target_object_id,omitempty"`
	CreatedAt      time.Time                  `json:"created_at"`
}

func (n *Notification) GetID() ID { return n.ID }

func (n *Notification) SearchFields() []string {
	return []string{n.Title, n.Message, string(n.Priority)}
}

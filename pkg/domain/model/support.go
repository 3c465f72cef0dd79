package model

import "time"

// SupportTicket is a help request sent to the platform operators
type SupportTicket struct {
	ID        ID        `json:"id"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Category  string    `json:"category,omitempty"`
	Priority  string    `json:"priority,omitempty"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *SupportTicket) GetID() ID { return t.ID }

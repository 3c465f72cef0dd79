package model

import "time"

// Thread is a conversation between the supervisor and other users
type Thread struct {
	ID           ID        `json:"id"`
	Subject      string    `json:"subject"`
	Participants []UserRef `json:"participants,omitempty"`
	IsClosed     bool      `json:"is_closed"`
	UnreadCount  int       `json:"unread_count"`
	LastMessage  *Message  `json:"last_message,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (t *Thread) GetID() ID { return t.ID }

func (t *Thread) SearchFields() []string {
	fields := []string{t.Subject}
	for _, p := range t.Participants {
		fields = append(fields, p.Display())
	}
	if t.LastMessage != nil {
		fields = append(fields, t.LastMessage.Content)
	}
	return fields
}

// Message is a single entry of a thread
type Message struct {
	ID        ID        `json:"id"`
	ThreadID  ID        `json:"thread_id"`
	Sender    UserRef   `json:"sender"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func (m *Message) GetID() ID { return m.ID }

// Before orders messages ascending by creation time, ties broken by ID
func (m *Message) Before(other *Message) bool {
	if !m.CreatedAt.Equal(other.CreatedAt) {
		return m.CreatedAt.Before(other.CreatedAt)
	}
	return m.ID.Less(other.ID)
}

// MessagePage is one cursor page of messages, newest first as sent by the backend
type MessagePage struct {
	Results    []*Message `json:"results"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

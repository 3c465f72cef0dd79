package model

import (
	"time"

	"github.com/preceptor-dev/preceptor/pkg/domain/types"
)

// Session is a clinical session recorded by a student for review
type Session struct {
	ID                 ID                  `json:"id"`
	Case               *CaseRef            `json:"case,omitempty"`
	Student            *UserRef            `json:"student,omitempty"`
	Notes              string              `json:"notes,omitempty"`
	Status             types.SessionStatus `json:"status"`
	SupervisorFeedback string              `json:"supervisor_feedback,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

func (s *Session) GetID() ID { return s.ID }

func (s *Session) SearchFields() []string {
	fields := []string{s.Notes, string(s.Status)}
	if s.Student != nil {
		fields = append(fields, s.Student.Display())
	}
	if s.Case != nil {
		fields = append(fields, s.Case.Display())
	}
	return fields
}

package model

import (
	"encoding/json"
	"time"
)

// Form inputs sent to the platform. Validation tags are checked client-side
// before any network call.

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required" masq:"secret"`
}

type ProfileInput struct {
	FirstName      string `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName       string `json:"last_name,omitempty" validate:"omitempty,max=150"`
	Phone          string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Specialization string `json:"specialization,omitempty" validate:"omitempty,max=255"`
}

type CaseInput struct {
	Title       string `json:"title,omitempty" validate:"required,max=255"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=new pending_assignment assigned in_progress completed closed"`
	PatientID   ID     `json:"patient,omitempty"`
	StudentID   ID     `json:"student,omitempty"`
	IsPublic    *bool  `json:"is_public,omitempty"`
}

type AssignmentResponseInput struct {
	Status             string `json:"status" validate:"required,oneof=accepted rejected"`
	SupervisorResponse string `json:"supervisor_response,omitempty"`
}

type SessionReviewInput struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
	Feedback string `json:"supervisor_feedback,omitempty" validate:"required_if=Decision reject"`
}

type AppointmentInput struct {
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty"`
	DurationMinutes int        `json:"duration_minutes,omitempty" validate:"omitempty,min=5,max=480"`
	Location        string     `json:"location,omitempty"`
	TelehealthLink  string     `json:"telehealth_link,omitempty" validate:"omitempty,url"`
	Status          string     `json:"status,omitempty" validate:"omitempty,oneof=scheduled rescheduled completed cancelled no_show"`
	CaseID          ID         `json:"case,omitempty"`
	PatientID       ID         `json:"patient,omitempty"`
	StudentID       ID         `json:"student,omitempty"`
	Notes           string     `json:"notes,omitempty"`
}

type EvaluationInput struct {
	TargetType string         `json:"target_type,omitempty" validate:"required,oneof=case session appointment"`
	TargetID   ID             `json:"target_id,omitempty" validate:"required"`
	Score      *float64       `json:"score,omitempty" validate:"omitempty,gte=0,lte=100"`
	Rubric     map[string]any `json:"rubric,omitempty"`
	Comment    string         `json:"comment,omitempty"`
}

type AdjustmentInput struct {
	NewScore float64 `json:"new_score" validate:"gte=0,lte=100"`
	Reason   string  `json:"reason" validate:"required"`
}

type PostInput struct {
	ContentType string `json:"content_type" validate:"required,oneof=post comment question answer media"`
	Title       string `json:"title,omitempty" validate:"omitempty,max=255"`
	Body        string `json:"body" validate:"required"`
}

type ReportInput struct {
	ReportType  string          `json:"report_type,omitempty" validate:"required"`
	TargetType  string          `json:"target_type,omitempty"`
	TargetID    ID              `json:"target_id,omitempty"`
	Title       string          `json:"title,omitempty" validate:"required,max=255"`
	Description string          `json:"description,omitempty"`
	Content     json.RawMessage `json:"content,omitempty"`
}

type ThreadInput struct {
	ParticipantIDs []ID   `json:"participants" validate:"required,min=1"`
	Subject        string `json:"subject" validate:"required,max=255"`
	Message        string `json:"message" validate:"required"`
}

type TicketInput struct {
	Subject  string `json:"subject" validate:"required,max=255"`
	Message  string `json:"message" validate:"required"`
	Category string `json:"category,omitempty"`
	Priority string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
}

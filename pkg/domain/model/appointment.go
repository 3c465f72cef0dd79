package model

import (
	"time"

	"github.com/preceptor-dev/preceptor/pkg/domain/types"
)

// Appointment is a scheduled meeting between a student and a patient
type Appointment struct {
	ID              ID                      `json:"id"`
	ScheduledAt     time.Time               `json:"scheduled_at"`
	DurationMinutes int                     `json:"duration_minutes,omitempty"`
	Location        string                  `json:"location,omitempty"`
	TelehealthLink  string                  `json:"telehealth_link,omitempty"`
	Status          types.AppointmentStatus `json:"status"`
	Case            *CaseRef                `json:"case,omitempty"`
	Patient         *UserRef                `json:"patient,omitempty"`
	Student         *UserRef                `json:"student,omitempty"`
	Supervisor      *UserRef                `json:"supervisor,omitempty"`
	Notes           string                  `json:"notes,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

func (a *Appointment) GetID() ID { return a.ID }

func (a *Appointment) SearchFields() []string {
	fields := []string{a.Location, a.Notes, string(a.Status)}
	if a.Patient != nil {
		fields = append(fields, a.Patient.Display())
	}
	if a.Student != nil {
		fields = append(fields, a.Student.Display())
	}
	return fields
}

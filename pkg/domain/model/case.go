package model

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/preceptor-dev/preceptor/pkg/domain/types"
)

// Case represents a clinical case handled by a student under supervision
type Case struct {
	ID          ID                 `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Status      types.CaseStatus   `json:"status"`
	Priority    types.CasePriority `json:"priority,omitempty"`
	Patient     *UserRef           `json:"patient,omitempty"`
	Student     *UserRef           `json:"student,omitempty"`
	Supervisor  *UserRef           `json:"supervisor,omitempty"`
	IsPublic    bool               `json:"is_public"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func (c *Case) GetID() ID { return c.ID }

// SearchFields returns the fields matched by free-text search
func (c *Case) SearchFields() []string {
	fields := []string{c.Title, c.Description, string(c.Status)}
	if c.Patient != nil {
		fields = append(fields, c.Patient.Display())
	}
	if c.Student != nil {
		fields = append(fields, c.Student.Display())
	}
	return fields
}

// CaseHistoryEntry is one audit record of a case
type CaseHistoryEntry struct {
	ID         ID               `json:"id"`
	Action     string           `json:"action"`
	FromStatus types.CaseStatus `json:"from_status,omitempty"`
	ToStatus   types.CaseStatus `json:"to_status,omitempty"`
	Actor      *UserRef         `json:"actor,omitempty"`
	Note       string           `json:"note,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// AssignmentRequest is a student's request to take over a case
type AssignmentRequest struct {
	ID                 ID                     `json:"id"`
	Case               *CaseRef               `json:"case,omitempty"`
	Student            *UserRef               `json:"student,omitempty"`
	Message            string                 `json:"message,omitempty"`
	Status             types.AssignmentStatus `json:"status"`
	SupervisorResponse string                 `json:"supervisor_response,omitempty"`
	CreatedAt          time.Time              `json:"created_at"`
}

func (r *AssignmentRequest) GetID() ID { return r.ID }

func (r *AssignmentRequest) SearchFields() []string {
	fields := []string{r.Message, string(r.Status)}
	if r.Student != nil {
		fields = append(fields, r.Student.Display())
	}
	if r.Case != nil {
		fields = append(fields, r.Case.Display())
	}
	return fields
}

// CaseRef is a reference to a case embedded in another record, either a bare
// primary key or a nested object
type CaseRef struct {
	ID    ID     `json:"id"`
	Title string `json:"title,omitempty"`
}

func (r *CaseRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return r.ID.UnmarshalJSON(data)
	}

	type plain CaseRef
	var obj plain
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*r = CaseRef(obj)
	return nil
}

// Display returns a human readable label for the reference
func (r CaseRef) Display() string {
	if r.Title != "" {
		return r.Title
	}
	return r.ID.String()
}

func (e *CaseHistoryEntry) GetID() ID { return e.ID }

package model

import (
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/types"
)

// Report is a structured document about a case, session or student
type Report struct {
	ID            ID                 `json:"id"`
	ReportType    string             `json:"report_type"`
	TargetType    types.TargetType   `json:"target_type,omitempty"`
	TargetID      ID                 `json:"target_id,omitempty"`
	Title         string             `json:"title"`
	Description   string             `json:"description,omitempty"`
	Content       json.RawMessage    `json:"content,omitempty"`
	Status        types.ReportStatus `json:"status"`
	ReviewComment string             `json:"review_comment,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

func (r *Report) GetID() ID { return r.ID }

func (r *Report) SearchFields() []string {
	return []string{r.Title, r.Description, r.ReportType, string(r.Status)}
}

// ReportExport is the exported form of a report
type ReportExport struct {
	ExportedAt time.Time       `json:"exported_at"`
	ID         ID              `json:"id"`
	ReportType string          `json:"report_type"`
	TargetType string          `json:"target_type,omitempty"`
	TargetID   ID              `json:"target_id,omitempty"`
	Title      string          `json:"title"`
	Status     string          `json:"status"`
	Content    json.RawMessage `json:"content"`
}

// Export renders the report as an indented JSON document
func (r *Report) Export(now time.Time) ([]byte, error) {
	content := r.Content
	if len(content) == 0 {
		content = json.RawMessage("null")
	}

	doc := ReportExport{
		ExportedAt: now.UTC(),
		ID:         r.ID,
		ReportType: r.ReportType,
		TargetType: string(r.TargetType),
		TargetID:   r.TargetID,
		Title:      r.Title,
		Status:     string(r.Status),
		Content:    content,
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode report", goerr.V("report_id", r.ID))
	}
	return raw, nil
}

// ExportName returns the default object name of an exported report
func (r *Report) ExportName() string {
	return "report-" + r.ID.String() + ".json"
}

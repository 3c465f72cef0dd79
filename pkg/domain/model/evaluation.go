package model

import (
	"time"

	"github.com/preceptor-dev/preceptor/pkg/domain/types"
)

// Evaluation is a supervisor's scored assessment of a case, session or appointment
type Evaluation struct {
	ID            ID                     `json:"id"`
	TargetType    types.TargetType       `json:"target_type"`
	TargetID      ID                     `json:"target_id"`
	Score         *float64               `json:"score,omitempty"`
	OriginalScore *float64               `json:"original_score,omitempty"`
	FinalScore    *float64               `json:"final_score,omitempty"`
	Rubric        map[string]any         `json:"rubric,omitempty"`
	Comment       string                 `json:"comment,omitempty"`
	Adjustments   []Adjustment           `json:"adjustments,omitempty"`
	Status        types.EvaluationStatus `json:"status"`
	Student       *UserRef               `json:"student,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// Adjustment is one entry of an evaluation's score adjustment log
type Adjustment struct {
	OldScore   float64   `json:"old_score"`
	NewScore   float64   `json:"new_score"`
	Reason     string    `json:"reason"`
	AdjustedAt time.Time `json:"adjusted_at"`
}

func (e *Evaluation) GetID() ID { return e.ID }

func (e *Evaluation) SearchFields() []string {
	fields := []string{e.Comment, string(e.Status), string(e.TargetType)}
	if e.Student != nil {
		fields = append(fields, e.Student.Display())
	}
	return fields
}

// CurrentScore returns the most authoritative score available
func (e *Evaluation) CurrentScore() (float64, bool) {
	for _, s := range []*float64{e.FinalScore, e.Score, e.OriginalScore} {
		if s != nil {
			return *s, true
		}
	}
	return 0, false
}

// StudentRating aggregates a student's evaluation scores
type StudentRating struct {
	StudentID       ID      `json:"student_id"`
	AverageScore    float64 `json:"average_score"`
	EvaluationCount int     `json:"evaluation_count"`
}

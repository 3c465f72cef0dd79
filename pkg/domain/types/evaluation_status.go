package types

import "fmt"

// EvaluationStatus represents the lifecycle of an evaluation:
// draft -> submitted -> (adjusted)* -> finalized/final
type EvaluationStatus string

const (
	EvaluationStatusDraft     EvaluationStatus = "draft"
	EvaluationStatusSubmitted EvaluationStatus = "submitted"
	EvaluationStatusAdjusted  EvaluationStatus = "adjusted"
	EvaluationStatusFinalized EvaluationStatus = "finalized"
	EvaluationStatusFinal     EvaluationStatus = "final"
)

// IsValid checks if the evaluation status is valid
func (s EvaluationStatus) IsValid() bool {
	switch s {
	case EvaluationStatusDraft,
		EvaluationStatusSubmitted,
		EvaluationStatusAdjusted,
		EvaluationStatusFinalized,
		EvaluationStatusFinal:
		return true
	default:
		return false
	}
}

// IsFinal reports whether the evaluation reached its terminal status.
// The backend uses both "final" and "finalized" for it.
func (s EvaluationStatus) IsFinal() bool {
	return s == EvaluationStatusFinal || s == EvaluationStatusFinalized
}

// IsAdjustable reports whether a score adjustment may be appended
func (s EvaluationStatus) IsAdjustable() bool {
	return s == EvaluationStatusSubmitted || s == EvaluationStatusAdjusted
}

func (s EvaluationStatus) String() string {
	return string(s)
}

// ParseEvaluationStatus parses a string into an EvaluationStatus
func ParseEvaluationStatus(s string) (EvaluationStatus, error) {
	status := EvaluationStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid evaluation status: %s", s)
	}
	return status, nil
}

package types

import "fmt"

// TargetType names the kind of entity an evaluation, report or notification points at
type TargetType string

const (
	TargetTypeCase        TargetType = "case"
	TargetTypeSession     TargetType = "session"
	TargetTypeAppointment TargetType = "appointment"
	TargetTypeStudent     TargetType = "student"
	TargetTypeReport      TargetType = "report"
	TargetTypeEvaluation  TargetType = "evaluation"
	TargetTypePost        TargetType = "post"
	TargetTypeThread      TargetType = "thread"
)

// IsEvaluationTarget reports whether an evaluation may target this type
func (t TargetType) IsEvaluationTarget() bool {
	switch t {
	case TargetTypeCase, TargetTypeSession, TargetTypeAppointment:
		return true
	default:
		return false
	}
}

func (t TargetType) String() string {
	return string(t)
}

// ParseEvaluationTarget parses a string into a TargetType accepted by evaluations
func ParseEvaluationTarget(s string) (TargetType, error) {
	t := TargetType(s)
	if !t.IsEvaluationTarget() {
		return "", fmt.Errorf("invalid evaluation target type: %s", s)
	}
	return t, nil
}

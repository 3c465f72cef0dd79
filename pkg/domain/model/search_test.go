package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/preceptor-dev/preceptor/pkg/domain/types"
)

func TestMatchesQuery(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		fields []string
		want   bool
	}{
		{name: "empty query matches", query: "", fields: []string{"anything"}, want: true},
		{name: "blank query matches", query: "   ", fields: nil, want: true},
		{name: "case insensitive", query: "KNEE", fields: []string{"Knee pain"}, want: true},
		{name: "substring", query: "pain", fields: []string{"title", "Chronic pain follow-up"}, want: true},
		{name: "no match", query: "shoulder", fields: []string{"Knee pain"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, model.MatchesQuery(tt.query, tt.fields...)).Equal(tt.want)
		})
	}
}

func TestFilter(t *testing.T) {
	now := time.Now()
	cases := []*model.Case{
		{ID: "1", Title: "Knee pain", Status: types.CaseStatusNew, CreatedAt: now},
		{ID: "2", Title: "Shoulder rehab", Status: types.CaseStatusInProgress, Student: &model.UserRef{ID: "9", Name: "Ada"}},
		{ID: "3", Title: "Knee surgery recovery", Status: types.CaseStatusClosed},
	}

	t.Run("query only", func(t *testing.T) {
		got := model.Filter(cases, "knee", nil)
		gt.Array(t, got).Length(2)
		gt.Value(t, got[0].ID).Equal(model.ID("1"))
		gt.Value(t, got[1].ID).Equal(model.ID("3"))
	})

	t.Run("query and predicate", func(t *testing.T) {
		got := model.Filter(cases, "knee", func(c *model.Case) bool {
			return !c.Status.IsTerminal()
		})
		gt.Array(t, got).Length(1)
		gt.Value(t, got[0].ID).Equal(model.ID("1"))
	})

	t.Run("matches referenced user", func(t *testing.T) {
		got := model.Filter(cases, "ada", nil)
		gt.Array(t, got).Length(1)
		gt.Value(t, got[0].ID).Equal(model.ID("2"))
	})
}

func TestMessage_Before(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	a := &model.Message{ID: "2", CreatedAt: base}
	b := &model.Message{ID: "10", CreatedAt: base}
	c := &model.Message{ID: "1", CreatedAt: base.Add(time.Second)}

	gt.Bool(t, a.Before(b)).True()
	gt.Bool(t, b.Before(a)).False()
	gt.Bool(t, b.Before(c)).True()
}

func TestEvaluation_CurrentScore(t *testing.T) {
	score := 70.0
	final := 82.5

	e := &model.Evaluation{Score: &score}
	got, ok := e.CurrentScore()
	gt.Bool(t, ok).True()
	gt.Number(t, got).Equal(70.0)

	e.FinalScore = &final
	got, _ = e.CurrentScore()
	gt.Number(t, got).Equal(82.5)

	_, ok = (&model.Evaluation{}).CurrentScore()
	gt.Bool(t, ok).False()
}

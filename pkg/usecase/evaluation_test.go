package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/domain/mock"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/preceptor-dev/preceptor/pkg/domain/types"
	"github.com/preceptor-dev/preceptor/pkg/repository/memory"
	"github.com/preceptor-dev/preceptor/pkg/usecase"
)

func score(v float64) *float64 { return &v }

func TestFinalizedEvaluationUpdateIsRefused(t *testing.T) {
	for _, status := range []types.EvaluationStatus{types.EvaluationStatusFinal, types.EvaluationStatusFinalized} {
		t.Run(string(status), func(t *testing.T) {
			ctx := context.Background()
			client := &mock.PlatformMock{
				GetEvaluationFunc: func(ctx context.Context, id model.ID) (*model.Evaluation, error) {
					return &model.Evaluation{ID: id, Status: status, TargetType: types.TargetTypeCase, TargetID: "3"}, nil
				},
			}
			uc := usecase.New(client, memory.New())

			_, err := uc.Evaluation.FetchEvaluation(ctx, "9")
			gt.NoError(t, err).Required()

			_, err = uc.Evaluation.UpdateEvaluation(ctx, "9", &model.EvaluationInput{Score: score(88)})
			gt.Error(t, err).Is(usecase.ErrEvaluationFinalized)
			gt.Number(t, client.Calls("UpdateEvaluation")).Equal(0)

			_, err = uc.Evaluation.AdjustEvaluation(ctx, "9", 90, "late rubric fix")
			gt.Error(t, err).Is(usecase.ErrEvaluationFinalized)
			gt.Number(t, client.Calls("AdjustEvaluation")).Equal(0)
		})
	}
}

func TestUpdateDraftEvaluation(t *testing.T) {
	ctx := context.Background()
	client := &mock.PlatformMock{
		ListEvaluationsFunc: func(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Evaluation, error) {
			return []*model.Evaluation{{ID: "1", Status: types.EvaluationStatusDraft, TargetType: types.TargetTypeSession, TargetID: "5"}}, nil
		},
		UpdateEvaluationFunc: func(ctx context.Context, id model.ID, input *model.EvaluationInput) (*model.Evaluation, error) {
			return &model.Evaluation{ID: id, Status: types.EvaluationStatusDraft, Score: input.Score,
				TargetType: types.TargetType(input.TargetType), TargetID: input.TargetID}, nil
		},
	}
	uc := usecase.New(client, memory.New())

	_, err := uc.Evaluation.FetchEvaluations(ctx)
	gt.NoError(t, err).Required()

	ev, err := uc.Evaluation.UpdateEvaluation(ctx, "1", &model.EvaluationInput{Score: score(75)})
	gt.NoError(t, err).Required()
	gt.Value(t, ev.TargetID).Equal(model.ID("5"))

	current, ok := ev.CurrentScore()
	gt.Bool(t, ok).True()
	gt.Value(t, current).Equal(75.0)
}

func TestAdjustEvaluationAppendsToLog(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	existing := &model.Evaluation{
		ID:     "4",
		Status: types.EvaluationStatusAdjusted,
		Score:  score(70),
		Adjustments: []model.Adjustment{
			{OldScore: 60, NewScore: 70, Reason: "first pass"},
		},
	}
	client := &mock.PlatformMock{
		GetEvaluationFunc: func(ctx context.Context, id model.ID) (*model.Evaluation, error) {
			copied := *existing
			return &copied, nil
		},
		AdjustEvaluationFunc: func(ctx context.Context, id model.ID, input *model.AdjustmentInput) (*model.Evaluation, error) {
			// backend omits the adjustment log in its reply
			return &model.Evaluation{ID: id, Status: types.EvaluationStatusAdjusted, Score: &input.NewScore}, nil
		},
	}
	uc := usecase.New(client, memory.New(), usecase.WithClock(clock.Now))

	ev, err := uc.Evaluation.AdjustEvaluation(ctx, "4", 82, "reviewed video")
	gt.NoError(t, err).Required()
	gt.Array(t, ev.Adjustments).Length(2).Required()
	gt.S(t, ev.Adjustments[0].Reason).Equal("first pass")
	gt.Value(t, ev.Adjustments[1].OldScore).Equal(70.0)
	gt.Value(t, ev.Adjustments[1].NewScore).Equal(82.0)
	gt.Value(t, ev.Adjustments[1].AdjustedAt).Equal(clock.Now())

	t.Run("reason is required", func(t *testing.T) {
		before := client.Calls("AdjustEvaluation")
		_, err := uc.Evaluation.AdjustEvaluation(ctx, "4", 85, "   ")
		gt.Error(t, err).Is(usecase.ErrAdjustmentReasonRequired)
		gt.Number(t, client.Calls("AdjustEvaluation")).Equal(before)
	})
}

func TestAdjustDraftEvaluationIsRefused(t *testing.T) {
	ctx := context.Background()
	client := &mock.PlatformMock{
		GetEvaluationFunc: func(ctx context.Context, id model.ID) (*model.Evaluation, error) {
			return &model.Evaluation{ID: id, Status: types.EvaluationStatusDraft}, nil
		},
	}
	uc := usecase.New(client, memory.New())

	_, err := uc.Evaluation.AdjustEvaluation(ctx, "1", 50, "typo")
	gt.Error(t, err).Is(usecase.ErrEvaluationNotSubmitted)

	_, err = uc.Evaluation.FinalizeEvaluation(ctx, "1")
	gt.Error(t, err).Is(usecase.ErrEvaluationNotSubmitted)
	gt.Number(t, client.Calls("FinalizeEvaluation")).Equal(0)
}

func TestSubmitOnlyDraft(t *testing.T) {
	ctx := context.Background()
	client := &mock.PlatformMock{
		GetEvaluationFunc: func(ctx context.Context, id model.ID) (*model.Evaluation, error) {
			return &model.Evaluation{ID: id, Status: types.EvaluationStatusSubmitted}, nil
		},
	}
	uc := usecase.New(client, memory.New())

	_, err := uc.Evaluation.SubmitEvaluation(ctx, "1")
	gt.Error(t, err).Is(usecase.ErrEvaluationNotDraft)
	gt.Number(t, client.Calls("SubmitEvaluation")).Equal(0)
}

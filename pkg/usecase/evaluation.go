package usecase

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/preceptor-dev/preceptor/pkg/domain/types"
)

// EvaluationUseCase drives the lifecycle draft, submitted, adjusted (any
// number of times), then finalized. Finalized evaluations are read-only.
type EvaluationUseCase struct {
	client      interfaces.EvaluationClient
	now         func() time.Time
	evaluations Store[*model.Evaluation]
}

func NewEvaluationUseCase(client interfaces.EvaluationClient, now func() time.Time) *EvaluationUseCase {
	if now == nil {
		now = time.Now
	}
	return &EvaluationUseCase{client: client, now: now}
}

func (uc *EvaluationUseCase) State() State[*model.Evaluation] { return uc.evaluations.State() }

func (uc *EvaluationUseCase) FetchEvaluations(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Evaluation, error) {
	return fetchInto(ctx, &uc.evaluations, "failed to list evaluations", func(ctx context.Context) ([]*model.Evaluation, error) {
		return uc.client.ListEvaluations(ctx, opts...)
	})
}

func (uc *EvaluationUseCase) FetchEvaluation(ctx context.Context, id model.ID) (*model.Evaluation, error) {
	return loadCurrent(ctx, &uc.evaluations, "failed to get evaluation", []goerr.Option{goerr.V(EvaluationIDKey, id)},
		func(ctx context.Context) (*model.Evaluation, error) {
			return uc.client.GetEvaluation(ctx, id)
		})
}

func (uc *EvaluationUseCase) CreateEvaluation(ctx context.Context, input *model.EvaluationInput) (*model.Evaluation, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	return createInto(ctx, &uc.evaluations, "failed to create evaluation", func(ctx context.Context) (*model.Evaluation, error) {
		return uc.client.CreateEvaluation(ctx, input)
	})
}

// UpdateEvaluation never reaches the API for a finalized evaluation
func (uc *EvaluationUseCase) UpdateEvaluation(ctx context.Context, id model.ID, input *model.EvaluationInput) (*model.Evaluation, error) {
	current, err := uc.current(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status.IsFinal() {
		return nil, goerr.Wrap(ErrEvaluationFinalized, "evaluation cannot be updated",
			goerr.V(EvaluationIDKey, id), goerr.V(StatusKey, current.Status))
	}

	if input.TargetType == "" {
		input.TargetType = string(current.TargetType)
	}
	if input.TargetID == "" {
		input.TargetID = current.TargetID
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	return updateInto(ctx, &uc.evaluations, "failed to update evaluation", []goerr.Option{goerr.V(EvaluationIDKey, id)},
		func(ctx context.Context) (*model.Evaluation, error) {
			return uc.client.UpdateEvaluation(ctx, id, input)
		})
}

func (uc *EvaluationUseCase) SubmitEvaluation(ctx context.Context, id model.ID) (*model.Evaluation, error) {
	current, err := uc.current(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != types.EvaluationStatusDraft {
		return nil, goerr.Wrap(ErrEvaluationNotDraft, "evaluation cannot be submitted",
			goerr.V(EvaluationIDKey, id), goerr.V(StatusKey, current.Status))
	}

	return updateInto(ctx, &uc.evaluations, "failed to submit evaluation", []goerr.Option{goerr.V(EvaluationIDKey, id)},
		func(ctx context.Context) (*model.Evaluation, error) {
			return uc.client.SubmitEvaluation(ctx, id)
		})
}

// AdjustEvaluation changes the score of a submitted evaluation. The previous
// adjustment log is kept and the new entry appended when the backend does not
// echo it back.
func (uc *EvaluationUseCase) AdjustEvaluation(ctx context.Context, id model.ID, newScore float64, reason string) (*model.Evaluation, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, goerr.Wrap(ErrAdjustmentReasonRequired, "cannot adjust evaluation", goerr.V(EvaluationIDKey, id))
	}
	input := &model.AdjustmentInput{NewScore: newScore, Reason: reason}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	current, err := uc.current(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status.IsFinal() {
		return nil, goerr.Wrap(ErrEvaluationFinalized, "evaluation cannot be adjusted",
			goerr.V(EvaluationIDKey, id), goerr.V(StatusKey, current.Status))
	}
	if !current.Status.IsAdjustable() {
		return nil, goerr.Wrap(ErrEvaluationNotSubmitted, "evaluation cannot be adjusted",
			goerr.V(EvaluationIDKey, id), goerr.V(StatusKey, current.Status))
	}

	oldScore, _ := current.CurrentScore()
	history := slices.Clone(current.Adjustments)

	return updateInto(ctx, &uc.evaluations, "failed to adjust evaluation", []goerr.Option{goerr.V(EvaluationIDKey, id)},
		func(ctx context.Context) (*model.Evaluation, error) {
			updated, err := uc.client.AdjustEvaluation(ctx, id, input)
			if err != nil {
				return nil, err
			}
			if len(updated.Adjustments) <= len(history) {
				updated.Adjustments = append(history, model.Adjustment{
					OldScore:   oldScore,
					NewScore:   newScore,
					Reason:     reason,
					AdjustedAt: uc.now(),
				})
			}
			return updated, nil
		})
}

func (uc *EvaluationUseCase) FinalizeEvaluation(ctx context.Context, id model.ID) (*model.Evaluation, error) {
	current, err := uc.current(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status.IsFinal() {
		return nil, goerr.Wrap(ErrEvaluationFinalized, "evaluation is already finalized",
			goerr.V(EvaluationIDKey, id), goerr.V(StatusKey, current.Status))
	}
	if !current.Status.IsAdjustable() {
		return nil, goerr.Wrap(ErrEvaluationNotSubmitted, "evaluation cannot be finalized",
			goerr.V(EvaluationIDKey, id), goerr.V(StatusKey, current.Status))
	}

	return updateInto(ctx, &uc.evaluations, "failed to finalize evaluation", []goerr.Option{goerr.V(EvaluationIDKey, id)},
		func(ctx context.Context) (*model.Evaluation, error) {
			return uc.client.FinalizeEvaluation(ctx, id)
		})
}

func (uc *EvaluationUseCase) FetchStudentRating(ctx context.Context, studentID model.ID) (*model.StudentRating, error) {
	rating, err := uc.client.GetStudentRating(ctx, studentID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get student rating", goerr.V("student_id", studentID))
	}
	return rating, nil
}

func (uc *EvaluationUseCase) current(ctx context.Context, id model.ID) (*model.Evaluation, error) {
	ev, err := lookup(ctx, &uc.evaluations, id, uc.client.GetEvaluation)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get evaluation", goerr.V(EvaluationIDKey, id))
	}
	return ev, nil
}

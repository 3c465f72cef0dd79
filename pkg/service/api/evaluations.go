package api

import (
	"context"
	"net/http"

	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
)

func (c *Client) ListEvaluations(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Evaluation, error) {
	return list[*model.Evaluation](ctx, c, "/evaluations/", interfaces.BuildListQuery(opts...))
}

func (c *Client) GetEvaluation(ctx context.Context, id model.ID) (*model.Evaluation, error) {
	return doJSON[model.Evaluation](ctx, c, http.MethodGet, evaluationPath(id, ""), nil)
}

func (c *Client) CreateEvaluation(ctx context.Context, input *model.EvaluationInput) (*model.Evaluation, error) {
	return doJSON[model.Evaluation](ctx, c, http.MethodPost, "/evaluations/", input)
}

func (c *Client) UpdateEvaluation(ctx context.Context, id model.ID, input *model.EvaluationInput) (*model.Evaluation, error) {
	return doJSON[model.Evaluation](ctx, c, http.MethodPatch, evaluationPath(id, ""), input)
}

func (c *Client) SubmitEvaluation(ctx context.Context, id model.ID) (*model.Evaluation, error) {
	return doJSON[model.Evaluation](ctx, c, http.MethodPost, evaluationPath(id, "submit"), nil)
}

func (c *Client) AdjustEvaluation(ctx context.Context, id model.ID, input *model.AdjustmentInput) (*model.Evaluation, error) {
	return doJSON[model.Evaluation](ctx, c, http.MethodPost, evaluationPath(id, "adjust"), input)
}

func (c *Client) FinalizeEvaluation(ctx context.Context, id model.ID) (*model.Evaluation, error) {
	return doJSON[model.Evaluation](ctx, c, http.MethodPost, evaluationPath(id, "finalize"), nil)
}

func (c *Client) GetStudentRating(ctx context.Context, studentID model.ID) (*model.StudentRating, error) {
	return doJSON[model.StudentRating](ctx, c, http.MethodGet, "/evaluations/students/"+escape(studentID)+"/rating/", nil)
}

func evaluationPath(id model.ID, action string) string {
	p := "/evaluations/" + escape(id) + "/"
	if action != "" {
		p += action + "/"
	}
	return p
}

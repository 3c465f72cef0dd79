package api

import (
	"context"
	"net/http"

	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
)

func (c *Client) ListCases(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Case, error) {
	return list[*model.Case](ctx, c, "/cases/", interfaces.BuildListQuery(opts...))
}

func (c *Client) GetCase(ctx context.Context, id model.ID) (*model.Case, error) {
	return doJSON[model.Case](ctx, c, http.MethodGet, "/cases/"+escape(id)+"/", nil)
}

func (c *Client) CreateCase(ctx context.Context, input *model.CaseInput) (*model.Case, error) {
	return doJSON[model.Case](ctx, c, http.MethodPost, "/cases/", input)
}

func (c *Client) UpdateCase(ctx context.Context, id model.ID, input *model.CaseInput) (*model.Case, error) {
	return doJSON[model.Case](ctx, c, http.MethodPatch, "/cases/"+escape(id)+"/", input)
}

func (c *Client) ListCaseHistory(ctx context.Context, id model.ID) ([]*model.CaseHistoryEntry, error) {
	return list[*model.CaseHistoryEntry](ctx, c, "/cases/"+escape(id)+"/history/", nil)
}

func (c *Client) ListAssignmentRequests(ctx context.Context, opts ...interfaces.ListOption) ([]*model.AssignmentRequest, error) {
	return list[*model.AssignmentRequest](ctx, c, "/cases/assignment-requests/", interfaces.BuildListQuery(opts...))
}

func (c *Client) RespondAssignmentRequest(ctx context.Context, id model.ID, input *model.AssignmentResponseInput) (*model.AssignmentRequest, error) {
	return doJSON[model.AssignmentRequest](ctx, c, http.MethodPatch, "/cases/assignment-requests/"+escape(id)+"/", input)
}

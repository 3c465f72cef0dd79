package api

import (
	"context"
	"net/http"

	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
)

func (c *Client) ListSessionsNeedingReview(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Session, error) {
	return list[*model.Session](ctx, c, "/cases/sessions/needing-review/", interfaces.BuildListQuery(opts...))
}

func (c *Client) ListCaseSessions(ctx context.Context, caseID model.ID) ([]*model.Session, error) {
	return list[*model.Session](ctx, c, "/cases/"+escape(caseID)+"/sessions/", nil)
}

func (c *Client) GetSessionReview(ctx context.Context, id model.ID) (*model.Session, error) {
	return doJSON[model.Session](ctx, c, http.MethodGet, "/cases/sessions/"+escape(id)+"/review/", nil)
}

func (c *Client) ReviewSession(ctx context.Context, id model.ID, input *model.SessionReviewInput) (*model.Session, error) {
	return doJSON[model.Session](ctx, c, http.MethodPost, "/cases/sessions/"+escape(id)+"/review/", input)
}

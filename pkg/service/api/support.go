package api

import (
	"context"
	"net/http"

	"github.com/preceptor-dev/preceptor/pkg/domain/model"
)

func (c *Client) CreateSupportTicket(ctx context.Context, input *model.TicketInput) (*model.SupportTicket, error) {
	return doJSON[model.SupportTicket](ctx, c, http.MethodPost, "/support/tickets/", input)
}

package api

import (
	"context"
	"net/http"

	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
)

func (c *Client) ListNotifications(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Notification, error) {
	return list[*model.Notification](ctx, c, "/notifications/", interfaces.BuildListQuery(opts...))
}

func (c *Client) MarkNotificationRead(ctx context.Context, id model.ID) error {
	return c.call(ctx, request{method: http.MethodPatch, path: "/notifications/" + escape(id) + "/read/"}, nil)
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.call(ctx, request{method: http.MethodPatch, path: "/notifications/mark-all-read/"}, nil)
}

package api

import (
	"context"
	"net/http"

	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
)

func (c *Client) ListReports(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Report, error) {
	return list[*model.Report](ctx, c, "/reports/", interfaces.BuildListQuery(opts...))
}

func (c *Client) GetReport(ctx context.Context, id model.ID) (*model.Report, error) {
	return doJSON[model.Report](ctx, c, http.MethodGet, reportPath(id, ""), nil)
}

func (c *Client) CreateReport(ctx context.Context, input *model.ReportInput) (*model.Report, error) {
	return doJSON[model.Report](ctx, c, http.MethodPost, "/reports/", input)
}

func (c *Client) UpdateReport(ctx context.Context, id model.ID, input *model.ReportInput) (*model.Report, error) {
	return doJSON[model.Report](ctx, c, http.MethodPatch, reportPath(id, ""), input)
}

func (c *Client) SubmitReport(ctx context.Context, id model.ID) (*model.Report, error) {
	return doJSON[model.Report](ctx, c, http.MethodPost, reportPath(id, "submit"), nil)
}

func (c *Client) ApproveReport(ctx context.Context, id model.ID, comment string) (*model.Report, error) {
	return doJSON[model.Report](ctx, c, http.MethodPost, reportPath(id, "approve"), map[string]string{"review_comment": comment})
}

func (c *Client) RejectReport(ctx context.Context, id model.ID, reason string) (*model.Report, error) {
	return doJSON[model.Report](ctx, c, http.MethodPost, reportPath(id, "reject"), map[string]string{"review_comment": reason})
}

func reportPath(id model.ID, action string) string {
	p := "/reports/" + escape(id) + "/"
	if action != "" {
		p += action + "/"
	}
	return p
}

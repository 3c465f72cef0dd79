package api

import (
	"context"
	"net/http"

	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
)

func (c *Client) ListAppointments(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Appointment, error) {
	return list[*model.Appointment](ctx, c, "/appointments/", interfaces.BuildListQuery(opts...))
}

func (c *Client) GetAppointment(ctx context.Context, id model.ID) (*model.Appointment, error) {
	return doJSON[model.Appointment](ctx, c, http.MethodGet, "/appointments/"+escape(id)+"/", nil)
}

func (c *Client) CreateAppointment(ctx context.Context, input *model.AppointmentInput) (*model.Appointment, error) {
	return doJSON[model.Appointment](ctx, c, http.MethodPost, "/appointments/", input)
}

func (c *Client) UpdateAppointment(ctx context.Context, id model.ID, input *model.AppointmentInput) (*model.Appointment, error) {
	return doJSON[model.Appointment](ctx, c, http.MethodPatch, "/appointments/"+escape(id)+"/", input)
}

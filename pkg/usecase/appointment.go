package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/preceptor-dev/preceptor/pkg/domain/types"
)

type AppointmentUseCase struct {
	client       interfaces.AppointmentClient
	appointments Store[*model.Appointment]
}

func NewAppointmentUseCase(client interfaces.AppointmentClient) *AppointmentUseCase {
	return &AppointmentUseCase{client: client}
}

func (uc *AppointmentUseCase) State() State[*model.Appointment] { return uc.appointments.State() }

func (uc *AppointmentUseCase) FetchAppointments(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Appointment, error) {
	return fetchInto(ctx, &uc.appointments, "failed to list appointments", func(ctx context.Context) ([]*model.Appointment, error) {
		return uc.client.ListAppointments(ctx, opts...)
	})
}

func (uc *AppointmentUseCase) FetchAppointment(ctx context.Context, id model.ID) (*model.Appointment, error) {
	return loadCurrent(ctx, &uc.appointments, "failed to get appointment", []goerr.Option{goerr.V(AppointmentIDKey, id)},
		func(ctx context.Context) (*model.Appointment, error) {
			return uc.client.GetAppointment(ctx, id)
		})
}

func (uc *AppointmentUseCase) CreateAppointment(ctx context.Context, input *model.AppointmentInput) (*model.Appointment, error) {
	if input.ScheduledAt == nil {
		return nil, goerr.Wrap(ErrInvalidInput, "scheduled_at is required")
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	return createInto(ctx, &uc.appointments, "failed to create appointment", func(ctx context.Context) (*model.Appointment, error) {
		return uc.client.CreateAppointment(ctx, input)
	})
}

// UpdateAppointment is refused once the appointment is completed, cancelled or no-show
func (uc *AppointmentUseCase) UpdateAppointment(ctx context.Context, id model.ID, input *model.AppointmentInput) (*model.Appointment, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	current, err := lookup(ctx, &uc.appointments, id, uc.client.GetAppointment)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get appointment", goerr.V(AppointmentIDKey, id))
	}
	if current.Status.IsTerminal() {
		return nil, goerr.Wrap(ErrAppointmentClosed, "appointment cannot be changed",
			goerr.V(AppointmentIDKey, id), goerr.V(StatusKey, current.Status))
	}

	return updateInto(ctx, &uc.appointments, "failed to update appointment", []goerr.Option{goerr.V(AppointmentIDKey, id)},
		func(ctx context.Context) (*model.Appointment, error) {
			return uc.client.UpdateAppointment(ctx, id, input)
		})
}

func (uc *AppointmentUseCase) SetAppointmentStatus(ctx context.Context, id model.ID, status types.AppointmentStatus) (*model.Appointment, error) {
	if !status.IsValid() {
		return nil, goerr.Wrap(ErrInvalidInput, "unknown appointment status", goerr.V(StatusKey, status))
	}
	return uc.UpdateAppointment(ctx, id, &model.AppointmentInput{Status: string(status)})
}

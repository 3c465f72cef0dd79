package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/preceptor-dev/preceptor/pkg/domain/mock"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/preceptor-dev/preceptor/pkg/domain/types"
	"github.com/preceptor-dev/preceptor/pkg/repository/memory"
	"github.com/preceptor-dev/preceptor/pkg/usecase"
)

func TestReviewSession(t *testing.T) {
	ctx := context.Background()
	status := types.SessionStatusNeedsReview
	client := &mock.PlatformMock{
		GetSessionReviewFunc: func(ctx context.Context, id model.ID) (*model.Session, error) {
			return &model.Session{ID: id, Status: status}, nil
		},
		ReviewSessionFunc: func(ctx context.Context, id model.ID, input *model.SessionReviewInput) (*model.Session, error) {
			return &model.Session{ID: id, Status: types.SessionStatusRejected, SupervisorFeedback: input.Feedback}, nil
		},
	}
	uc := usecase.New(client, memory.New())

	t.Run("rejection needs feedback", func(t *testing.T) {
		_, err := uc.Session.ReviewSession(ctx, "1", types.ReviewDecisionReject, "  ")
		gt.Error(t, err).Is(usecase.ErrFeedbackRequired)
		gt.Number(t, client.TotalCalls()).Equal(0)
	})

	t.Run("reviewable session is rejected", func(t *testing.T) {
		s, err := uc.Session.ReviewSession(ctx, "1", types.ReviewDecisionReject, "document vitals")
		gt.NoError(t, err).Required()
		gt.S(t, s.SupervisorFeedback).Equal("document vitals")
	})

	t.Run("approved session is not reviewable", func(t *testing.T) {
		status = types.SessionStatusApproved
		before := client.Calls("ReviewSession")

		_, err := uc.Session.ReviewSession(ctx, "2", types.ReviewDecisionApprove, "")
		gt.Error(t, err).Is(usecase.ErrSessionNotReviewable)
		gt.Number(t, client.Calls("ReviewSession")).Equal(before)
	})
}

func TestAppointmentStatusGate(t *testing.T) {
	ctx := context.Background()
	client := &mock.PlatformMock{
		GetAppointmentFunc: func(ctx context.Context, id model.ID) (*model.Appointment, error) {
			if id == "done" {
				return &model.Appointment{ID: id, Status: types.AppointmentStatusNoShow}, nil
			}
			return &model.Appointment{ID: id, Status: types.AppointmentStatusScheduled}, nil
		},
		UpdateAppointmentFunc: func(ctx context.Context, id model.ID, input *model.AppointmentInput) (*model.Appointment, error) {
			return &model.Appointment{ID: id, Status: types.AppointmentStatus(input.Status)}, nil
		},
	}
	uc := usecase.New(client, memory.New())

	a, err := uc.Appointment.SetAppointmentStatus(ctx, "open", types.AppointmentStatusCompleted)
	gt.NoError(t, err).Required()
	gt.Value(t, a.Status).Equal(types.AppointmentStatusCompleted)

	_, err = uc.Appointment.SetAppointmentStatus(ctx, "done", types.AppointmentStatusRescheduled)
	gt.Error(t, err).Is(usecase.ErrAppointmentClosed)
	gt.Number(t, client.Calls("UpdateAppointment")).Equal(1)

	_, err = uc.Appointment.SetAppointmentStatus(ctx, "open", "postponed")
	gt.Error(t, err).Is(usecase.ErrInvalidInput)

	_, err = uc.Appointment.CreateAppointment(ctx, &model.AppointmentInput{DurationMinutes: 30})
	gt.Error(t, err).Is(usecase.ErrInvalidInput)

	at := time.Date(2026, 4, 2, 14, 0, 0, 0, time.UTC)
	_, err = uc.Appointment.CreateAppointment(ctx, &model.AppointmentInput{ScheduledAt: &at, DurationMinutes: 1})
	gt.Error(t, err).Is(usecase.ErrInvalidInput)
	gt.Number(t, client.Calls("CreateAppointment")).Equal(0)
}

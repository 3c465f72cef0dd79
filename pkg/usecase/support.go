package usecase

import (
	"context"

	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
)

type SupportUseCase struct {
	client  interfaces.SupportClient
	tickets Store[*model.SupportTicket]
}

func NewSupportUseCase(client interfaces.SupportClient) *SupportUseCase {
	return &SupportUseCase{client: client}
}

func (uc *SupportUseCase) State() State[*model.SupportTicket] { return uc.tickets.State() }

func (uc *SupportUseCase) CreateTicket(ctx context.Context, input *model.TicketInput) (*model.SupportTicket, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	return createInto(ctx, &uc.tickets, "failed to create support ticket", func(ctx context.Context) (*model.SupportTicket, error) {
		return uc.client.CreateSupportTicket(ctx, input)
	})
}

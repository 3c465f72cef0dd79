package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/preceptor-dev/preceptor/pkg/domain/types"
)

type CaseUseCase struct {
	client interfaces.CaseClient

	cases       Store[*model.Case]
	history     Store[*model.CaseHistoryEntry]
	assignments Store[*model.AssignmentRequest]
}

func NewCaseUseCase(client interfaces.CaseClient) *CaseUseCase {
	return &CaseUseCase{client: client}
}

func (uc *CaseUseCase) State() State[*model.Case] { return uc.cases.State() }

func (uc *CaseUseCase) History() State[*model.CaseHistoryEntry] { return uc.history.State() }

func (uc *CaseUseCase) Assignments() State[*model.AssignmentRequest] {
	return uc.assignments.State()
}

func (uc *CaseUseCase) FetchCases(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Case, error) {
	return fetchInto(ctx, &uc.cases, "failed to list cases", func(ctx context.Context) ([]*model.Case, error) {
		return uc.client.ListCases(ctx, opts...)
	})
}

func (uc *CaseUseCase) FetchCase(ctx context.Context, id model.ID) (*model.Case, error) {
	return loadCurrent(ctx, &uc.cases, "failed to get case", []goerr.Option{goerr.V(CaseIDKey, id)},
		func(ctx context.Context) (*model.Case, error) {
			return uc.client.GetCase(ctx, id)
		})
}

func (uc *CaseUseCase) CreateCase(ctx context.Context, input *model.CaseInput) (*model.Case, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	return createInto(ctx, &uc.cases, "failed to create case", func(ctx context.Context) (*model.Case, error) {
		return uc.client.CreateCase(ctx, input)
	})
}

// UpdateCase is refused for completed and closed cases
func (uc *CaseUseCase) UpdateCase(ctx context.Context, id model.ID, input *model.CaseInput) (*model.Case, error) {
	current, err := lookup(ctx, &uc.cases, id, uc.client.GetCase)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get case", goerr.V(CaseIDKey, id))
	}
	if current.Status.IsTerminal() {
		return nil, goerr.Wrap(ErrCaseClosed, "case cannot be updated",
			goerr.V(CaseIDKey, id), goerr.V(StatusKey, current.Status))
	}

	if input.Title == "" {
		input.Title = current.Title
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	return updateInto(ctx, &uc.cases, "failed to update case", []goerr.Option{goerr.V(CaseIDKey, id)},
		func(ctx context.Context) (*model.Case, error) {
			return uc.client.UpdateCase(ctx, id, input)
		})
}

func (uc *CaseUseCase) FetchCaseHistory(ctx context.Context, id model.ID) ([]*model.CaseHistoryEntry, error) {
	return fetchInto(ctx, &uc.history, "failed to list case history", func(ctx context.Context) ([]*model.CaseHistoryEntry, error) {
		return uc.client.ListCaseHistory(ctx, id)
	})
}

func (uc *CaseUseCase) FetchAssignmentRequests(ctx context.Context, opts ...interfaces.ListOption) ([]*model.AssignmentRequest, error) {
	return fetchInto(ctx, &uc.assignments, "failed to list assignment requests", func(ctx context.Context) ([]*model.AssignmentRequest, error) {
		return uc.client.ListAssignmentRequests(ctx, opts...)
	})
}

// RespondAssignmentRequest accepts or rejects a pending request. Requests that
// are not in the local list are sent as-is and left to the backend to judge.
func (uc *CaseUseCase) RespondAssignmentRequest(ctx context.Context, id model.ID, accept bool, response string) (*model.AssignmentRequest, error) {
	if req, ok := uc.assignments.Find(id); ok && req.Status != types.AssignmentStatusPending {
		return nil, goerr.Wrap(ErrAssignmentNotPending, "assignment request cannot be answered",
			goerr.V("request_id", id), goerr.V(StatusKey, req.Status))
	}

	input := &model.AssignmentResponseInput{
		Status:             string(types.AssignmentStatusRejected),
		SupervisorResponse: response,
	}
	if accept {
		input.Status = string(types.AssignmentStatusAccepted)
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	return updateInto(ctx, &uc.assignments, "failed to answer assignment request", []goerr.Option{goerr.V("request_id", id)},
		func(ctx context.Context) (*model.AssignmentRequest, error) {
			return uc.client.RespondAssignmentRequest(ctx, id, input)
		})
}

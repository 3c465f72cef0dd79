package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/preceptor-dev/preceptor/pkg/domain/types"
)

// SessionUseCase handles clinical session review, not login sessions
type SessionUseCase struct {
	client   interfaces.SessionClient
	sessions Store[*model.Session]
}

func NewSessionUseCase(client interfaces.SessionClient) *SessionUseCase {
	return &SessionUseCase{client: client}
}

func (uc *SessionUseCase) State() State[*model.Session] { return uc.sessions.State() }

func (uc *SessionUseCase) FetchSessionsNeedingReview(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Session, error) {
	return fetchInto(ctx, &uc.sessions, "failed to list sessions needing review", func(ctx context.Context) ([]*model.Session, error) {
		return uc.client.ListSessionsNeedingReview(ctx, opts...)
	})
}

func (uc *SessionUseCase) FetchCaseSessions(ctx context.Context, caseID model.ID) ([]*model.Session, error) {
	return fetchInto(ctx, &uc.sessions, "failed to list case sessions", func(ctx context.Context) ([]*model.Session, error) {
		return uc.client.ListCaseSessions(ctx, caseID)
	})
}

func (uc *SessionUseCase) FetchSessionReview(ctx context.Context, id model.ID) (*model.Session, error) {
	return loadCurrent(ctx, &uc.sessions, "failed to get session", []goerr.Option{goerr.V(SessionIDKey, id)},
		func(ctx context.Context) (*model.Session, error) {
			return uc.client.GetSessionReview(ctx, id)
		})
}

// ReviewSession approves or rejects a session awaiting review. Rejection
// requires feedback for the student.
func (uc *SessionUseCase) ReviewSession(ctx context.Context, id model.ID, decision types.ReviewDecision, feedback string) (*model.Session, error) {
	feedback = strings.TrimSpace(feedback)
	if decision == types.ReviewDecisionReject && feedback == "" {
		return nil, goerr.Wrap(ErrFeedbackRequired, "cannot reject session", goerr.V(SessionIDKey, id))
	}

	input := &model.SessionReviewInput{Decision: string(decision), Feedback: feedback}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	current, err := lookup(ctx, &uc.sessions, id, uc.client.GetSessionReview)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get session", goerr.V(SessionIDKey, id))
	}
	if !current.Status.IsReviewable() {
		return nil, goerr.Wrap(ErrSessionNotReviewable, "cannot review session",
			goerr.V(SessionIDKey, id), goerr.V(StatusKey, current.Status))
	}

	return updateInto(ctx, &uc.sessions, "failed to review session", []goerr.Option{goerr.V(SessionIDKey, id)},
		func(ctx context.Context) (*model.Session, error) {
			return uc.client.ReviewSession(ctx, id, input)
		})
}

package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/preceptor-dev/preceptor/pkg/domain/model/auth"
	"github.com/preceptor-dev/preceptor/pkg/utils/logging"
)

// LockoutStatus describes the login lockout of the current profile
type LockoutStatus struct {
	Locked         bool
	Remaining      time.Duration
	FailedAttempts int
}

// AuthUseCase signs the supervisor in and out and enforces the client-side
// login lockout
type AuthUseCase struct {
	client interfaces.AccountsClient
	repo   interfaces.Repository
	policy auth.LockoutPolicy
	now    func() time.Time

	// serializes the lockout read-modify-write
	mu sync.Mutex
}

func NewAuthUseCase(client interfaces.AccountsClient, repo interfaces.Repository, policy auth.LockoutPolicy, now func() time.Time) *AuthUseCase {
	if now == nil {
		now = time.Now
	}
	if policy.MaxAttempts <= 0 {
		policy = auth.DefaultLockoutPolicy()
	}
	return &AuthUseCase{
		client: client,
		repo:   repo,
		policy: policy,
		now:    now,
	}
}

// Login refuses without a network call while locked. Each failure counts
// toward the lock; a success resets the counter.
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*model.User, error) {
	input := &model.LoginInput{Email: email, Password: password}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	lockout, err := uc.repo.Lockout().Get(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get lockout state")
	}

	now := uc.now()
	if lockout.IsLocked(now) {
		remaining := lockout.Remaining(now)
		return nil, goerr.Wrap(ErrLockedOut, "login is temporarily locked",
			goerr.V(RemainingKey, remaining.Round(time.Second)))
	}

	session, err := uc.client.Login(ctx, input)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}

		next := lockout.RegisterFailure(now, uc.policy)
		if putErr := uc.repo.Lockout().Put(ctx, next); putErr != nil {
			logging.From(ctx).Warn("failed to record failed login", "error", putErr)
		}
		if next.IsLocked(now) {
			logging.From(ctx).Warn("login locked after repeated failures", "until", next.LockedUntil)
		}
		return nil, goerr.Wrap(err, "failed to login", goerr.V("attempts", next.FailedAttempts))
	}

	if err := uc.repo.Lockout().Reset(ctx); err != nil {
		logging.From(ctx).Warn("failed to reset lockout", "error", err)
	}

	session.SavedAt = now
	if err := uc.repo.Session().Save(ctx, session); err != nil {
		return nil, goerr.Wrap(err, "failed to save session")
	}

	logging.From(ctx).Info("logged in", "user_id", userID(session.User))
	return session.User, nil
}

// Logout tells the platform and then always clears local credentials
func (uc *AuthUseCase) Logout(ctx context.Context) error {
	if err := uc.client.Logout(ctx); err != nil {
		logging.From(ctx).Warn("server logout failed, clearing local session anyway", "error", err)
	}

	if err := uc.repo.Session().Clear(ctx); err != nil {
		return goerr.Wrap(err, "failed to clear session")
	}
	return nil
}

// Session returns the stored session or ErrNotLoggedIn
func (uc *AuthUseCase) Session(ctx context.Context) (*auth.Session, error) {
	session, err := uc.repo.Session().Load(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load session")
	}
	if session == nil {
		return nil, goerr.Wrap(ErrNotLoggedIn, "no stored session")
	}
	return session, nil
}

// Me fetches the profile and refreshes the cached user in the session
func (uc *AuthUseCase) Me(ctx context.Context) (*model.User, error) {
	if _, err := uc.Session(ctx); err != nil {
		return nil, err
	}

	user, err := uc.client.Me(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get profile")
	}
	uc.cacheUser(ctx, user)
	return user, nil
}

func (uc *AuthUseCase) UpdateProfile(ctx context.Context, input *model.ProfileInput) (*model.User, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	user, err := uc.client.UpdateMe(ctx, input)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update profile")
	}
	uc.cacheUser(ctx, user)
	return user, nil
}

func (uc *AuthUseCase) LockoutStatus(ctx context.Context) (*LockoutStatus, error) {
	lockout, err := uc.repo.Lockout().Get(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get lockout state")
	}

	now := uc.now()
	status := &LockoutStatus{
		Locked:    lockout.IsLocked(now),
		Remaining: lockout.Remaining(now),
	}
	if lockout != nil {
		status.FailedAttempts = lockout.FailedAttempts
	}
	return status, nil
}

func (uc *AuthUseCase) cacheUser(ctx context.Context, user *model.User) {
	session, err := uc.repo.Session().Load(ctx)
	if err != nil || session == nil {
		return
	}
	session.User = user
	if err := uc.repo.Session().Save(ctx, session); err != nil {
		logging.From(ctx).Warn("failed to cache profile in session", "error", err)
	}
}

func userID(u *model.User) model.ID {
	if u == nil {
		return ""
	}
	return u.ID
}

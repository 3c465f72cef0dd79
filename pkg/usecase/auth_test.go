package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/preceptor-dev/preceptor/pkg/domain/mock"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/preceptor-dev/preceptor/pkg/domain/model/auth"
	"github.com/preceptor-dev/preceptor/pkg/repository/memory"
	"github.com/preceptor-dev/preceptor/pkg/usecase"
)

var errBadCredentials = errors.New("invalid credentials")

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func newAuthFixture(password string) (*usecase.UseCases, *mock.PlatformMock, *memory.Memory, *fakeClock) {
	client := &mock.PlatformMock{
		LoginFunc: func(ctx context.Context, input *model.LoginInput) (*auth.Session, error) {
			if input.Password != password {
				return nil, errBadCredentials
			}
			return &auth.Session{
				AccessToken:  "access",
				RefreshToken: "refresh",
				User:         &model.User{ID: "7", Email: input.Email},
			}, nil
		},
	}
	repo := memory.New()
	clock := newClock()
	uc := usecase.New(client, repo, usecase.WithClock(clock.Now))
	return uc, client, repo, clock
}

func TestLoginStoresSession(t *testing.T) {
	ctx := context.Background()
	uc, _, repo, _ := newAuthFixture("secret")

	user, err := uc.Auth.Login(ctx, "sup@example.com", "secret")
	gt.NoError(t, err).Required()
	gt.Value(t, user.ID).Equal(model.ID("7"))

	session, err := repo.Session().Load(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, session).NotNil().Required()
	gt.S(t, session.AccessToken).Equal("access")
	gt.S(t, session.RefreshToken).Equal("refresh")
}

func TestLoginValidatesInput(t *testing.T) {
	ctx := context.Background()
	uc, client, _, _ := newAuthFixture("secret")

	_, err := uc.Auth.Login(ctx, "not-an-email", "secret")
	gt.Error(t, err).Is(usecase.ErrInvalidInput)
	gt.Number(t, client.Calls("Login")).Equal(0)
}

func TestLockoutAfterFiveFailures(t *testing.T) {
	ctx := context.Background()
	uc, client, _, clock := newAuthFixture("secret")

	for i := 0; i < 4; i++ {
		_, err := uc.Auth.Login(ctx, "sup@example.com", "wrong")
		gt.Error(t, err).Is(errBadCredentials)
	}

	status, err := uc.Auth.LockoutStatus(ctx)
	gt.NoError(t, err).Required()
	gt.Bool(t, status.Locked).False()
	gt.Number(t, status.FailedAttempts).Equal(4)

	_, err = uc.Auth.Login(ctx, "sup@example.com", "wrong")
	gt.Error(t, err).Is(errBadCredentials)

	status, err = uc.Auth.LockoutStatus(ctx)
	gt.NoError(t, err).Required()
	gt.Bool(t, status.Locked).True()
	gt.Value(t, status.Remaining).Equal(60 * time.Second)

	t.Run("locked login makes no API call", func(t *testing.T) {
		before := client.Calls("Login")
		clock.Advance(30 * time.Second)

		_, err := uc.Auth.Login(ctx, "sup@example.com", "secret")
		gt.Error(t, err).Is(usecase.ErrLockedOut)
		gt.Number(t, client.Calls("Login")).Equal(before)

		var gErr *goerr.Error
		gt.Bool(t, errors.As(err, &gErr)).True().Required()
		gt.Value(t, gErr.Values()[usecase.RemainingKey]).Equal(any(30 * time.Second))
	})

	t.Run("lock expires after sixty seconds", func(t *testing.T) {
		clock.Advance(30 * time.Second)

		user, err := uc.Auth.Login(ctx, "sup@example.com", "secret")
		gt.NoError(t, err).Required()
		gt.Value(t, user).NotNil()
	})
}

func TestLoginSuccessResetsFailures(t *testing.T) {
	ctx := context.Background()
	uc, _, _, _ := newAuthFixture("secret")

	for i := 0; i < 4; i++ {
		_, err := uc.Auth.Login(ctx, "sup@example.com", "wrong")
		gt.Error(t, err)
	}

	_, err := uc.Auth.Login(ctx, "sup@example.com", "secret")
	gt.NoError(t, err).Required()

	status, err := uc.Auth.LockoutStatus(ctx)
	gt.NoError(t, err).Required()
	gt.Number(t, status.FailedAttempts).Equal(0)

	// four more failures after a reset do not lock
	for i := 0; i < 4; i++ {
		_, err := uc.Auth.Login(ctx, "sup@example.com", "wrong")
		gt.Error(t, err).Is(errBadCredentials)
	}
	status, err = uc.Auth.LockoutStatus(ctx)
	gt.NoError(t, err).Required()
	gt.Bool(t, status.Locked).False()
}

func TestLockoutCountsRestartAfterExpiry(t *testing.T) {
	ctx := context.Background()
	uc, client, _, clock := newAuthFixture("secret")

	for i := 0; i < 5; i++ {
		_, _ = uc.Auth.Login(ctx, "sup@example.com", "wrong")
	}
	clock.Advance(61 * time.Second)

	_, err := uc.Auth.Login(ctx, "sup@example.com", "wrong")
	gt.Error(t, err).Is(errBadCredentials)

	status, err := uc.Auth.LockoutStatus(ctx)
	gt.NoError(t, err).Required()
	gt.Bool(t, status.Locked).False()
	gt.Number(t, status.FailedAttempts).Equal(1)
	gt.Number(t, client.Calls("Login")).Equal(6)
}

func TestLogoutClearsSessionEvenWhenServerFails(t *testing.T) {
	ctx := context.Background()
	uc, client, repo, _ := newAuthFixture("secret")
	client.LogoutFunc = func(ctx context.Context) error {
		return errors.New("server down")
	}

	_, err := uc.Auth.Login(ctx, "sup@example.com", "secret")
	gt.NoError(t, err).Required()

	gt.NoError(t, uc.Auth.Logout(ctx)).Required()

	session, err := repo.Session().Load(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, session).Nil()

	_, err = uc.Auth.Session(ctx)
	gt.Error(t, err).Is(usecase.ErrNotLoggedIn)
}

func TestMeCachesProfile(t *testing.T) {
	ctx := context.Background()
	uc, client, repo, _ := newAuthFixture("secret")
	client.MeFunc = func(ctx context.Context) (*model.User, error) {
		return &model.User{ID: "7", Email: "sup@example.com", FirstName: "Grace"}, nil
	}

	_, err := uc.Auth.Me(ctx)
	gt.Error(t, err).Is(usecase.ErrNotLoggedIn)

	_, err = uc.Auth.Login(ctx, "sup@example.com", "secret")
	gt.NoError(t, err).Required()

	user, err := uc.Auth.Me(ctx)
	gt.NoError(t, err).Required()
	gt.S(t, user.FirstName).Equal("Grace")

	session, err := repo.Session().Load(ctx)
	gt.NoError(t, err).Required()
	gt.S(t, session.User.FirstName).Equal("Grace")
}

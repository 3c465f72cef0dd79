package auth_test

import (
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/gt"
	"github.com/preceptor-dev/preceptor/pkg/domain/model/auth"
)

func TestSession_Validate(t *testing.T) {
	gt.Error(t, (*auth.Session)(nil).Validate()).Is(auth.ErrInvalidSession)
	gt.Error(t, (&auth.Session{}).Validate()).Is(auth.ErrInvalidSession)
	gt.NoError(t, (&auth.Session{AccessToken: "a"}).Validate())
}

func TestSession_WithAccessToken(t *testing.T) {
	now := time.Now()
	s := &auth.Session{AccessToken: "old", RefreshToken: "r1"}

	kept := s.WithAccessToken("new", "", now)
	gt.S(t, kept.AccessToken).Equal("new")
	gt.S(t, kept.RefreshToken).Equal("r1")
	gt.Value(t, kept.SavedAt).Equal(now)

	rotated := s.WithAccessToken("new", "r2", now)
	gt.S(t, rotated.RefreshToken).Equal("r2")

	// original untouched
	gt.S(t, s.AccessToken).Equal("old")
}

func TestSession_AccessTokenExpiry(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	tok, err := jwt.NewBuilder().Subject("supervisor-1").Expiration(exp).Build()
	gt.NoError(t, err).Required()
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, []byte("test-secret")))
	gt.NoError(t, err).Required()

	s := &auth.Session{AccessToken: string(signed)}
	got, err := s.AccessTokenExpiry()
	gt.NoError(t, err).Required()
	gt.Bool(t, got.Equal(exp)).True()

	_, err = (&auth.Session{AccessToken: "opaque"}).AccessTokenExpiry()
	gt.Error(t, err).Is(auth.ErrTokenNotJWT)
}

func TestLockout(t *testing.T) {
	policy := auth.DefaultLockoutPolicy()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	var l *auth.Lockout
	for i := 0; i < 4; i++ {
		l = l.RegisterFailure(now, policy)
		gt.Bool(t, l.IsLocked(now)).False()
	}
	gt.Number(t, l.FailedAttempts).Equal(4)

	l = l.RegisterFailure(now, policy)
	gt.Bool(t, l.IsLocked(now)).True()
	gt.Number(t, l.FailedAttempts).Equal(0)
	gt.Value(t, l.Remaining(now)).Equal(60 * time.Second)
	gt.Value(t, l.Remaining(now.Add(45*time.Second))).Equal(15 * time.Second)

	after := now.Add(61 * time.Second)
	gt.Bool(t, l.IsLocked(after)).False()
	gt.Value(t, l.Remaining(after)).Equal(time.Duration(0))

	// counting restarts from zero
	l = l.RegisterFailure(after, policy)
	gt.Number(t, l.FailedAttempts).Equal(1)
	gt.Bool(t, l.IsLocked(after)).False()
}

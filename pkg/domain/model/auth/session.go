package auth

import (
	"time"

	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
)

var (
	ErrInvalidSession = goerr.New("invalid session")
	ErrTokenNotJWT    = goerr.New("access token is not a JWT")
)

// Session holds the credentials issued by the platform for the signed-in supervisor.
// JSON field names are the fixed storage keys of the credential store.
type Session struct {
	AccessToken  string      `json:"access_token" firestore:"access_token" masq:"secret"`
	RefreshToken string      `json:"refresh_token" firestore:"refresh_token" masq:"secret"`
	User         *model.User `json:"user" firestore:"user"`
	SavedAt      time.Time   `json:"saved_at" firestore:"saved_at"`
}

// Validate checks that the session carries an access token
func (s *Session) Validate() error {
	if s == nil {
		return goerr.Wrap(ErrInvalidSession, "session is nil")
	}
	if s.AccessToken == "" {
		return goerr.Wrap(ErrInvalidSession, "access token is empty")
	}
	return nil
}

// WithAccessToken returns a copy with rotated tokens. An empty refresh token keeps the current one.
func (s *Session) WithAccessToken(access, refresh string, now time.Time) *Session {
	next := *s
	next.AccessToken = access
	if refresh != "" {
		next.RefreshToken = refresh
	}
	next.SavedAt = now
	return &next
}

// AccessTokenExpiry reads the exp claim of the access token without verifying
// the signature. The platform signs tokens; the client only displays expiry.
func (s *Session) AccessTokenExpiry() (time.Time, error) {
	tok, err := jwt.ParseInsecure([]byte(s.AccessToken))
	if err != nil {
		return time.Time{}, goerr.Wrap(ErrTokenNotJWT, "failed to parse access token", goerr.V("cause", err.Error()))
	}
	return tok.Expiration(), nil
}

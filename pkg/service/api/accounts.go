package api

import (
	"context"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/preceptor-dev/preceptor/pkg/domain/model/auth"
)

type loginResponse struct {
	tokenPair
	Tokens *tokenPair  `json:"tokens"`
	User   *model.User `json:"user"`
}

// Login exchanges credentials for a new session. It does not store the session.
func (c *Client) Login(ctx context.Context, input *model.LoginInput) (*auth.Session, error) {
	var resp loginResponse
	err := c.call(ctx, request{
		method:    http.MethodPost,
		path:      "/accounts/login/supervisor/",
		body:      input,
		anonymous: true,
	}, &resp)
	if err != nil {
		return nil, err
	}

	pair := resp.tokenPair
	if resp.Tokens != nil {
		pair = *resp.Tokens
	}
	if pair.access() == "" {
		return nil, goerr.Wrap(ErrDecodeResponse, "login response has no access token")
	}

	return &auth.Session{
		AccessToken:  pair.access(),
		RefreshToken: pair.refresh(),
		User:         resp.User,
		SavedAt:      c.now(),
	}, nil
}

// Logout invalidates the refresh token on the server when one is stored
func (c *Client) Logout(ctx context.Context) error {
	session, err := c.sessions.Load(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load session")
	}
	if session == nil {
		return nil
	}

	return c.call(ctx, request{
		method: http.MethodPost,
		path:   "/accounts/logout/supervisor/",
		body:   map[string]string{"refresh": session.RefreshToken},
	}, nil)
}

func (c *Client) Me(ctx context.Context) (*model.User, error) {
	return doJSON[model.User](ctx, c, http.MethodGet, "/accounts/me/supervisor/", nil)
}

func (c *Client) UpdateMe(ctx context.Context, input *model.ProfileInput) (*model.User, error) {
	return doJSON[model.User](ctx, c, http.MethodPatch, "/accounts/me/supervisor/", input)
}

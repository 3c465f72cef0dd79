package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/preceptor-dev/preceptor/pkg/service/metrics"
	"github.com/preceptor-dev/preceptor/pkg/utils/logging"
	"github.com/preceptor-dev/preceptor/pkg/utils/safe"
)

const (
	refreshPath = "/accounts/auth/token/refresh/"

	// DefaultTimeout bounds a single HTTP round trip
	DefaultTimeout = 30 * time.Second

	maxResponseBytes = 16 << 20
)

// Client calls the platform REST API with the stored bearer credential.
// A 401 triggers exactly one refresh attempt; the original request is then
// replayed once.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	sessions   interfaces.SessionRepository
	metrics    *metrics.Metrics
	userAgent  string
	onExpired  func(ctx context.Context)
	now        func() time.Time

	refreshMu sync.Mutex
}

var _ interfaces.Platform = &Client{}

// Option is a functional option for Client configuration
type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithSessionExpiredHandler is called after an unrecoverable 401 cleared the stored credentials
func WithSessionExpiredHandler(fn func(ctx context.Context)) Option {
	return func(c *Client) {
		c.onExpired = fn
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// New creates a client for the API rooted at baseURL
func New(baseURL string, sessions interfaces.SessionRepository, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, goerr.New("API base URL is required")
	}
	if sessions == nil {
		return nil, goerr.New("session repository is required")
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid API base URL", goerr.V("baseURL", baseURL))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, goerr.New("API base URL must be http or https", goerr.V("baseURL", baseURL))
	}
	u.Path = strings.TrimRight(u.Path, "/")

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		sessions:   sessions,
		userAgent:  "preceptor",
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any

	// anonymous requests carry no bearer credential and never trigger a refresh
	anonymous bool
}

type response struct {
	status int
	body   []byte
}

// call runs req, handles the refresh flow, and decodes the enveloped payload into out
func (c *Client) call(ctx context.Context, req request, out any) error {
	var payload []byte
	if req.body != nil {
		raw, err := json.Marshal(req.body)
		if err != nil {
			return goerr.Wrap(err, "failed to encode request body", goerr.V("path", req.path))
		}
		payload = raw
	}

	resp, usedToken, err := c.send(ctx, req, payload)
	if err != nil {
		return err
	}

	if resp.status == http.StatusUnauthorized && !req.anonymous && req.path != refreshPath {
		if err := c.refresh(ctx, usedToken); err != nil {
			return err
		}

		resp, _, err = c.send(ctx, req, payload)
		if err != nil {
			return err
		}
	}

	if resp.status < 200 || resp.status >= 300 {
		return parseError(resp.status, resp.body)
	}

	if out == nil {
		return nil
	}
	if err := decodeEnvelope(resp.body, out); err != nil {
		return goerr.Wrap(ErrDecodeResponse, "failed to decode response",
			goerr.V("path", req.path),
			goerr.V("cause", err.Error()))
	}
	return nil
}

// send performs one HTTP round trip and returns the access token it used
func (c *Client) send(ctx context.Context, req request, payload []byte) (*response, string, error) {
	u := *c.baseURL
	u.Path = c.baseURL.Path + req.path
	if len(req.query) > 0 {
		u.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to create request", goerr.V("path", req.path))
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	var token string
	if !req.anonymous {
		session, err := c.sessions.Load(ctx)
		if err != nil {
			return nil, "", goerr.Wrap(err, "failed to load session")
		}
		if session != nil && session.AccessToken != "" {
			token = session.AccessToken
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	logger := logging.From(ctx).With("method", req.method, "path", req.path, "request_id", requestID)

	start := c.now()
	httpResp, err := c.httpClient.Do(httpReq)
	elapsed := c.now().Sub(start)
	if err != nil {
		c.metrics.ObserveAPIRequest(req.method, req.path, 0, elapsed)
		return nil, token, goerr.Wrap(ErrNetwork, "request failed",
			goerr.V("method", req.method),
			goerr.V("path", req.path),
			goerr.V("cause", err.Error()))
	}
	defer safe.DrainClose(ctx, httpResp.Body)

	c.metrics.ObserveAPIRequest(req.method, req.path, httpResp.StatusCode, elapsed)
	logger.Debug("API request done", "status", httpResp.StatusCode, "elapsed", elapsed)

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, token, goerr.Wrap(ErrNetwork, "failed to read response body",
			goerr.V("path", req.path),
			goerr.V("cause", err.Error()))
	}

	return &response{status: httpResp.StatusCode, body: raw}, token, nil
}

type tokenPair struct {
	Access       string `json:"access"`
	Refresh      string `json:"refresh"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (p *tokenPair) access() string {
	if p.Access != "" {
		return p.Access
	}
	return p.AccessToken
}

func (p *tokenPair) refresh() string {
	if p.Refresh != "" {
		return p.Refresh
	}
	return p.RefreshToken
}

// refresh exchanges the stored refresh token for a new access token. If
// another request already rotated the token since usedToken was sent, the
// refresh call is skipped.
func (c *Client) refresh(ctx context.Context, usedToken string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	session, err := c.sessions.Load(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load session")
	}
	if session != nil && session.AccessToken != "" && session.AccessToken != usedToken {
		return nil
	}
	if session == nil || session.RefreshToken == "" {
		return c.expire(ctx, goerr.V("reason", "no refresh token"))
	}

	var pair tokenPair
	err = c.call(ctx, request{
		method:    http.MethodPost,
		path:      refreshPath,
		body:      map[string]string{"refresh": session.RefreshToken},
		anonymous: true,
	}, &pair)
	if err != nil || pair.access() == "" {
		c.metrics.ObserveTokenRefresh(false)
		cause := "empty access token"
		if err != nil {
			cause = err.Error()
		}
		return c.expire(ctx, goerr.V("reason", cause))
	}
	c.metrics.ObserveTokenRefresh(true)

	next := session.WithAccessToken(pair.access(), pair.refresh(), c.now())
	if err := c.sessions.Save(ctx, next); err != nil {
		return goerr.Wrap(err, "failed to save refreshed session")
	}

	logging.From(ctx).Debug("access token refreshed")
	return nil
}

// expire clears the stored credentials and notifies the handler
func (c *Client) expire(ctx context.Context, values ...goerr.Option) error {
	if err := c.sessions.Clear(ctx); err != nil {
		logging.From(ctx).Warn("failed to clear session", "error", err)
	}
	if c.onExpired != nil {
		c.onExpired(ctx)
	}
	return goerr.Wrap(ErrSessionExpired, "credential refresh failed", values...)
}

// decodeEnvelope accepts either {"data": ...} or a bare payload
func decodeEnvelope(raw []byte, out any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	if data, ok := unwrapData(raw); ok {
		raw = data
	}
	return json.Unmarshal(raw, out)
}

var envelopeKeys = map[string]bool{
	"data":    true,
	"success": true,
	"status":  true,
	"message": true,
	"meta":    true,
}

func unwrapData(raw []byte) (json.RawMessage, bool) {
	if raw[0] != '{' {
		return nil, false
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	data, ok := obj["data"]
	if !ok {
		return nil, false
	}
	for k := range obj {
		if !envelopeKeys[k] {
			return nil, false
		}
	}
	return data, true
}

// unwrapListData strips a {"data": ...} envelope from a list response
// regardless of sibling keys such as count or pagination. An object that
// already carries results is a page and is left alone.
func unwrapListData(raw json.RawMessage) json.RawMessage {
	for range 2 {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '{' {
			return raw
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return raw
		}
		if _, ok := obj["results"]; ok {
			return raw
		}
		data, ok := obj["data"]
		if !ok {
			return raw
		}
		raw = data
	}
	return bytes.TrimSpace(raw)
}

type listPage[T any] struct {
	Results []T `json:"results"`
}

// decodeList accepts a bare array or a paginated {"results": [...]} object
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	raw = unwrapListData(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}

	if raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var page listPage[T]
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		return []T{}, nil
	}
	return page.Results, nil
}

func list[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	var raw json.RawMessage
	if err := c.call(ctx, request{method: http.MethodGet, path: path, query: query}, &raw); err != nil {
		return nil, err
	}

	items, err := decodeList[T](raw)
	if err != nil {
		return nil, goerr.Wrap(ErrDecodeResponse, "failed to decode list",
			goerr.V("path", path),
			goerr.V("cause", err.Error()))
	}
	return items, nil
}

func doJSON[T any](ctx context.Context, c *Client, method, path string, body any) (*T, error) {
	var out T
	if err := c.call(ctx, request{method: method, path: path, body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func escape(id model.ID) string {
	return url.PathEscape(id.String())
}

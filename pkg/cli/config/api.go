package config

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/service/api"
	"github.com/urfave/cli/v3"
)

// API holds the platform connection settings
type API struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
}

func (x *API) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "api-base-url",
			Usage:       "Base URL of the platform REST API, e.g. https://api.example.com/api",
			Category:    "API",
			Sources:     cli.EnvVars("PRECEPTOR_API_BASE_URL"),
			Destination: &x.baseURL,
		},
		&cli.StringFlag{
			Name:        "api-user-agent",
			Usage:       "User-Agent sent with API requests",
			Category:    "API",
			Value:       "preceptor",
			Sources:     cli.EnvVars("PRECEPTOR_API_USER_AGENT"),
			Destination: &x.userAgent,
		},
		&cli.DurationFlag{
			Name:        "api-timeout",
			Usage:       "Timeout of a single API request",
			Category:    "API",
			Value:       api.DefaultTimeout,
			Sources:     cli.EnvVars("PRECEPTOR_API_TIMEOUT"),
			Destination: &x.timeout,
		},
	}
}

func (x API) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("base_url", x.baseURL),
		slog.Duration("timeout", x.timeout),
	)
}

func (x *API) BaseURL() string { return x.baseURL }

// Configure builds the API client over the session repository
func (x *API) Configure(sessions interfaces.SessionRepository, opts ...api.Option) (*api.Client, error) {
	if x.baseURL == "" {
		return nil, goerr.Wrap(ErrMissingSetting, "api-base-url is required", goerr.V(FieldKey, "api-base-url"))
	}

	timeout := x.timeout
	if timeout <= 0 {
		timeout = api.DefaultTimeout
	}

	clientOpts := []api.Option{
		api.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if x.userAgent != "" {
		clientOpts = append(clientOpts, api.WithUserAgent(x.userAgent))
	}
	clientOpts = append(clientOpts, opts...)

	client, err := api.New(x.baseURL, sessions, clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create API client")
	}
	return client, nil
}

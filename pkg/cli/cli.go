package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/preceptor-dev/preceptor/pkg/cli/config"
	"github.com/preceptor-dev/preceptor/pkg/service/api"
	"github.com/preceptor-dev/preceptor/pkg/utils/errutil"
	"github.com/preceptor-dev/preceptor/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Run loads .env (PRECEPTOR_ENV_FILE overrides the path) and executes the command line
func Run(ctx context.Context, args []string, version string) error {
	envFile := os.Getenv("PRECEPTOR_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := config.LoadDotEnv(envFile); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %s", err.Error()))
		return err
	}

	g := &globalConfig{version: version}
	var closers []func()

	app := &cli.Command{
		Name:    "preceptor",
		Usage:   "Supervisor console for the clinical-education platform",
		Version: version,
		Flags:   g.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			closeLog, err := g.logger.Configure()
			if err != nil {
				return ctx, err
			}
			closers = append(closers, closeLog)

			flush, err := g.sentry.Configure(version)
			if err != nil {
				return ctx, err
			}
			closers = append(closers, flush)

			logging.Default().Debug("Starting preceptor",
				"logger", g.logger,
				"api", g.api,
				"repository", g.repo,
				"sentry", g.sentry,
			)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdLogin(g),
			cmdLogout(g),
			cmdMe(g),
			cmdStatus(g),
			cmdProfile(g),
			cmdCase(g),
			cmdAppointment(g),
			cmdSession(g),
			cmdEvaluation(g),
			cmdContent(g),
			cmdReport(g),
			cmdNotification(g),
			cmdMessage(g),
			cmdSupport(g),
			cmdServe(g),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		_ = errutil.Handle(ctx, err, "failed to run app")
		fmt.Fprintln(os.Stderr, color.RedString("Error: %s", describeError(err)))
		return err
	}

	return nil
}

// describeError prefers the server-provided message for API failures
func describeError(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) || errors.Is(err, api.ErrSessionExpired) {
		return api.UserMessage(err)
	}
	return err.Error()
}

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/cli/config"
	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/service/api"
	"github.com/preceptor-dev/preceptor/pkg/service/metrics"
	"github.com/preceptor-dev/preceptor/pkg/usecase"
	"github.com/preceptor-dev/preceptor/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// globalConfig carries the flags shared by every command
type globalConfig struct {
	version    string
	jsonOutput bool

	logger config.Logger
	app    config.App
	api    config.API
	repo   config.Repository
	sentry config.Sentry
	export config.Export
}

func (g *globalConfig) Flags() []cli.Flag {
	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "Print results as JSON",
			Sources:     cli.EnvVars("PRECEPTOR_JSON"),
			Destination: &g.jsonOutput,
		},
	}
	flags = append(flags, g.logger.Flags()...)
	flags = append(flags, g.app.Flags()...)
	flags = append(flags, g.api.Flags()...)
	flags = append(flags, g.repo.Flags()...)
	flags = append(flags, g.sentry.Flags()...)
	flags = append(flags, g.export.Flags()...)
	return flags
}

// runtime is the wired object graph a command works with
type runtime struct {
	cfg     *config.AppConfig
	repo    interfaces.Repository
	client  *api.Client
	uc      *usecase.UseCases
	metrics *metrics.Metrics
	out     *printer

	closers []func()
}

func (g *globalConfig) runtime(ctx context.Context) (*runtime, error) {
	cfg, err := g.app.Configure()
	if err != nil {
		return nil, err
	}

	rt := &runtime{
		cfg:     cfg,
		metrics: metrics.New(),
		out:     newPrinter(os.Stdout, g.jsonOutput),
	}

	repo, err := g.repo.Configure(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize repository")
	}
	rt.repo = repo
	rt.closers = append(rt.closers, func() {
		if err := repo.Close(); err != nil {
			logging.Default().Error("failed to close repository", "error", err.Error())
		}
	})

	client, err := g.api.Configure(repo.Session(),
		api.WithMetrics(rt.metrics),
		api.WithSessionExpiredHandler(sessionExpired),
	)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.client = client

	sink, closeSink, err := g.export.Configure(ctx)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.closers = append(rt.closers, closeSink)

	rt.uc = usecase.New(client, repo,
		usecase.WithLockoutPolicy(cfg.LockoutPolicy()),
		usecase.WithMessagePageSize(cfg.Messaging.PageSize),
		usecase.WithReportSink(sink),
	)
	return rt, nil
}

func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
}

// sessionExpired is where a GUI would navigate to the login screen
func sessionExpired(ctx context.Context) {
	logging.From(ctx).Warn("session expired, local credentials cleared")
	fmt.Fprintln(os.Stderr, color.YellowString("Your session has expired. Run `preceptor login` to sign in again."))
}

// withRuntime adapts a command body that needs the wired runtime
func withRuntime(g *globalConfig, fn func(ctx context.Context, c *cli.Command, rt *runtime) error) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		rt, err := g.runtime(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()
		return fn(ctx, c, rt)
	}
}

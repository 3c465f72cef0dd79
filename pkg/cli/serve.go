package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/cli/config"
	httpctrl "github.com/preceptor-dev/preceptor/pkg/controller/http"
	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/service/api"
	"github.com/preceptor-dev/preceptor/pkg/service/worker"
	"github.com/preceptor-dev/preceptor/pkg/usecase"
	"github.com/preceptor-dev/preceptor/pkg/utils/logging"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

// warmUp loads the containers the feed serves from state before pollers start
func warmUp(ctx context.Context, uc *usecase.UseCases) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		_, err := uc.Messaging.FetchThreads(ctx)
		return err
	})
	eg.Go(func() error {
		_, err := uc.Notification.FetchNotifications(ctx)
		return err
	})
	eg.Go(func() error {
		_, err := uc.Content.FetchPendingPosts(ctx)
		return err
	})
	return eg.Wait()
}

func cmdServe(g *globalConfig) *cli.Command {
	var addr string
	var eventSecret string
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Dashboard feed address (default from config file, 127.0.0.1:8080)",
			Sources:     cli.EnvVars("PRECEPTOR_DASHBOARD_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "event-secret",
			Usage:       "Shared secret required to sign POST /api/messaging/events",
			Sources:     cli.EnvVars("PRECEPTOR_EVENT_SECRET"),
			Destination: &eventSecret,
		},
	}
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Run the pollers and the local dashboard feed",
		Flags:   flags,
		Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
			if _, err := rt.uc.Auth.Session(ctx); err != nil {
				return goerr.Wrap(err, "serve requires a signed-in session, run `preceptor login` first")
			}
			if addr == "" {
				addr = rt.cfg.Dashboard.Addr
			}

			relay, err := slackCfg.Configure()
			if err != nil {
				return err
			}
			var notifier interfaces.Notifier
			if relay != nil {
				notifier = relay
				logging.Default().Info("Slack relay enabled", "slack", slackCfg)
			}

			if err := warmUp(ctx, rt.uc); err != nil {
				if errors.Is(err, api.ErrSessionExpired) {
					return err
				}
				logging.Default().Warn("initial load failed, pollers will retry", "error", err)
			}

			pollers := worker.NewGroup(
				worker.NewThreadPoller(rt.uc.Messaging, rt.cfg.Polling.Threads.Std(), rt.metrics),
				worker.NewOpenThreadPoller(rt.uc.Messaging, rt.cfg.Polling.OpenThread.Std(), rt.metrics),
				worker.NewNotificationPoller(rt.uc.Notification, notifier, nil, rt.cfg.Polling.Notifications.Std(), rt.metrics),
			)
			if err := pollers.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start pollers")
			}
			defer pollers.Stop()

			httpOpts := []httpctrl.Options{httpctrl.WithMetrics(rt.metrics)}
			if eventSecret != "" {
				httpOpts = append(httpOpts, httpctrl.WithEventSecret(eventSecret))
			} else {
				logging.Default().Warn("event ingest is unauthenticated, set --event-secret when the feed is reachable by others")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(rt.uc, httpOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting dashboard feed", "addr", addr, "config", rt.cfg)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)
			}

			// Stop pollers first so no state changes while draining
			pollers.Stop()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logging.Default().Info("Server shutdown completed")
			return nil
		}),
	}
}

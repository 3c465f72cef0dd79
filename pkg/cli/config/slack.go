package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/types"
	"github.com/preceptor-dev/preceptor/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack configures the relay of urgent notifications to a channel
type Slack struct {
	botToken     string
	channelID    string
	minPriority  string
	dashboardURL string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token (enables the notification relay)",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("PRECEPTOR_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel ID that receives relayed notifications",
			Category:    "Slack",
			Destination: &x.channelID,
			Sources:     cli.EnvVars("PRECEPTOR_SLACK_CHANNEL_ID"),
		},
		&cli.StringFlag{
			Name:        "slack-min-priority",
			Usage:       "Lowest notification priority to relay [low|normal|high|critical]",
			Category:    "Slack",
			Value:       string(types.NotificationPriorityHigh),
			Destination: &x.minPriority,
			Sources:     cli.EnvVars("PRECEPTOR_SLACK_MIN_PRIORITY"),
		},
		&cli.StringFlag{
			Name:        "slack-dashboard-url",
			Usage:       "Dashboard URL linked from relayed messages",
			Category:    "Slack",
			Destination: &x.dashboardURL,
			Sources:     cli.EnvVars("PRECEPTOR_SLACK_DASHBOARD_URL"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel-id", x.channelID),
		slog.String("min-priority", x.minPriority),
	)
}

// IsConfigured checks if the relay can be built
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" && x.channelID != ""
}

// Configure returns nil without error when the relay is not configured
func (x *Slack) Configure() (*slack.Relay, error) {
	if x.botToken == "" && x.channelID == "" {
		return nil, nil
	}
	if !x.IsConfigured() {
		return nil, goerr.Wrap(ErrMissingSetting, "both --slack-bot-token and --slack-channel-id are required for the relay")
	}

	var opts []slack.Option
	switch p := types.NotificationPriority(x.minPriority); p {
	case "":
	case types.NotificationPriorityLow, types.NotificationPriorityNormal,
		types.NotificationPriorityHigh, types.NotificationPriorityCritical:
		opts = append(opts, slack.WithMinPriority(p))
	default:
		return nil, goerr.Wrap(ErrInvalidConfig, "invalid slack minimum priority", goerr.V(FieldKey, "slack-min-priority"), goerr.V(ValueKey, x.minPriority))
	}
	if x.dashboardURL != "" {
		opts = append(opts, slack.WithDashboardURL(x.dashboardURL))
	}

	relay, err := slack.New(x.botToken, x.channelID, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create slack relay")
	}
	return relay, nil
}

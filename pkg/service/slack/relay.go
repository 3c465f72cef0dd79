package slack

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/preceptor-dev/preceptor/pkg/domain/types"
	"github.com/slack-go/slack"
)

const (
	// Slack rejects section text longer than 3000 characters
	maxSectionBytes = 3000
	maxHeaderBytes  = 150
)

// Relay posts urgent platform notifications to a Slack channel
type Relay struct {
	api          *slack.Client
	channelID    string
	minPriority  types.NotificationPriority
	dashboardURL string
}

var _ interfaces.Notifier = &Relay{}

// Option is a functional option for Relay configuration
type Option func(*Relay, *[]slack.Option)

// WithMinPriority sets the lowest priority that is relayed. Default is high.
func WithMinPriority(p types.NotificationPriority) Option {
	return func(r *Relay, _ *[]slack.Option) {
		r.minPriority = p
	}
}

// WithDashboardURL adds a deep link to the local dashboard feed in each message
func WithDashboardURL(u string) Option {
	return func(r *Relay, _ *[]slack.Option) {
		r.dashboardURL = strings.TrimRight(u, "/")
	}
}

// WithAPIURL overrides the Slack API endpoint
func WithAPIURL(u string) Option {
	return func(_ *Relay, opts *[]slack.Option) {
		*opts = append(*opts, slack.OptionAPIURL(u))
	}
}

// New creates a relay with the provided bot token and channel
func New(token, channelID string, opts ...Option) (*Relay, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channelID == "" {
		return nil, goerr.New("Slack channel ID is required")
	}

	r := &Relay{
		channelID:   channelID,
		minPriority: types.NotificationPriorityHigh,
	}

	var slackOpts []slack.Option
	for _, opt := range opts {
		opt(r, &slackOpts)
	}
	r.api = slack.New(token, slackOpts...)

	return r, nil
}

// Accepts reports whether n is urgent enough to be relayed
func (r *Relay) Accepts(n *model.Notification) bool {
	return n != nil && n.Priority.AtLeast(r.minPriority)
}

// Notify posts n to the channel. Notifications below the minimum priority are skipped.
func (r *Relay) Notify(ctx context.Context, n *model.Notification) error {
	if !r.Accepts(n) {
		return nil
	}

	blocks := r.buildBlocks(n)
	_, _, err := r.api.PostMessageContext(ctx, r.channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(fallbackText(n), false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post notification to Slack",
			goerr.V("channel", r.channelID),
			goerr.V("notification_id", n.ID))
	}
	return nil
}

func (r *Relay) buildBlocks(n *model.Notification) []slack.Block {
	header := slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType,
		truncateToMaxBytes(fmt.Sprintf("%s %s", priorityEmoji(n.Priority), n.Title), maxHeaderBytes), true, false))

	body := slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType,
		truncateToMaxBytes(n.Message, maxSectionBytes), false, false), nil, nil)

	elements := []slack.MixedElement{
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Priority:* %s", n.Priority), false, false),
	}
	if n.TargetType != "" {
		target := fmt.Sprintf("*Target:* %s %s", n.TargetType, n.TargetObjectID)
		if link := r.targetLink(n); link != "" {
			target = fmt.Sprintf("*Target:* <%s|%s %s>", link, n.TargetType, n.TargetObjectID)
		}
		elements = append(elements, slack.NewTextBlockObject(slack.MarkdownType, target, false, false))
	}

	return []slack.Block{header, body, slack.NewContextBlock("", elements...)}
}

var targetRoutes = map[types.TargetType]string{
	types.TargetTypeCase:        "/api/cases",
	types.TargetTypeAppointment: "/api/appointments",
	types.TargetTypeSession:     "/api/sessions/needing-review",
	types.TargetTypeEvaluation:  "/api/evaluations",
	types.TargetTypeReport:      "/api/reports",
	types.TargetTypeThread:      "/api/messaging/threads",
}

func (r *Relay) targetLink(n *model.Notification) string {
	if r.dashboardURL == "" || n.TargetObjectID == "" {
		return ""
	}
	route, ok := targetRoutes[n.TargetType]
	if !ok {
		return ""
	}
	if n.TargetType == types.TargetTypeThread {
		return r.dashboardURL + route + "/" + n.TargetObjectID.String() + "/messages"
	}
	return r.dashboardURL + route + "?q=" + n.TargetObjectID.String()
}

func fallbackText(n *model.Notification) string {
	return truncateToMaxBytes(fmt.Sprintf("[%s] %s: %s", n.Priority, n.Title, n.Message), maxSectionBytes)
}

func priorityEmoji(p types.NotificationPriority) string {
	switch p {
	case types.NotificationPriorityCritical:
		return ":rotating_light:"
	case types.NotificationPriorityHigh:
		return ":warning:"
	default:
		return ":bell:"
	}
}

// truncateToMaxBytes cuts s to at most max bytes without splitting a UTF-8 sequence
func truncateToMaxBytes(s string, max int) string {
	if len(s) <= max {
		return s
	}

	const ellipsis = "…"
	limit := max - len(ellipsis)
	if limit <= 0 {
		return ""
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit] + ellipsis
}

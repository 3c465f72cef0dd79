package cli

import (
	"context"

	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func notificationState(n *model.Notification) string {
	if n.IsRead {
		return "read"
	}
	return "unread"
}

func cmdNotification(g *globalConfig) *cli.Command {
	var filter listFilter

	return &cli.Command{
		Name:    "notification",
		Aliases: []string{"notifications", "notif"},
		Usage:   "Read notifications",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List notifications (--status read|unread)",
				Flags: filter.Flags(),
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					items, err := rt.uc.Notification.FetchNotifications(ctx)
					if err != nil {
						return err
					}
					items = applyFilter(items, &filter, notificationState)
					rows := make([][]string, 0, len(items))
					for _, n := range items {
						rows = append(rows, []string{
							string(n.ID), status(notificationState(n)), status(string(n.Priority)),
							truncate(n.Title, 40), truncate(n.Message, 50), timestamp(n.CreatedAt),
						})
					}
					return rt.out.Table(items, []string{"ID", "STATE", "PRIORITY", "TITLE", "MESSAGE", "CREATED"}, rows)
				}),
			},
			{
				Name:      "read",
				Usage:     "Mark a notification as read",
				ArgsUsage: "<notification-id>",
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					id, err := argID(c, 0, "notification-id")
					if err != nil {
						return err
					}
					if err := rt.uc.Notification.MarkRead(ctx, id); err != nil {
						return err
					}
					return rt.out.Success(map[string]model.ID{"read": id}, "Notification #%s marked as read", id)
				}),
			},
			{
				Name:  "read-all",
				Usage: "Mark every notification as read",
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					if err := rt.uc.Notification.MarkAllRead(ctx); err != nil {
						return err
					}
					return rt.out.Success(map[string]bool{"read_all": true}, "All notifications marked as read")
				}),
			},
		},
	}
}

package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func threadState(t *model.Thread) string {
	if t.IsClosed {
		return "closed"
	}
	return "open"
}

type threadView struct {
	Thread   *model.Thread    `json:"thread"`
	Messages []*model.Message `json:"messages"`
	HasMore  bool             `json:"has_more"`
	Marked   int              `json:"marked_read"`
}

func printThread(out *printer, view threadView, viewerID model.ID) error {
	if out.jsonMode {
		return out.JSON(view)
	}

	if view.Thread != nil {
		fmt.Fprintln(out.w, color.New(color.Bold).Sprintf("%s (#%s)", view.Thread.Subject, view.Thread.ID))
	}
	if view.HasMore {
		fmt.Fprintln(out.w, color.New(color.Faint).Sprint("… older messages available (--pages)"))
	}
	for _, m := range view.Messages {
		sender := m.Sender.Display()
		if m.Sender.ID == viewerID {
			sender = color.CyanString("you")
		}
		marker := " "
		if !m.IsRead && m.Sender.ID != viewerID {
			marker = color.YellowString("•")
		}
		fmt.Fprintf(out.w, "%s %s  %s: %s\n", marker, timestamp(m.CreatedAt), sender, m.Content)
	}
	return nil
}

func cmdMessage(g *globalConfig) *cli.Command {
	var filter listFilter
	var pages int
	var markRead bool
	var to []string
	var subject, body string

	return &cli.Command{
		Name:    "message",
		Aliases: []string{"messages", "msg"},
		Usage:   "Threads and messages",
		Commands: []*cli.Command{
			{
				Name:  "threads",
				Usage: "List message threads (--status open|closed)",
				Flags: filter.Flags(),
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					threads, err := rt.uc.Messaging.FetchThreads(ctx)
					if err != nil {
						return err
					}
					threads = applyFilter(threads, &filter, threadState)
					rows := make([][]string, 0, len(threads))
					for _, t := range threads {
						last := ""
						if t.LastMessage != nil {
							last = truncate(t.LastMessage.Content, 40)
						}
						unread := fmt.Sprint(t.UnreadCount)
						if t.UnreadCount > 0 {
							unread = color.YellowString(unread)
						}
						rows = append(rows, []string{
							string(t.ID), truncate(t.Subject, 30), status(threadState(t)), unread, last, timestamp(t.UpdatedAt),
						})
					}
					if !rt.out.jsonMode {
						fmt.Fprintf(rt.out.w, "%d unread\n", rt.uc.Messaging.TotalUnread())
					}
					return rt.out.Table(threads, []string{"ID", "SUBJECT", "STATE", "UNREAD", "LAST MESSAGE", "UPDATED"}, rows)
				}),
			},
			{
				Name:      "show",
				Usage:     "Show the messages of a thread",
				ArgsUsage: "<thread-id>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "pages", Value: 1, Usage: "Number of pages to load, newest first", Destination: &pages},
					&cli.BoolFlag{Name: "mark-read", Usage: "Mark the shown messages as read", Destination: &markRead},
				},
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					id, err := argID(c, 0, "thread-id")
					if err != nil {
						return err
					}
					if _, err := rt.uc.Messaging.FetchThreads(ctx); err != nil {
						return err
					}

					msgs := rt.uc.Messaging
					msgs.OpenThread(id)
					defer msgs.CloseThread(id)

					if _, err := msgs.FetchMessages(ctx, id); err != nil {
						return err
					}
					for i := 1; i < pages; i++ {
						more, err := msgs.LoadMoreMessages(ctx, id)
						if err != nil {
							return err
						}
						if !more {
							break
						}
					}

					view := threadView{Thread: msgs.Thread(id)}
					if markRead {
						if view.Marked, err = msgs.MarkVisibleRead(ctx, id); err != nil {
							return err
						}
					}
					view.Messages = msgs.Messages(id)
					view.HasMore = msgs.HasMore(id)

					var viewerID model.ID
					if session, err := rt.uc.Auth.Session(ctx); err == nil && session.User != nil {
						viewerID = session.User.ID
					}
					return printThread(rt.out, view, viewerID)
				}),
			},
			{
				Name:      "send",
				Usage:     "Send a message to a thread",
				ArgsUsage: "<thread-id> <text...>",
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					id, err := argID(c, 0, "thread-id")
					if err != nil {
						return err
					}
					// closed threads are refused locally, so the thread list must be known
					if _, err := rt.uc.Messaging.FetchThreads(ctx); err != nil {
						return err
					}
					m, err := rt.uc.Messaging.SendMessage(ctx, id, restArgs(c, 1))
					if err != nil {
						return err
					}
					return rt.out.Success(m, "Sent message #%s", m.ID)
				}),
			},
			{
				Name:  "new",
				Usage: "Start a new thread",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "to", Required: true, Usage: "Participant user IDs", Destination: &to},
					&cli.StringFlag{Name: "subject", Required: true, Destination: &subject},
					&cli.StringFlag{Name: "message", Aliases: []string{"m"}, Required: true, Destination: &body},
				},
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					input := &model.ThreadInput{Subject: subject, Message: body}
					for _, id := range to {
						input.ParticipantIDs = append(input.ParticipantIDs, model.ID(id))
					}
					t, err := rt.uc.Messaging.CreateThread(ctx, input)
					if err != nil {
						return err
					}
					return rt.out.Success(t, "Started thread #%s %q", t.ID, t.Subject)
				}),
			},
			{
				Name:      "read",
				Usage:     "Mark the latest page of a thread as read",
				ArgsUsage: "<thread-id>",
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					id, err := argID(c, 0, "thread-id")
					if err != nil {
						return err
					}
					if _, err := rt.uc.Messaging.FetchThreads(ctx); err != nil {
						return err
					}
					if _, err := rt.uc.Messaging.FetchMessages(ctx, id); err != nil {
						return err
					}
					n, err := rt.uc.Messaging.MarkVisibleRead(ctx, id)
					if err != nil {
						return err
					}
					return rt.out.Success(map[string]int{"marked": n, "total_unread": rt.uc.Messaging.TotalUnread()},
						"Marked %d messages as read, %d unread left", n, rt.uc.Messaging.TotalUnread())
				}),
			},
		},
	}
}

package cli

import (
	"context"

	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/preceptor-dev/preceptor/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

func printSessions(out *printer, items []*model.Session) error {
	rows := make([][]string, 0, len(items))
	for _, s := range items {
		rows = append(rows, []string{
			string(s.ID), caseRef(s.Case), ref(s.Student), status(string(s.Status)),
			truncate(s.Notes, 40), timestamp(s.UpdatedAt),
		})
	}
	return out.Table(items, []string{"ID", "CASE", "STUDENT", "STATUS", "NOTES", "UPDATED"}, rows)
}

func printSession(out *printer, s *model.Session) error {
	return out.Record(s, [][2]string{
		{"ID", string(s.ID)},
		{"Case", caseRef(s.Case)},
		{"Student", ref(s.Student)},
		{"Status", status(string(s.Status))},
		{"Created", timestamp(s.CreatedAt)},
		{"Updated", timestamp(s.UpdatedAt)},
		{"Notes", s.Notes},
		{"Feedback", s.SupervisorFeedback},
	})
}

func cmdSession(g *globalConfig) *cli.Command {
	var filter listFilter
	var caseID, feedback string
	var reject bool

	return &cli.Command{
		Name:    "session",
		Aliases: []string{"sessions"},
		Usage:   "Review clinical sessions",
		Commands: []*cli.Command{
			{
				Name:  "queue",
				Usage: "List sessions waiting for review",
				Flags: filter.Flags(),
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					items, err := rt.uc.Session.FetchSessionsNeedingReview(ctx, filter.Options()...)
					if err != nil {
						return err
					}
					return printSessions(rt.out, applyFilter(items, &filter, func(s *model.Session) string { return string(s.Status) }))
				}),
			},
			{
				Name:  "list",
				Usage: "List the sessions of a case",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "case-id", Required: true, Destination: &caseID},
				},
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					items, err := rt.uc.Session.FetchCaseSessions(ctx, model.ID(caseID))
					if err != nil {
						return err
					}
					return printSessions(rt.out, items)
				}),
			},
			{
				Name:      "show",
				Usage:     "Show a session with its review",
				ArgsUsage: "<session-id>",
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					id, err := argID(c, 0, "session-id")
					if err != nil {
						return err
					}
					s, err := rt.uc.Session.FetchSessionReview(ctx, id)
					if err != nil {
						return err
					}
					return printSession(rt.out, s)
				}),
			},
			{
				Name:      "review",
				Usage:     "Approve a session, or reject it with feedback",
				ArgsUsage: "<session-id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "reject", Usage: "Reject instead of approve", Destination: &reject},
					&cli.StringFlag{Name: "feedback", Aliases: []string{"m"}, Usage: "Feedback for the student (required to reject)", Destination: &feedback},
				},
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					id, err := argID(c, 0, "session-id")
					if err != nil {
						return err
					}
					decision := types.ReviewDecisionApprove
					if reject {
						decision = types.ReviewDecisionReject
					}
					s, err := rt.uc.Session.ReviewSession(ctx, id, decision, feedback)
					if err != nil {
						return err
					}
					return rt.out.Success(s, "Session #%s is now %s", s.ID, s.Status)
				}),
			},
		},
	}
}

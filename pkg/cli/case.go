package cli

import (
	"context"
	"fmt"

	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func caseInputFlags(input *model.CaseInput) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title", Usage: "Case title", Destination: &input.Title},
		&cli.StringFlag{Name: "description", Usage: "Case description", Destination: &input.Description},
		&cli.StringFlag{Name: "priority", Usage: "low, medium, high or urgent", Destination: &input.Priority},
		&cli.StringFlag{Name: "patient-id", Usage: "Patient user ID", Destination: (*string)(&input.PatientID)},
		&cli.StringFlag{Name: "student-id", Usage: "Student user ID", Destination: (*string)(&input.StudentID)},
		&cli.BoolFlag{Name: "public", Usage: "Share the case with the community"},
	}
}

func printCases(out *printer, cases []*model.Case) error {
	rows := make([][]string, 0, len(cases))
	for _, c := range cases {
		rows = append(rows, []string{
			string(c.ID), truncate(c.Title, 40), status(string(c.Status)), status(string(c.Priority)),
			ref(c.Patient), ref(c.Student), timestamp(c.UpdatedAt),
		})
	}
	return out.Table(cases, []string{"ID", "TITLE", "STATUS", "PRIORITY", "PATIENT", "STUDENT", "UPDATED"}, rows)
}

func printCase(out *printer, c *model.Case) error {
	return out.Record(c, [][2]string{
		{"ID", string(c.ID)},
		{"Title", c.Title},
		{"Status", status(string(c.Status))},
		{"Priority", string(c.Priority)},
		{"Patient", ref(c.Patient)},
		{"Student", ref(c.Student)},
		{"Supervisor", ref(c.Supervisor)},
		{"Public", yesNo(c.IsPublic)},
		{"Created", timestamp(c.CreatedAt)},
		{"Updated", timestamp(c.UpdatedAt)},
		{"Description", c.Description},
	})
}

func cmdCase(g *globalConfig) *cli.Command {
	var filter listFilter
	var createInput, updateInput model.CaseInput
	var response string
	var reject bool

	return &cli.Command{
		Name:    "case",
		Aliases: []string{"cases"},
		Usage:   "Manage clinical cases",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List cases",
				Flags: filter.Flags(),
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					cases, err := rt.uc.Case.FetchCases(ctx, filter.Options()...)
					if err != nil {
						return err
					}
					return printCases(rt.out, applyFilter(cases, &filter, func(c *model.Case) string { return string(c.Status) }))
				}),
			},
			{
				Name:      "show",
				Usage:     "Show a case",
				ArgsUsage: "<case-id>",
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					id, err := argID(c, 0, "case-id")
					if err != nil {
						return err
					}
					cs, err := rt.uc.Case.FetchCase(ctx, id)
					if err != nil {
						return err
					}
					return printCase(rt.out, cs)
				}),
			},
			{
				Name:  "create",
				Usage: "Create a case",
				Flags: caseInputFlags(&createInput),
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					createInput.IsPublic = optionalBool(c, "public")
					cs, err := rt.uc.Case.CreateCase(ctx, &createInput)
					if err != nil {
						return err
					}
					return rt.out.Success(cs, "Created case #%s %q", cs.ID, cs.Title)
				}),
			},
			{
				Name:      "update",
				Usage:     "Update a case",
				ArgsUsage: "<case-id>",
				Flags: append(caseInputFlags(&updateInput),
					&cli.StringFlag{Name: "set-status", Usage: "New status", Destination: &updateInput.Status},
				),
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					id, err := argID(c, 0, "case-id")
					if err != nil {
						return err
					}
					updateInput.IsPublic = optionalBool(c, "public")
					cs, err := rt.uc.Case.UpdateCase(ctx, id, &updateInput)
					if err != nil {
						return err
					}
					return rt.out.Success(cs, "Updated case #%s (%s)", cs.ID, cs.Status)
				}),
			},
			{
				Name:      "history",
				Usage:     "Show the status history of a case",
				ArgsUsage: "<case-id>",
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					id, err := argID(c, 0, "case-id")
					if err != nil {
						return err
					}
					entries, err := rt.uc.Case.FetchCaseHistory(ctx, id)
					if err != nil {
						return err
					}
					rows := make([][]string, 0, len(entries))
					for _, e := range entries {
						rows = append(rows, []string{
							timestamp(e.CreatedAt), e.Action,
							fmt.Sprintf("%s → %s", e.FromStatus, e.ToStatus),
							ref(e.Actor), truncate(e.Note, 50),
						})
					}
					return rt.out.Table(entries, []string{"WHEN", "ACTION", "STATUS", "BY", "NOTE"}, rows)
				}),
			},
			{
				Name:  "requests",
				Usage: "List assignment requests",
				Flags: filter.Flags(),
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					reqs, err := rt.uc.Case.FetchAssignmentRequests(ctx, filter.Options()...)
					if err != nil {
						return err
					}
					reqs = applyFilter(reqs, &filter, func(r *model.AssignmentRequest) string { return string(r.Status) })
					rows := make([][]string, 0, len(reqs))
					for _, r := range reqs {
						rows = append(rows, []string{
							string(r.ID), caseRef(r.Case), ref(r.Student), status(string(r.Status)),
							truncate(r.Message, 40), timestamp(r.CreatedAt),
						})
					}
					return rt.out.Table(reqs, []string{"ID", "CASE", "STUDENT", "STATUS", "MESSAGE", "CREATED"}, rows)
				}),
			},
			{
				Name:      "respond",
				Usage:     "Accept or reject a pending assignment request",
				ArgsUsage: "<request-id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "reject", Usage: "Reject instead of accept", Destination: &reject},
					&cli.StringFlag{Name: "response", Aliases: []string{"m"}, Usage: "Message to the student", Destination: &response},
				},
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					id, err := argID(c, 0, "request-id")
					if err != nil {
						return err
					}
					req, err := rt.uc.Case.RespondAssignmentRequest(ctx, id, !reject, response)
					if err != nil {
						return err
					}
					return rt.out.Success(req, "Assignment request #%s %s", req.ID, req.Status)
				}),
			},
		},
	}
}

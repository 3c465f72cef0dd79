package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/preceptor-dev/preceptor/pkg/usecase"
	"github.com/urfave/cli/v3"
)

type reportFlags struct {
	input       model.ReportInput
	content     string
	contentFile string
}

func (f *reportFlags) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "type", Usage: "Report type", Destination: &f.input.ReportType},
		&cli.StringFlag{Name: "title", Destination: &f.input.Title},
		&cli.StringFlag{Name: "description", Destination: &f.input.Description},
		&cli.StringFlag{Name: "target-type", Destination: &f.input.TargetType},
		&cli.StringFlag{Name: "target-id", Destination: (*string)(&f.input.TargetID)},
		&cli.StringFlag{Name: "content", Usage: "Report content as JSON", Destination: &f.content},
		&cli.StringFlag{Name: "content-file", Usage: "Read report content JSON from a file", Destination: &f.contentFile},
	}
}

func (f *reportFlags) Input() (*model.ReportInput, error) {
	raw := []byte(f.content)
	if f.contentFile != "" {
		// #nosec G304 - path is provided by CLI argument
		data, err := os.ReadFile(f.contentFile)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read content file", goerr.V("path", f.contentFile))
		}
		raw = data
	}
	if len(raw) > 0 {
		if !json.Valid(raw) {
			return nil, goerr.Wrap(usecase.ErrInvalidInput, "report content must be valid JSON")
		}
		f.input.Content = json.RawMessage(raw)
	}
	return &f.input, nil
}

func printReports(out *printer, items []*model.Report) error {
	rows := make([][]string, 0, len(items))
	for _, r := range items {
		rows = append(rows, []string{
			string(r.ID), r.ReportType, truncate(r.Title, 40), status(string(r.Status)), timestamp(r.UpdatedAt),
		})
	}
	return out.Table(items, []string{"ID", "TYPE", "TITLE", "STATUS", "UPDATED"}, rows)
}

func printReport(out *printer, r *model.Report) error {
	return out.Record(r, [][2]string{
		{"ID", string(r.ID)},
		{"Type", r.ReportType},
		{"Title", r.Title},
		{"Status", status(string(r.Status))},
		{"Target", string(r.TargetType) + " " + string(r.TargetID)},
		{"Description", r.Description},
		{"Review", r.ReviewComment},
		{"Content", string(r.Content)},
	})
}

func cmdReport(g *globalConfig) *cli.Command {
	var filter listFilter
	var create, update reportFlags
	var comment, reason string

	reportAction := func(op func(ctx context.Context, rt *runtime, id model.ID) (*model.Report, error), verb string) cli.ActionFunc {
		return withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
			id, err := argID(c, 0, "report-id")
			if err != nil {
				return err
			}
			r, err := op(ctx, rt, id)
			if err != nil {
				return err
			}
			return rt.out.Success(r, "%s report #%s (%s)", verb, r.ID, r.Status)
		})
	}

	return &cli.Command{
		Name:    "report",
		Aliases: []string{"reports"},
		Usage:   "Manage reports",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List reports",
				Flags: filter.Flags(),
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					items, err := rt.uc.Report.FetchReports(ctx, filter.Options()...)
					if err != nil {
						return err
					}
					return printReports(rt.out, applyFilter(items, &filter, func(r *model.Report) string { return string(r.Status) }))
				}),
			},
			{
				Name:      "show",
				Usage:     "Show a report",
				ArgsUsage: "<report-id>",
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					id, err := argID(c, 0, "report-id")
					if err != nil {
						return err
					}
					r, err := rt.uc.Report.FetchReport(ctx, id)
					if err != nil {
						return err
					}
					return printReport(rt.out, r)
				}),
			},
			{
				Name:  "create",
				Usage: "Create a draft report",
				Flags: create.Flags(),
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					input, err := create.Input()
					if err != nil {
						return err
					}
					r, err := rt.uc.Report.CreateReport(ctx, input)
					if err != nil {
						return err
					}
					return rt.out.Success(r, "Created report #%s", r.ID)
				}),
			},
			{
				Name:      "update",
				Usage:     "Edit a draft or rejected report",
				ArgsUsage: "<report-id>",
				Flags:     update.Flags(),
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					id, err := argID(c, 0, "report-id")
					if err != nil {
						return err
					}
					input, err := update.Input()
					if err != nil {
						return err
					}
					r, err := rt.uc.Report.UpdateReport(ctx, id, input)
					if err != nil {
						return err
					}
					return rt.out.Success(r, "Updated report #%s", r.ID)
				}),
			},
			{
				Name:      "submit",
				Usage:     "Submit a report for review",
				ArgsUsage: "<report-id>",
				Action: reportAction(func(ctx context.Context, rt *runtime, id model.ID) (*model.Report, error) {
					return rt.uc.Report.SubmitReport(ctx, id)
				}, "Submitted"),
			},
			{
				Name:      "approve",
				Usage:     "Approve a submitted report",
				ArgsUsage: "<report-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "comment", Aliases: []string{"m"}, Destination: &comment},
				},
				Action: reportAction(func(ctx context.Context, rt *runtime, id model.ID) (*model.Report, error) {
					return rt.uc.Report.ApproveReport(ctx, id, comment)
				}, "Approved"),
			},
			{
				Name:      "reject",
				Usage:     "Reject a submitted report with a reason",
				ArgsUsage: "<report-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "reason", Aliases: []string{"m"}, Destination: &reason},
				},
				Action: reportAction(func(ctx context.Context, rt *runtime, id model.ID) (*model.Report, error) {
					return rt.uc.Report.RejectReport(ctx, id, reason)
				}, "Rejected"),
			},
			{
				Name:      "export",
				Usage:     "Export report content to --export-dir or --export-gcs-bucket",
				ArgsUsage: "<report-id>",
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					id, err := argID(c, 0, "report-id")
					if err != nil {
						return err
					}
					location, err := rt.uc.Report.ExportReport(ctx, id)
					if err != nil {
						return err
					}
					return rt.out.Success(map[string]string{"location": location}, "Exported report #%s to %s", id, location)
				}),
			},
		},
	}
}

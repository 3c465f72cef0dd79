package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/preceptor-dev/preceptor/pkg/usecase"
	"github.com/urfave/cli/v3"
)

type evaluationFlags struct {
	input  model.EvaluationInput
	score  float64
	rubric string
}

func (f *evaluationFlags) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "target-type", Usage: "case, session or appointment", Destination: &f.input.TargetType},
		&cli.StringFlag{Name: "target-id", Destination: (*string)(&f.input.TargetID)},
		&cli.FloatFlag{Name: "score", Usage: "Score from 0 to 100", Destination: &f.score},
		&cli.StringFlag{Name: "rubric", Usage: "Rubric as a JSON object", Destination: &f.rubric},
		&cli.StringFlag{Name: "comment", Destination: &f.input.Comment},
	}
}

func (f *evaluationFlags) Input(c *cli.Command) (*model.EvaluationInput, error) {
	if c.IsSet("score") {
		s := f.score
		f.input.Score = &s
	}
	if f.rubric != "" {
		if err := json.Unmarshal([]byte(f.rubric), &f.input.Rubric); err != nil {
			return nil, goerr.Wrap(usecase.ErrInvalidInput, "rubric must be a JSON object", goerr.V("error", err.Error()))
		}
	}
	return &f.input, nil
}

func printEvaluations(out *printer, items []*model.Evaluation) error {
	rows := make([][]string, 0, len(items))
	for _, e := range items {
		rows = append(rows, []string{
			string(e.ID), fmt.Sprintf("%s #%s", e.TargetType, e.TargetID), ref(e.Student),
			status(string(e.Status)), score(e.Score), fmt.Sprint(len(e.Adjustments)), timestamp(e.UpdatedAt),
		})
	}
	return out.Table(items, []string{"ID", "TARGET", "STUDENT", "STATUS", "SCORE", "ADJ", "UPDATED"}, rows)
}

func printEvaluation(out *printer, e *model.Evaluation) error {
	if err := out.Record(e, [][2]string{
		{"ID", string(e.ID)},
		{"Target", fmt.Sprintf("%s #%s", e.TargetType, e.TargetID)},
		{"Student", ref(e.Student)},
		{"Status", status(string(e.Status))},
		{"Score", score(e.Score)},
		{"Original score", score(e.OriginalScore)},
		{"Final score", score(e.FinalScore)},
		{"Comment", e.Comment},
	}); err != nil || out.jsonMode || len(e.Adjustments) == 0 {
		return err
	}

	fmt.Fprintln(out.w)
	rows := make([][]string, 0, len(e.Adjustments))
	for _, a := range e.Adjustments {
		rows = append(rows, []string{
			timestamp(a.AdjustedAt), fmt.Sprintf("%s → %s", score(&a.OldScore), score(&a.NewScore)), a.Reason,
		})
	}
	return out.Table(e.Adjustments, []string{"ADJUSTED", "SCORE", "REASON"}, rows)
}

func cmdEvaluation(g *globalConfig) *cli.Command {
	var filter listFilter
	var create, update evaluationFlags
	var newScore float64
	var reason string

	idAction := func(op func(ctx context.Context, rt *runtime, id model.ID) (*model.Evaluation, error), verb string) cli.ActionFunc {
		return withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
			id, err := argID(c, 0, "evaluation-id")
			if err != nil {
				return err
			}
			e, err := op(ctx, rt, id)
			if err != nil {
				return err
			}
			return rt.out.Success(e, "%s evaluation #%s (%s)", verb, e.ID, e.Status)
		})
	}

	return &cli.Command{
		Name:    "evaluation",
		Aliases: []string{"evaluations", "eval"},
		Usage:   "Manage evaluations and score adjustments",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List evaluations",
				Flags: filter.Flags(),
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					items, err := rt.uc.Evaluation.FetchEvaluations(ctx, filter.Options()...)
					if err != nil {
						return err
					}
					return printEvaluations(rt.out, applyFilter(items, &filter, func(e *model.Evaluation) string { return string(e.Status) }))
				}),
			},
			{
				Name:      "show",
				Usage:     "Show an evaluation with its adjustment log",
				ArgsUsage: "<evaluation-id>",
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					id, err := argID(c, 0, "evaluation-id")
					if err != nil {
						return err
					}
					e, err := rt.uc.Evaluation.FetchEvaluation(ctx, id)
					if err != nil {
						return err
					}
					return printEvaluation(rt.out, e)
				}),
			},
			{
				Name:  "create",
				Usage: "Create a draft evaluation",
				Flags: create.Flags(),
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					input, err := create.Input(c)
					if err != nil {
						return err
					}
					e, err := rt.uc.Evaluation.CreateEvaluation(ctx, input)
					if err != nil {
						return err
					}
					return rt.out.Success(e, "Created evaluation #%s", e.ID)
				}),
			},
			{
				Name:      "update",
				Usage:     "Edit an evaluation that is not finalized",
				ArgsUsage: "<evaluation-id>",
				Flags:     update.Flags(),
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					id, err := argID(c, 0, "evaluation-id")
					if err != nil {
						return err
					}
					input, err := update.Input(c)
					if err != nil {
						return err
					}
					e, err := rt.uc.Evaluation.UpdateEvaluation(ctx, id, input)
					if err != nil {
						return err
					}
					return rt.out.Success(e, "Updated evaluation #%s", e.ID)
				}),
			},
			{
				Name:      "submit",
				Usage:     "Submit a draft evaluation",
				ArgsUsage: "<evaluation-id>",
				Action: idAction(func(ctx context.Context, rt *runtime, id model.ID) (*model.Evaluation, error) {
					return rt.uc.Evaluation.SubmitEvaluation(ctx, id)
				}, "Submitted"),
			},
			{
				Name:      "adjust",
				Usage:     "Adjust the score of a submitted evaluation",
				ArgsUsage: "<evaluation-id>",
				Flags: []cli.Flag{
					&cli.FloatFlag{Name: "score", Required: true, Usage: "New score", Destination: &newScore},
					&cli.StringFlag{Name: "reason", Aliases: []string{"m"}, Required: true, Usage: "Why the score changes", Destination: &reason},
				},
				Action: idAction(func(ctx context.Context, rt *runtime, id model.ID) (*model.Evaluation, error) {
					return rt.uc.Evaluation.AdjustEvaluation(ctx, id, newScore, reason)
				}, "Adjusted"),
			},
			{
				Name:      "finalize",
				Usage:     "Finalize an evaluation; it cannot be edited afterwards",
				ArgsUsage: "<evaluation-id>",
				Action: idAction(func(ctx context.Context, rt *runtime, id model.ID) (*model.Evaluation, error) {
					return rt.uc.Evaluation.FinalizeEvaluation(ctx, id)
				}, "Finalized"),
			},
			{
				Name:      "rating",
				Usage:     "Show the average rating of a student",
				ArgsUsage: "<student-id>",
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					id, err := argID(c, 0, "student-id")
					if err != nil {
						return err
					}
					r, err := rt.uc.Evaluation.FetchStudentRating(ctx, id)
					if err != nil {
						return err
					}
					return rt.out.Record(r, [][2]string{
						{"Student", string(r.StudentID)},
						{"Average", fmt.Sprintf("%.1f", r.AverageScore)},
						{"Evaluations", fmt.Sprint(r.EvaluationCount)},
					})
				}),
			},
		},
	}
}

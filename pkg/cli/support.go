package cli

import (
	"context"

	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func cmdSupport(g *globalConfig) *cli.Command {
	var input model.TicketInput

	return &cli.Command{
		Name:  "support",
		Usage: "Contact platform support",
		Commands: []*cli.Command{
			{
				Name:  "ticket",
				Usage: "Open a support ticket",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "subject", Required: true, Destination: &input.Subject},
					&cli.StringFlag{Name: "message", Aliases: []string{"m"}, Required: true, Destination: &input.Message},
					&cli.StringFlag{Name: "category", Destination: &input.Category},
					&cli.StringFlag{Name: "priority", Usage: "low, medium, high or urgent", Destination: &input.Priority},
				},
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					t, err := rt.uc.Support.CreateTicket(ctx, &input)
					if err != nil {
						return err
					}
					return rt.out.Success(t, "Opened support ticket #%s", t.ID)
				}),
			},
		},
	}
}

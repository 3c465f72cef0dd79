package cli

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/preceptor-dev/preceptor/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// argID returns the n-th positional argument as an ID
func argID(c *cli.Command, n int, name string) (model.ID, error) {
	v := strings.TrimSpace(c.Args().Get(n))
	if v == "" {
		return "", goerr.Wrap(usecase.ErrInvalidInput, "missing argument", goerr.V("argument", name))
	}
	return model.ID(v), nil
}

// restArgs joins the positional arguments from n on
func restArgs(c *cli.Command, n int) string {
	args := c.Args().Slice()
	if len(args) <= n {
		return ""
	}
	return strings.Join(args[n:], " ")
}

func optionalBool(c *cli.Command, name string) *bool {
	if !c.IsSet(name) {
		return nil
	}
	v := c.Bool(name)
	return &v
}

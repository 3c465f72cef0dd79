package cli

import (
	"strings"

	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// listFilter holds --query and --status of list commands
type listFilter struct {
	query  string
	status string
}

func (f *listFilter) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "query",
			Aliases:     []string{"q"},
			Usage:       "Case-insensitive text search",
			Destination: &f.query,
		},
		&cli.StringFlag{
			Name:        "status",
			Usage:       "Only show items with this status",
			Destination: &f.status,
		},
	}
}

// Options forwards the status filter to the server
func (f *listFilter) Options() []interfaces.ListOption {
	return []interfaces.ListOption{interfaces.WithStatus(f.status)}
}

func applyFilter[T model.Searchable](items []T, f *listFilter, statusOf func(T) string) []T {
	var pred func(T) bool
	if f.status != "" {
		pred = func(item T) bool {
			return strings.EqualFold(statusOf(item), f.status)
		}
	}
	return model.Filter(items, f.query, pred)
}

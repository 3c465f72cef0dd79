package cli

import (
	"io"

	"github.com/preceptor-dev/preceptor/pkg/domain/model"
)

var (
	TokenExpiry   = tokenExpiry
	DescribeError = describeError
	ParseTime     = parseTime
	Truncate      = truncate
)

type Printer = printer

func NewPrinter(w io.Writer, jsonMode bool) *Printer {
	return newPrinter(w, jsonMode)
}

type ListFilter = listFilter

func NewListFilter(query, status string) *ListFilter {
	return &listFilter{query: query, status: status}
}

func ApplyFilter[T model.Searchable](items []T, f *ListFilter, statusOf func(T) string) []T {
	return applyFilter(items, f, statusOf)
}

package interfaces

import (
	"net/url"
	"strconv"
)

// ListOption is a functional option for filtering list endpoints
type ListOption func(*listConfig)

type listConfig struct {
	values url.Values
}

// WithStatus filters by the record's status
func WithStatus(status string) ListOption {
	return WithParam("status", status)
}

// WithSearch asks the backend to narrow the result with a free-text query
func WithSearch(query string) ListOption {
	return WithParam("search", query)
}

// WithPageSize limits the number of returned items
func WithPageSize(n int) ListOption {
	return func(c *listConfig) {
		if n > 0 {
			c.values.Set("page_size", strconv.Itoa(n))
		}
	}
}

// WithParam sets an arbitrary query parameter. Empty values are ignored.
func WithParam(key, value string) ListOption {
	return func(c *listConfig) {
		if value != "" {
			c.values.Set(key, value)
		}
	}
}

// BuildListQuery builds the query string values from options
func BuildListQuery(opts ...ListOption) url.Values {
	cfg := &listConfig{values: url.Values{}}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg.values
}

package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// FallbackMessage is shown when no server-provided message is available
const FallbackMessage = "Something went wrong. Please try again."

var (
	ErrSessionExpired = goerr.New("session expired, please run `preceptor login`")
	ErrNetwork        = goerr.New("network error")
	ErrDecodeResponse = goerr.New("failed to decode response")
)

// Error is a non-2xx response of the platform
type Error struct {
	StatusCode int
	Message    string
	Detail     string
	Errors     ErrorDetail
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.UserMessage())
}

// UserMessage flattens every shape of the backend error into one display string
func (e *Error) UserMessage() string {
	var parts []string

	switch {
	case e.Message != "":
		parts = append(parts, e.Message)
	case e.Detail != "":
		parts = append(parts, e.Detail)
	}

	if flat := e.Errors.Flatten(); flat != "" && (len(parts) == 0 || flat != parts[0]) {
		parts = append(parts, flat)
	}

	if len(parts) == 0 {
		return FallbackMessage
	}
	return strings.Join(parts, ": ")
}

// UserMessage returns the best message available for err
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}

	if errors.Is(err, ErrSessionExpired) {
		return "Your session has expired. Please log in again."
	}
	return FallbackMessage
}

// IsStatus reports whether err is an API error with the given status code
func IsStatus(err error, code int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// ErrorDetail is the backend's `errors` field: a string, a list of strings,
// or a map of field name to list of strings. Only one of the fields is set.
type ErrorDetail struct {
	Text   string
	List   []string
	Fields map[string][]string
}

func (d ErrorDetail) IsZero() bool {
	return d.Text == "" && len(d.List) == 0 && len(d.Fields) == 0
}

func (d *ErrorDetail) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*d = ErrorDetail{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		return json.Unmarshal(data, &d.Text)

	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		for _, item := range items {
			d.List = append(d.List, flattenRaw(item)...)
		}
		return nil

	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			return err
		}
		d.Fields = make(map[string][]string, len(fields))
		for k, v := range fields {
			if msgs := flattenRaw(v); len(msgs) > 0 {
				d.Fields[k] = msgs
			}
		}
		return nil

	default:
		d.Text = string(data)
		return nil
	}
}

// Flatten renders the detail as one string. Field errors are sorted by field
// name; non-field keys are printed without a prefix.
func (d ErrorDetail) Flatten() string {
	switch {
	case d.Text != "":
		return d.Text
	case len(d.List) > 0:
		return strings.Join(d.List, " ")
	case len(d.Fields) > 0:
		keys := make([]string, 0, len(d.Fields))
		for k := range d.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			msg := strings.Join(d.Fields[k], " ")
			if k == "non_field_errors" || k == "detail" || k == "__all__" {
				parts = append(parts, msg)
				continue
			}
			parts = append(parts, k+": "+msg)
		}
		return strings.Join(parts, "; ")
	default:
		return ""
	}
}

func flattenRaw(raw json.RawMessage) []string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return []string{s}
		}
		return nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil
		}
		var out []string
		for _, item := range items {
			out = append(out, flattenRaw(item)...)
		}
		return out
	case '{':
		var nested ErrorDetail
		if err := nested.UnmarshalJSON(raw); err != nil {
			return nil
		}
		if flat := nested.Flatten(); flat != "" {
			return []string{flat}
		}
		return nil
	case 'n':
		return nil
	default:
		return []string{string(raw)}
	}
}

type errorBody struct {
	Message string      `json:"message"`
	Detail  ErrorDetail `json:"detail"`
	Error   string      `json:"error"`
	Errors  ErrorDetail `json:"errors"`
}

// parseError builds an *Error from a non-2xx response body. Bodies that are
// a bare map of field errors (no message, detail or errors keys) are decoded
// as field errors.
func parseError(status int, body []byte) *Error {
	apiErr := &Error{StatusCode: status}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return apiErr
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		// Non-JSON bodies such as proxy error pages carry no useful message
		var detail ErrorDetail
		if (body[0] == '[' || body[0] == '{') && detail.UnmarshalJSON(body) == nil {
			apiErr.Errors = detail
		}
		return apiErr
	}

	apiErr.Message = eb.Message
	if apiErr.Message == "" {
		apiErr.Message = eb.Error
	}
	apiErr.Detail = eb.Detail.Flatten()
	apiErr.Errors = eb.Errors

	if apiErr.Message == "" && apiErr.Detail == "" && apiErr.Errors.IsZero() && body[0] == '{' {
		var fields ErrorDetail
		if err := fields.UnmarshalJSON(body); err == nil {
			apiErr.Errors = fields
		}
	}
	return apiErr
}

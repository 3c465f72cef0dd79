package api_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/preceptor-dev/preceptor/pkg/service/api"
)

func TestErrorDetail_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "string", raw: `"Invalid credentials"`, want: "Invalid credentials"},
		{name: "list", raw: `["Too short.", "Too common."]`, want: "Too short. Too common."},
		{name: "field map", raw: `{"title": ["This field is required."], "priority": ["Not a valid choice."]}`, want: "priority: Not a valid choice.; title: This field is required."},
		{name: "non field errors", raw: `{"non_field_errors": ["Unable to log in."]}`, want: "Unable to log in."},
		{name: "field with string value", raw: `{"email": "Enter a valid email."}`, want: "email: Enter a valid email."},
		{name: "nested", raw: `{"rubric": {"clarity": ["Must be <= 5."]}}`, want: "rubric: clarity: Must be <= 5."},
		{name: "null", raw: `null`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d api.ErrorDetail
			gt.NoError(t, json.Unmarshal([]byte(tt.raw), &d)).Required()
			gt.S(t, d.Flatten()).Equal(tt.want)
		})
	}
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "message", body: `{"message": "Case is closed"}`, want: "Case is closed"},
		{name: "detail", body: `{"detail": "Authentication credentials were not provided."}`, want: "Authentication credentials were not provided."},
		{name: "message and errors", body: `{"message": "Validation failed", "errors": {"title": ["Required."]}}`, want: "Validation failed: title: Required."},
		{name: "bare field map", body: `{"email": ["Enter a valid email address."]}`, want: "email: Enter a valid email address."},
		{name: "bare list", body: `["Something broke."]`, want: "Something broke."},
		{name: "error key", body: `{"error": "Rate limited"}`, want: "Rate limited"},
		{name: "empty body", body: ``, want: api.FallbackMessage},
		{name: "html body", body: `<html>502 Bad Gateway</html>`, want: api.FallbackMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := api.ParseError(http.StatusBadRequest, []byte(tt.body))
			gt.Number(t, apiErr.StatusCode).Equal(http.StatusBadRequest)
			gt.S(t, apiErr.UserMessage()).Equal(tt.want)
		})
	}
}

func TestUserMessage(t *testing.T) {
	apiErr := &api.Error{StatusCode: 409, Message: "Already finalized"}
	wrapped := goerr.Wrap(apiErr, "failed to update evaluation")

	gt.S(t, api.UserMessage(wrapped)).Equal("Already finalized")
	gt.S(t, api.UserMessage(fmt.Errorf("dial tcp: %w", errors.New("refused")))).Equal(api.FallbackMessage)
	gt.S(t, api.UserMessage(goerr.Wrap(api.ErrSessionExpired, "refresh failed"))).Equal("Your session has expired. Please log in again.")
	gt.S(t, api.UserMessage(nil)).Equal("")

	gt.Bool(t, api.IsStatus(wrapped, 409)).True()
	gt.Bool(t, api.IsStatus(wrapped, 404)).False()
}

func errorsAs(err error, target **api.Error) bool {
	return errors.As(err, target)
}

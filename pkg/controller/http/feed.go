package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/preceptor-dev/preceptor/pkg/service/api"
	"github.com/preceptor-dev/preceptor/pkg/usecase"
	"github.com/preceptor-dev/preceptor/pkg/utils/errutil"
)

type listResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// viewQuery carries the ?q= and ?status= filters of a list view
type viewQuery struct {
	query  string
	status string
}

func parseViewQuery(r *http.Request) viewQuery {
	return viewQuery{
		query:  strings.TrimSpace(r.URL.Query().Get("q")),
		status: strings.TrimSpace(r.URL.Query().Get("status")),
	}
}

func (v viewQuery) listOptions() []interfaces.ListOption {
	return []interfaces.ListOption{interfaces.WithStatus(v.status)}
}

// filter applies the search query and the status predicate. An empty status matches all.
func filter[T model.Searchable](items []T, v viewQuery, status func(T) string) []T {
	var pred func(T) bool
	if v.status != "" {
		pred = func(item T) bool {
			return strings.EqualFold(status(item), v.status)
		}
	}
	return model.Filter(items, v.query, pred)
}

// listView fetches through a use case and renders the filtered result
func listView[T model.Searchable](fetch func(ctx context.Context, opts ...interfaces.ListOption) ([]T, error), status func(T) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := parseViewQuery(r)
		items, err := fetch(r.Context(), v.listOptions()...)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeList(w, r, filter(items, v, status))
	}
}

// stateView renders items already held by a state container
func stateView[T model.Searchable](items func() []T, status func(T) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeList(w, r, filter(items(), parseViewQuery(r), status))
	}
}

func writeList[T any](w http.ResponseWriter, r *http.Request, items []T) {
	if items == nil {
		items = []T{}
	}
	writeJSON(w, r, http.StatusOK, listResponse[T]{Items: items, Count: len(items)})
}

// writeError maps use case and API errors to a status and a user-facing message
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, api.UserMessage(err)), status)
		return
	}

	msg := err.Error()
	var apiErr *api.Error
	if errors.As(err, &apiErr) || errors.Is(err, api.ErrSessionExpired) {
		msg = api.UserMessage(err)
	}
	writeJSON(w, r, status, errorResponse{Error: msg})
}

func statusOf(err error) int {
	var apiErr *api.Error
	switch {
	case errors.Is(err, usecase.ErrNotLoggedIn), errors.Is(err, api.ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, usecase.ErrInvalidInput), errors.Is(err, usecase.ErrUnknownEvent):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrStaleResponse), errors.Is(err, usecase.ErrThreadClosed):
		return http.StatusConflict
	case errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
		return apiErr.StatusCode
	default:
		return http.StatusBadGateway
	}
}

func listCasesHandler(uc *usecase.CaseUseCase) http.HandlerFunc {
	return listView(uc.FetchCases, func(c *model.Case) string { return string(c.Status) })
}

func getCaseHandler(uc *usecase.CaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := uc.FetchCase(r.Context(), model.ID(chi.URLParam(r, "id")))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, c)
	}
}

func listAppointmentsHandler(uc *usecase.AppointmentUseCase) http.HandlerFunc {
	return listView(uc.FetchAppointments, func(a *model.Appointment) string { return string(a.Status) })
}

func listSessionsHandler(uc *usecase.SessionUseCase) http.HandlerFunc {
	return listView(uc.FetchSessionsNeedingReview, func(s *model.Session) string { return string(s.Status) })
}

func listEvaluationsHandler(uc *usecase.EvaluationUseCase) http.HandlerFunc {
	return listView(uc.FetchEvaluations, func(e *model.Evaluation) string { return string(e.Status) })
}

func listPendingContentHandler(uc *usecase.ContentUseCase) http.HandlerFunc {
	return listView(uc.FetchPendingPosts, func(p *model.ContentPost) string { return string(p.Status) })
}

func listReportsHandler(uc *usecase.ReportUseCase) http.HandlerFunc {
	return listView(uc.FetchReports, func(r *model.Report) string { return string(r.Status) })
}

// notifications are served from the poller's state so that the feed never
// consumes a notification before the relay sees it
func listNotificationsHandler(uc *usecase.NotificationUseCase) http.HandlerFunc {
	return stateView(func() []*model.Notification { return uc.State().Items },
		func(n *model.Notification) string {
			if n.IsRead {
				return "read"
			}
			return "unread"
		})
}

func listThreadsHandler(uc *usecase.MessagingUseCase) http.HandlerFunc {
	return stateView(uc.Threads, func(t *model.Thread) string {
		if t.IsClosed {
			return "closed"
		}
		return "open"
	})
}

type unreadResponse struct {
	Messages       int `json:"messages"`
	Notifications  int `json:"notifications"`
	PendingContent int `json:"pending_content"`
}

func unreadHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, unreadResponse{
			Messages:       uc.Messaging.TotalUnread(),
			Notifications:  uc.Notification.UnreadCount(),
			PendingContent: uc.Content.PendingCount(),
		})
	}
}

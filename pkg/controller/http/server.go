package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/service/metrics"
	"github.com/preceptor-dev/preceptor/pkg/usecase"
	"github.com/preceptor-dev/preceptor/pkg/utils/errutil"
	"github.com/preceptor-dev/preceptor/pkg/utils/logging"
)

// Server is the local dashboard feed. It renders the state containers as
// filtered JSON views and ingests messaging events.
type Server struct {
	router      *chi.Mux
	uc          *usecase.UseCases
	metrics     *metrics.Metrics
	eventSecret string
}

type Options func(*Server)

func WithMetrics(m *metrics.Metrics) Options {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithEventSecret requires signed requests on the event ingest endpoint
func WithEventSecret(secret string) Options {
	return func(s *Server) {
		s.eventSecret = secret
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)
	r.Use(feedMetrics(s.metrics))

	r.Get("/health", healthHandler)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/cases", listCasesHandler(uc.Case))
		r.Get("/cases/{id}", getCaseHandler(uc.Case))
		r.Get("/appointments", listAppointmentsHandler(uc.Appointment))
		r.Get("/sessions/needing-review", listSessionsHandler(uc.Session))
		r.Get("/evaluations", listEvaluationsHandler(uc.Evaluation))
		r.Get("/content/pending", listPendingContentHandler(uc.Content))
		r.Get("/reports", listReportsHandler(uc.Report))
		r.Get("/notifications", listNotificationsHandler(uc.Notification))
		r.Get("/unread", unreadHandler(uc))

		r.Route("/messaging", func(r chi.Router) {
			r.Get("/threads", listThreadsHandler(uc.Messaging))
			r.Get("/threads/{id}/messages", listMessagesHandler(uc.Messaging))
			r.Post("/threads/{id}/load-more", loadMoreHandler(uc.Messaging))
			r.Post("/threads/{id}/read", markReadHandler(uc.Messaging))
			r.Post("/threads/{id}/close", closeThreadHandler(uc.Messaging))

			r.Group(func(r chi.Router) {
				if s.eventSecret != "" {
					r.Use(EventSignatureMiddleware(s.eventSecret))
				}
				r.Post("/events", eventsHandler(uc.Messaging))
			})
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON marshals before writing so a failure can still produce an error status
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.From(r.Context()).Error("failed to write response", "error", err)
	}
}

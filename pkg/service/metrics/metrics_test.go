package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/preceptor-dev/preceptor/pkg/service/metrics"
)

func TestEndpointLabel(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/cases/", "/cases/"},
		{"/cases/42/", "/cases/:id/"},
		{"/cases/42/history/", "/cases/:id/history/"},
		{"/messaging/threads/5b7c0a1e-2d5e-4b0a-9f3a-0d6f1c2e3b4a/messages/", "/messaging/threads/:id/messages/"},
		{"/evaluations/7/adjust/?x=1", "/evaluations/:id/adjust/"},
		{"/community/posts/pending/", "/community/posts/pending/"},
		{"/cases/added/", "/cases/added/"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			gt.S(t, metrics.EndpointLabel(tt.path)).Equal(tt.want)
		})
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.ObserveAPIRequest(http.MethodGet, "/cases/1/", 200, 30*time.Millisecond)
	m.ObserveTokenRefresh(true)
	m.ObservePoll("threads", errors.New("boom"))
	m.ObserveFeedRequest(http.MethodGet, "/api/cases", 200)
	m.SetUnreadMessages(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	gt.Number(t, rec.Code).Equal(http.StatusOK)

	body, err := io.ReadAll(rec.Body)
	gt.NoError(t, err).Required()
	gt.S(t, string(body)).
		Contains(`preceptor_api_request_duration_seconds_count{endpoint="/cases/:id/",method="GET",status="200"} 1`).
		Contains(`preceptor_api_token_refresh_total{result="success"} 1`).
		Contains(`preceptor_poll_total{poller="threads",result="error"} 1`).
		Contains(`preceptor_unread_messages 3`)
}

func TestMetrics_Nil(t *testing.T) {
	var m *metrics.Metrics
	m.ObserveAPIRequest(http.MethodGet, "/cases/", 200, time.Millisecond)
	m.ObserveTokenRefresh(false)
	m.SetUnreadMessages(1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	gt.Number(t, rec.Code).Equal(http.StatusServiceUnavailable)
}

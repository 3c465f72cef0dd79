package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "preceptor"

// Metrics holds the Prometheus collectors of the console on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	apiRequestDuration *prometheus.HistogramVec
	tokenRefreshTotal  *prometheus.CounterVec
	pollTotal          *prometheus.CounterVec
	feedRequestTotal   *prometheus.CounterVec
	unreadMessages     prometheus.Gauge
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	apiRequestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of platform API requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "endpoint", "status"})

	tokenRefreshTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_token_refresh_total",
		Help:      "Access token refresh attempts by result",
	}, []string{"result"})

	pollTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "poll_total",
		Help:      "Background poll runs by poller and result",
	}, []string{"poller", "result"})

	feedRequestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_requests_total",
		Help:      "Dashboard feed requests by route and status",
	}, []string{"method", "route", "status"})

	unreadMessages := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "unread_messages",
		Help:      "Sum of unread messages over all threads",
	})

	registry.MustRegister(apiRequestDuration, tokenRefreshTotal, pollTotal, feedRequestTotal, unreadMessages)

	return &Metrics{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		apiRequestDuration: apiRequestDuration,
		tokenRefreshTotal:  tokenRefreshTotal,
		pollTotal:          pollTotal,
		feedRequestTotal:   feedRequestTotal,
		unreadMessages:     unreadMessages,
	}
}

// Handler exposes the Prometheus HTTP handler
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry returns the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveAPIRequest records one platform API call. status is 0 for transport failures.
func (m *Metrics) ObserveAPIRequest(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.apiRequestDuration.WithLabelValues(method, EndpointLabel(path), strconv.Itoa(status)).Observe(d.Seconds())
}

func (m *Metrics) ObserveTokenRefresh(success bool) {
	if m == nil {
		return
	}
	result := "success"
	if !success {
		result = "failure"
	}
	m.tokenRefreshTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ObservePoll(poller string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.pollTotal.WithLabelValues(poller, result).Inc()
}

func (m *Metrics) ObserveFeedRequest(method, route string, status int) {
	if m == nil {
		return
	}
	m.feedRequestTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

func (m *Metrics) SetUnreadMessages(n int) {
	if m == nil {
		return
	}
	m.unreadMessages.Set(float64(n))
}

// EndpointLabel replaces identifier segments of an API path with ":id" to keep
// label cardinality bounded
func EndpointLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}

	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if isIdentifier(seg) {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}

func isIdentifier(seg string) bool {
	if seg == "" {
		return false
	}

	digits := 0
	for _, r := range seg {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '-' || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F'):
		default:
			return false
		}
	}
	// all digits, or a uuid-like hex token
	return digits == len(seg) || (len(seg) == 36 && strings.Count(seg, "-") == 4)
}

package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/preceptor-dev/preceptor/pkg/domain/model/auth"
	"github.com/preceptor-dev/preceptor/pkg/repository/memory"
	"github.com/preceptor-dev/preceptor/pkg/service/api"
	"github.com/preceptor-dev/preceptor/pkg/service/metrics"
)

func newClient(t *testing.T, handler http.Handler, session *auth.Session, opts ...api.Option) (*api.Client, interfaces.Repository) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	repo := memory.New()
	if session != nil {
		gt.NoError(t, repo.Session().Save(context.Background(), session)).Required()
	}

	client, err := api.New(srv.URL+"/api", repo.Session(), opts...)
	gt.NoError(t, err).Required()
	return client, repo
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew(t *testing.T) {
	repo := memory.New()

	_, err := api.New("", repo.Session())
	gt.Error(t, err)

	_, err = api.New("ftp://example.com", repo.Session())
	gt.Error(t, err)

	_, err = api.New("https://api.example.com", nil)
	gt.Error(t, err)

	_, err = api.New("https://api.example.com/v1/", repo.Session())
	gt.NoError(t, err)
}

func TestClient_Headers(t *testing.T) {
	var gotAuth, gotRequestID, gotAccept, gotPath string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotAccept = r.Header.Get("Accept")
		gotPath = r.URL.Path
		writeJSON(w, http.StatusOK, map[string]any{"id": 7, "email": "sup@example.com"})
	})

	client, _ := newClient(t, handler, &auth.Session{AccessToken: "token-1", RefreshToken: "r"})

	user, err := client.Me(context.Background())
	gt.NoError(t, err).Required()
	gt.Value(t, user.ID).Equal(model.ID("7"))
	gt.S(t, gotAuth).Equal("Bearer token-1")
	gt.S(t, gotAccept).Equal("application/json")
	gt.Number(t, len(gotRequestID)).Equal(36)
	gt.S(t, gotPath).Equal("/api/accounts/me/supervisor/")
}

func TestClient_NoSessionSendsNoAuthorization(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, []any{})
	})

	client, _ := newClient(t, handler, nil)
	cases, err := client.ListCases(context.Background())
	gt.NoError(t, err).Required()
	gt.Array(t, cases).Length(0)
	gt.S(t, gotAuth).Equal("")
}

func TestClient_Envelope(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "bare array", body: `[{"id":1,"title":"A","status":"new"},{"id":2,"title":"B","status":"closed"}]`},
		{name: "data envelope", body: `{"data":[{"id":1,"title":"A","status":"new"},{"id":2,"title":"B","status":"closed"}]}`},
		{name: "paginated", body: `{"count":2,"next":null,"results":[{"id":1,"title":"A","status":"new"},{"id":2,"title":"B","status":"closed"}]}`},
		{name: "data envelope with count", body: `{"data":[{"id":1,"title":"A","status":"new"},{"id":2,"title":"B","status":"closed"}],"count":2}`},
		{name: "data envelope with pagination", body: `{"data":[{"id":1,"title":"A","status":"new"},{"id":2,"title":"B","status":"closed"}],"pagination":{"page":1,"total":2}}`},
		{name: "data envelope with paginated", body: `{"success":true,"data":{"results":[{"id":1,"title":"A","status":"new"},{"id":2,"title":"B","status":"closed"}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, tt.body)
			})
			client, _ := newClient(t, handler, &auth.Session{AccessToken: "a"})

			cases, err := client.ListCases(context.Background())
			gt.NoError(t, err).Required()
			gt.Array(t, cases).Length(2)
			gt.Value(t, cases[0].ID).Equal(model.ID("1"))
			gt.S(t, cases[1].Title).Equal("B")
		})
	}
}

func TestDecodeEnvelope_KeepsPayloadWithDataField(t *testing.T) {
	var out struct {
		ID   int             `json:"id"`
		Data json.RawMessage `json:"data"`
	}
	gt.NoError(t, api.DecodeEnvelope([]byte(`{"id":3,"data":{"x":1}}`), &out)).Required()
	gt.Number(t, out.ID).Equal(3)
	gt.S(t, string(out.Data)).Equal(`{"x":1}`)
}

func TestClient_ListQuery(t *testing.T) {
	var gotQuery string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeJSON(w, http.StatusOK, []any{})
	})
	client, _ := newClient(t, handler, &auth.Session{AccessToken: "a"})

	_, err := client.ListCases(context.Background(), interfaces.WithStatus("in_progress"), interfaces.WithSearch("knee"))
	gt.NoError(t, err).Required()
	gt.S(t, gotQuery).Equal("search=knee&status=in_progress")
}

func TestClient_RefreshOnUnauthorized(t *testing.T) {
	var refreshCalls, caseCalls atomic.Int32
	var refreshBody map[string]string

	mux := http.NewServeMux()
	mux.HandleFunc("/api/accounts/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		_ = json.NewDecoder(r.Body).Decode(&refreshBody)
		gt.S(t, r.Header.Get("Authorization")).Equal("")
		writeJSON(w, http.StatusOK, map[string]string{"access": "fresh", "refresh": "rotated"})
	})
	mux.HandleFunc("/api/cases/9/", func(w http.ResponseWriter, r *http.Request) {
		caseCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token expired"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"id": 9, "title": "Molar extraction", "status": "assigned"}})
	})

	m := metrics.New()
	client, repo := newClient(t, mux, &auth.Session{AccessToken: "stale", RefreshToken: "refresh-1"}, api.WithMetrics(m))

	c, err := client.GetCase(context.Background(), "9")
	gt.NoError(t, err).Required()
	gt.S(t, c.Title).Equal("Molar extraction")
	gt.Number(t, refreshCalls.Load()).Equal(int32(1))
	gt.Number(t, caseCalls.Load()).Equal(int32(2))
	gt.S(t, refreshBody["refresh"]).Equal("refresh-1")

	stored, err := repo.Session().Load(context.Background())
	gt.NoError(t, err).Required()
	gt.S(t, stored.AccessToken).Equal("fresh")
	gt.S(t, stored.RefreshToken).Equal("rotated")
}

func TestClient_RefreshKeepsRefreshTokenWhenNotRotated(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/accounts/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"access": "fresh"})
	})
	mux.HandleFunc("/api/accounts/me/supervisor/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": 1})
	})

	client, repo := newClient(t, mux, &auth.Session{AccessToken: "stale", RefreshToken: "keep-me"})
	_, err := client.Me(context.Background())
	gt.NoError(t, err).Required()

	stored, err := repo.Session().Load(context.Background())
	gt.NoError(t, err).Required()
	gt.S(t, stored.RefreshToken).Equal("keep-me")
}

func TestClient_RefreshFailureClearsSession(t *testing.T) {
	var refreshCalls, expiredCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/api/accounts/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		// a 401 from the refresh endpoint itself must not trigger another refresh
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired"})
	})
	mux.HandleFunc("/api/cases/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token expired"})
	})

	client, repo := newClient(t, mux, &auth.Session{AccessToken: "stale", RefreshToken: "dead"},
		api.WithSessionExpiredHandler(func(ctx context.Context) { expiredCalls.Add(1) }),
	)

	_, err := client.ListCases(context.Background())
	gt.Error(t, err).Is(api.ErrSessionExpired)
	gt.Number(t, refreshCalls.Load()).Equal(int32(1))
	gt.Number(t, expiredCalls.Load()).Equal(int32(1))

	stored, err := repo.Session().Load(context.Background())
	gt.NoError(t, err).Required()
	gt.Value(t, stored).Nil()
}

func TestClient_NoRefreshToken(t *testing.T) {
	var refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/accounts/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
	})
	mux.HandleFunc("/api/reports/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	client, _ := newClient(t, mux, &auth.Session{AccessToken: "stale"})
	_, err := client.ListReports(context.Background())
	gt.Error(t, err).Is(api.ErrSessionExpired)
	gt.Number(t, refreshCalls.Load()).Equal(int32(0))
}

func TestClient_ReplayedRequestFailsOnlyOnce(t *testing.T) {
	var refreshCalls, calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/accounts/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		writeJSON(w, http.StatusOK, map[string]string{"access": "fresh"})
	})
	mux.HandleFunc("/api/notifications/", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Still unauthorized"})
	})

	client, _ := newClient(t, mux, &auth.Session{AccessToken: "stale", RefreshToken: "r"})
	_, err := client.ListNotifications(context.Background())
	gt.Value(t, api.IsStatus(err, http.StatusUnauthorized)).Equal(true)
	gt.Number(t, refreshCalls.Load()).Equal(int32(1))
	gt.Number(t, calls.Load()).Equal(int32(2))
}

func TestClient_ConcurrentUnauthorizedRefreshOnce(t *testing.T) {
	var refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/accounts/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		writeJSON(w, http.StatusOK, map[string]string{"access": "fresh"})
	})
	mux.HandleFunc("/api/appointments/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, []any{})
	})

	client, _ := newClient(t, mux, &auth.Session{AccessToken: "stale", RefreshToken: "r"})

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.ListAppointments(context.Background())
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		gt.NoError(t, err)
	}
	gt.Number(t, refreshCalls.Load()).Equal(int32(1))
}

func TestClient_LoginDoesNotRefresh(t *testing.T) {
	var refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/accounts/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
	})
	mux.HandleFunc("/api/accounts/login/supervisor/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"errors": map[string]any{"non_field_errors": []string{"Invalid email or password."}}})
	})

	client, _ := newClient(t, mux, &auth.Session{AccessToken: "old", RefreshToken: "r"})
	_, err := client.Login(context.Background(), &model.LoginInput{Email: "a@example.com", Password: "wrong"})
	gt.Value(t, api.IsStatus(err, http.StatusUnauthorized)).Equal(true)
	gt.S(t, api.UserMessage(err)).Equal("Invalid email or password.")
	gt.Number(t, refreshCalls.Load()).Equal(int32(0))
}

func TestClient_Login(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "flat", body: `{"access":"a1","refresh":"r1","user":{"id":5,"email":"sup@example.com"}}`},
		{name: "nested tokens", body: `{"tokens":{"access":"a1","refresh":"r1"},"user":{"id":5,"email":"sup@example.com"}}`},
		{name: "enveloped", body: `{"success":true,"data":{"access_token":"a1","refresh_token":"r1","user":{"id":"5","email":"sup@example.com"}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotBody map[string]string
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gt.S(t, r.Method).Equal(http.MethodPost)
				_ = json.NewDecoder(r.Body).Decode(&gotBody)
				_, _ = io.WriteString(w, tt.body)
			})
			client, _ := newClient(t, handler, nil)

			s, err := client.Login(context.Background(), &model.LoginInput{Email: "sup@example.com", Password: "pw"})
			gt.NoError(t, err).Required()
			gt.S(t, s.AccessToken).Equal("a1")
			gt.S(t, s.RefreshToken).Equal("r1")
			gt.Value(t, s.User.ID).Equal(model.ID("5"))
			gt.S(t, gotBody["email"]).Equal("sup@example.com")
			gt.S(t, gotBody["password"]).Equal("pw")
		})
	}
}

func TestClient_ListMessages(t *testing.T) {
	var gotQuery string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gt.S(t, r.URL.Path).Equal("/api/messaging/threads/3/messages/")
		_, _ = io.WriteString(w, `{"results":[{"id":12,"content":"newest","sender":{"id":2}},{"id":11,"content":"older","sender":2}],"next":"https://api.example.com/messaging/threads/3/messages/?cursor=cD0yMDI0&limit=2"}`)
	})
	client, _ := newClient(t, handler, &auth.Session{AccessToken: "a"})

	page, err := client.ListMessages(context.Background(), "3", "abc", 2)
	gt.NoError(t, err).Required()
	gt.S(t, gotQuery).Equal("cursor=abc&limit=2")
	gt.Array(t, page.Results).Length(2)
	gt.S(t, page.NextCursor).Equal("cD0yMDI0")
	gt.Value(t, page.Results[0].ThreadID).Equal(model.ID("3"))
	gt.Value(t, page.Results[1].Sender.ID).Equal(model.ID("2"))
}

func TestClient_ListMessagesEnvelope(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "data with sibling pagination", body: `{"data":[{"id":12,"content":"newest"},null,{"id":11,"content":"older"}],"pagination":{"next_cursor":"c2"}}`},
		{name: "data holding a page", body: `{"success":true,"data":{"results":[{"id":12,"content":"newest"},{"id":11,"content":"older"},null],"next_cursor":"c2"}}`},
		{name: "data page beside extra keys", body: `{"data":{"results":[null,{"id":12,"content":"newest"},{"id":11,"content":"older"}]},"pagination":{"next":"https://api.example.com/messaging/threads/3/messages/?cursor=c2"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			})
			client, _ := newClient(t, handler, &auth.Session{AccessToken: "a"})

			page, err := client.ListMessages(context.Background(), "3", "", 2)
			gt.NoError(t, err).Required()
			gt.Array(t, page.Results).Length(2)
			gt.Value(t, page.Results[0].ID).Equal(model.ID("12"))
			gt.Value(t, page.Results[1].ThreadID).Equal(model.ID("3"))
			gt.S(t, page.NextCursor).Equal("c2")
		})
	}
}

func TestClient_ErrorResponse(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message": "Invalid input",
			"errors":  map[string][]string{"title": {"This field is required."}},
		})
	})
	client, _ := newClient(t, handler, &auth.Session{AccessToken: "a"})

	_, err := client.CreateCase(context.Background(), &model.CaseInput{})
	var apiErr *api.Error
	gt.Bool(t, errorsAs(err, &apiErr)).True()
	gt.Number(t, apiErr.StatusCode).Equal(http.StatusBadRequest)
	gt.S(t, apiErr.UserMessage()).Equal("Invalid input: title: This field is required.")
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := api.New(url, memory.New().Session())
	gt.NoError(t, err).Required()

	_, err = client.ListThreads(context.Background())
	gt.Error(t, err).Is(api.ErrNetwork)
	gt.S(t, api.UserMessage(err)).Equal(api.FallbackMessage)
}

func TestClient_Metrics(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": 4})
	})
	m := metrics.New()
	client, _ := newClient(t, handler, &auth.Session{AccessToken: "a"}, api.WithMetrics(m))

	_, err := client.GetEvaluation(context.Background(), "4")
	gt.NoError(t, err).Required()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	gt.Bool(t, strings.Contains(rec.Body.String(), `endpoint="/evaluations/:id/"`)).True()
}

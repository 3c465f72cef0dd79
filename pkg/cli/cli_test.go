package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/preceptor-dev/preceptor/pkg/cli"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/preceptor-dev/preceptor/pkg/repository/file"
	"github.com/preceptor-dev/preceptor/pkg/service/api"
	"github.com/preceptor-dev/preceptor/pkg/usecase"
)

func init() {
	color.NoColor = true
}

func TestPrinter_Table(t *testing.T) {
	t.Run("aligned rows", func(t *testing.T) {
		var buf bytes.Buffer
		p := cli.NewPrinter(&buf, false)
		gt.NoError(t, p.Table(nil, []string{"ID", "TITLE"}, [][]string{
			{"1", "Chest pain"},
			{"12", "Fracture"},
		})).Required()

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		gt.Array(t, lines).Length(3)
		gt.S(t, lines[0]).Equal("ID  TITLE")
		gt.S(t, lines[1]).Equal("1   Chest pain")
		gt.S(t, lines[2]).Equal("12  Fracture")
	})

	t.Run("no rows", func(t *testing.T) {
		var buf bytes.Buffer
		gt.NoError(t, cli.NewPrinter(&buf, false).Table(nil, []string{"ID"}, nil)).Required()
		gt.S(t, buf.String()).Equal("(no results)\n")
	})

	t.Run("json mode prints the value", func(t *testing.T) {
		var buf bytes.Buffer
		items := []*model.Case{{ID: "3", Title: "Burns"}}
		gt.NoError(t, cli.NewPrinter(&buf, true).Table(items, []string{"ID"}, [][]string{{"3"}})).Required()

		var got []map[string]any
		gt.NoError(t, json.Unmarshal(buf.Bytes(), &got)).Required()
		gt.Array(t, got).Length(1)
		gt.Value(t, got[0]["title"]).Equal("Burns")
	})
}

func TestPrinter_Record(t *testing.T) {
	var buf bytes.Buffer
	gt.NoError(t, cli.NewPrinter(&buf, false).Record(nil, [][2]string{
		{"ID", "4"},
		{"Empty", ""},
		{"Status", "open"},
	})).Required()

	out := buf.String()
	gt.S(t, out).Contains("ID:")
	gt.S(t, out).Contains("Status:")
	gt.Bool(t, strings.Contains(out, "Empty")).False()
}

func TestApplyFilter(t *testing.T) {
	cases := []*model.Case{
		{ID: "1", Title: "Chest pain", Status: "in_progress"},
		{ID: "2", Title: "Broken arm", Status: "pending_assignment"},
		{ID: "3", Title: "Chest burns", Status: "closed"},
	}
	statusOf := func(c *model.Case) string { return string(c.Status) }

	testCases := []struct {
		name   string
		query  string
		status string
		want   []model.ID
	}{
		{name: "no filter", want: []model.ID{"1", "2", "3"}},
		{name: "query", query: "chest", want: []model.ID{"1", "3"}},
		{name: "status ignores case", status: "CLOSED", want: []model.ID{"3"}},
		{name: "query and status", query: "chest", status: "in_progress", want: []model.ID{"1"}},
		{name: "nothing matches", query: "fever", want: []model.ID{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := cli.ApplyFilter(cases, cli.NewListFilter(tc.query, tc.status), statusOf)
			ids := make([]model.ID, 0, len(got))
			for _, c := range got {
				ids = append(ids, c.ID)
			}
			gt.Array(t, ids).Equal(tc.want)
		})
	}
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	tok := jwt.New()
	gt.NoError(t, tok.Set(jwt.ExpirationKey, exp)).Required()
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, []byte("not-the-server-key")))
	gt.NoError(t, err).Required()

	got, ok := cli.TokenExpiry(string(signed))
	gt.Bool(t, ok).True()
	gt.Number(t, got.Unix()).Equal(exp.Unix())

	t.Run("no exp claim", func(t *testing.T) {
		signed, err := jwt.Sign(jwt.New(), jwt.WithKey(jwa.HS256, []byte("k")))
		gt.NoError(t, err).Required()
		_, ok := cli.TokenExpiry(string(signed))
		gt.Bool(t, ok).False()
	})

	t.Run("opaque token", func(t *testing.T) {
		_, ok := cli.TokenExpiry("not-a-jwt")
		gt.Bool(t, ok).False()
		_, ok = cli.TokenExpiry("")
		gt.Bool(t, ok).False()
	})
}

func TestParseTime(t *testing.T) {
	got, err := cli.ParseTime("2026-03-01T09:30:00Z")
	gt.NoError(t, err).Required()
	gt.Bool(t, got.Equal(time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC))).True()

	got, err = cli.ParseTime(" 2026-03-01 09:30 ")
	gt.NoError(t, err).Required()
	gt.Bool(t, got.Equal(time.Date(2026, 3, 1, 9, 30, 0, 0, time.Local))).True()

	_, err = cli.ParseTime("tomorrow")
	gt.Error(t, err).Is(usecase.ErrInvalidInput)
}

func TestTruncate(t *testing.T) {
	gt.S(t, cli.Truncate("short", 10)).Equal("short")
	gt.S(t, cli.Truncate("line one\nline   two", 40)).Equal("line one line two")
	gt.S(t, cli.Truncate("abcdefghij", 5)).Equal("abcd…")
}

func TestDescribeError(t *testing.T) {
	apiErr := &api.Error{StatusCode: 400, Message: "Title is required"}
	gt.S(t, cli.DescribeError(goerr.Wrap(apiErr, "failed to create case"))).Equal("Title is required")

	expired := goerr.Wrap(api.ErrSessionExpired, "failed to list cases")
	gt.S(t, cli.DescribeError(expired)).Equal(api.UserMessage(expired))

	gt.S(t, cli.DescribeError(goerr.New("boom"))).Equal("boom")
}

// backend fakes the login endpoint and the case list
type backend struct {
	mu    sync.Mutex
	auths []string
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.auths = append(b.auths, r.Header.Get("Authorization"))
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/accounts/login/supervisor/":
		var input model.LoginInput
		_ = json.NewDecoder(r.Body).Decode(&input)
		if input.Password != "correct horse" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"detail":"Invalid credentials"}`)
			return
		}
		_, _ = io.WriteString(w, `{"access":"access-1","refresh":"refresh-1","user":{"id":7,"email":"sup@example.com","first_name":"Ada","last_name":"Lovelace"}}`)

	case r.Method == http.MethodPost && r.URL.Path == "/accounts/logout/supervisor/":
		w.WriteHeader(http.StatusNoContent)

	case r.Method == http.MethodGet && r.URL.Path == "/cases/":
		_, _ = io.WriteString(w, `{"results":[{"id":1,"title":"Chest pain","status":"in_progress"}]}`)

	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Not found."}`)
	}
}

func (b *backend) lastAuth() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.auths) == 0 {
		return ""
	}
	return b.auths[len(b.auths)-1]
}

func TestRun_LoginAndList(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PRECEPTOR_ENV_FILE", filepath.Join(dir, "missing.env"))

	be := &backend{}
	srv := httptest.NewServer(be)
	defer srv.Close()

	ctx := context.Background()
	base := []string{
		"preceptor",
		"--repository-backend", "file",
		"--session-dir", dir,
		"--api-base-url", srv.URL,
		"--log-level", "error",
	}
	run := func(args ...string) error {
		return cli.Run(ctx, append(append([]string{}, base...), args...), "test")
	}

	repo, err := file.New(dir, "default")
	gt.NoError(t, err).Required()

	t.Run("wrong password counts toward the lock", func(t *testing.T) {
		err := run("login", "--email", "sup@example.com", "--password", "wrong")
		gt.Error(t, err)

		lockout, err := repo.Lockout().Get(ctx)
		gt.NoError(t, err).Required()
		gt.Number(t, lockout.FailedAttempts).Equal(1)
	})

	t.Run("login stores the session", func(t *testing.T) {
		gt.NoError(t, run("login", "--email", "sup@example.com", "--password", "correct horse")).Required()

		session, err := repo.Session().Load(ctx)
		gt.NoError(t, err).Required()
		gt.S(t, session.AccessToken).Equal("access-1")
		gt.S(t, session.RefreshToken).Equal("refresh-1")
		gt.Value(t, session.User.ID).Equal(model.ID("7"))

		lockout, err := repo.Lockout().Get(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, lockout).Nil()
	})

	t.Run("authenticated list", func(t *testing.T) {
		gt.NoError(t, run("--json", "case", "list", "--query", "chest")).Required()
		gt.S(t, be.lastAuth()).Equal("Bearer access-1")
	})

	t.Run("logout clears the session", func(t *testing.T) {
		gt.NoError(t, run("logout")).Required()
		session, err := repo.Session().Load(ctx)
		gt.NoError(t, err)
		gt.Value(t, session).Nil()
	})
}

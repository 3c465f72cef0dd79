package errutil_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/preceptor-dev/preceptor/pkg/utils/errutil"
	"github.com/preceptor-dev/preceptor/pkg/utils/logging"
)

func TestHandle(t *testing.T) {
	var buf bytes.Buffer
	ctx := logging.With(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))

	t.Run("nil error is passed through", func(t *testing.T) {
		gt.NoError(t, errutil.Handle(ctx, nil, "noop"))
	})

	t.Run("goerr values are logged", func(t *testing.T) {
		buf.Reset()
		err := goerr.New("boom", goerr.V("case_id", "42"))
		got := errutil.Handle(ctx, err, "failed to do thing")
		gt.Value(t, got).Equal(err)
		gt.String(t, buf.String()).Contains("failed to do thing")
		gt.String(t, buf.String()).Contains("case_id")
	})

	t.Run("plain error is logged", func(t *testing.T) {
		buf.Reset()
		err := errors.New("plain")
		gt.Error(t, errutil.Handle(ctx, err, "plain failure")).Is(err)
		gt.String(t, buf.String()).Contains("plain failure")
	})
}

func TestHandleHTTP(t *testing.T) {
	rec := httptest.NewRecorder()
	errutil.HandleHTTP(context.Background(), rec, errors.New("bad request"), http.StatusBadRequest)

	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	gt.String(t, rec.Body.String()).Contains("bad request")
}

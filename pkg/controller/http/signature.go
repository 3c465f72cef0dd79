package http

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/utils/errutil"
	"github.com/preceptor-dev/preceptor/pkg/utils/safe"
)

const (
	EventTimestampHeader = "X-Preceptor-Request-Timestamp"
	EventSignatureHeader = "X-Preceptor-Signature"

	maxEventAge = 5 * time.Minute
)

// SignEvent computes the signature header value for an event body
func SignEvent(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "v0:%s:%s", timestamp, body)
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}

// verifyEventSignature checks an HMAC-SHA256 signature over "v0:<timestamp>:<body>"
func verifyEventSignature(secret, timestamp, signature string, body []byte, now time.Time) error {
	if timestamp == "" {
		return goerr.New("missing timestamp")
	}
	if signature == "" {
		return goerr.New("missing signature")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return goerr.Wrap(err, "invalid timestamp")
	}
	if age := now.Sub(time.Unix(ts, 0)); age > maxEventAge || age < -maxEventAge {
		return goerr.New("timestamp outside the accepted window", goerr.V("timestamp", timestamp))
	}

	if !hmac.Equal([]byte(SignEvent(secret, timestamp, body)), []byte(signature)) {
		return goerr.New("signature mismatch")
	}
	return nil
}

// EventSignatureMiddleware rejects event posts that are not signed with secret
func EventSignatureMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			body, err := io.ReadAll(r.Body)
			if err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
				return
			}
			safe.Close(ctx, r.Body)

			timestamp := r.Header.Get(EventTimestampHeader)
			signature := r.Header.Get(EventSignatureHeader)
			if err := verifyEventSignature(secret, timestamp, signature, body, time.Now()); err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "event signature verification failed"), http.StatusUnauthorized)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

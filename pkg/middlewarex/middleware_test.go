package middlewarex_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"at_deals/pkg/logx"
	"at_deals/pkg/middlewarex"
)

func chain(log *slog.Logger, h http.Handler) http.Handler {
	masker := logx.NewSensitiveDataMasker()

	return middlewarex.TraceID(
		middlewarex.Logger(log)(
			middlewarex.Recovery(
				middlewarex.RequestLogging(masker, 1024)(
					middlewarex.ResponseLogging(masker, 1024)(h),
				),
			),
		),
	)
}

func TestMiddleware_TraceIDAndLogger(t *testing.T) {
	rq := require.New(t)

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	h := chain(log, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"deals":[]}`))
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/deals?page=1", http.NoBody)
	req.Header.Set("X-Trace-Id", "trace-123")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	rq.Equal(http.StatusOK, rec.Code)
	rq.Equal("trace-123", rec.Header().Get("X-Trace-Id"))
	rq.Contains(buf.String(), `"trace-id":"trace-123"`)
	rq.Contains(buf.String(), `"url":"/v1/deals"`)
	rq.Contains(buf.String(), `{\"deals\":[]}`)
}

func TestMiddleware_GeneratesTraceID(t *testing.T) {
	rq := require.New(t)

	h := chain(slog.New(slog.DiscardHandler), http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	rq.NotEmpty(rec.Header().Get("X-Trace-Id"))
}

func TestMiddleware_Recovery(t *testing.T) {
	rq := require.New(t)

	var buf bytes.Buffer
	h := chain(slog.New(slog.NewJSONHandler(&buf, nil)), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/deals", http.NoBody))

	rq.Equal(http.StatusInternalServerError, rec.Code)
	rq.Contains(rec.Body.String(), `"code":"InternalServerError"`)
	rq.Contains(buf.String(), "panic in handler")
}

package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"at_deals/pkg/logx"
	"at_deals/pkg/middlewarex"
)

const logFieldMaxLen = 4096

// NewRouter mounts the read API behind the standard middleware chain.
func NewRouter(log *slog.Logger, s Server, requestTimeout time.Duration) http.Handler {
	masker := logx.NewSensitiveDataMasker()

	r := chi.NewRouter()
	r.Use(
		middlewarex.TraceID,
		middlewarex.Logger(log),
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, logFieldMaxLen),
		middlewarex.ResponseLogging(masker, logFieldMaxLen),
		middleware.Timeout(requestTimeout),
	)

	s.RegisterRoutes(r)

	return r
}

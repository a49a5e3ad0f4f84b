package httpserver

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oklog/ulid/v2"

	"github.com/nextmatch/matching-engine/internal/adapter/observability"
)

// Recoverer turns a panic in a downstream handler into a 500 response
// instead of crashing the process.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				lg := observability.LoggerFromContext(r.Context())
				lg.Error("panic recovered", slog.Any("panic", rec))
				writeError(w, fmt.Errorf("internal server error: %v", rec), nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

var ulidEntropy = ulid.Monotonic(rand.Reader, 0)

func newReqID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String()
}

// RequestID assigns a ULID-based request id to every inbound request,
// attaches a request-scoped logger to the context, and echoes the id
// back via the X-Request-Id header.
func RequestID(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-Id")
			if id == "" {
				id = newReqID()
			}
			w.Header().Set("X-Request-Id", id)

			ctx := observability.ContextWithRequestID(r.Context(), id)
			lg := base.With(slog.String("request_id", id))
			ctx = observability.ContextWithLogger(ctx, lg)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TimeoutMiddleware bounds request handling time, returning 503 past d.
func TimeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, `{"error":{"code":"UPSTREAM_TIMEOUT","message":"request timed out"}}`)
	}
}

// AccessLog writes one structured log line per request after it completes.
func AccessLog() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			dur := time.Since(start)

			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil {
				if p := rc.RoutePattern(); p != "" {
					route = p
				}
			}

			lg := observability.LoggerFromContext(r.Context())
			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("route", route),
				slog.Int("status", ww.Status()),
				slog.Duration("duration", dur),
				slog.String("request_id", observability.RequestIDFromContext(r.Context())),
			}
			switch {
			case ww.Status() >= 500:
				lg.Error("http request", attrs...)
			case ww.Status() >= 400:
				lg.Warn("http request", attrs...)
			default:
				lg.Info("http request", attrs...)
			}
		})
	}
}

// SecurityHeaders sets a conservative baseline of response headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Content-Security-Policy", "default-src 'none'")
		h.Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}


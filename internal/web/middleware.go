package web

import (
	"net/http"
	"time"

	"git.sr.ht/~jakintosh/todo/internal/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.wroteHeader {
		return
	}
	r.status = code
	r.wroteHeader = true
	r.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	return r.ResponseWriter.Write(b)
}

// withRequestLogging tags every request with an id, puts a request-scoped
// logger in the context and logs the outcome. Panics become 500s.
func withRequestLogging(log zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqID := r.Header.Get(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, reqID)

		l := log.With().
			Str("request_id", reqID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if p := recover(); p != nil {
				if p == http.ErrAbortHandler {
					l.Warn().Msg("request aborted")
					panic(p)
				}
				l.Error().Interface("panic", p).Msg("handler panicked")
				if !rec.wroteHeader {
					http.Error(rec, "Internal server error", http.StatusInternalServerError)
				}
			}
			l.Info().
				Int("status", rec.status).
				Dur("duration", time.Since(start)).
				Msg("request")
		}()

		next.ServeHTTP(rec, r.WithContext(logger.WithContext(r.Context(), l)))
	})
}

package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/agbru/fibdrv/internal/logging"
)

// RequestIDHeader carries the request identifier. A client-supplied value
// is kept; otherwise a random UUID is assigned.
const RequestIDHeader = "X-Request-ID"

// loggingMiddleware tags each request with an identifier and logs the
// method, path, client and duration once it has been served.
func (s *Server) loggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		start := time.Now()
		next(w, r)
		s.logger.Info("request served",
			logging.String("request_id", id),
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.String("client", getClientIP(r)),
			logging.Duration("duration", time.Since(start)))
	}
}

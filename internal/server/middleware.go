package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/conneroisu/weaver/internal/errors"
)

// handlerFunc is an http handler that reports failures instead of
// writing them, so error mapping stays in one place.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// errorHandler is the centralized error handler: pipeline and bus
// errors bubble here and are mapped to a status and JSON body.
// ValidationError maps to 400, ConfigurationError to 500, anything
// else to a generic 500.
func (s *Server) errorHandler(next handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := next(w, r)
		if err == nil {
			return
		}

		status := http.StatusInternalServerError
		message := "internal error"
		switch {
		case errors.IsValidation(err):
			status = http.StatusBadRequest
			message = err.Error()
		case errors.IsConfiguration(err):
			message = err.Error()
		}

		s.logger.Error(r.Context(), err, "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
		)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"error": message})
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging logs every request with its status and duration.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		s.logger.Debug(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

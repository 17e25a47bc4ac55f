package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/config"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/logging"
)

// requestID reuses an incoming X-Request-Id or generates one.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(HeaderRequestID))
		if id == "" {
			id = logging.GetOrGenerateRequestID(r.Context())
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(logging.ContextWithRequestID(r.Context(), id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		s.metrics.RecordHTTP(route, rec.status, elapsed)

		event := s.logger.Info()
		if rec.status >= http.StatusInternalServerError {
			event = s.logger.Error()
		}
		event.
			Str(logging.FieldRequestID, logging.RequestIDFromContext(r.Context())).
			Str(logging.FieldMethod, r.Method).
			Str(logging.FieldPath, r.URL.Path).
			Int(logging.FieldStatus, rec.status).
			Int64(logging.FieldDurationMs, elapsed.Milliseconds()).
			Msg("request handled")
	})
}

func (s *Server) cors(next http.Handler) http.Handler {
	c := s.cfg.CORS
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && originAllowed(c, origin) {
			h := w.Header()
			if c.HasWildcard() && !c.Credentials() {
				h.Set("Access-Control-Allow-Origin", config.Wildcard)
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
			if c.Credentials() {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+HeaderScope+", "+HeaderRequestID)
			h.Set("Access-Control-Max-Age", strconv.Itoa(c.MaxAge))
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func originAllowed(c config.CORSConfig, origin string) bool {
	for _, o := range c.AllowedOrigins {
		if o == config.Wildcard || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

// requireScope rejects requests without an organization scope.
func requireScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if scopeOf(r) == "" {
			writeDetail(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func scopeOf(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(HeaderScope))
}

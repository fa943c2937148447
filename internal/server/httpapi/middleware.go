package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/geokeeper/internal/common"
	"github.com/dmitrijs2005/geokeeper/internal/server/auth"
)

type ctxKey string

const adminIDKey ctxKey = "adminID"

// adminIDFromContext returns the admin id stored by withAuth, or "" when the
// request did not pass through it.
func adminIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(adminIDKey).(string)
	return id
}

// withAuth guards mutating endpoints with a bearer access token. An expired
// token is answered with the exact token-expired message so clients know to
// rotate the pair and retry instead of prompting for credentials again.
func (s *HTTPServer) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthHeaderName)
		token := strings.TrimPrefix(header, common.BearerPrefix)
		if token == "" || token == header {
			writeError(w, http.StatusUnauthorized, "missing token")
			return
		}

		adminID, err := auth.GetAdminIDFromToken(token, s.jwtSecret)
		if err != nil {
			if errors.Is(err, common.ErrTokenExpired) {
				writeError(w, http.StatusUnauthorized, common.ErrTokenExpired.Error())
				return
			}
			writeError(w, http.StatusUnauthorized, common.ErrorUnauthorized.Error())
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), adminIDKey, adminID)))
	}
}

// statusWriter captures the status code written by a handler so instrument
// can report it.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// instrument reports request duration and status for the given route.
func (s *HTTPServer) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next(sw, r)

		d := time.Since(start)
		s.recorder.ObserveRequestDuration(route, sw.status, d)
		s.logger.Debug(r.Context(), "request served", "route", route, "method", r.Method, "status", sw.status, "duration", d)
	}
}

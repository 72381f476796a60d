package rest

import (
	"context"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"sportmeet/internal/domain"
)

type ctxKey int

const requestInfoKey ctxKey = iota

// requestInfo is shared by the middleware chain of one request.
type requestInfo struct {
	userID string
}

func infoFrom(ctx context.Context) *requestInfo {
	info, _ := ctx.Value(requestInfoKey).(*requestInfo)
	if info == nil {
		return &requestInfo{}
	}
	return info
}

// UserID returns the authenticated caller, or "".
func UserID(ctx context.Context) string {
	return infoFrom(ctx).userID
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := &requestInfo{}
		r = r.WithContext(context.WithValue(r.Context(), requestInfoKey, info))
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(sw, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		ev := s.log.Info()
		if sw.status >= http.StatusInternalServerError {
			ev = s.log.Warn()
		}
		ev.Str("method", r.Method).
			Str("route", route).
			Int("status", sw.status).
			Dur("duration", time.Since(start)).
			Str("user_id", info.userID).
			Msg("http request")
	})
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error().Interface("panic", rec).Bytes("stack", debug.Stack()).Msg("handler panic")
				s.fail(w, r, http.StatusInternalServerError, "internal", "")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// identify resolves an optional bearer token into the caller's user id.
// Invalid tokens are rejected even on public routes and charged to the
// client IP's bucket.
func (s *Server) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			s.rejectToken(w, r, domain.ErrUnauthorized)
			return
		}
		userID, err := s.auth.Authenticate(r.Context(), token)
		if err != nil {
			s.rejectToken(w, r, err)
			return
		}
		infoFrom(r.Context()).userID = userID
		next.ServeHTTP(w, r)
	})
}

func (s *Server) rejectToken(w http.ResponseWriter, r *http.Request, err error) {
	if !s.allow(w, r, clientIP(r)) {
		return
	}
	s.writeError(w, r, err)
}

// requireUser guards routes that need an authenticated caller.
func (s *Server) requireUser(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if UserID(r.Context()) == "" {
			s.writeError(w, r, domain.ErrUnauthorized)
			return
		}
		h(w, r)
	}
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := UserID(r.Context())
		if key == "" {
			key = clientIP(r)
		}
		if !s.allow(w, r, key) {
			return
		}
		next.ServeHTTP(w, r)
	})
}

// allow spends one token of key's bucket and answers 429 when it is empty.
func (s *Server) allow(w http.ResponseWriter, r *http.Request, key string) bool {
	if s.limiter == nil || s.limiter.Allow(key) {
		return true
	}
	s.log.Warn().Str("key", key).Str("path", r.URL.Path).Msg("rate limit exceeded")
	w.Header().Set("Retry-After", "1")
	s.fail(w, r, http.StatusTooManyRequests, "rate_limited", "")
	return false
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

package api

import (
	"log/slog"
	"net"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/librarysites/librarysites-server/internal/auth"
	"github.com/librarysites/librarysites-server/internal/hostname"
	"github.com/librarysites/librarysites-server/internal/logger"
)

// passthroughPrefixes are served by the root app regardless of host.
var passthroughPrefixes = []string{"/api", "/_next", "/static", "/health"}

// skipHostRewrite reports whether p bypasses tenant routing: platform
// prefixes and anything that looks like a file.
func skipHostRewrite(p string) bool {
	for _, prefix := range passthroughPrefixes {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return path.Ext(path.Base(p)) != ""
}

// hostRewrite classifies the request host and, for tenant hosts, rewrites
// the path into the /s/{subdomain} namespace before routing.
func (s *Server) hostRewrite(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.resolver == nil || r.Host == "" || skipHostRewrite(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		res := s.resolver.Resolve(r.Context(), r.Host)
		r = r.WithContext(withResolution(r.Context(), res))

		if rewritten, ok := hostname.RewritePath(r.URL.Path, res.Subdomain); ok {
			logger.FromContext(r.Context(), s.logger).Debug("tenant rewrite",
				"host", res.Hostname,
				"kind", res.Kind,
				"from", r.URL.Path,
				"to", rewritten,
			)
			r.URL.Path = rewritten
			r.URL.RawPath = ""
		}
		next.ServeHTTP(w, r)
	})
}

// loadSession attaches the caller's session, if any, and client IP.
// Invalid or expired cookies leave the request anonymous.
func (s *Server) loadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := withClientIP(r.Context(), clientIP(r))
		if id := auth.SessionIDFromRequest(r); id != "" && s.services.Sessions != nil {
			if sess := s.services.Sessions.GetSession(ctx, id); sess != nil {
				ctx = withSession(ctx, sess)
			}
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIP returns the host part of RemoteAddr, which middleware.RealIP
// has already replaced with the forwarded address when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// requestLogger logs one line per request and puts a request-scoped logger
// in the context.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		l := s.logger.With(slog.String("request_id", middleware.GetReqID(r.Context())))
		r = r.WithContext(logger.NewContext(r.Context(), l))

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		l.Log(r.Context(), level, "request",
			"method", r.Method,
			"host", r.Host,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

package api

import (
	"context"

	"github.com/librarysites/librarysites-server/internal/domain"
	domainerrors "github.com/librarysites/librarysites-server/internal/errors"
	"github.com/librarysites/librarysites-server/internal/hostname"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

const (
	sessionKey    ctxKey = "session"
	resolutionKey ctxKey = "resolution"
	clientIPKey   ctxKey = "clientIP"
)

// SessionFromContext returns the caller's session, or nil when signed out.
func SessionFromContext(ctx context.Context) *domain.SessionRecord {
	sess, _ := ctx.Value(sessionKey).(*domain.SessionRecord)
	return sess
}

// requireSession returns the caller's session or a 401.
func requireSession(ctx context.Context) (*domain.SessionRecord, error) {
	sess := SessionFromContext(ctx)
	if sess == nil {
		return nil, domainerrors.Unauthorized("Authentication required")
	}
	return sess, nil
}

func withSession(ctx context.Context, sess *domain.SessionRecord) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// ResolutionFromContext returns how the request host was classified. The
// zero Resolution means the host middleware did not run or skipped the path.
func ResolutionFromContext(ctx context.Context) hostname.Resolution {
	res, _ := ctx.Value(resolutionKey).(hostname.Resolution)
	return res
}

func withResolution(ctx context.Context, res hostname.Resolution) context.Context {
	return context.WithValue(ctx, resolutionKey, res)
}

func clientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)
	return ip
}

func withClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

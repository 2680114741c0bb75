package auth

import "context"

// Session is the authenticated identity a request runs as.
type Session struct {
	UserID        string
	Authenticated bool
}

type sessionKey struct{}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session stored in ctx. The zero Session is
// returned for unauthenticated contexts.
func SessionFromContext(ctx context.Context) Session {
	s, _ := ctx.Value(sessionKey{}).(Session)
	return s
}

package chatguard

import (
	"context"
	"log/slog"
)

// Context keys for chatguard values.
type contextKey string

const (
	contextKeyRequest contextKey = "chatguard:request"
	contextKeyLogger  contextKey = "chatguard:logger"
)

// WithRequest adds the guarded request to the context.
// Guards set it before invoking the guarded operation.
func WithRequest(ctx context.Context, req *Request) context.Context {
	return context.WithValue(ctx, contextKeyRequest, req)
}

// RequestFromContext retrieves the guarded request from context.
// Returns nil if not set.
func RequestFromContext(ctx context.Context) *Request {
	if v := ctx.Value(contextKeyRequest); v != nil {
		if req, ok := v.(*Request); ok {
			return req
		}
	}
	return nil
}

// ActorFromContext returns the actor of the guarded request in context,
// or NoUser.
func ActorFromContext(ctx context.Context) UserID {
	if req := RequestFromContext(ctx); req != nil {
		return req.ActorID
	}
	return NoUser
}

// WithLogger adds a logger to the context for denial policies.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// LoggerFromContext retrieves the logger from context.
// Falls back to a logger that discards everything.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if v := ctx.Value(contextKeyLogger); v != nil {
		if l, ok := v.(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return slog.New(slog.DiscardHandler)
}

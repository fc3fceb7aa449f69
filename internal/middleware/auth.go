package middleware

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/receiptsplit/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for storing the authenticated user ID.
	UserIDKey contextKey = "user_id"
	// EmailKey is the context key for storing the authenticated user's email.
	EmailKey contextKey = "email"
	// RequestIDKey is the context key for the per-call request ID.
	RequestIDKey contextKey = "request_id"
)

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// GetEmail extracts the user email from the context.
// Returns empty string if not found.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// GetRequestID extracts the request ID from the context.
// Returns empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// TokenValidator checks a bearer token. *auth.JWTManager implements it.
type TokenValidator interface {
	Validate(token string) (auth.Identity, error)
}

// bearerToken returns the token from an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != "Bearer" || token == "" {
		return "", false
	}
	return token, true
}

func withIdentity(ctx context.Context, id auth.Identity) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, id.UserID)
	return context.WithValue(ctx, EmailKey, id.Email)
}

// reject logs a refused call and converts err to an Unauthenticated error.
// Refused calls never reach the logging interceptor.
func reject(ctx context.Context, req connect.AnyRequest, err error) error {
	slog.Warn("RPC unauthenticated",
		"procedure", req.Spec().Procedure,
		"request_id", GetRequestID(ctx),
		"error", err,
	)
	return connect.NewError(connect.CodeUnauthenticated, err)
}

// RequireAuth returns an interceptor that rejects calls without a valid bearer
// token and adds the caller's user ID and email to the context.
func RequireAuth(validator TokenValidator) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, reject(ctx, req, auth.ErrMissingToken)
			}

			token, ok := bearerToken(authHeader)
			if !ok {
				return nil, reject(ctx, req, auth.ErrInvalidToken)
			}

			id, err := validator.Validate(token)
			if err != nil {
				return nil, reject(ctx, req, err)
			}

			return next(withIdentity(ctx, id), req)
		}
	}
}

// OptionalAuth returns an interceptor that identifies the caller when a valid
// bearer token is present and lets anonymous calls through otherwise.
func OptionalAuth(validator TokenValidator) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if token, ok := bearerToken(req.Header().Get("Authorization")); ok {
				// Invalid tokens are ignored
				if id, err := validator.Validate(token); err == nil {
					ctx = withIdentity(ctx, id)
				}
			}
			return next(ctx, req)
		}
	}
}

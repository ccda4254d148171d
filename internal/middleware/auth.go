package middleware

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/rollbook/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// OperatorKey is the context key for storing the authenticated operator name.
const OperatorKey contextKey = "operator"

// GetOperator extracts the operator name from the context.
// Returns empty string if not found.
func GetOperator(ctx context.Context) string {
	name, _ := ctx.Value(OperatorKey).(string)
	return name
}

// authenticate validates the Bearer token of an Authorization header and
// returns a context carrying the operator.
func authenticate(ctx context.Context, jwtManager *auth.JWTManager, authHeader string) (context.Context, error) {
	if authHeader == "" {
		return nil, auth.ErrMissingToken
	}

	// Parse Bearer token
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, auth.ErrInvalidToken
	}

	claims, err := jwtManager.Validate(parts[1])
	if err != nil {
		return nil, err
	}
	return context.WithValue(ctx, OperatorKey, claims.Operator), nil
}

// RequireAuth returns an interceptor that validates JWT tokens on every RPC
// except the given public procedures (e.g. login).
func RequireAuth(jwtManager *auth.JWTManager, public ...string) connect.UnaryInterceptorFunc {
	open := make(map[string]bool, len(public))
	for _, p := range public {
		open[p] = true
	}

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if open[req.Spec().Procedure] {
				return next(ctx, req)
			}

			ctx, err := authenticate(ctx, jwtManager, req.Header().Get("Authorization"))
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			// Call the next handler with enriched context
			return next(ctx, req)
		}
	}
}

// RequireAuthHTTP is RequireAuth for plain HTTP routes such as file export.
func RequireAuthHTTP(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, err := authenticate(r.Context(), jwtManager, r.Header.Get("Authorization"))
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

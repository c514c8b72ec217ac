package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ContextKey is a type for context keys
type ContextKey string

const (
	// ContextKeyUserID is the context key for the user ID
	ContextKeyUserID ContextKey = "user_id"
)

// OptionalJWT attaches the bearer token's subject as the user ID. Requests
// with a missing, malformed or invalid token pass through as anonymous.
func OptionalJWT(secret, issuer string) func(next http.Handler) http.Handler {
	key := []byte(secret)

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(opts...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			userID := subjectFromHeader(parser, key, r.Header.Get("Authorization"))
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func subjectFromHeader(parser *jwt.Parser, key []byte, header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	var claims jwt.RegisteredClaims
	token, err := parser.ParseWithClaims(strings.TrimSpace(parts[1]), &claims, func(*jwt.Token) (any, error) {
		return key, nil
	})
	if err != nil || !token.Valid {
		return ""
	}
	return claims.Subject
}

// WithUserID stores the user ID in ctx
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ContextKeyUserID, userID)
}

// GetUserID returns the user ID from context, or "" for anonymous requests
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyUserID).(string); ok {
		return id
	}
	return ""
}

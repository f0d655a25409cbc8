package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"zonewatch/internal/auth"

	"go.uber.org/zap"
)

// TokenVerifier is the part of the auth service the middleware needs.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*auth.Claims, error)
	CheckTokenVersion(ctx context.Context, officerID string, tokenVersion int) (bool, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
	logr     *zap.Logger
}

type contextKey string

const (
	ContextOfficerIDKey contextKey = "officerID"
	ContextAuthMethod   contextKey = "authMethod"
)

// NewAuthMiddleware creates a reusable JWT auth middleware instance
func NewAuthMiddleware(verifier TokenVerifier, logr *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, logr: logr}
}

// JWTAuth validates the bearer token and attaches the officer to the request context
func (m *AuthMiddleware) JWTAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, "missing authorization header")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			unauthorized(w, "invalid token format")
			return
		}

		claims, err := m.verifier.VerifyAccessToken(tokenString)
		if err != nil {
			m.logr.Warn("token parse error", zap.Error(err))
			unauthorized(w, "invalid or expired token")
			return
		}

		// Logout bumps the stored version, so older tokens stop here.
		valid, err := m.verifier.CheckTokenVersion(r.Context(), claims.Subject, claims.TokenVersion)
		if err != nil {
			m.logr.Error("failed checking token version", zap.Error(err), zap.String("officer_id", claims.Subject))
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if !valid {
			m.logr.Warn("token version invalid", zap.String("officer_id", claims.Subject))
			unauthorized(w, "token revoked or invalid")
			return
		}

		ctx := context.WithValue(r.Context(), ContextOfficerIDKey, claims.Subject)
		ctx = context.WithValue(ctx, ContextAuthMethod, claims.AuthMethod)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OfficerIDFromContext returns the officer attached by JWTAuth.
func OfficerIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ContextOfficerIDKey).(string)
	return id, ok && id != ""
}

// AuthMethodFromContext returns how the officer signed in ("local" or "ldap").
func AuthMethodFromContext(ctx context.Context) string {
	method, _ := ctx.Value(ContextAuthMethod).(string)
	return method
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, msg)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

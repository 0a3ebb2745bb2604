package middleware

import (
	"context"
	"errors"
	"strings"

	"skills-matrix/internal/pkg/jwt"
	"skills-matrix/internal/pkg/principal"

	"github.com/gofiber/fiber/v3"
)

const (
	CtxUsernameKey = "username"
	CtxTokenIDKey  = "token_id"
)

// RevocationChecker reports whether a token id was revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) bool
}

type AuthMiddleware struct {
	jwt     jwt.Service
	revoked RevocationChecker
}

func NewAuthMiddleware(jwtSvc jwt.Service, revoked RevocationChecker) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc, revoked: revoked}
}

// Middleware guards routes with an Authorization bearer token.
func (m *AuthMiddleware) Middleware() fiber.Handler {
	return m.guard(func(c fiber.Ctx) (string, bool) {
		return BearerToken(c.Get("Authorization"))
	})
}

// QueryTokenMiddleware also accepts ?token=, for clients such as browser
// websockets that cannot set headers.
func (m *AuthMiddleware) QueryTokenMiddleware() fiber.Handler {
	return m.guard(func(c fiber.Ctx) (string, bool) {
		if tok, ok := BearerToken(c.Get("Authorization")); ok {
			return tok, true
		}
		tok := strings.TrimSpace(c.Query("token"))
		return tok, tok != ""
	})
}

func (m *AuthMiddleware) guard(extract func(c fiber.Ctx) (string, bool)) fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := extract(c)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Authorization token required", nil)
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", err)
		}

		if m.revoked != nil && m.revoked.IsRevoked(c.Context(), claims.TokenID()) {
			return NewAppError(fiber.StatusUnauthorized, "Token revoked", nil)
		}

		c.Locals(CtxUsernameKey, claims.Username)
		c.Locals(CtxTokenIDKey, claims.TokenID())
		c.SetContext(principal.WithUsername(c.Context(), claims.Username))

		return c.Next()
	}
}

func BearerToken(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

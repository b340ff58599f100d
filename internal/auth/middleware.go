package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const claimsKey = "auth.claims"

// BearerToken extracts the token from the Authorization header,
// falling back to the access_token query parameter browsers use for websockets
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return r.URL.Query().Get("access_token")
}

// Middleware rejects requests without a valid user token and stores the claims on the context
func (a *Authenticator) Middleware(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := BearerToken(c.Request())
			if token == "" {
				logger.Warn("Request rejected: missing token", zap.String("path", c.Path()))
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error":   "missing_token",
					"message": "JWT token is required in Authorization header",
				})
			}

			claims, err := a.ValidateToken(token)
			if err != nil {
				logger.Warn("Request rejected: invalid token", zap.String("path", c.Path()), zap.Error(err))
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error":   "invalid_token",
					"message": "Invalid or expired JWT token",
				})
			}

			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// ClaimsFrom returns the claims stored by Middleware, or nil
func ClaimsFrom(c echo.Context) *JWTClaims {
	claims, _ := c.Get(claimsKey).(*JWTClaims)
	return claims
}

// EmailFrom returns the authenticated user's email, or "" when the request is anonymous
func EmailFrom(c echo.Context) string {
	if claims := ClaimsFrom(c); claims != nil {
		return claims.Email
	}
	return ""
}

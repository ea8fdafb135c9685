// Package middleware contains the HTTP middlewares guarding and decorating
// requests before they reach handlers.
package middleware

import (
	"strings"

	"sikre/internal/domain/entity"
	domainerrors "sikre/internal/domain/errors"
	"sikre/internal/usecase"

	"github.com/labstack/echo/v4"
)

const currentUserKey = "currentUser"

// AuthMiddleware guards protected routes. Every request must present a valid
// bearer token identifying an active user; the resolved user is stashed on
// the request context for handlers.
type AuthMiddleware struct {
	authUsecase usecase.AuthUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(authUsecase usecase.AuthUsecase) *AuthMiddleware {
	return &AuthMiddleware{authUsecase: authUsecase}
}

// Authenticate validates the bearer token and loads the acting user. A
// missing credential and an invalid one are distinct errors; everything
// downstream of a malformed or expired token is the same invalid-token
// answer.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return domainerrors.ErrMissingCredential
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			return domainerrors.ErrMissingCredential.WithDetails("expected a Bearer token")
		}

		user, err := m.authUsecase.ResolveToken(c.Request().Context(), tokenString)
		if err != nil {
			return err
		}

		c.Set(currentUserKey, user)

		return next(c)
	}
}

// CurrentUser returns the authenticated user set by Authenticate.
func CurrentUser(c echo.Context) (*entity.User, error) {
	user, ok := c.Get(currentUserKey).(*entity.User)
	if !ok || user == nil {
		return nil, domainerrors.ErrMissingCredential
	}

	return user, nil
}

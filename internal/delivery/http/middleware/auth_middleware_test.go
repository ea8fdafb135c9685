package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"sikre/internal/domain/entity"
	domainerrors "sikre/internal/domain/errors"
	"sikre/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuthUsecase resolves one known token to one user.
type fakeAuthUsecase struct {
	validToken string
	user       *entity.User
}

func (f *fakeAuthUsecase) Register(context.Context, *usecase.RegisterInput) (*usecase.LoginOutput, error) {
	panic("not used")
}

func (f *fakeAuthUsecase) Login(context.Context, *usecase.LoginInput) (*usecase.LoginOutput, error) {
	panic("not used")
}

func (f *fakeAuthUsecase) FederatedLogin(context.Context, *usecase.FederatedLoginInput) (*usecase.LoginOutput, error) {
	panic("not used")
}

func (f *fakeAuthUsecase) ResolveToken(_ context.Context, tokenString string) (*entity.User, error) {
	if tokenString == f.validToken {
		return f.user, nil
	}

	return nil, domainerrors.ErrTokenInvalid
}

func callAuthenticated(t *testing.T, authHeader string) (*httptest.ResponseRecorder, error) {
	t.Helper()

	mw := NewAuthMiddleware(&fakeAuthUsecase{
		validToken: "good-token",
		user:       &entity.User{ID: uuid.New(), Username: "ada", IsActive: true},
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw.Authenticate(func(c echo.Context) error {
		user, err := CurrentUser(c)
		require.NoError(t, err)

		return c.String(http.StatusOK, user.Username)
	})

	return rec, handler(c)
}

func TestAuthenticate_ValidTokenReachesHandler(t *testing.T) {
	rec, err := callAuthenticated(t, "Bearer good-token")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ada", rec.Body.String())
}

func TestAuthenticate_MissingHeaderRejected(t *testing.T) {
	_, err := callAuthenticated(t, "")
	assert.ErrorIs(t, err, domainerrors.ErrMissingCredential)
}

func TestAuthenticate_NonBearerSchemeRejected(t *testing.T) {
	_, err := callAuthenticated(t, "Basic dXNlcjpwYXNz")
	assert.ErrorIs(t, err, domainerrors.ErrMissingCredential)
}

func TestAuthenticate_InvalidTokenRejected(t *testing.T) {
	_, err := callAuthenticated(t, "Bearer forged-token")
	assert.ErrorIs(t, err, domainerrors.ErrTokenInvalid)
}

func TestCurrentUser_MissingWithoutAuthenticate(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/items", nil), httptest.NewRecorder())

	_, err := CurrentUser(c)
	assert.ErrorIs(t, err, domainerrors.ErrMissingCredential)
}

package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sikre/config"
	"sikre/internal/delivery/http/middleware"
	httpvalidator "sikre/internal/delivery/http/validator"
	"sikre/internal/domain/entity"
	domainerrors "sikre/internal/domain/errors"
	"sikre/internal/domain/repository"
	"sikre/internal/domain/service"
	"sikre/internal/infra/auth"
	"sikre/internal/usecase"
	"sikre/internal/usecase/impl"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flowStore backs the end-to-end tests: federated login, token replay and
// item access exercised through the full echo chain.
type flowStore struct {
	users          map[uuid.UUID]*entity.User
	auths          map[uuid.UUID]*entity.Authentication
	items          map[uuid.UUID]*entity.Item
	itemPrincipals map[uuid.UUID]map[uuid.UUID]bool
}

func newFlowStore() *flowStore {
	return &flowStore{
		users:          make(map[uuid.UUID]*entity.User),
		auths:          make(map[uuid.UUID]*entity.Authentication),
		items:          make(map[uuid.UUID]*entity.Item),
		itemPrincipals: make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

type flowUserRepo struct{ store *flowStore }

func (r *flowUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := r.store.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return user, nil
}

func (r *flowUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, user := range r.store.users {
		if user.Username == username {
			return user, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *flowUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, user := range r.store.users {
		if user.Username == username {
			return true, nil
		}
	}

	return false, nil
}

func (r *flowUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, user := range r.store.users {
		if user.Email != nil && *user.Email == email {
			return true, nil
		}
	}

	return false, nil
}

func (r *flowUserRepo) Create(_ context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.store.users[user.ID] = user

	return nil
}

func (r *flowUserRepo) Update(_ context.Context, user *entity.User) error {
	if _, ok := r.store.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	r.store.users[user.ID] = user

	return nil
}

type flowAuthRepo struct{ store *flowStore }

func (r *flowAuthRepo) CreateAuthentication(_ context.Context, record *entity.Authentication) error {
	for _, existing := range r.store.auths {
		if existing.Provider == record.Provider && existing.ProviderUserID == record.ProviderUserID {
			return domainerrors.ErrConflict.WrapMessage("authentication method already linked")
		}
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	r.store.auths[record.ID] = record

	return nil
}

func (r *flowAuthRepo) FindAuthentication(_ context.Context, provider entity.ProviderType, providerUserID string) (*entity.Authentication, error) {
	for _, record := range r.store.auths {
		if record.Provider == provider && record.ProviderUserID == providerUserID {
			return record, nil
		}
	}

	return nil, repository.ErrAuthNotFound
}

func (r *flowAuthRepo) ListAuthenticationsByUserID(_ context.Context, userID uuid.UUID) ([]*entity.Authentication, error) {
	var records []*entity.Authentication
	for _, record := range r.store.auths {
		if record.UserID == userID {
			records = append(records, record)
		}
	}

	return records, nil
}

type flowItemRepo struct{ store *flowStore }

func (r *flowItemRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Item, error) {
	item, ok := r.store.items[id]
	if !ok {
		return nil, repository.ErrItemNotFound
	}

	return item, nil
}

func (r *flowItemRepo) ListAllowedByUser(_ context.Context, userID uuid.UUID, _ *uuid.UUID) ([]*entity.Item, error) {
	var items []*entity.Item
	for id, item := range r.store.items {
		if r.store.itemPrincipals[id][userID] {
			items = append(items, item)
		}
	}

	return items, nil
}

func (r *flowItemRepo) Create(_ context.Context, item *entity.Item) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.store.items[item.ID] = item

	return nil
}

func (r *flowItemRepo) Update(_ context.Context, item *entity.Item) error {
	if _, ok := r.store.items[item.ID]; !ok {
		return repository.ErrItemNotFound
	}
	r.store.items[item.ID] = item

	return nil
}

func (r *flowItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.items[id]; !ok {
		return repository.ErrItemNotFound
	}
	delete(r.store.items, id)
	delete(r.store.itemPrincipals, id)

	return nil
}

func (r *flowItemRepo) IsPrincipalAllowed(_ context.Context, itemID, userID uuid.UUID) (bool, error) {
	return r.store.itemPrincipals[itemID][userID], nil
}

func (r *flowItemRepo) GrantPrincipal(_ context.Context, itemID, userID uuid.UUID) error {
	if r.store.itemPrincipals[itemID] == nil {
		r.store.itemPrincipals[itemID] = make(map[uuid.UUID]bool)
	}
	r.store.itemPrincipals[itemID][userID] = true

	return nil
}

func (r *flowItemRepo) RevokePrincipal(_ context.Context, itemID, userID uuid.UUID) error {
	delete(r.store.itemPrincipals[itemID], userID)

	return nil
}

type flowRepoFactory struct{ store *flowStore }

func (f *flowRepoFactory) UserRepo() repository.UserRepository { return &flowUserRepo{store: f.store} }

func (f *flowRepoFactory) AuthRepo() repository.AuthRepository { return &flowAuthRepo{store: f.store} }

func (f *flowRepoFactory) ItemRepo() repository.ItemRepository { return &flowItemRepo{store: f.store} }

func (f *flowRepoFactory) ServiceRepo() repository.ServiceRepository { return nil }

func (f *flowRepoFactory) GroupRepo() repository.GroupRepository { return nil }

type flowTxManager struct{ store *flowStore }

func (m *flowTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(&flowRepoFactory{store: m.store})
}

type flowExchanger struct {
	provider entity.ProviderType
	identity entity.ExternalIdentity
}

func (f *flowExchanger) Exchange(_ context.Context, _ service.ExchangeInput) (*entity.ExternalIdentity, error) {
	identity := f.identity

	return &identity, nil
}

func (f *flowExchanger) Provider() entity.ProviderType { return f.provider }

// newFlowServer assembles the real delivery chain on in-memory storage:
// validator, error middleware, auth middleware, handlers and routes.
func newFlowServer(t *testing.T) *echo.Echo {
	t.Helper()

	store := newFlowStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokenService, err := auth.NewJWTService(&config.Config{
		Token: config.TokenConfig{Secret: "flow-test-secret", TTL: 30 * time.Minute},
	})
	require.NoError(t, err)

	authUC := impl.NewAuthService(impl.AuthServiceParams{
		TxManager: &flowTxManager{store: store},
		UserRepo:  &flowUserRepo{store: store},
		AuthRepo:  &flowAuthRepo{store: store},
		Hasher:    auth.NewBcryptHasherWithCost(4),
		Providers: service.OAuthProviders{
			entity.ProviderTypeGoogle: &flowExchanger{
				provider: entity.ProviderTypeGoogle,
				identity: entity.ExternalIdentity{
					Provider:  entity.ProviderTypeGoogle,
					SubjectID: "google-sub-1",
					Name:      "Grace Hopper",
					Email:     "grace@example.com",
				},
			},
			entity.ProviderTypeGitHub: &flowExchanger{
				provider: entity.ProviderTypeGitHub,
				identity: entity.ExternalIdentity{
					Provider:  entity.ProviderTypeGitHub,
					SubjectID: "github-sub-2",
					Name:      "Bob Tables",
					Email:     "bob@example.com",
				},
			},
		},
		TokenService: tokenService,
		Logger:       logger,
	})

	itemUC := impl.NewItemService(impl.ItemServiceParams{
		TxManager: &flowTxManager{store: store},
		ItemRepo:  &flowItemRepo{store: store},
		UserRepo:  &flowUserRepo{store: store},
		Logger:    logger,
	})

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpvalidator.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger).HandleHTTPError

	authHandler := NewAuthHandler(authUC, logger)
	itemHandler := NewItemHandler(itemUC, logger)
	authMW := middleware.NewAuthMiddleware(authUC)

	e.POST("/auth/:provider", authHandler.FederatedLogin)
	items := e.Group("/items", authMW.Authenticate)
	items.POST("", itemHandler.CreateItem)
	items.GET("/:id", itemHandler.GetItem)
	items.POST("/:id/share", itemHandler.ShareItem)

	return e
}

func doJSON(e *echo.Echo, method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

type envelope struct {
	Success bool                    `json:"success"`
	Code    int                     `json:"code"`
	Data    json.RawMessage         `json:"data"`
	Error   *domainerrors.ErrorInfo `json:"error"`
}

func decodeLogin(t *testing.T, rec *httptest.ResponseRecorder) *usecase.LoginOutput {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	var output usecase.LoginOutput
	require.NoError(t, json.Unmarshal(env.Data, &output))

	return &output
}

const federatedLoginBody = `{"code":"auth-code","clientId":"client-1","redirectUri":"https://app.example.com/callback"}`

func TestFederatedLoginAndItemAccessFlow(t *testing.T) {
	e := newFlowServer(t)

	// First login provisions the user, the replay resolves the same one.
	rec := doJSON(e, http.MethodPost, "/auth/google", "", federatedLoginBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := decodeLogin(t, rec)
	assert.Equal(t, "grace.hopper", first.User.Username)
	assert.NotEmpty(t, first.Token)

	rec = doJSON(e, http.MethodPost, "/auth/google", "", federatedLoginBody)
	require.Equal(t, http.StatusOK, rec.Code)
	replay := decodeLogin(t, rec)
	assert.Equal(t, first.User.ID, replay.User.ID)

	rec = doJSON(e, http.MethodPost, "/items", first.Token, `{"name":"prod-db"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var item entity.Item
	require.NoError(t, json.Unmarshal(env.Data, &item))
	itemURL := "/items/" + item.ID.String()

	rec = doJSON(e, http.MethodGet, itemURL, first.Token, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// A different federated identity gets its own user and no access.
	rec = doJSON(e, http.MethodPost, "/auth/github", "", federatedLoginBody)
	require.Equal(t, http.StatusOK, rec.Code)
	outsider := decodeLogin(t, rec)
	assert.NotEqual(t, first.User.ID, outsider.User.ID)

	rec = doJSON(e, http.MethodGet, itemURL, outsider.Token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(e, http.MethodGet, itemURL, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodGet, itemURL, "not-a-token", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEmptyBodyRequestsReturnBindingError(t *testing.T) {
	e := newFlowServer(t)

	var rec *httptest.ResponseRecorder
	assert.NotPanics(t, func() {
		rec = doJSON(e, http.MethodPost, "/auth/google", "", "")
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	login := doJSON(e, http.MethodPost, "/auth/google", "", federatedLoginBody)
	require.Equal(t, http.StatusOK, login.Code)
	token := decodeLogin(t, login).Token

	created := doJSON(e, http.MethodPost, "/items", token, `{"name":"prod-db"}`)
	require.Equal(t, http.StatusCreated, created.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &env))
	var item entity.Item
	require.NoError(t, json.Unmarshal(env.Data, &item))

	assert.NotPanics(t, func() {
		rec = doJSON(e, http.MethodPost, "/items", token, "")
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.NotPanics(t, func() {
		rec = doJSON(e, http.MethodPost, "/items/"+item.ID.String()+"/share", token, "")
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

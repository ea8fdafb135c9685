// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	deliverycontext "sikre/internal/delivery/context"
	"sikre/internal/domain/entity"
	domainerrors "sikre/internal/domain/errors"
	"sikre/internal/domain/repository"
	"sikre/internal/domain/service"
	"sikre/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// maxUsernameSuffix caps the numeric disambiguation loop during provisioning.
const maxUsernameSuffix = 50

// authService implements the AuthUsecase interface.
type authService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	authRepo     repository.AuthRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	providers    service.OAuthProviders
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	AuthRepo     repository.AuthRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Providers    service.OAuthProviders
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		authRepo:     params.AuthRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		providers:    params.Providers,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a local account with a password credential. The user and
// its authentication record are created in one transaction.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("username", input.Username))

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	email := input.Email
	newUser := &entity.User{
		Username: input.Username,
		Email:    &email,
		IsActive: true,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		authRepo := repoFactory.AuthRepo()

		taken, err := userRepo.ExistsByUsername(ctx, input.Username)
		if err != nil {
			return errors.Wrap(err, "failed to check username availability")
		}
		if taken {
			return domainerrors.ErrConflict.WrapMessage("username already taken")
		}

		emailTaken, err := userRepo.ExistsByEmail(ctx, input.Email)
		if err != nil {
			return errors.Wrap(err, "failed to check email availability")
		}
		if emailTaken {
			return domainerrors.ErrConflict.WrapMessage("email already taken")
		}

		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create user during registration")
		}

		newAuth := &entity.Authentication{
			UserID:         newUser.ID,
			Provider:       entity.ProviderTypePassword,
			ProviderUserID: input.Username,
			PasswordHash:   hashedPassword,
		}

		return authRepo.CreateAuthentication(ctx, newAuth)
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("username", input.Username), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", newUser.ID))

	return srv.buildLoginOutput(ctx, newUser)
}

// Login verifies a username/password pair. Unknown username, wrong password
// and password-less account all surface as the same invalid-credentials
// error so callers cannot probe which accounts exist.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("username", input.Username))

	authRecord, err := srv.authRepo.FindAuthentication(ctx, entity.ProviderTypePassword, input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrAuthNotFound) {
			srv.log(ctx).Warn("Login failed, no password credential", slog.String("username", input.Username))

			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
		}

		return nil, errors.Wrap(err, "failed to find authentication")
	}

	// Check the password outside any transaction (bcrypt is CPU-bound).
	if !srv.hasher.Check(input.Password, authRecord.PasswordHash) {
		srv.log(ctx).Warn("Login failed, password mismatch", slog.String("username", input.Username))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	loggedInUser, err := srv.userRepo.FindByID(ctx, authRecord.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user for login")
	}
	if !loggedInUser.IsActive {
		srv.log(ctx).Warn("Login rejected, user deactivated", slog.Any("userID", loggedInUser.ID))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	srv.log(ctx).Debug("User logged in", slog.Any("userID", loggedInUser.ID))

	return srv.buildLoginOutput(ctx, loggedInUser)
}

// FederatedLogin completes an OAuth2 authorization-code flow against one of
// the configured providers and resolves the returned identity claim to a
// local user, provisioning one on first login.
func (srv *authService) FederatedLogin(ctx context.Context, input *usecase.FederatedLoginInput) (*usecase.LoginOutput, error) {
	providerType := entity.ProviderType(input.Provider)
	provider, ok := srv.providers[providerType]
	if !ok {
		return nil, domainerrors.ErrNotFound.WrapMessage("unknown identity provider")
	}

	srv.log(ctx).Info("Starting federated login", slog.String("provider", providerType.String()))

	identity, err := provider.Exchange(ctx, service.ExchangeInput{
		Code:        input.Code,
		ClientID:    input.ClientID,
		RedirectURI: input.RedirectURI,
	})
	if err != nil {
		srv.log(ctx).Warn("Identity provider exchange failed", slog.String("provider", providerType.String()), slog.Any("error", err))

		return nil, domainerrors.ErrIdentityProvider.WrapMessage("identity exchange failed")
	}

	loggedInUser, err := srv.resolveOrCreateUser(ctx, identity)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve federated identity")
	}
	if !loggedInUser.IsActive {
		srv.log(ctx).Warn("Federated login rejected, user deactivated", slog.Any("userID", loggedInUser.ID))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	srv.log(ctx).Debug("Federated login completed", slog.Any("userID", loggedInUser.ID), slog.String("provider", providerType.String()))

	return srv.buildLoginOutput(ctx, loggedInUser)
}

// resolveOrCreateUser maps a federated identity claim onto a local user. The
// common case is a plain lookup; first logins provision a user and the
// authentication link in one transaction. A concurrent first login with the
// same claim loses the unique-index race and re-resolves the winner's record,
// so the same claim always converges on one user.
func (srv *authService) resolveOrCreateUser(ctx context.Context, identity *entity.ExternalIdentity) (*entity.User, error) {
	authRecord, err := srv.authRepo.FindAuthentication(ctx, identity.Provider, identity.SubjectID)
	if err == nil {
		return srv.userRepo.FindByID(ctx, authRecord.UserID)
	}
	if !errors.Is(err, repository.ErrAuthNotFound) {
		return nil, errors.Wrap(err, "failed to find authentication")
	}

	srv.log(ctx).Info("Unknown federated identity, provisioning user", slog.String("provider", identity.Provider.String()))

	var newUser *entity.User
	txErr := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		authRepo := repoFactory.AuthRepo()

		username, err := srv.pickUsername(ctx, userRepo, identity)
		if err != nil {
			return err
		}

		newUser = &entity.User{
			Username: username,
			Email:    srv.claimEmail(ctx, userRepo, identity),
			IsActive: true,
		}

		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create user for federated login")
		}

		newAuth := &entity.Authentication{
			UserID:         newUser.ID,
			Provider:       identity.Provider,
			ProviderUserID: identity.SubjectID,
		}

		return authRepo.CreateAuthentication(ctx, newAuth)
	})
	if txErr == nil {
		return newUser, nil
	}

	// Lost the provisioning race: the unique index on (provider, subject)
	// rejected our insert, so the winner's record must exist now.
	if errors.Is(txErr, domainerrors.ErrConflict) {
		srv.log(ctx).Debug("Concurrent provisioning detected, re-resolving", slog.String("provider", identity.Provider.String()))

		authRecord, err := srv.authRepo.FindAuthentication(ctx, identity.Provider, identity.SubjectID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to re-resolve authentication after conflict")
		}

		return srv.userRepo.FindByID(ctx, authRecord.UserID)
	}

	return nil, errors.Wrap(txErr, "failed to execute provisioning transaction")
}

// pickUsername derives a username from the identity claim and disambiguates
// with a numeric suffix until it is free.
func (srv *authService) pickUsername(ctx context.Context, userRepo repository.UserRepository, identity *entity.ExternalIdentity) (string, error) {
	base := normalizeUsername(identity.Name)
	if base == "" && identity.Email != "" {
		base = normalizeUsername(strings.SplitN(identity.Email, "@", 2)[0])
	}
	if base == "" {
		base = identity.Provider.String() + "-" + identity.SubjectID
	}

	candidate := base
	for i := 2; i <= maxUsernameSuffix; i++ {
		taken, err := userRepo.ExistsByUsername(ctx, candidate)
		if err != nil {
			return "", errors.Wrap(err, "failed to check username availability")
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}

	return "", domainerrors.ErrConflict.WrapMessage("could not derive a free username")
}

// claimEmail returns the identity's email unless another account already owns
// it. The federated subject keeps the account usable; the email is just
// dropped rather than failing the login.
func (srv *authService) claimEmail(ctx context.Context, userRepo repository.UserRepository, identity *entity.ExternalIdentity) *string {
	if identity.Email == "" {
		return nil
	}

	taken, err := userRepo.ExistsByEmail(ctx, identity.Email)
	if err != nil || taken {
		if taken {
			srv.log(ctx).Warn("Provider email already claimed, provisioning without email", slog.String("provider", identity.Provider.String()))
		}

		return nil
	}

	email := identity.Email

	return &email
}

// ResolveToken validates a bearer token and loads the active user behind it.
// Expired, malformed, badly signed, unknown-subject and deactivated-user
// tokens all surface as the same invalid-token error; the distinction only
// shows up in logs.
func (srv *authService) ResolveToken(ctx context.Context, tokenString string) (*entity.User, error) {
	claims, err := srv.tokenService.Decode(tokenString)
	if err != nil {
		srv.log(ctx).Warn("Token validation failed", slog.Any("error", err))

		return nil, domainerrors.ErrTokenInvalid.WrapMessage("token validation failed")
	}

	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Token subject does not exist", slog.Any("userID", claims.UserID))

			return nil, domainerrors.ErrTokenInvalid.WrapMessage("token subject not found")
		}

		return nil, errors.Wrap(err, "failed to load token subject")
	}
	if !user.IsActive {
		srv.log(ctx).Warn("Token subject deactivated", slog.Any("userID", user.ID))

		return nil, domainerrors.ErrTokenInvalid.WrapMessage("token subject deactivated")
	}

	return user, nil
}

func (srv *authService) buildLoginOutput(ctx context.Context, user *entity.User) (*usecase.LoginOutput, error) {
	token, err := srv.tokenService.Issue(user.ID)
	if err != nil {
		srv.log(ctx).Error("Failed to issue token", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to issue token")
	}

	return &usecase.LoginOutput{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(srv.tokenService.TokenDuration().Seconds()),
		User:      user,
	}, nil
}

// normalizeUsername lowercases the claim-provided name and keeps only the
// characters allowed in usernames.
func normalizeUsername(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '.' || r == '-' || r == '_':
			b.WriteByte('.')
		}
	}

	return strings.Trim(b.String(), ".")
}

// Package oauth implements the authorization-code exchange against external
// identity providers: code for access token, then access token for profile.
package oauth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"sikre/config"
	"sikre/internal/domain/entity"
	"sikre/internal/domain/service"

	"github.com/pkg/errors"
)

// profileParser turns a provider's raw profile document into an identity claim.
type profileParser func(body []byte) (*entity.ExternalIdentity, error)

// exchanger is a generic two-step code exchanger. Provider-specific knowledge
// is limited to the endpoints and the profile parser; the flow itself is the
// same everywhere.
type exchanger struct {
	provider     entity.ProviderType
	clientID     string
	clientSecret string
	tokenURL     string
	userInfoURL  string
	httpClient   *http.Client
	parseProfile profileParser
	logger       *slog.Logger
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Provider returns the provider this exchanger talks to.
func (e *exchanger) Provider() entity.ProviderType {
	return e.provider
}

// Exchange performs the two sequential outbound calls of the flow. Either
// failure aborts the attempt; there is no retry here, callers may wrap one.
func (e *exchanger) Exchange(ctx context.Context, input service.ExchangeInput) (*entity.ExternalIdentity, error) {
	accessToken, err := e.exchangeCodeForToken(ctx, input)
	if err != nil {
		return nil, errors.Wrap(err, "failed to exchange code for token")
	}
	e.logger.Debug("Exchanged authorization code", slog.String("provider", e.provider.String()))

	identity, err := e.fetchProfile(ctx, accessToken)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch provider profile")
	}

	if identity.SubjectID == "" {
		// Without a stable subject there is no identity to establish.
		return nil, errors.Errorf("provider %s returned a profile without a subject id", e.provider)
	}
	identity.Provider = e.provider

	e.logger.Debug("Fetched provider profile",
		slog.String("provider", e.provider.String()),
		slog.String("subject", identity.SubjectID))

	return identity, nil
}

// exchangeCodeForToken trades the one-time authorization code for a provider
// access token using the server-held client secret.
func (e *exchanger) exchangeCodeForToken(ctx context.Context, input service.ExchangeInput) (string, error) {
	clientID := input.ClientID
	if clientID == "" {
		clientID = e.clientID
	}

	data := url.Values{}
	data.Set("client_id", clientID)
	data.Set("client_secret", e.clientSecret)
	data.Set("code", input.Code)
	data.Set("grant_type", "authorization_code")
	data.Set("redirect_uri", input.RedirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", errors.Wrap(err, "failed to create token exchange request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "token endpoint call failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		return "", errors.Errorf("token exchange failed with status %d: %s", resp.StatusCode, string(body))
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", errors.Wrap(err, "failed to decode token response")
	}
	if token.AccessToken == "" {
		return "", errors.New("token response carried no access token")
	}

	return token.AccessToken, nil
}

// fetchProfile retrieves the provider profile with the freshly obtained
// access token.
func (e *exchanger) fetchProfile(ctx context.Context, accessToken string) (*entity.ExternalIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.userInfoURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create profile request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "profile endpoint call failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		return nil, errors.Errorf("profile request failed with status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read profile response")
	}

	return e.parseProfile(body)
}

// NewProviders builds an exchanger per configured provider. Unknown provider
// names in the configuration are rejected so typos fail at startup, not at
// login time.
func NewProviders(cfg *config.Config, logger *slog.Logger) (service.OAuthProviders, error) {
	providers := make(service.OAuthProviders, len(cfg.OAuth))

	for name, providerCfg := range cfg.OAuth {
		provider := entity.ProviderType(name)

		var svc service.OAuthService
		switch provider {
		case entity.ProviderTypeGoogle:
			svc = newGoogleExchanger(providerCfg, logger)
		case entity.ProviderTypeGitHub:
			svc = newGitHubExchanger(providerCfg, logger)
		default:
			return nil, errors.Errorf("unknown oauth provider in configuration: %s", name)
		}

		providers[provider] = svc
	}

	return providers, nil
}

package oauth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"sikre/config"
	"sikre/internal/domain/entity"

	"github.com/pkg/errors"
)

const (
	githubTokenURL    = "https://github.com/login/oauth/access_token"
	githubUserInfoURL = "https://api.github.com/user"
)

// newGitHubExchanger builds the GitHub authorization-code exchanger.
func newGitHubExchanger(cfg *config.OAuthProviderConfig, logger *slog.Logger) *exchanger {
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = githubTokenURL
	}
	userInfoURL := cfg.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = githubUserInfoURL
	}

	return &exchanger{
		provider:     entity.ProviderTypeGitHub,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		tokenURL:     tokenURL,
		userInfoURL:  userInfoURL,
		httpClient:   &http.Client{Timeout: cfg.CallTimeout},
		parseProfile: parseGitHubProfile,
		logger:       logger,
	}
}

// parseGitHubProfile reads the GitHub user document. GitHub's numeric account
// id is the stable subject; the login name can be reassigned and is only used
// as a display name.
func parseGitHubProfile(body []byte) (*entity.ExternalIdentity, error) {
	var profile struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, errors.Wrap(err, "failed to parse github profile")
	}

	identity := &entity.ExternalIdentity{
		Name:  profile.Name,
		Email: profile.Email,
	}
	if profile.ID != 0 {
		identity.SubjectID = strconv.FormatInt(profile.ID, 10)
	}
	if identity.Name == "" {
		identity.Name = profile.Login
	}

	return identity, nil
}

package oauth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"sikre/config"
	"sikre/internal/domain/entity"

	"github.com/pkg/errors"
)

const (
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
)

// newGoogleExchanger builds the Google authorization-code exchanger.
// Endpoint overrides in the configuration are honored for testing.
func newGoogleExchanger(cfg *config.OAuthProviderConfig, logger *slog.Logger) *exchanger {
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = googleTokenURL
	}
	userInfoURL := cfg.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = googleUserInfoURL
	}

	return &exchanger{
		provider:     entity.ProviderTypeGoogle,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		tokenURL:     tokenURL,
		userInfoURL:  userInfoURL,
		httpClient:   &http.Client{Timeout: cfg.CallTimeout},
		parseProfile: parseGoogleProfile,
		logger:       logger,
	}
}

// parseGoogleProfile reads the OpenID Connect userinfo document. The 'sub'
// claim is the stable subject id.
func parseGoogleProfile(body []byte) (*entity.ExternalIdentity, error) {
	var profile struct {
		Sub   string `json:"sub"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, errors.Wrap(err, "failed to parse google profile")
	}

	return &entity.ExternalIdentity{
		SubjectID: profile.Sub,
		Name:      profile.Name,
		Email:     profile.Email,
	}, nil
}

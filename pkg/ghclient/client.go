// Package ghclient provides the entry points for constructing GitHub API
// clients, plus an optional process-wide default instance.
package ghclient

import (
	"strings"

	"github.com/hubgrip-io/ghapi/internal/client"
	"github.com/hubgrip-io/ghapi/internal/constants"
	"github.com/hubgrip-io/ghapi/pkg/github"
)

// New creates a client from the given configuration. A nil BaseURL defaults
// to the public GitHub API.
func New(config *github.Config) (github.Client, error) {
	if config == nil {
		return nil, github.ErrConfigRequired
	}

	normalized := *config
	normalized.BaseURL = normalizeBaseURL(config.BaseURL)

	return client.New(&normalized)
}

// NewWithToken creates a client authenticating with a personal access token
// or pre-minted OAuth token.
func NewWithToken(baseURL, token string) (github.Client, error) {
	return New(&github.Config{
		BaseURL: baseURL,
		Token:   token,
	})
}

// NewWithBasicAuth creates a client authenticating with username and
// password.
func NewWithBasicAuth(baseURL, username, password string) (github.Client, error) {
	return New(&github.Config{
		BaseURL:  baseURL,
		Username: username,
		Password: password,
	})
}

// NewWithAppAuth creates a client authenticating as a GitHub App. A fresh
// JWT is minted per request from the PEM-encoded private key.
func NewWithAppAuth(baseURL string, appID int64, privateKeyPEM []byte) (github.Client, error) {
	return New(&github.Config{
		BaseURL:       baseURL,
		AppID:         appID,
		PrivateKeyPEM: privateKeyPEM,
	})
}

// NewWithInstallation creates a client authenticating as an installation of
// a GitHub App. Installation tokens are exchanged lazily and cached.
func NewWithInstallation(baseURL string, appID int64, privateKeyPEM []byte, installationID int64) (github.Client, error) {
	return New(&github.Config{
		BaseURL:        baseURL,
		AppID:          appID,
		PrivateKeyPEM:  privateKeyPEM,
		InstallationID: installationID,
	})
}

// normalizeBaseURL fills in the default API root, adds the https scheme
// when only a host was given, and strips any trailing slash.
func normalizeBaseURL(baseURL string) string {
	if baseURL == "" {
		return constants.DefaultBaseURL
	}

	if !strings.Contains(baseURL, "://") {
		baseURL = "https://" + baseURL
	}

	return strings.TrimRight(baseURL, "/")
}

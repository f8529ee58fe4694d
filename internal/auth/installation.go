package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/hubgrip-io/ghapi/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrInstallationIDRequired = errors.New("installation ID is required")
	ErrTokenExchangeFailed    = errors.New("installation token exchange failed")
)

// InstallationTokenManager exchanges an app JWT for installation access
// tokens and caches them per installation until shortly before expiry.
// Tokens for different installations are independent: each installation
// holds its own lock, so a refresh for one never blocks requests for
// another, while concurrent requests for the same installation perform a
// single exchange.
type InstallationTokenManager struct {
	app        *AppTokenManager
	baseURL    string
	httpClient *http.Client
	userAgent  string

	mu      sync.Mutex
	entries map[int64]*installationEntry
}

type installationEntry struct {
	mu    sync.Mutex
	token Token
}

// NewInstallationTokenManager creates a manager exchanging tokens against
// the given API base URL.
func NewInstallationTokenManager(app *AppTokenManager, baseURL, userAgent string) *InstallationTokenManager {
	return &InstallationTokenManager{
		app:     app,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: constants.TokenExchangeTimeout,
		},
		userAgent: userAgent,
		entries:   make(map[int64]*installationEntry),
	}
}

// Provider returns an auth provider bound to one installation.
func (m *InstallationTokenManager) Provider(installationID int64) (*InstallationProvider, error) {
	if installationID == 0 {
		return nil, ErrInstallationIDRequired
	}

	return &InstallationProvider{manager: m, installationID: installationID}, nil
}

// Token returns a valid installation token, exchanging a fresh one when the
// cached token is missing or near expiry. Failed exchanges are never
// cached.
func (m *InstallationTokenManager) Token(ctx context.Context, installationID int64) (string, error) {
	entry := m.entry(installationID)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.token.Valid() {
		return entry.token.AccessToken, nil
	}

	token, err := m.exchange(ctx, installationID)
	if err != nil {
		return "", err
	}

	entry.token = token

	return token.AccessToken, nil
}

// Invalidate drops the cached token for an installation, forcing the next
// request to exchange a fresh one.
func (m *InstallationTokenManager) Invalidate(installationID int64) {
	entry := m.entry(installationID)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	entry.token = Token{}
}

func (m *InstallationTokenManager) entry(installationID int64) *installationEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[installationID]
	if !ok {
		entry = &installationEntry{}
		m.entries[installationID] = entry
	}

	return entry
}

// exchange performs the token exchange call directly rather than through
// the dispatch layer, since dispatch depends on this manager for auth.
func (m *InstallationTokenManager) exchange(ctx context.Context, installationID int64) (Token, error) {
	jwtHeader, err := m.app.AuthorizationHeader(ctx)
	if err != nil {
		return Token{}, err
	}

	endpoint := m.baseURL + "/app/installations/" + strconv.FormatInt(installationID, 10) + "/access_tokens"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return Token{}, fmt.Errorf("creating token exchange request: %w", err)
	}

	req.Header.Set("Authorization", jwtHeader)
	req.Header.Set("Accept", constants.DefaultAccept)
	req.Header.Set("X-GitHub-Api-Version", constants.APIVersion)
	req.Header.Set("User-Agent", m.userAgent)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return Token{}, fmt.Errorf("exchanging installation token: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Token{}, fmt.Errorf("reading token exchange response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		return Token{}, fmt.Errorf("%w: installation %d: status %d", ErrTokenExchangeFailed, installationID, resp.StatusCode)
	}

	var payload struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}

	err = json.Unmarshal(body, &payload)
	if err != nil {
		return Token{}, fmt.Errorf("decoding token exchange response: %w", err)
	}

	if payload.Token == "" {
		return Token{}, fmt.Errorf("%w: installation %d: empty token in response", ErrTokenExchangeFailed, installationID)
	}

	return Token{AccessToken: payload.Token, ExpiresAt: payload.ExpiresAt}, nil
}

// InstallationProvider authenticates requests with a cached installation
// token.
type InstallationProvider struct {
	manager        *InstallationTokenManager
	installationID int64
}

// AuthorizationHeader implements the transport auth contract.
func (p *InstallationProvider) AuthorizationHeader(ctx context.Context) (string, error) {
	token, err := p.manager.Token(ctx, p.installationID)
	if err != nil {
		return "", err
	}

	return "Bearer " + token, nil
}

// Kind returns KindInstallation.
func (p *InstallationProvider) Kind() Kind {
	return KindInstallation
}

// InstallationID returns the bound installation.
func (p *InstallationProvider) InstallationID() int64 {
	return p.installationID
}

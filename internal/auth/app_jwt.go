package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hubgrip-io/ghapi/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrAppIDRequired      = errors.New("app ID is required")
	ErrPrivateKeyRequired = errors.New("private key is required")
)

// AppTokenManager mints the short-lived JWTs a GitHub App uses to
// authenticate as itself. The private key is parsed once at construction so
// a malformed key fails fast instead of on the first API call; the JWT
// itself is minted fresh for every request, which keeps each one inside its
// validity window without any refresh bookkeeping.
type AppTokenManager struct {
	appID int64
	key   *rsa.PrivateKey
}

// NewAppTokenManager parses the PEM-encoded RSA private key and returns a
// manager for the given app.
func NewAppTokenManager(appID int64, privateKeyPEM []byte) (*AppTokenManager, error) {
	if appID == 0 {
		return nil, ErrAppIDRequired
	}

	if len(privateKeyPEM) == 0 {
		return nil, ErrPrivateKeyRequired
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parsing app private key: %w", err)
	}

	return &AppTokenManager{appID: appID, key: key}, nil
}

// AppID returns the app identifier used as the JWT issuer.
func (m *AppTokenManager) AppID() int64 {
	return m.appID
}

// Mint signs a fresh JWT. The issued-at claim is backdated to tolerate
// clock drift, and the expiry stays under GitHub's ten-minute ceiling.
func (m *AppTokenManager) Mint(now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    strconv.FormatInt(m.appID, 10),
		IssuedAt:  jwt.NewNumericDate(now.Add(-constants.AppJWTBackdate)),
		ExpiresAt: jwt.NewNumericDate(now.Add(constants.AppJWTLifetime)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("signing app JWT: %w", err)
	}

	return signed, nil
}

// AuthorizationHeader implements the transport auth contract.
func (m *AppTokenManager) AuthorizationHeader(_ context.Context) (string, error) {
	token, err := m.Mint(time.Now())
	if err != nil {
		return "", err
	}

	return "Bearer " + token, nil
}

// Kind returns KindApp.
func (m *AppTokenManager) Kind() Kind {
	return KindApp
}

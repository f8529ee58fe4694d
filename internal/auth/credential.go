package auth

import (
	"context"
	"encoding/base64"
	"errors"
)

// Static errors for err113 compliance.
var (
	ErrUsernameRequired = errors.New("username is required for basic auth")
	ErrTokenRequired    = errors.New("token is required")
)

// Kind identifies how a client authenticates.
type Kind int

const (
	// KindNone sends unauthenticated requests.
	KindNone Kind = iota

	// KindBearer sends a personal access token or OAuth user token.
	KindBearer

	// KindBasic sends username/password basic auth.
	KindBasic

	// KindOAuthApp sends the OAuth app's client ID and secret as basic
	// auth, used for app management endpoints.
	KindOAuthApp

	// KindApp mints a short-lived JWT from the app's private key on every
	// request.
	KindApp

	// KindInstallation exchanges the app JWT for a cached installation
	// token.
	KindInstallation
)

func (k Kind) String() string {
	switch k {
	case KindBearer:
		return "bearer"
	case KindBasic:
		return "basic"
	case KindOAuthApp:
		return "oauth-app"
	case KindApp:
		return "app"
	case KindInstallation:
		return "installation"
	default:
		return "none"
	}
}

// BearerProvider authenticates with a fixed token.
type BearerProvider struct {
	token string
	kind  Kind
}

// NewBearerProvider creates a provider for a personal access token or OAuth
// user token.
func NewBearerProvider(token string) (*BearerProvider, error) {
	if token == "" {
		return nil, ErrTokenRequired
	}

	return &BearerProvider{token: token, kind: KindBearer}, nil
}

// NewOAuthAppProvider creates a provider for an OAuth app access token.
func NewOAuthAppProvider(token string) (*BearerProvider, error) {
	if token == "" {
		return nil, ErrTokenRequired
	}

	return &BearerProvider{token: token, kind: KindOAuthApp}, nil
}

// AuthorizationHeader implements the transport auth contract.
func (p *BearerProvider) AuthorizationHeader(_ context.Context) (string, error) {
	return "Bearer " + p.token, nil
}

// Kind returns the credential kind.
func (p *BearerProvider) Kind() Kind {
	return p.kind
}

// BasicProvider authenticates with username and password.
type BasicProvider struct {
	header string
}

// NewBasicProvider creates a basic auth provider.
func NewBasicProvider(username, password string) (*BasicProvider, error) {
	if username == "" {
		return nil, ErrUsernameRequired
	}

	header := "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))

	return &BasicProvider{header: header}, nil
}

// AuthorizationHeader implements the transport auth contract.
func (p *BasicProvider) AuthorizationHeader(_ context.Context) (string, error) {
	return p.header, nil
}

// Kind returns KindBasic.
func (p *BasicProvider) Kind() Kind {
	return KindBasic
}

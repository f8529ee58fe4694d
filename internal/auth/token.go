package auth

import (
	"sync"
	"time"

	"github.com/hubgrip-io/ghapi/internal/constants"
)

// Token is a cached access token with its recorded expiry.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Valid reports whether the token can still be used. Tokens are considered
// expired a margin before their recorded expiry so an in-flight request
// never carries a token that dies mid-call.
func (t Token) Valid() bool {
	if t.AccessToken == "" {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return true
	}

	return time.Now().Add(constants.InstallationTokenExpiryMargin).Before(t.ExpiresAt)
}

// TokenStore is a thread-safe holder for a single token.
type TokenStore struct {
	mu    sync.RWMutex
	token Token
}

// NewTokenStore creates an empty token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the stored token and whether it is still valid.
func (s *TokenStore) Get() (Token, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token, s.token.Valid()
}

// Set stores a token.
func (s *TokenStore) Set(token Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
}

// Clear removes the stored token.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = Token{}
}

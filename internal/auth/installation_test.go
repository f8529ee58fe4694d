package auth_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubgrip-io/ghapi/internal/auth"
)

func newAppManager(t *testing.T) *auth.AppTokenManager {
	t.Helper()

	pemBytes, _ := testKey(t)

	manager, err := auth.NewAppTokenManager(777, pemBytes)
	require.NoError(t, err)

	return manager
}

// tokenExchangeServer counts exchanges per installation and mints tokens
// with the given lifetime.
func tokenExchangeServer(t *testing.T, lifetime time.Duration, exchanges *atomic.Int32) *httptest.Server {
	t.Helper()

	var serial atomic.Int32

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasPrefix(r.URL.Path, "/app/installations/"))
		assert.True(t, strings.HasSuffix(r.URL.Path, "/access_tokens"))
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "))

		exchanges.Add(1)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token":      fmt.Sprintf("ghs_%06d", serial.Add(1)),
			"expires_at": time.Now().Add(lifetime).Format(time.RFC3339),
		})
	}))
}

func TestTokenExchangedOnceUnderConcurrency(t *testing.T) {
	t.Parallel()

	var exchanges atomic.Int32

	server := tokenExchangeServer(t, time.Hour, &exchanges)
	defer server.Close()

	manager := auth.NewInstallationTokenManager(newAppManager(t), server.URL, "test-agent")

	const goroutines = 16

	var waitGroup sync.WaitGroup

	tokens := make([]string, goroutines)

	for i := range goroutines {
		waitGroup.Add(1)

		go func() {
			defer waitGroup.Done()

			token, err := manager.Token(context.Background(), 101)
			assert.NoError(t, err)

			tokens[i] = token
		}()
	}

	waitGroup.Wait()

	assert.Equal(t, int32(1), exchanges.Load(), "concurrent callers must share one exchange")

	for _, token := range tokens {
		assert.Equal(t, tokens[0], token)
	}
}

func TestTokenRefreshedNearExpiry(t *testing.T) {
	t.Parallel()

	var exchanges atomic.Int32

	// Lifetime inside the refresh margin, so the second call re-exchanges.
	server := tokenExchangeServer(t, 30*time.Second, &exchanges)
	defer server.Close()

	manager := auth.NewInstallationTokenManager(newAppManager(t), server.URL, "test-agent")
	ctx := context.Background()

	first, err := manager.Token(ctx, 101)
	require.NoError(t, err)

	second, err := manager.Token(ctx, 101)
	require.NoError(t, err)

	assert.Equal(t, int32(2), exchanges.Load())
	assert.NotEqual(t, first, second)
}

func TestTokenReusedWhileValid(t *testing.T) {
	t.Parallel()

	var exchanges atomic.Int32

	server := tokenExchangeServer(t, time.Hour, &exchanges)
	defer server.Close()

	manager := auth.NewInstallationTokenManager(newAppManager(t), server.URL, "test-agent")
	ctx := context.Background()

	first, err := manager.Token(ctx, 101)
	require.NoError(t, err)

	second, err := manager.Token(ctx, 101)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), exchanges.Load())
}

func TestTokensIndependentPerInstallation(t *testing.T) {
	t.Parallel()

	var exchanges atomic.Int32

	server := tokenExchangeServer(t, time.Hour, &exchanges)
	defer server.Close()

	manager := auth.NewInstallationTokenManager(newAppManager(t), server.URL, "test-agent")
	ctx := context.Background()

	tokenA, err := manager.Token(ctx, 101)
	require.NoError(t, err)

	tokenB, err := manager.Token(ctx, 202)
	require.NoError(t, err)

	assert.NotEqual(t, tokenA, tokenB)
	assert.Equal(t, int32(2), exchanges.Load())
}

func TestFailedExchangeNotCached(t *testing.T) {
	t.Parallel()

	var (
		attempts atomic.Int32
		fail     atomic.Bool
	)

	fail.Store(true)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)

		if fail.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message": "bad credentials"}`))

			return
		}

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token":      "ghs_recovered",
			"expires_at": time.Now().Add(time.Hour).Format(time.RFC3339),
		})
	}))
	defer server.Close()

	manager := auth.NewInstallationTokenManager(newAppManager(t), server.URL, "test-agent")
	ctx := context.Background()

	_, err := manager.Token(ctx, 101)
	require.ErrorIs(t, err, auth.ErrTokenExchangeFailed)

	fail.Store(false)

	token, err := manager.Token(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, "ghs_recovered", token)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestInvalidateForcesReExchange(t *testing.T) {
	t.Parallel()

	var exchanges atomic.Int32

	server := tokenExchangeServer(t, time.Hour, &exchanges)
	defer server.Close()

	manager := auth.NewInstallationTokenManager(newAppManager(t), server.URL, "test-agent")
	ctx := context.Background()

	first, err := manager.Token(ctx, 101)
	require.NoError(t, err)

	manager.Invalidate(101)

	second, err := manager.Token(ctx, 101)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, int32(2), exchanges.Load())
}

func TestProviderHeaderAndValidation(t *testing.T) {
	t.Parallel()

	var exchanges atomic.Int32

	server := tokenExchangeServer(t, time.Hour, &exchanges)
	defer server.Close()

	manager := auth.NewInstallationTokenManager(newAppManager(t), server.URL, "test-agent")

	_, err := manager.Provider(0)
	assert.ErrorIs(t, err, auth.ErrInstallationIDRequired)

	provider, err := manager.Provider(303)
	require.NoError(t, err)
	assert.Equal(t, auth.KindInstallation, provider.Kind())
	assert.Equal(t, int64(303), provider.InstallationID())

	header, err := provider.AuthorizationHeader(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(header, "Bearer ghs_"))
}

package ghclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubgrip-io/ghapi/pkg/ghclient"
	"github.com/hubgrip-io/ghapi/pkg/github"
)

func TestNewRequiresConfig(t *testing.T) {
	t.Parallel()

	_, err := ghclient.New(nil)
	assert.ErrorIs(t, err, github.ErrConfigRequired)
}

func TestNewDefaultsBaseURL(t *testing.T) {
	t.Parallel()

	c, err := ghclient.New(&github.Config{})
	require.NoError(t, err)

	resolved, err := c.AbsoluteURL("/repos/octo/hello")
	require.NoError(t, err)

	assert.Equal(t, "https://api.github.com/repos/octo/hello", resolved)
}

func TestNewNormalizesBaseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{
			name:    "scheme added for bare host",
			baseURL: "github.example.com/api/v3",
			want:    "https://github.example.com/api/v3/zen",
		},
		{
			name:    "trailing slash stripped",
			baseURL: "https://github.example.com/api/v3/",
			want:    "https://github.example.com/api/v3/zen",
		},
		{
			name:    "explicit scheme kept",
			baseURL: "http://localhost:8080",
			want:    "http://localhost:8080/zen",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			c, err := ghclient.New(&github.Config{BaseURL: test.baseURL})
			require.NoError(t, err)

			resolved, err := c.AbsoluteURL("/zen")
			require.NoError(t, err)

			assert.Equal(t, test.want, resolved)
		})
	}
}

func TestNewDoesNotMutateCaller(t *testing.T) {
	t.Parallel()

	config := &github.Config{BaseURL: "github.example.com/"}

	_, err := ghclient.New(config)
	require.NoError(t, err)

	assert.Equal(t, "github.example.com/", config.BaseURL)
}

func TestNewWithToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer ghp_token", r.Header.Get("Authorization"))

		_, _ = w.Write([]byte(`{"id": 1, "login": "octocat"}`))
	}))
	defer server.Close()

	c, err := ghclient.NewWithToken(server.URL, "ghp_token")
	require.NoError(t, err)

	user, err := c.Users().Current(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "octocat", user.Login)
}

func TestNewWithBasicAuth(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "octocat", username)
		assert.Equal(t, "hunter2", password)

		_, _ = w.Write([]byte(`{"id": 1, "login": "octocat"}`))
	}))
	defer server.Close()

	c, err := ghclient.NewWithBasicAuth(server.URL, "octocat", "hunter2")
	require.NoError(t, err)

	_, err = c.Users().Current(context.Background())
	assert.NoError(t, err)
}

func TestNewWithAppAuthRequiresKey(t *testing.T) {
	t.Parallel()

	_, err := ghclient.NewWithAppAuth("", 1234, nil)
	assert.ErrorIs(t, err, github.ErrPrivateKeyRequired)

	_, err = ghclient.NewWithInstallation("", 0, nil, 42)
	assert.ErrorIs(t, err, github.ErrNoCredential)
}

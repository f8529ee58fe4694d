package transport_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubgrip-io/ghapi/internal/transport"
	"github.com/hubgrip-io/ghapi/pkg/github"
)

// staticAuth returns a fixed Authorization header value.
type staticAuth string

func (a staticAuth) AuthorizationHeader(context.Context) (string, error) {
	return string(a), nil
}

// failingAuth simulates broken credential material.
type failingAuth struct{}

func (failingAuth) AuthorizationHeader(context.Context) (string, error) {
	return "", errors.New("key unusable")
}

func fastRetry(max int) transport.Option {
	return transport.WithRetryConfig(max, time.Millisecond, 5*time.Millisecond)
}

func TestDoSendsDefaultAndAuthHeaders(t *testing.T) {
	t.Parallel()

	var seen http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"login": "octocat"}`))
	}))
	defer server.Close()

	client := transport.NewClient(server.URL, staticAuth("Bearer token-1"))

	resp, err := client.Get(context.Background(), "/user", nil)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Bearer token-1", seen.Get("Authorization"))
	assert.Equal(t, "application/vnd.github+json", seen.Get("Accept"))
	assert.Equal(t, "2022-11-28", seen.Get("X-GitHub-Api-Version"))
	assert.NotEmpty(t, seen.Get("User-Agent"))
}

func TestDoOmitsAuthHeaderForOtherAuthority(t *testing.T) {
	t.Parallel()

	var crossAuth atomic.Value

	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		crossAuth.Store(r.Header.Get("Authorization"))
		_, _ = w.Write([]byte("data"))
	}))
	defer other.Close()

	base := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{}"))
	}))
	defer base.Close()

	client := transport.NewClient(base.URL, staticAuth("Bearer secret"))

	resp, err := client.Get(context.Background(), other.URL+"/blob", nil)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "", crossAuth.Load())
}

func TestDoAuthDerivationFailureIsFatal(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := transport.NewClient(server.URL, failingAuth{}, fastRetry(3))

	_, err := client.Get(context.Background(), "/user", nil)
	require.Error(t, err)
	assert.True(t, github.IsAuthError(err))
	assert.Zero(t, calls.Load(), "a failed credential must never reach the wire")
}

func TestDoClassifiesErrorEnvelope(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not Found", "documentation_url": "https://docs.github.com"}`))
	}))
	defer server.Close()

	client := transport.NewClient(server.URL, nil)

	resp, err := client.Get(context.Background(), "/repos/a/b", nil)
	require.Error(t, err)
	require.NotNil(t, resp, "the response travels with the error")

	apiErr := &github.APIError{}
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Not Found", apiErr.Message)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.True(t, github.IsNotFound(err))
}

func TestDoNonEnvelopeErrorBodyStillClassified(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	client := transport.NewClient(server.URL, nil, transport.WithRetryDisabled())

	_, err := client.Get(context.Background(), "/", nil)

	apiErr := &github.APIError{}
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "bad gateway")
}

func TestDoRetriesServerErrorsUntilSuccess(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)

			return
		}

		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	client := transport.NewClient(server.URL, nil, fastRetry(4))

	resp, err := client.Get(context.Background(), "/flaky", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestDoExhaustedRetriesSurfaceLastOutcome(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message": "down for maintenance"}`))
	}))
	defer server.Close()

	client := transport.NewClient(server.URL, nil, fastRetry(2))

	resp, err := client.Get(context.Background(), "/down", nil)
	require.Error(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, int32(3), attempts.Load(), "initial attempt plus two retries")
	assert.True(t, github.IsServerError(err))

	apiErr := &github.APIError{}
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "down for maintenance", apiErr.Message)
}

func TestDoDoesNotRetryNotImplemented(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotImplemented)
	}))
	defer server.Close()

	client := transport.NewClient(server.URL, nil, fastRetry(3))

	_, err := client.Get(context.Background(), "/", nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestDoDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message": "Validation Failed"}`))
	}))
	defer server.Close()

	client := transport.NewClient(server.URL, nil, fastRetry(3))

	_, err := client.Get(context.Background(), "/", nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestDoRetriesRateLimitAndMarksError(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message": "API rate limit exceeded"}`))
	}))
	defer server.Close()

	client := transport.NewClient(server.URL, nil, fastRetry(1))

	_, err := client.Get(context.Background(), "/", nil)
	require.Error(t, err)

	assert.Equal(t, int32(2), attempts.Load())
	assert.True(t, github.IsRateLimited(err))
}

func TestDoPlainForbiddenIsNotRetried(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message": "Must have admin rights"}`))
	}))
	defer server.Close()

	client := transport.NewClient(server.URL, nil, fastRetry(3))

	_, err := client.Get(context.Background(), "/", nil)
	require.Error(t, err)

	assert.Equal(t, int32(1), attempts.Load())
	assert.False(t, github.IsRateLimited(err))
}

func TestDoNeverRetriesPostUnlessMarkedIdempotent(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		attempts.Add(1)
	}))
	defer server.Close()

	client := transport.NewClient(server.URL, nil, fastRetry(3))
	ctx := context.Background()

	_, err := client.Post(ctx, "/things", map[string]string{"a": "b"})
	require.Error(t, err)
	assert.Equal(t, int32(1), attempts.Load())

	attempts.Store(0)

	_, err = client.Do(ctx, &transport.Request{
		Method:     http.MethodPost,
		Path:       "/things",
		Body:       map[string]string{"a": "b"},
		Idempotent: true,
	})
	require.Error(t, err)
	assert.Equal(t, int32(4), attempts.Load())
}

func TestDoRetryDisabled(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := transport.NewClient(server.URL, nil, transport.WithRetryDisabled())

	_, err := client.Get(context.Background(), "/", nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestDoNoContentHasEmptyBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := transport.NewClient(server.URL, nil)

	resp, err := client.Delete(context.Background(), "/repos/a/b")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, resp.Body)
}

func TestDoParsesLinkHeaderIntoResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Link", `<https://x/items?page=2>; rel="next", <https://x/items?page=5>; rel="last"`)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := transport.NewClient(server.URL, nil)

	resp, err := client.Get(context.Background(), "/items", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://x/items?page=2", resp.Links.Next)
	assert.Equal(t, "https://x/items?page=5", resp.Links.Last)
}

func TestDoSerializesQueryInInsertionOrder(t *testing.T) {
	t.Parallel()

	var rawQuery string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		_, _ = w.Write([]byte("[]"))
	}))
	defer server.Close()

	client := transport.NewClient(server.URL, nil)
	params := github.NewParams().Set("state", "open").Set("per_page", "5").Set("page", "2")

	_, err := client.Get(context.Background(), "/issues", params)
	require.NoError(t, err)
	assert.Equal(t, "state=open&per_page=5&page=2", rawQuery)
}

func TestDoEncodesJSONBody(t *testing.T) {
	t.Parallel()

	var (
		contentType string
		received    map[string]string
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := transport.NewClient(server.URL, nil)

	resp, err := client.Post(context.Background(), "/issues", map[string]string{"title": "hello"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "hello", received["title"])
}

func TestDoCrossHostRedirectBlockedByDefault(t *testing.T) {
	t.Parallel()

	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("asset-bytes"))
	}))
	defer other.Close()

	base := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, other.URL+"/asset", http.StatusFound)
	}))
	defer base.Close()

	client := transport.NewClient(base.URL, staticAuth("Bearer secret"))

	resp, err := client.Get(context.Background(), "/assets/1", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestDoCrossHostRedirectFollowedWhenOptedIn(t *testing.T) {
	t.Parallel()

	var crossAuth atomic.Value

	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		crossAuth.Store(r.Header.Get("Authorization"))
		_, _ = w.Write([]byte("asset-bytes"))
	}))
	defer other.Close()

	base := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", other.URL+"/asset")
		w.WriteHeader(http.StatusFound)
	}))
	defer base.Close()

	client := transport.NewClient(base.URL, staticAuth("Bearer secret"))

	resp, err := client.Do(context.Background(), &transport.Request{
		Method:          http.MethodGet,
		Path:            "/assets/1",
		FollowRedirects: true,
	})
	require.NoError(t, err)

	assert.Equal(t, []byte("asset-bytes"), resp.Body)
	assert.Equal(t, "", crossAuth.Load(), "credentials must not follow a cross-host redirect")
}

func TestDoConnectionErrorWrapped(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	server.Close()

	client := transport.NewClient(server.URL, nil, transport.WithRetryDisabled())

	resp, err := client.Get(context.Background(), "/", nil)
	require.Error(t, err)
	assert.Nil(t, resp)

	apiErr := &github.APIError{}
	assert.False(t, errors.As(err, &apiErr), "connection failures are not API errors")
}

func TestAbsoluteURL(t *testing.T) {
	t.Parallel()

	client := transport.NewClient("https://api.github.com", nil)

	resolved, err := client.AbsoluteURL("/repos/a/b")
	require.NoError(t, err)
	assert.Equal(t, "https://api.github.com/repos/a/b", resolved)

	passthrough, err := client.AbsoluteURL("https://elsewhere.test/x")
	require.NoError(t, err)
	assert.Equal(t, "https://elsewhere.test/x", passthrough)
}

func TestAbsoluteURLPreservesEscapedSegments(t *testing.T) {
	t.Parallel()

	client := transport.NewClient("https://api.github.com", nil)

	// An escaped slash must stay one path segment.
	slash, err := client.AbsoluteURL("/repos/o/r/issues/1/labels/bug%2Fui")
	require.NoError(t, err)
	assert.Equal(t, "https://api.github.com/repos/o/r/issues/1/labels/bug%2Fui", slash)

	// A decoded "%" is not a valid path byte; the escape must survive.
	percent, err := client.AbsoluteURL("/repos/o/r/labels/50%25")
	require.NoError(t, err)
	assert.Equal(t, "https://api.github.com/repos/o/r/labels/50%25", percent)

	// Enterprise-style base paths keep their prefix.
	prefixed := transport.NewClient("https://github.example.com/api/v3", nil)

	resolved, err := prefixed.AbsoluteURL("/repos/o/r/releases/tags/release%2Fv1.0")
	require.NoError(t, err)
	assert.Equal(t, "https://github.example.com/api/v3/repos/o/r/releases/tags/release%2Fv1.0", resolved)
}

func TestDoRunsInterceptors(t *testing.T) {
	t.Parallel()

	var seenCustom string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenCustom = r.Header.Get("X-Trace")
		w.Header().Set("ETag", `"e1"`)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	chain := github.NewInterceptorChain()
	chain.AddRequestInterceptor(github.HeaderInterceptor(map[string]string{"X-Trace": "trace-1"}))

	var respStatus int

	chain.AddResponseInterceptor(func(_ context.Context, _ *github.Request, resp *github.Response) error {
		respStatus = resp.StatusCode

		return nil
	})

	client := transport.NewClient(server.URL, nil, transport.WithInterceptors(chain))

	_, err := client.Get(context.Background(), "/items", nil)
	require.NoError(t, err)
	assert.Equal(t, "trace-1", seenCustom)
	assert.Equal(t, http.StatusOK, respStatus)
}

package github_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubgrip-io/ghapi/pkg/github"
)

func TestParseAPIErrorEnvelope(t *testing.T) {
	t.Parallel()

	body := []byte(`{
		"message": "Validation Failed",
		"documentation_url": "https://docs.github.com/rest",
		"errors": [{"resource": "Issue", "field": "title", "code": "missing_field"}]
	}`)

	apiErr := github.ParseAPIError(http.StatusUnprocessableEntity, body)

	assert.Equal(t, "Validation Failed", apiErr.Message)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Len(t, apiErr.Errors, 1)
	assert.Contains(t, apiErr.Error(), "Validation Failed (status: 422)")
	assert.Contains(t, apiErr.Error(), "https://docs.github.com/rest")
}

func TestParseAPIErrorNonEnvelopeBody(t *testing.T) {
	t.Parallel()

	apiErr := github.ParseAPIError(http.StatusBadGateway, []byte("upstream exploded"))

	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream exploded", apiErr.Message)
}

func TestParseAPIErrorEmptyBody(t *testing.T) {
	t.Parallel()

	apiErr := github.ParseAPIError(http.StatusNotFound, nil)

	assert.Equal(t, http.StatusText(http.StatusNotFound), apiErr.Message)
}

func TestParseAPIErrorTruncatesLongBody(t *testing.T) {
	t.Parallel()

	body := []byte(strings.Repeat("x", 2048))

	apiErr := github.ParseAPIError(http.StatusInternalServerError, body)

	assert.Less(t, len(apiErr.Message), 600)
	assert.True(t, strings.HasSuffix(apiErr.Message, "..."))
}

func TestStatusHelpers(t *testing.T) {
	t.Parallel()

	notFound := github.ParseAPIError(http.StatusNotFound, nil)
	assert.True(t, github.IsNotFound(notFound))
	assert.False(t, github.IsUnauthorized(notFound))

	unauthorized := github.ParseAPIError(http.StatusUnauthorized, nil)
	assert.True(t, github.IsUnauthorized(unauthorized))

	forbidden := github.ParseAPIError(http.StatusForbidden, nil)
	assert.True(t, github.IsForbidden(forbidden))
	assert.False(t, github.IsRateLimited(forbidden))

	forbidden.RateLimited = true
	assert.True(t, github.IsRateLimited(forbidden))

	serverErr := github.ParseAPIError(http.StatusBadGateway, nil)
	assert.True(t, github.IsServerError(serverErr))
}

func TestHelpersMatchWrappedErrors(t *testing.T) {
	t.Parallel()

	wrapped := errors.Join(errors.New("context"), github.ParseAPIError(http.StatusNotFound, nil))

	assert.True(t, github.IsNotFound(wrapped))
}

func TestAuthErrorWrapsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("bad key material")
	authErr := &github.AuthError{Err: cause}

	assert.True(t, github.IsAuthError(authErr))
	require.ErrorIs(t, authErr, cause)
	assert.Contains(t, authErr.Error(), "authentication")
}

func TestDecodeErrorTruncatesBody(t *testing.T) {
	t.Parallel()

	decodeErr := &github.DecodeError{
		Err:  errors.New("boom"),
		Body: []byte(strings.Repeat("y", 4096)),
	}

	assert.Less(t, len(decodeErr.Error()), 700)
}

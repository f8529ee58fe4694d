package transport

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffGrowsAcrossAttempts(t *testing.T) {
	t.Parallel()

	client := NewClient("https://api.github.com", nil)

	minWait := 100 * time.Millisecond
	maxWait := 30 * time.Second

	// Jitter keeps each attempt in [wait/2, wait), so consecutive
	// attempts never overlap.
	for attempt := range 4 {
		shorter := client.backoff(minWait, maxWait, attempt, nil)
		longer := client.backoff(minWait, maxWait, attempt+1, nil)

		assert.Less(t, shorter, longer, "attempt %d must back off less than attempt %d", attempt, attempt+1)
	}
}

func TestBackoffCappedAtMax(t *testing.T) {
	t.Parallel()

	client := NewClient("https://api.github.com", nil)

	wait := client.backoff(time.Second, 2*time.Second, 20, nil)

	assert.LessOrEqual(t, wait, 2*time.Second)
	assert.GreaterOrEqual(t, wait, time.Second)
}

func TestBackoffTinyWaitsDoNotPanic(t *testing.T) {
	t.Parallel()

	client := NewClient("https://api.github.com", nil)

	// Waits too small to jitter are returned as-is.
	assert.Equal(t, time.Duration(0), client.backoff(0, 0, 1, nil))
	assert.Equal(t, time.Duration(1), client.backoff(1, 1, 0, nil))
}

func TestBackoffHonorsRetryAfter(t *testing.T) {
	t.Parallel()

	client := NewClient("https://api.github.com", nil)

	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("Retry-After", "3")

	wait := client.backoff(time.Millisecond, time.Second, 0, resp)

	assert.Equal(t, 3*time.Second, wait)
}

func TestBackoffCapsRateLimitHint(t *testing.T) {
	t.Parallel()

	client := NewClient("https://api.github.com", nil)

	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10))

	wait := client.backoff(time.Millisecond, time.Second, 0, resp)

	assert.LessOrEqual(t, wait, 2*time.Minute)
	assert.Greater(t, wait, time.Minute)
}

func TestRateLimitResetHint(t *testing.T) {
	t.Parallel()

	headers := http.Header{}

	_, ok := rateLimitResetHint(headers)
	assert.False(t, ok)

	headers.Set("Retry-After", "7")

	wait, ok := rateLimitResetHint(headers)
	assert.True(t, ok)
	assert.Equal(t, 7*time.Second, wait)
}

func TestIsRateLimitResponse(t *testing.T) {
	t.Parallel()

	throttled := http.Header{}
	throttled.Set("X-RateLimit-Remaining", "0")

	plain := http.Header{}
	plain.Set("X-RateLimit-Remaining", "42")

	assert.True(t, isRateLimitResponse(http.StatusTooManyRequests, http.Header{}))
	assert.True(t, isRateLimitResponse(http.StatusForbidden, throttled))
	assert.False(t, isRateLimitResponse(http.StatusForbidden, plain))
	assert.False(t, isRateLimitResponse(http.StatusForbidden, http.Header{}))
	assert.False(t, isRateLimitResponse(http.StatusOK, throttled))
}

func TestIsIdempotent(t *testing.T) {
	t.Parallel()

	assert.True(t, isIdempotent(http.MethodGet))
	assert.True(t, isIdempotent(http.MethodPut))
	assert.True(t, isIdempotent(http.MethodDelete))
	assert.False(t, isIdempotent(http.MethodPost))
	assert.False(t, isIdempotent(http.MethodPatch))
}

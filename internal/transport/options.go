package transport

import (
	"time"

	"github.com/hubgrip-io/ghapi/pkg/github"
)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the structured logger used for debug output.
func WithLogger(logger github.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging (requires a logger).
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithAccept overrides the default Accept media type.
func WithAccept(accept string) Option {
	return func(c *Client) {
		c.accept = accept
	}
}

// WithRetryConfig tunes the retry policy.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.retryMax = retryMax
		c.retryWaitMin = waitMin
		c.retryWaitMax = waitMax
	}
}

// WithRetryDisabled turns retries off entirely.
func WithRetryDisabled() Option {
	return func(c *Client) {
		c.retryDisabled = true
	}
}

// WithInterceptors installs an interceptor chain run around every dispatch.
func WithInterceptors(chain *github.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

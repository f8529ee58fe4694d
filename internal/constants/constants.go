package constants

import "time"

// API defaults.
const (
	// DefaultBaseURL is the public GitHub REST API root.
	DefaultBaseURL = "https://api.github.com"

	// DefaultAccept is the versioned media type sent when the caller does
	// not override Accept.
	DefaultAccept = "application/vnd.github+json"

	// APIVersion is sent as X-GitHub-Api-Version on every request.
	APIVersion = "2022-11-28"

	// DefaultUserAgent identifies this library. GitHub rejects requests
	// without a User-Agent.
	DefaultUserAgent = "hubgrip-ghapi/1.0"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// TokenExchangeTimeout bounds installation token exchange calls.
	TokenExchangeTimeout = 15 * time.Second
)

// Retry limits.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 4

	// DefaultRetryWaitMin is the default minimum backoff between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the default maximum wait time between retries.
	DefaultRetryWaitMax = 30 * time.Second

	// RateLimitWaitMax caps how long a rate-limit reset hint is honored
	// before falling back to regular backoff.
	RateLimitWaitMax = 2 * time.Minute
)

// Token lifetimes.
const (
	// AppJWTLifetime is the validity window of a minted App JWT. GitHub
	// rejects JWTs valid for more than ten minutes.
	AppJWTLifetime = 9 * time.Minute

	// AppJWTBackdate compensates for clock drift between this host and
	// GitHub when setting iat.
	AppJWTBackdate = 60 * time.Second

	// InstallationTokenExpiryMargin refreshes installation tokens this
	// long before their recorded expiry.
	InstallationTokenExpiryMargin = 60 * time.Second
)

// Pagination defaults.
const (
	// DefaultPerPage is the page size used by helpers when none is given.
	DefaultPerPage = 30

	// MaxPerPage is the largest page size GitHub accepts.
	MaxPerPage = 100
)

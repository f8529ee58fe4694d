package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError represents the error envelope returned by the GitHub API.
type APIError struct {
	Message          string            `json:"message"                     yaml:"message"`
	DocumentationURL string            `json:"documentation_url,omitempty" yaml:"documentation_url,omitempty"`
	Errors           []json.RawMessage `json:"errors,omitempty"            yaml:"errors,omitempty"`
	StatusCode       int               `json:"-"                           yaml:"status_code"`

	// RateLimited is set by the transport when the response carried
	// rate-limit headers indicating the request was throttled.
	RateLimited bool `json:"-" yaml:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s (status: %d)", e.Message, e.StatusCode)
	if e.DocumentationURL != "" {
		msg += "\nDocumentation URL: " + e.DocumentationURL
	}

	for _, detail := range e.Errors {
		msg += "\n- " + string(detail)
	}

	return msg
}

// AuthError wraps a credential derivation failure (bad key material, failed
// installation token exchange). It is never retried.
type AuthError struct {
	Err error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return "authentication: " + e.Err.Error()
}

// Unwrap returns the underlying cause.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when a response body did not match the expected
// shape. The raw body is retained for diagnosis.
type DecodeError struct {
	Err  error
	Body []byte
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding response: %v (body: %s)", e.Err, truncateBody(e.Body))
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

const maxErrorBodyLen = 512

func truncateBody(body []byte) string {
	if len(body) > maxErrorBodyLen {
		return string(body[:maxErrorBodyLen]) + "..."
	}

	return string(body)
}

// Common static errors that can be wrapped with context.
var (
	ErrBaseURLRequired      = errors.New("base URL is required")
	ErrConfigRequired       = errors.New("config is required")
	ErrNoCredential         = errors.New("no credential configured")
	ErrAppIDRequired        = errors.New("app ID is required")
	ErrPrivateKeyRequired   = errors.New("app private key is required")
	ErrInstallationRequired = errors.New("installation ID is required")
	ErrNoMoreItems          = errors.New("no more items")
	ErrUnknownListWrapper   = errors.New("unknown top-level attribute in list response")
)

// IsNotFound checks if the error is a 404 from the API.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized checks if the error is a 401 from the API.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsForbidden checks if the error is a 403 from the API.
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

// IsRateLimited checks if the error is a rate-limit rejection (403 or 429
// carrying rate-limit headers).
func IsRateLimited(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.RateLimited
	}

	return false
}

// IsServerError checks if the error is a 5xx from the API.
func IsServerError(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError
	}

	return false
}

// IsAuthError checks if the error originated in credential derivation.
func IsAuthError(err error) bool {
	authErr := &AuthError{}

	return errors.As(err, &authErr)
}

func hasStatus(err error, status int) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == status
	}

	return false
}

// ParseAPIError parses an error envelope from a response body. A body that is
// not a valid envelope still yields an APIError carrying the status code, so
// a non-2xx response is never silently discarded.
func ParseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	err := json.Unmarshal(body, apiErr)
	if err != nil || apiErr.Message == "" {
		apiErr.Message = http.StatusText(statusCode)
		if len(body) > 0 {
			apiErr.Message = truncateBody(body)
		}
	}

	return apiErr
}

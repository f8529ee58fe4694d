package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Request represents an HTTP request that can be intercepted before dispatch.
type Request struct {
	Method   string
	URL      string
	Headers  http.Header
	Body     []byte
	Metadata map[string]interface{}
}

// Response represents an HTTP response that can be intercepted after
// dispatch.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Links      PageLinks
	Error      error
}

// RequestInterceptor is called before a request is sent.
type RequestInterceptor func(ctx context.Context, req *Request) error

// ResponseInterceptor is called after a response is received.
type ResponseInterceptor func(ctx context.Context, req *Request, resp *Response) error

// InterceptorChain manages a chain of interceptors.
type InterceptorChain struct {
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// NewInterceptorChain creates a new interceptor chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{}
}

// AddRequestInterceptor adds a request interceptor to the chain.
func (c *InterceptorChain) AddRequestInterceptor(interceptor RequestInterceptor) {
	c.requestInterceptors = append(c.requestInterceptors, interceptor)
}

// AddResponseInterceptor adds a response interceptor to the chain.
func (c *InterceptorChain) AddResponseInterceptor(interceptor ResponseInterceptor) {
	c.responseInterceptors = append(c.responseInterceptors, interceptor)
}

// ExecuteRequestInterceptors runs all request interceptors.
func (c *InterceptorChain) ExecuteRequestInterceptors(ctx context.Context, req *Request) error {
	for _, interceptor := range c.requestInterceptors {
		err := interceptor(ctx, req)
		if err != nil {
			return fmt.Errorf("request interceptor failed: %w", err)
		}
	}

	return nil
}

// ExecuteResponseInterceptors runs all response interceptors.
func (c *InterceptorChain) ExecuteResponseInterceptors(ctx context.Context, req *Request, resp *Response) error {
	for _, interceptor := range c.responseInterceptors {
		err := interceptor(ctx, req, resp)
		if err != nil {
			return fmt.Errorf("response interceptor failed: %w", err)
		}
	}

	return nil
}

// Common Interceptors

// LoggingInterceptor logs requests.
func LoggingInterceptor(logger Logger) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		logger.Debug("API Request", map[string]interface{}{
			"method": req.Method,
			"url":    req.URL,
		})

		return nil
	}
}

// LoggingResponseInterceptor logs responses.
func LoggingResponseInterceptor(logger Logger) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		fields := map[string]interface{}{
			"method":      req.Method,
			"url":         req.URL,
			"status_code": resp.StatusCode,
		}

		if remaining := resp.Headers.Get("X-RateLimit-Remaining"); remaining != "" {
			fields["ratelimit_remaining"] = remaining
		}

		if resp.Error != nil {
			logger.Error("API Response Error", fields)
		} else {
			logger.Debug("API Response", fields)
		}

		return nil
	}
}

// HeaderInterceptor adds fixed headers to every request.
func HeaderInterceptor(headers map[string]string) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Headers == nil {
			req.Headers = make(http.Header)
		}

		for key, value := range headers {
			req.Headers.Set(key, value)
		}

		return nil
	}
}

// RateLimitInterceptor implements opt-in client-side request pacing using a
// token bucket. It spaces requests out; it is not a scheduler and does not
// inspect server rate-limit state.
func RateLimitInterceptor(requestsPerSecond int) RequestInterceptor {
	bucket := make(chan struct{}, requestsPerSecond)

	for range requestsPerSecond {
		bucket <- struct{}{}
	}

	go func() {
		ticker := time.NewTicker(time.Second / time.Duration(requestsPerSecond))
		defer ticker.Stop()

		for range ticker.C {
			select {
			case bucket <- struct{}{}:
			default:
			}
		}
	}()

	return func(ctx context.Context, req *Request) error {
		select {
		case <-bucket:
			return nil
		case <-ctx.Done():
			return fmt.Errorf("waiting for rate limit slot: %w", ctx.Err())
		}
	}
}

const cachedEntryMetadataKey = "cached_entry"

// ConditionalRequestInterceptor attaches If-None-Match from the cache to GET
// requests and stashes the entry for the response side.
func ConditionalRequestInterceptor(cache Cache) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Method != http.MethodGet {
			return nil
		}

		entry, err := cache.Get(ctx, req.URL)
		if err != nil {
			if errors.Is(err, ErrCacheMiss) || errors.Is(err, ErrCacheDisabled) {
				return nil
			}

			return fmt.Errorf("reading response cache: %w", err)
		}

		if entry.ETag == "" {
			return nil
		}

		if req.Headers == nil {
			req.Headers = make(http.Header)
		}

		req.Headers.Set("If-None-Match", entry.ETag)

		if req.Metadata == nil {
			req.Metadata = make(map[string]interface{})
		}

		req.Metadata[cachedEntryMetadataKey] = entry

		return nil
	}
}

// ConditionalResponseInterceptor replays the cached body on 304 and stores
// fresh 200 responses that carry an ETag.
func ConditionalResponseInterceptor(cache Cache) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		if req.Method != http.MethodGet {
			return nil
		}

		if resp.StatusCode == http.StatusNotModified {
			entry, ok := req.Metadata[cachedEntryMetadataKey].(*CacheEntry)
			if !ok {
				return nil
			}

			resp.StatusCode = http.StatusOK
			resp.Body = entry.Body
			resp.Links = entry.Links
			resp.Error = nil

			return nil
		}

		if resp.StatusCode == http.StatusOK {
			etag := resp.Headers.Get("ETag")
			if etag == "" {
				return nil
			}

			entry := &CacheEntry{
				Body:     resp.Body,
				ETag:     etag,
				Links:    resp.Links,
				StoredAt: time.Now(),
			}

			err := cache.Set(ctx, req.URL, entry)
			if err != nil {
				return fmt.Errorf("writing response cache: %w", err)
			}
		}

		return nil
	}
}

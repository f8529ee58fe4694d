package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/hubgrip-io/ghapi/internal/constants"
	"github.com/hubgrip-io/ghapi/pkg/github"
)

// Static errors.
var (
	ErrTooManyRedirects = errors.New("stopped after 10 redirects")
)

// AuthProvider derives the Authorization header value for a request, or ""
// when no credential is configured. Derivation failures are fatal to the
// call and never retried.
type AuthProvider interface {
	AuthorizationHeader(ctx context.Context) (string, error)
}

// Client dispatches API requests: it resolves routes against the base
// authority, attaches auth, retries transient failures with capped
// exponential backoff, and classifies responses into typed errors.
type Client struct {
	baseURL      *url.URL
	auth         AuthProvider
	retryClient  *retryablehttp.Client
	logger       github.Logger
	debug        bool
	userAgent    string
	accept       string
	interceptors *github.InterceptorChain

	retryMax      int
	retryWaitMin  time.Duration
	retryWaitMax  time.Duration
	retryDisabled bool
}

// NewClient creates a transport client for the given base URL. A nil auth
// provider sends unauthenticated requests.
func NewClient(baseURL string, auth AuthProvider, opts ...Option) *Client {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		parsed = &url.URL{Scheme: "https", Host: baseURL}
	}

	client := &Client{
		baseURL:      parsed,
		auth:         auth,
		userAgent:    constants.DefaultUserAgent,
		accept:       constants.DefaultAccept,
		retryMax:     constants.DefaultRetryMax,
		retryWaitMin: constants.DefaultRetryWaitMin,
		retryWaitMax: constants.DefaultRetryWaitMax,
	}

	for _, opt := range opts {
		opt(client)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = client.retryMax
	retryClient.RetryWaitMin = client.retryWaitMin
	retryClient.RetryWaitMax = client.retryWaitMax
	retryClient.CheckRetry = client.checkRetry
	retryClient.Backoff = client.backoff
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.HTTPClient.CheckRedirect = client.checkRedirect

	if client.retryDisabled {
		retryClient.RetryMax = 0
	}

	client.retryClient = retryClient

	return client
}

// BaseURL returns the configured base authority.
func (c *Client) BaseURL() *url.URL {
	return c.baseURL
}

// AbsoluteURL resolves a path against the base authority. Fully qualified
// URLs are returned unchanged.
func (c *Client) AbsoluteURL(path string) (string, error) {
	resolved, err := c.resolveURL(path)
	if err != nil {
		return "", err
	}

	return resolved.String(), nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query *github.Params) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// Do dispatches a request and classifies its outcome. A non-2xx response
// returns both the response and a *github.APIError decoded from GitHub's
// error envelope; connection-level failures return a wrapped transport
// error.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	target, err := c.resolveURL(req.Path)
	if err != nil {
		return nil, fmt.Errorf("resolving request URL: %w", err)
	}

	if req.Query.Len() > 0 {
		target.RawQuery = req.Query.Encode()
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	mirror := &github.Request{
		Method:  req.Method,
		URL:     target.String(),
		Headers: make(http.Header),
		Body:    body,
	}

	c.setDefaultHeaders(mirror.Headers, req, contentType, len(body))

	err = c.attachAuth(ctx, mirror.Headers, target)
	if err != nil {
		return nil, err
	}

	if c.interceptors != nil {
		err = c.interceptors.ExecuteRequestInterceptors(ctx, mirror)
		if err != nil {
			return nil, err
		}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    target.String(),
		})
	}

	respMirror, err := c.dispatch(ctx, req, mirror, body)
	if err != nil {
		return nil, err
	}

	if c.interceptors != nil {
		err = c.interceptors.ExecuteResponseInterceptors(ctx, mirror, respMirror)
		if err != nil {
			return nil, err
		}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"url":         target.String(),
			"status_code": respMirror.StatusCode,
		})
	}

	resp := &Response{
		StatusCode: respMirror.StatusCode,
		Headers:    respMirror.Headers,
		Body:       respMirror.Body,
		Links:      respMirror.Links,
	}

	return c.classify(resp)
}

// dispatch executes the wire request and reads the full response body.
func (c *Client) dispatch(ctx context.Context, req *Request, mirror *github.Request, body []byte) (*github.Response, error) {
	ctx = withRetryMeta(ctx, &retryMeta{
		idempotent:      isIdempotent(req.Method) || req.Idempotent,
		followRedirects: req.FollowRedirects,
	})

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	wireReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, mirror.URL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for key, values := range mirror.Headers {
		for _, value := range values {
			wireReq.Header.Add(key, value)
		}
	}

	if body != nil {
		// Some transports omit Content-Length for empty or streamed
		// bodies; GitHub rejects such requests for certain verbs.
		wireReq.ContentLength = int64(len(body))
	}

	wireResp, err := c.retryClient.Do(wireReq)
	if err != nil {
		return nil, fmt.Errorf("sending %s %s: %w", req.Method, mirror.URL, err)
	}

	defer func() {
		_ = wireResp.Body.Close()
	}()

	respBody, err := io.ReadAll(wireResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &github.Response{
		StatusCode: wireResp.StatusCode,
		Headers:    wireResp.Header,
		Body:       respBody,
		Links:      ParseLinkHeader(wireResp.Header.Get("Link")),
	}, nil
}

// classify turns a non-2xx response into a typed API error. The final
// outcome always carries the response so callers can inspect headers.
func (c *Client) classify(resp *Response) (*Response, error) {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	apiErr := github.ParseAPIError(resp.StatusCode, resp.Body)
	apiErr.RateLimited = isRateLimitResponse(resp.StatusCode, resp.Headers)

	return resp, apiErr
}

func (c *Client) setDefaultHeaders(headers http.Header, req *Request, contentType string, bodyLen int) {
	headers.Set("User-Agent", c.userAgent)
	headers.Set("X-GitHub-Api-Version", constants.APIVersion)

	accept := c.accept
	if req.Accept != "" {
		accept = req.Accept
	}

	headers.Set("Accept", accept)

	if contentType != "" {
		headers.Set("Content-Type", contentType)
		headers.Set("Content-Length", strconv.Itoa(bodyLen))
	}

	for key, value := range req.Headers {
		headers.Set(key, value)
	}
}

// attachAuth sets the Authorization header, but only for requests against
// the configured API authority. The credential is never sent to a
// third-party host.
func (c *Client) attachAuth(ctx context.Context, headers http.Header, target *url.URL) error {
	if c.auth == nil || target.Host != c.baseURL.Host {
		return nil
	}

	header, err := c.auth.AuthorizationHeader(ctx)
	if err != nil {
		return &github.AuthError{Err: err}
	}

	if header != "" {
		headers.Set("Authorization", header)
	}

	return nil
}

func (c *Client) resolveURL(path string) (*url.URL, error) {
	parsed, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parsing route %q: %w", path, err)
	}

	if parsed.IsAbs() {
		return parsed, nil
	}

	// Join the escaped path forms. Joining the decoded forms would strip
	// percent-encoding that handlers add on purpose (a label or tag
	// containing a slash must stay one segment).
	refPath := parsed.EscapedPath()
	if refPath != "" && refPath[0] != '/' {
		refPath = "/" + refPath
	}

	joined, err := url.Parse(strings.TrimSuffix(c.baseURL.EscapedPath(), "/") + refPath)
	if err != nil {
		return nil, fmt.Errorf("resolving route %q: %w", path, err)
	}

	resolved := *c.baseURL
	resolved.Path = joined.Path
	resolved.RawPath = joined.RawPath
	resolved.RawQuery = parsed.RawQuery

	return &resolved, nil
}

func encodeBody(req *Request) ([]byte, string, error) {
	if req.RawBody != nil {
		contentType := req.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		return req.RawBody, contentType, nil
	}

	if req.Body == nil {
		return nil, "", nil
	}

	data, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", fmt.Errorf("encoding request body: %w", err)
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/json"
	}

	return data, contentType, nil
}

// Retry policy

type retryMeta struct {
	idempotent      bool
	followRedirects bool
}

type retryMetaKey struct{}

func withRetryMeta(ctx context.Context, meta *retryMeta) context.Context {
	return context.WithValue(ctx, retryMetaKey{}, meta)
}

func retryMetaFrom(ctx context.Context) *retryMeta {
	meta, ok := ctx.Value(retryMetaKey{}).(*retryMeta)
	if !ok {
		return &retryMeta{idempotent: true}
	}

	return meta
}

func isIdempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return true
	default:
		return false
	}
}

// checkRetry retries only classifiably-transient outcomes: connection
// failures, 5xx (except 501), and rate-limit rejections. Non-idempotent
// calls are never retried unless the caller marked them idempotent.
// Exhausting retries surfaces the last outcome unchanged
// (PassthroughErrorHandler).
func (c *Client) checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if !retryMetaFrom(ctx).idempotent {
		return false, nil
	}

	if err != nil {
		// Delegates to retryablehttp's classification of unrecoverable
		// transport errors (TLS, too many redirects, invalid scheme).
		return retryablehttp.ErrorPropagatedRetryPolicy(ctx, resp, err)
	}

	if resp == nil {
		return false, nil
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return true, nil
	case resp.StatusCode == http.StatusForbidden && isRateLimitResponse(resp.StatusCode, resp.Header):
		return true, nil
	case resp.StatusCode >= 500 && resp.StatusCode != http.StatusNotImplemented:
		return true, nil
	default:
		return false, nil
	}
}

// backoff sleeps exponentially with jitter, honoring any server-provided
// rate-limit reset hint.
func (c *Client) backoff(minWait, maxWait time.Duration, attemptNum int, resp *http.Response) time.Duration {
	if resp != nil {
		if wait, ok := rateLimitResetHint(resp.Header); ok {
			if wait > constants.RateLimitWaitMax {
				wait = constants.RateLimitWaitMax
			}

			if wait > 0 {
				return wait
			}
		}
	}

	wait := minWait << uint(attemptNum)
	if wait > maxWait || wait <= 0 {
		wait = maxWait
	}

	// Jitter in [wait/2, wait) keeps delays strictly increasing across
	// attempts while avoiding thundering herds.
	half := wait / 2
	if half <= 0 {
		return wait
	}

	return half + time.Duration(rand.Int64N(int64(half)))
}

// rateLimitResetHint extracts the server's suggested wait from Retry-After
// or X-RateLimit-Reset.
func rateLimitResetHint(headers http.Header) (time.Duration, bool) {
	if after := headers.Get("Retry-After"); after != "" {
		seconds, err := strconv.Atoi(after)
		if err == nil {
			return time.Duration(seconds) * time.Second, true
		}
	}

	if reset := headers.Get("X-RateLimit-Reset"); reset != "" {
		epoch, err := strconv.ParseInt(reset, 10, 64)
		if err == nil {
			return time.Until(time.Unix(epoch, 0)), true
		}
	}

	return 0, false
}

// isRateLimitResponse reports whether a 403/429 carried rate-limit headers,
// distinguishing throttling from a genuine permission error.
func isRateLimitResponse(statusCode int, headers http.Header) bool {
	if statusCode != http.StatusForbidden && statusCode != http.StatusTooManyRequests {
		return false
	}

	if statusCode == http.StatusTooManyRequests {
		return true
	}

	return headers.Get("X-RateLimit-Remaining") == "0" || headers.Get("Retry-After") != ""
}

// checkRedirect follows same-host redirects, and cross-host redirects only
// when the call opted in. The Authorization header is always stripped when
// leaving the API authority.
func (c *Client) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= 10 {
		return ErrTooManyRedirects
	}

	if req.URL.Host == c.baseURL.Host {
		return nil
	}

	req.Header.Del("Authorization")

	if !retryMetaFrom(req.Context()).followRedirects {
		return http.ErrUseLastResponse
	}

	return nil
}

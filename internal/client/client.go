// Package client provides the concrete implementation of the github.Client
// interface, wiring credentials, the response cache, and the resource
// handlers onto the dispatch layer.
package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hubgrip-io/ghapi/internal/auth"
	"github.com/hubgrip-io/ghapi/internal/constants"
	"github.com/hubgrip-io/ghapi/internal/transport"
	"github.com/hubgrip-io/ghapi/pkg/github"
)

// Client implements the github.Client interface.
type Client struct {
	http   *transport.Client
	config *github.Config

	appManager    *auth.AppTokenManager
	installations *auth.InstallationTokenManager
	cache         github.Cache
}

// New creates a client from the given configuration.
func New(config *github.Config) (*Client, error) {
	if config == nil {
		return nil, github.ErrConfigRequired
	}

	if config.BaseURL == "" {
		return nil, github.ErrBaseURLRequired
	}

	client := &Client{config: config}

	err := client.setupAuth()
	if err != nil {
		return nil, err
	}

	if config.Cache != nil {
		cache, err := github.NewCacheFromConfig(config.Cache)
		if err != nil {
			return nil, fmt.Errorf("creating response cache: %w", err)
		}

		client.cache = cache
	}

	provider, err := client.provider(config.InstallationID)
	if err != nil {
		return nil, err
	}

	client.http = transport.NewClient(config.BaseURL, provider, client.transportOptions()...)

	return client, nil
}

// setupAuth constructs the App token managers when App credentials are
// configured. Static credentials need no setup.
func (c *Client) setupAuth() error {
	if c.config.AppID == 0 && len(c.config.PrivateKeyPEM) == 0 {
		if c.config.InstallationID != 0 {
			return fmt.Errorf("%w: installation auth needs an app ID and private key", github.ErrNoCredential)
		}

		return nil
	}

	if c.config.AppID == 0 {
		return github.ErrAppIDRequired
	}

	if len(c.config.PrivateKeyPEM) == 0 {
		return github.ErrPrivateKeyRequired
	}

	appManager, err := auth.NewAppTokenManager(c.config.AppID, c.config.PrivateKeyPEM)
	if err != nil {
		return &github.AuthError{Err: err}
	}

	c.appManager = appManager
	c.installations = auth.NewInstallationTokenManager(appManager, c.config.BaseURL, c.userAgent())

	return nil
}

// provider selects the auth provider per the documented credential
// precedence. A zero installationID with App credentials authenticates as
// the App itself.
func (c *Client) provider(installationID int64) (transport.AuthProvider, error) {
	switch {
	case c.config.Token != "":
		return auth.NewBearerProvider(c.config.Token)
	case c.config.Username != "":
		return auth.NewBasicProvider(c.config.Username, c.config.Password)
	case c.config.OAuthAppToken != "":
		return auth.NewOAuthAppProvider(c.config.OAuthAppToken)
	case c.appManager != nil && installationID != 0:
		return c.installations.Provider(installationID)
	case c.appManager != nil:
		return c.appManager, nil
	default:
		return nil, nil
	}
}

func (c *Client) transportOptions() []transport.Option {
	options := []transport.Option{
		transport.WithUserAgent(c.userAgent()),
	}

	if c.config.Accept != "" {
		options = append(options, transport.WithAccept(c.config.Accept))
	}

	if c.config.Logger != nil {
		options = append(options, transport.WithLogger(c.config.Logger))
		options = append(options, transport.WithDebug(c.config.Debug))
	}

	if c.config.RetryDisabled {
		options = append(options, transport.WithRetryDisabled())
	} else if c.config.RetryMax > 0 {
		waitMin := c.config.RetryWaitMin
		if waitMin == 0 {
			waitMin = constants.DefaultRetryWaitMin
		}

		waitMax := c.config.RetryWaitMax
		if waitMax == 0 {
			waitMax = constants.DefaultRetryWaitMax
		}

		options = append(options, transport.WithRetryConfig(c.config.RetryMax, waitMin, waitMax))
	}

	if chain := c.interceptorChain(); chain != nil {
		options = append(options, transport.WithInterceptors(chain))
	}

	return options
}

// interceptorChain wires the conditional-request cache, and request
// logging when a logger is configured.
func (c *Client) interceptorChain() *github.InterceptorChain {
	conditional := c.cache != nil && c.config.Cache.Type != github.CacheTypeNone

	if !conditional && c.config.Logger == nil {
		return nil
	}

	chain := github.NewInterceptorChain()

	if c.config.Logger != nil && c.config.Debug {
		chain.AddRequestInterceptor(github.LoggingInterceptor(c.config.Logger))
		chain.AddResponseInterceptor(github.LoggingResponseInterceptor(c.config.Logger))
	}

	if conditional {
		chain.AddRequestInterceptor(github.ConditionalRequestInterceptor(c.cache))
		chain.AddResponseInterceptor(github.ConditionalResponseInterceptor(c.cache))
	}

	return chain
}

func (c *Client) userAgent() string {
	if c.config.UserAgent != "" {
		return c.config.UserAgent
	}

	return constants.DefaultUserAgent
}

// Installation derives a client acting as the given installation, sharing
// this client's App credential and token cache.
func (c *Client) Installation(installationID int64) (github.Client, error) {
	if c.appManager == nil {
		return nil, github.ErrNoCredential
	}

	if installationID == 0 {
		return nil, github.ErrInstallationRequired
	}

	derived := &Client{
		config:        c.config,
		appManager:    c.appManager,
		installations: c.installations,
		cache:         c.cache,
	}

	provider, err := c.installations.Provider(installationID)
	if err != nil {
		return nil, err
	}

	derived.http = transport.NewClient(c.config.BaseURL, provider, derived.transportOptions()...)

	return derived, nil
}

// AbsoluteURL resolves a path against the configured base authority.
func (c *Client) AbsoluteURL(path string) (string, error) {
	return c.http.AbsoluteURL(path)
}

// FetchPage performs a GET against a pagination URL and returns the raw
// body with its Link relations.
func (c *Client) FetchPage(ctx context.Context, url string) ([]byte, github.PageLinks, error) {
	resp, err := c.http.Get(ctx, url, nil)
	if err != nil {
		return nil, github.PageLinks{}, err
	}

	return resp.Body, resp.Links, nil
}

// Resource handlers

// Issues returns the issues API.
func (c *Client) Issues() github.IssuesClient {
	return &issuesClient{client: c}
}

// PullRequests returns the pulls API.
func (c *Client) PullRequests() github.PullRequestsClient {
	return &pullsClient{client: c}
}

// Repositories returns the repos API.
func (c *Client) Repositories() github.RepositoriesClient {
	return &reposClient{client: c}
}

// Releases returns the releases API.
func (c *Client) Releases() github.ReleasesClient {
	return &releasesClient{client: c}
}

// Apps returns the GitHub App API.
func (c *Client) Apps() github.AppsClient {
	return &appsClient{client: c}
}

// Users returns the users API.
func (c *Client) Users() github.UsersClient {
	return &usersClient{client: c}
}

// Orgs returns the orgs API.
func (c *Client) Orgs() github.OrgsClient {
	return &orgsClient{client: c}
}

// Search returns the search API.
func (c *Client) Search() github.SearchClient {
	return &searchClient{client: c}
}

// Dispatch helpers shared by the handlers.

func (c *Client) get(ctx context.Context, path string, query *github.Params, out any) error {
	resp, err := c.http.Get(ctx, path, query)
	if err != nil {
		return err
	}

	return decodeInto(resp.Body, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	resp, err := c.http.Post(ctx, path, body)
	if err != nil {
		return err
	}

	return decodeInto(resp.Body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	resp, err := c.http.Put(ctx, path, body)
	if err != nil {
		return err
	}

	return decodeInto(resp.Body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	resp, err := c.http.Patch(ctx, path, body)
	if err != nil {
		return err
	}

	return decodeInto(resp.Body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	_, err := c.http.Delete(ctx, path)

	return err
}

// getPage performs a list GET and decodes the page, sniffing GitHub's two
// list shapes (bare array, or an object wrapping the items).
func getPage[T any](ctx context.Context, c *Client, path string, query *github.Params) (*github.Page[T], error) {
	resp, err := c.http.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	return github.DecodePage[T](resp.Body, resp.Links)
}

// decodeInto unmarshals a response body. Bodies of 204/205 responses are
// empty and skipped.
func decodeInto(body []byte, out any) error {
	if out == nil || len(body) == 0 {
		return nil
	}

	err := json.Unmarshal(body, out)
	if err != nil {
		return &github.DecodeError{Err: err, Body: body}
	}

	return nil
}

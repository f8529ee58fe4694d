package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/hubgrip-io/ghapi/internal/transport"
	"github.com/hubgrip-io/ghapi/pkg/github"
)

// RateLimit returns the caller's current rate-limit state across all
// resource groups.
func (c *Client) RateLimit(ctx context.Context) (*github.RateLimitOverview, error) {
	var overview github.RateLimitOverview

	err := c.get(ctx, "/rate_limit", nil, &overview)
	if err != nil {
		return nil, err
	}

	return &overview, nil
}

// RenderMarkdown renders markdown text to HTML. The endpoint responds with
// the raw HTML, not a JSON envelope.
func (c *Client) RenderMarkdown(ctx context.Context, text string) (string, error) {
	resp, err := c.http.Do(ctx, &transport.Request{
		Method: http.MethodPost,
		Path:   "/markdown",
		Body:   map[string]string{"text": text},
		Accept: "text/html",
	})
	if err != nil {
		return "", err
	}

	return string(resp.Body), nil
}

// ListGitignoreTemplates returns the names of all available .gitignore
// templates.
func (c *Client) ListGitignoreTemplates(ctx context.Context) ([]string, error) {
	var names []string

	err := c.get(ctx, "/gitignore/templates", nil, &names)
	if err != nil {
		return nil, err
	}

	return names, nil
}

// GetGitignoreTemplate returns one .gitignore template with its source.
func (c *Client) GetGitignoreTemplate(ctx context.Context, name string) (*github.GitignoreTemplate, error) {
	path := fmt.Sprintf("/gitignore/templates/%s", url.PathEscape(name))

	var template github.GitignoreTemplate

	err := c.get(ctx, path, nil, &template)
	if err != nil {
		return nil, err
	}

	return &template, nil
}

// Zen returns a random zen of GitHub koan as plain text.
func (c *Client) Zen(ctx context.Context) (string, error) {
	resp, err := c.http.Do(ctx, &transport.Request{
		Method: http.MethodGet,
		Path:   "/zen",
		Accept: "text/plain",
	})
	if err != nil {
		return "", err
	}

	return string(resp.Body), nil
}

package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/hubgrip-io/ghapi/internal/transport"
	"github.com/hubgrip-io/ghapi/pkg/github"
)

type releasesClient struct {
	client *Client
}

func (r *releasesClient) List(ctx context.Context, owner, repo string, params *github.Params) (*github.Page[github.Release], error) {
	path := fmt.Sprintf("/repos/%s/%s/releases", owner, repo)

	return getPage[github.Release](ctx, r.client, path, params)
}

func (r *releasesClient) GetLatest(ctx context.Context, owner, repo string) (*github.Release, error) {
	path := fmt.Sprintf("/repos/%s/%s/releases/latest", owner, repo)

	var release github.Release

	err := r.client.get(ctx, path, nil, &release)
	if err != nil {
		return nil, err
	}

	return &release, nil
}

// GetByTag escapes the tag: tags like "release/v1.0" must stay a single
// path segment.
func (r *releasesClient) GetByTag(ctx context.Context, owner, repo, tag string) (*github.Release, error) {
	path := fmt.Sprintf("/repos/%s/%s/releases/tags/%s", owner, repo, url.PathEscape(tag))

	var release github.Release

	err := r.client.get(ctx, path, nil, &release)
	if err != nil {
		return nil, err
	}

	return &release, nil
}

func (r *releasesClient) Create(ctx context.Context, owner, repo string, request *github.ReleaseCreateRequest) (*github.Release, error) {
	path := fmt.Sprintf("/repos/%s/%s/releases", owner, repo)

	var release github.Release

	err := r.client.post(ctx, path, request, &release)
	if err != nil {
		return nil, err
	}

	return &release, nil
}

// DownloadAsset fetches an asset's raw bytes. GitHub answers the
// octet-stream request with a redirect to its CDN, so the call opts in to
// following redirects off the API host (the Authorization header does not
// travel with it).
func (r *releasesClient) DownloadAsset(ctx context.Context, owner, repo string, assetID int64) ([]byte, error) {
	resp, err := r.client.http.Do(ctx, &transport.Request{
		Method:          http.MethodGet,
		Path:            fmt.Sprintf("/repos/%s/%s/releases/assets/%d", owner, repo, assetID),
		Accept:          "application/octet-stream",
		FollowRedirects: true,
	})
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}

package client

import (
	"context"
	"fmt"

	"github.com/hubgrip-io/ghapi/pkg/github"
)

type appsClient struct {
	client *Client
}

func (a *appsClient) Get(ctx context.Context) (*github.App, error) {
	var app github.App

	err := a.client.get(ctx, "/app", nil, &app)
	if err != nil {
		return nil, err
	}

	return &app, nil
}

func (a *appsClient) ListInstallations(ctx context.Context, params *github.Params) (*github.Page[github.Installation], error) {
	return getPage[github.Installation](ctx, a.client, "/app/installations", params)
}

func (a *appsClient) GetRepositoryInstallation(ctx context.Context, owner, repo string) (*github.Installation, error) {
	path := fmt.Sprintf("/repos/%s/%s/installation", owner, repo)

	var installation github.Installation

	err := a.client.get(ctx, path, nil, &installation)
	if err != nil {
		return nil, err
	}

	return &installation, nil
}

func (a *appsClient) GetOrgInstallation(ctx context.Context, org string) (*github.Installation, error) {
	path := fmt.Sprintf("/orgs/%s/installation", org)

	var installation github.Installation

	err := a.client.get(ctx, path, nil, &installation)
	if err != nil {
		return nil, err
	}

	return &installation, nil
}

// CreateInstallationToken mints a scoped installation token. This is the
// explicit API call; the client's own installation credential caches its
// tokens internally and does not go through here.
func (a *appsClient) CreateInstallationToken(ctx context.Context, installationID int64, request *github.InstallationTokenRequest) (*github.InstallationToken, error) {
	path := fmt.Sprintf("/app/installations/%d/access_tokens", installationID)

	var token github.InstallationToken

	err := a.client.post(ctx, path, request, &token)
	if err != nil {
		return nil, err
	}

	return &token, nil
}

package client

import (
	"context"
	"fmt"

	"github.com/hubgrip-io/ghapi/pkg/github"
)

type orgsClient struct {
	client *Client
}

func (o *orgsClient) Get(ctx context.Context, org string) (*github.Organization, error) {
	path := fmt.Sprintf("/orgs/%s", org)

	var organization github.Organization

	err := o.client.get(ctx, path, nil, &organization)
	if err != nil {
		return nil, err
	}

	return &organization, nil
}

func (o *orgsClient) ListForUser(ctx context.Context, login string, params *github.Params) (*github.Page[github.Organization], error) {
	path := fmt.Sprintf("/users/%s/orgs", login)

	return getPage[github.Organization](ctx, o.client, path, params)
}

func (o *orgsClient) ListMembers(ctx context.Context, org string, params *github.Params) (*github.Page[github.User], error) {
	path := fmt.Sprintf("/orgs/%s/members", org)

	return getPage[github.User](ctx, o.client, path, params)
}

package client

import (
	"context"
	"fmt"

	"github.com/hubgrip-io/ghapi/pkg/github"
)

type reposClient struct {
	client *Client
}

func (r *reposClient) Get(ctx context.Context, owner, repo string) (*github.Repository, error) {
	path := fmt.Sprintf("/repos/%s/%s", owner, repo)

	var repository github.Repository

	err := r.client.get(ctx, path, nil, &repository)
	if err != nil {
		return nil, err
	}

	return &repository, nil
}

func (r *reposClient) ListForOrg(ctx context.Context, org string, params *github.Params) (*github.Page[github.Repository], error) {
	path := fmt.Sprintf("/orgs/%s/repos", org)

	return getPage[github.Repository](ctx, r.client, path, params)
}

func (r *reposClient) ListForUser(ctx context.Context, user string, params *github.Params) (*github.Page[github.Repository], error) {
	path := fmt.Sprintf("/users/%s/repos", user)

	return getPage[github.Repository](ctx, r.client, path, params)
}

func (r *reposClient) Create(ctx context.Context, request *github.RepositoryCreateRequest) (*github.Repository, error) {
	var repository github.Repository

	err := r.client.post(ctx, "/user/repos", request, &repository)
	if err != nil {
		return nil, err
	}

	return &repository, nil
}

func (r *reposClient) CreateForOrg(ctx context.Context, org string, request *github.RepositoryCreateRequest) (*github.Repository, error) {
	path := fmt.Sprintf("/orgs/%s/repos", org)

	var repository github.Repository

	err := r.client.post(ctx, path, request, &repository)
	if err != nil {
		return nil, err
	}

	return &repository, nil
}

func (r *reposClient) Delete(ctx context.Context, owner, repo string) error {
	path := fmt.Sprintf("/repos/%s/%s", owner, repo)

	return r.client.delete(ctx, path)
}

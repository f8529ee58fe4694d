package client

import (
	"context"
	"fmt"

	"github.com/hubgrip-io/ghapi/pkg/github"
)

type usersClient struct {
	client *Client
}

func (u *usersClient) Get(ctx context.Context, login string) (*github.User, error) {
	path := fmt.Sprintf("/users/%s", login)

	var user github.User

	err := u.client.get(ctx, path, nil, &user)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (u *usersClient) Current(ctx context.Context) (*github.User, error) {
	var user github.User

	err := u.client.get(ctx, "/user", nil, &user)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (u *usersClient) ListFollowers(ctx context.Context, login string, params *github.Params) (*github.Page[github.User], error) {
	path := fmt.Sprintf("/users/%s/followers", login)

	return getPage[github.User](ctx, u.client, path, params)
}

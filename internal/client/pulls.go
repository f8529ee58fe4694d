package client

import (
	"context"
	"fmt"

	"github.com/hubgrip-io/ghapi/pkg/github"
)

type pullsClient struct {
	client *Client
}

func (p *pullsClient) Get(ctx context.Context, owner, repo string, number int) (*github.PullRequest, error) {
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d", owner, repo, number)

	var pull github.PullRequest

	err := p.client.get(ctx, path, nil, &pull)
	if err != nil {
		return nil, err
	}

	return &pull, nil
}

func (p *pullsClient) List(ctx context.Context, owner, repo string, params *github.Params) (*github.Page[github.PullRequest], error) {
	path := fmt.Sprintf("/repos/%s/%s/pulls", owner, repo)

	return getPage[github.PullRequest](ctx, p.client, path, params)
}

func (p *pullsClient) Create(ctx context.Context, owner, repo string, request *github.PullRequestCreateRequest) (*github.PullRequest, error) {
	path := fmt.Sprintf("/repos/%s/%s/pulls", owner, repo)

	var pull github.PullRequest

	err := p.client.post(ctx, path, request, &pull)
	if err != nil {
		return nil, err
	}

	return &pull, nil
}

func (p *pullsClient) Merge(ctx context.Context, owner, repo string, number int, request *github.MergeRequest) (*github.MergeResult, error) {
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d/merge", owner, repo, number)

	var result github.MergeResult

	err := p.client.put(ctx, path, request, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// IsMerged maps GitHub's status-only contract (204 merged, 404 not merged)
// onto a boolean.
func (p *pullsClient) IsMerged(ctx context.Context, owner, repo string, number int) (bool, error) {
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d/merge", owner, repo, number)

	err := p.client.get(ctx, path, nil, nil)
	if err != nil {
		if github.IsNotFound(err) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

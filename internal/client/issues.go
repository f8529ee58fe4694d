package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hubgrip-io/ghapi/pkg/github"
)

type issuesClient struct {
	client *Client
}

func (i *issuesClient) Get(ctx context.Context, owner, repo string, number int) (*github.Issue, error) {
	path := fmt.Sprintf("/repos/%s/%s/issues/%d", owner, repo, number)

	var issue github.Issue

	err := i.client.get(ctx, path, nil, &issue)
	if err != nil {
		return nil, err
	}

	return &issue, nil
}

func (i *issuesClient) List(ctx context.Context, owner, repo string, params *github.Params) (*github.Page[github.Issue], error) {
	path := fmt.Sprintf("/repos/%s/%s/issues", owner, repo)

	return getPage[github.Issue](ctx, i.client, path, params)
}

func (i *issuesClient) Create(ctx context.Context, owner, repo string, request *github.IssueCreateRequest) (*github.Issue, error) {
	path := fmt.Sprintf("/repos/%s/%s/issues", owner, repo)

	var issue github.Issue

	err := i.client.post(ctx, path, request, &issue)
	if err != nil {
		return nil, err
	}

	return &issue, nil
}

func (i *issuesClient) Update(ctx context.Context, owner, repo string, number int, request *github.IssueUpdateRequest) (*github.Issue, error) {
	path := fmt.Sprintf("/repos/%s/%s/issues/%d", owner, repo, number)

	var issue github.Issue

	err := i.client.patch(ctx, path, request, &issue)
	if err != nil {
		return nil, err
	}

	return &issue, nil
}

func (i *issuesClient) ListComments(ctx context.Context, owner, repo string, number int, params *github.Params) (*github.Page[github.Comment], error) {
	path := fmt.Sprintf("/repos/%s/%s/issues/%d/comments", owner, repo, number)

	return getPage[github.Comment](ctx, i.client, path, params)
}

func (i *issuesClient) CreateComment(ctx context.Context, owner, repo string, number int, body string) (*github.Comment, error) {
	path := fmt.Sprintf("/repos/%s/%s/issues/%d/comments", owner, repo, number)

	var comment github.Comment

	err := i.client.post(ctx, path, map[string]string{"body": body}, &comment)
	if err != nil {
		return nil, err
	}

	return &comment, nil
}

func (i *issuesClient) AddLabels(ctx context.Context, owner, repo string, number int, labels []string) ([]github.Label, error) {
	path := fmt.Sprintf("/repos/%s/%s/issues/%d/labels", owner, repo, number)

	var result []github.Label

	err := i.client.post(ctx, path, map[string][]string{"labels": labels}, &result)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (i *issuesClient) RemoveLabel(ctx context.Context, owner, repo string, number int, label string) error {
	path := fmt.Sprintf("/repos/%s/%s/issues/%d/labels/%s", owner, repo, number, url.PathEscape(label))

	return i.client.delete(ctx, path)
}

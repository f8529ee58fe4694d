package client

import (
	"context"

	"github.com/hubgrip-io/ghapi/pkg/github"
)

type searchClient struct {
	client *Client
}

// Search endpoints wrap their results in {"total_count", "incomplete_results",
// "items"}; page decoding surfaces both counters on the returned page.

func (s *searchClient) Issues(ctx context.Context, query string, params *github.Params) (*github.Page[github.Issue], error) {
	return getPage[github.Issue](ctx, s.client, "/search/issues", searchParams(query, params))
}

func (s *searchClient) Repositories(ctx context.Context, query string, params *github.Params) (*github.Page[github.Repository], error) {
	return getPage[github.Repository](ctx, s.client, "/search/repositories", searchParams(query, params))
}

func (s *searchClient) Users(ctx context.Context, query string, params *github.Params) (*github.Page[github.User], error) {
	return getPage[github.User](ctx, s.client, "/search/users", searchParams(query, params))
}

// searchParams puts the query first so it leads the serialized URL.
func searchParams(query string, params *github.Params) *github.Params {
	merged := github.NewParams().Set("q", query)

	params.Each(func(key, value string) {
		if key != "q" {
			merged.Add(key, value)
		}
	})

	return merged
}

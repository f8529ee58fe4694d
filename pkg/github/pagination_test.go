package github_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubgrip-io/ghapi/pkg/github"
)

// fakeFetcher serves canned pages keyed by URL.
type fakeFetcher struct {
	pages map[string]fakePage
	calls int
}

type fakePage struct {
	body  string
	links github.PageLinks
}

func (f *fakeFetcher) FetchPage(_ context.Context, url string) ([]byte, github.PageLinks, error) {
	f.calls++

	page, ok := f.pages[url]
	if !ok {
		return nil, github.PageLinks{}, fmt.Errorf("unexpected url %q", url)
	}

	return []byte(page.body), page.links, nil
}

func threePageFetcher() *fakeFetcher {
	return &fakeFetcher{pages: map[string]fakePage{
		"https://x/items?page=2": {
			body:  `[{"id": 3, "login": "c"}, {"id": 4, "login": "d"}]`,
			links: github.PageLinks{Next: "https://x/items?page=3", Prev: "https://x/items?page=1"},
		},
		"https://x/items?page=3": {
			body:  `[{"id": 5, "login": "e"}]`,
			links: github.PageLinks{Prev: "https://x/items?page=2"},
		},
	}}
}

func firstPage() *github.Page[github.User] {
	page := &github.Page[github.User]{
		Items: []github.User{{ID: 1, Login: "a"}, {ID: 2, Login: "b"}},
	}
	page.Next = "https://x/items?page=2"

	return page
}

func TestNextPageFollowsLink(t *testing.T) {
	t.Parallel()

	fetcher := threePageFetcher()

	next, err := github.NextPage(context.Background(), fetcher, firstPage())
	require.NoError(t, err)
	require.NotNil(t, next)

	assert.Equal(t, "c", next.Items[0].Login)
	assert.Equal(t, "https://x/items?page=3", next.Next)
}

func TestNextPageTerminal(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{}
	page := &github.Page[github.User]{Items: []github.User{{ID: 1}}}

	next, err := github.NextPage(context.Background(), fetcher, page)
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Zero(t, fetcher.calls)
}

func TestPrevPageFollowsLink(t *testing.T) {
	t.Parallel()

	fetcher := threePageFetcher()
	page := &github.Page[github.User]{}
	page.Prev = "https://x/items?page=2"

	prev, err := github.PrevPage(context.Background(), fetcher, page)
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Len(t, prev.Items, 2)
}

func TestAllPagesDrainsChain(t *testing.T) {
	t.Parallel()

	fetcher := threePageFetcher()

	items, err := github.AllPages(context.Background(), fetcher, firstPage())
	require.NoError(t, err)

	require.Len(t, items, 5)
	assert.Equal(t, "a", items[0].Login)
	assert.Equal(t, "e", items[4].Login)
	assert.Equal(t, 2, fetcher.calls)
}

func TestPageIteratorWalksAcrossPages(t *testing.T) {
	t.Parallel()

	it := github.NewPageIterator(context.Background(), threePageFetcher(), firstPage())

	var logins []string

	for it.HasNext() {
		user, err := it.Next()
		require.NoError(t, err)

		logins = append(logins, user.Login)
	}

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, logins)

	_, err := it.Next()
	assert.ErrorIs(t, err, github.ErrNoMoreItems)
}

func TestPageIteratorEmptyStart(t *testing.T) {
	t.Parallel()

	it := github.NewPageIterator(context.Background(), &fakeFetcher{}, (*github.Page[github.User])(nil))

	assert.False(t, it.HasNext())

	_, err := it.Next()
	assert.ErrorIs(t, err, github.ErrNoMoreItems)
}

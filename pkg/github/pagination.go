package github

import (
	"context"
	"fmt"
)

// PageFetcher performs a GET against an absolute pagination link and returns
// the raw body plus the links of the new page. The concrete client implements
// this; resource handlers and iterators drive it.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) ([]byte, PageLinks, error)
}

// NextPage follows the current page's next link. It returns nil when the
// page has no next link. Because the cursor lives in the link itself, any
// previously observed page can resume iteration.
func NextPage[T any](ctx context.Context, fetcher PageFetcher, page *Page[T]) (*Page[T], error) {
	if page == nil || page.Next == "" {
		return nil, nil
	}

	return GetPage[T](ctx, fetcher, page.Next)
}

// PrevPage follows the current page's prev link, or returns nil.
func PrevPage[T any](ctx context.Context, fetcher PageFetcher, page *Page[T]) (*Page[T], error) {
	if page == nil || page.Prev == "" {
		return nil, nil
	}

	return GetPage[T](ctx, fetcher, page.Prev)
}

// GetPage fetches and decodes the page at an absolute URL.
func GetPage[T any](ctx context.Context, fetcher PageFetcher, url string) (*Page[T], error) {
	body, links, err := fetcher.FetchPage(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}

	return DecodePage[T](body, links)
}

// AllPages drains the pagination chain starting at page, returning every
// item. The starting page's items are included.
func AllPages[T any](ctx context.Context, fetcher PageFetcher, page *Page[T]) ([]T, error) {
	var items []T

	for page != nil {
		items = append(items, page.Items...)

		next, err := NextPage(ctx, fetcher, page)
		if err != nil {
			return items, err
		}

		page = next
	}

	return items, nil
}

// PageIterator lazily walks items across pages.
type PageIterator[T any] struct {
	ctx     context.Context
	fetcher PageFetcher
	page    *Page[T]
	index   int
}

// NewPageIterator creates an iterator positioned at the start of page.
func NewPageIterator[T any](ctx context.Context, fetcher PageFetcher, page *Page[T]) *PageIterator[T] {
	return &PageIterator[T]{
		ctx:     ctx,
		fetcher: fetcher,
		page:    page,
	}
}

// HasNext reports whether another item is available without fetching it.
// Reaching the end of the current page's items with a next link present
// still counts as having more.
func (it *PageIterator[T]) HasNext() bool {
	if it.page == nil {
		return false
	}

	return it.index < len(it.page.Items) || it.page.Next != ""
}

// Next returns the next item, fetching the next page when the current one is
// exhausted. Returns ErrNoMoreItems past the end.
func (it *PageIterator[T]) Next() (*T, error) {
	for it.page != nil {
		if it.index < len(it.page.Items) {
			item := &it.page.Items[it.index]
			it.index++

			return item, nil
		}

		next, err := NextPage(it.ctx, it.fetcher, it.page)
		if err != nil {
			return nil, err
		}

		it.page = next
		it.index = 0
	}

	return nil, ErrNoMoreItems
}

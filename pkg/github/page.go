package github

import (
	"encoding/json"
	"net/url"
	"strconv"
)

// PageLinks holds the pagination links extracted from a Link header. Empty
// strings mean the relation was absent.
type PageLinks struct {
	Next  string `json:"next,omitempty"  yaml:"next,omitempty"`
	Prev  string `json:"prev,omitempty"  yaml:"prev,omitempty"`
	First string `json:"first,omitempty" yaml:"first,omitempty"`
	Last  string `json:"last,omitempty"  yaml:"last,omitempty"`
}

// Page is one page of a paginated list response. Next is the sole driver of
// forward iteration: an empty Next is the terminal condition.
type Page[T any] struct {
	Items             []T    `json:"items"                        yaml:"items"`
	IncompleteResults *bool  `json:"incomplete_results,omitempty" yaml:"incomplete_results,omitempty"`
	TotalCount        *int64 `json:"total_count,omitempty"        yaml:"total_count,omitempty"`

	PageLinks `yaml:",inline"`
}

// pageWrapperAttrs are the top-level attributes GitHub uses to wrap list
// results that are not bare arrays.
var pageWrapperAttrs = []string{
	"items",
	"workflows",
	"workflow_runs",
	"jobs",
	"artifacts",
	"repositories",
	"installations",
	"runners",
	"check_runs",
	"secrets",
}

// DecodePage decodes a list response body into a Page. GitHub list endpoints
// return either a bare JSON array or an object wrapping the array under a
// well-known attribute alongside total_count/incomplete_results.
func DecodePage[T any](body []byte, links PageLinks) (*Page[T], error) {
	page := &Page[T]{PageLinks: links}

	if len(body) == 0 {
		return page, nil
	}

	trimmed := firstNonSpace(body)
	if trimmed == '[' {
		err := json.Unmarshal(body, &page.Items)
		if err != nil {
			return nil, &DecodeError{Err: err, Body: body}
		}

		return page, nil
	}

	var envelope map[string]json.RawMessage

	err := json.Unmarshal(body, &envelope)
	if err != nil {
		return nil, &DecodeError{Err: err, Body: body}
	}

	var itemsRaw json.RawMessage

	for _, attr := range pageWrapperAttrs {
		if raw, ok := envelope[attr]; ok {
			itemsRaw = raw

			break
		}
	}

	if itemsRaw == nil {
		return nil, &DecodeError{Err: ErrUnknownListWrapper, Body: body}
	}

	err = json.Unmarshal(itemsRaw, &page.Items)
	if err != nil {
		return nil, &DecodeError{Err: err, Body: body}
	}

	if raw, ok := envelope["total_count"]; ok {
		_ = json.Unmarshal(raw, &page.TotalCount)
	}

	if raw, ok := envelope["incomplete_results"]; ok {
		_ = json.Unmarshal(raw, &page.IncompleteResults)
	}

	return page, nil
}

func firstNonSpace(body []byte) byte {
	for _, c := range body {
		switch c {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return c
		}
	}

	return 0
}

// NumberOfPages returns the total number of pages derived from the "page"
// query parameter of the last link, if present.
func (p *Page[T]) NumberOfPages() (int, bool) {
	if p.Last == "" {
		return 0, false
	}

	parsed, err := url.Parse(p.Last)
	if err != nil {
		return 0, false
	}

	pageParam := parsed.Query().Get("page")
	if pageParam == "" {
		return 0, false
	}

	n, err := strconv.Atoi(pageParam)
	if err != nil {
		return 0, false
	}

	return n, true
}

// TakeItems returns the current items, leaving the page empty.
func (p *Page[T]) TakeItems() []T {
	items := p.Items
	p.Items = nil

	return items
}

package github

import (
	"net/url"
	"strconv"
)

// Params holds query parameters in caller-specified order. GitHub does not
// care about parameter order, but deterministic serialization keeps request
// URLs stable for tests and logs.
type Params struct {
	pairs []paramPair
}

type paramPair struct {
	key   string
	value string
}

// NewParams creates an empty parameter list.
func NewParams() *Params {
	return &Params{}
}

// Set replaces all values for key with a single value, keeping the position
// of the first occurrence.
func (p *Params) Set(key, value string) *Params {
	for i, pair := range p.pairs {
		if pair.key == key {
			p.pairs[i].value = value
			p.removeDuplicates(key, i)

			return p
		}
	}

	return p.Add(key, value)
}

// Add appends a key/value pair.
func (p *Params) Add(key, value string) *Params {
	p.pairs = append(p.pairs, paramPair{key: key, value: value})

	return p
}

// Get returns the first value for key, or "".
func (p *Params) Get(key string) string {
	for _, pair := range p.pairs {
		if pair.key == key {
			return pair.value
		}
	}

	return ""
}

// Each calls fn for every pair in insertion order.
func (p *Params) Each(fn func(key, value string)) {
	if p == nil {
		return
	}

	for _, pair := range p.pairs {
		fn(pair.key, pair.value)
	}
}

// Len returns the number of pairs.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}

	return len(p.pairs)
}

// Encode serializes the parameters in insertion order.
func (p *Params) Encode() string {
	if p == nil || len(p.pairs) == 0 {
		return ""
	}

	var buf []byte

	for i, pair := range p.pairs {
		if i > 0 {
			buf = append(buf, '&')
		}

		buf = append(buf, url.QueryEscape(pair.key)...)
		buf = append(buf, '=')
		buf = append(buf, url.QueryEscape(pair.value)...)
	}

	return string(buf)
}

func (p *Params) removeDuplicates(key string, after int) {
	kept := p.pairs[:after+1]

	for _, pair := range p.pairs[after+1:] {
		if pair.key != key {
			kept = append(kept, pair)
		}
	}

	p.pairs = kept
}

// WithPage sets the page number.
func (p *Params) WithPage(page int) *Params {
	return p.Set("page", strconv.Itoa(page))
}

// WithPerPage sets the page size.
func (p *Params) WithPerPage(perPage int) *Params {
	return p.Set("per_page", strconv.Itoa(perPage))
}

// WithState filters list endpoints by state ("open", "closed", "all").
func (p *Params) WithState(state string) *Params {
	return p.Set("state", state)
}

// WithSort sets the sort field.
func (p *Params) WithSort(sort string) *Params {
	return p.Set("sort", sort)
}

// WithDirection sets the sort direction ("asc" or "desc").
func (p *Params) WithDirection(direction string) *Params {
	return p.Set("direction", direction)
}

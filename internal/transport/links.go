package transport

import (
	"net/url"
	"strings"

	"github.com/hubgrip-io/ghapi/pkg/github"
)

// ParseLinkHeader extracts the pagination relations from an HTTP Link header
// value of the form:
//
//	<https://api.github.com/x?page=2>; rel="next", <https://...>; rel="last"
//
// Pagination is best-effort metadata: malformed entries are skipped rather
// than failing the call, so a broken header degrades to "no further pages".
func ParseLinkHeader(header string) github.PageLinks {
	var links github.PageLinks

	if header == "" {
		return links
	}

	for _, segment := range strings.Split(header, ",") {
		parts := strings.Split(segment, ";")
		if len(parts) < 2 {
			continue
		}

		target := strings.TrimSpace(parts[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}

		target = strings.TrimSuffix(strings.TrimPrefix(target, "<"), ">")

		if _, err := url.Parse(target); err != nil {
			continue
		}

		for _, param := range parts[1:] {
			name, value, found := strings.Cut(strings.TrimSpace(param), "=")
			if !found || name != "rel" {
				continue
			}

			switch strings.Trim(value, `"`) {
			case "next":
				links.Next = target
			case "prev":
				links.Prev = target
			case "first":
				links.First = target
			case "last":
				links.Last = target
			}
		}
	}

	return links
}

package transport

import (
	"net/http"

	"github.com/hubgrip-io/ghapi/pkg/github"
)

// Request describes one API call. A Request is built once and consumed once:
// Do attaches per-dispatch material (auth, defaults) to the outgoing wire
// request, never back onto this struct.
type Request struct {
	// Method is the HTTP verb.
	Method string

	// Path is resolved against the client's base URL, unless it is a
	// fully qualified URL, which is used as-is. Cross-host requests are
	// sent without the client's Authorization header.
	Path string

	// Query parameters, serialized in insertion order.
	Query *github.Params

	// Body is JSON-encoded when non-nil, unless RawBody is set.
	Body any

	// RawBody is sent verbatim with ContentType.
	RawBody []byte

	// ContentType overrides the default application/json for bodied
	// requests.
	ContentType string

	// Accept overrides the client's Accept header for this call.
	Accept string

	// Headers are additional headers set on the request.
	Headers map[string]string

	// Idempotent marks a non-idempotent verb (POST) as safe to retry.
	// GET/PUT/DELETE/HEAD are treated as idempotent regardless.
	Idempotent bool

	// FollowRedirects opts in to following redirects across authorities
	// (e.g., release asset downloads). The Authorization header is never
	// forwarded off the API host.
	FollowRedirects bool
}

// Response is the outcome of a dispatched request.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte

	// Links holds pagination relations parsed from the Link header.
	Links github.PageLinks
}

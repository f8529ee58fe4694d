package github

import (
	"context"
	"time"
)

// IssuesClient covers the issues API for one owner/repo pair.
type IssuesClient interface {
	Get(ctx context.Context, owner, repo string, number int) (*Issue, error)
	List(ctx context.Context, owner, repo string, params *Params) (*Page[Issue], error)
	Create(ctx context.Context, owner, repo string, request *IssueCreateRequest) (*Issue, error)
	Update(ctx context.Context, owner, repo string, number int, request *IssueUpdateRequest) (*Issue, error)
	ListComments(ctx context.Context, owner, repo string, number int, params *Params) (*Page[Comment], error)
	CreateComment(ctx context.Context, owner, repo string, number int, body string) (*Comment, error)
	AddLabels(ctx context.Context, owner, repo string, number int, labels []string) ([]Label, error)
	RemoveLabel(ctx context.Context, owner, repo string, number int, label string) error
}

// PullRequestsClient covers the pulls API.
type PullRequestsClient interface {
	Get(ctx context.Context, owner, repo string, number int) (*PullRequest, error)
	List(ctx context.Context, owner, repo string, params *Params) (*Page[PullRequest], error)
	Create(ctx context.Context, owner, repo string, request *PullRequestCreateRequest) (*PullRequest, error)
	Merge(ctx context.Context, owner, repo string, number int, request *MergeRequest) (*MergeResult, error)
	IsMerged(ctx context.Context, owner, repo string, number int) (bool, error)
}

// RepositoriesClient covers the repos API.
type RepositoriesClient interface {
	Get(ctx context.Context, owner, repo string) (*Repository, error)
	ListForOrg(ctx context.Context, org string, params *Params) (*Page[Repository], error)
	ListForUser(ctx context.Context, user string, params *Params) (*Page[Repository], error)
	Create(ctx context.Context, request *RepositoryCreateRequest) (*Repository, error)
	CreateForOrg(ctx context.Context, org string, request *RepositoryCreateRequest) (*Repository, error)
	Delete(ctx context.Context, owner, repo string) error
}

// ReleasesClient covers the releases API.
type ReleasesClient interface {
	List(ctx context.Context, owner, repo string, params *Params) (*Page[Release], error)
	GetLatest(ctx context.Context, owner, repo string) (*Release, error)
	GetByTag(ctx context.Context, owner, repo, tag string) (*Release, error)
	Create(ctx context.Context, owner, repo string, request *ReleaseCreateRequest) (*Release, error)
	DownloadAsset(ctx context.Context, owner, repo string, assetID int64) ([]byte, error)
}

// AppsClient covers the GitHub App surface (requires App or Installation
// credentials).
type AppsClient interface {
	Get(ctx context.Context) (*App, error)
	ListInstallations(ctx context.Context, params *Params) (*Page[Installation], error)
	GetRepositoryInstallation(ctx context.Context, owner, repo string) (*Installation, error)
	GetOrgInstallation(ctx context.Context, org string) (*Installation, error)
	CreateInstallationToken(ctx context.Context, installationID int64, request *InstallationTokenRequest) (*InstallationToken, error)
}

// UsersClient covers the users API.
type UsersClient interface {
	Get(ctx context.Context, login string) (*User, error)
	Current(ctx context.Context) (*User, error)
	ListFollowers(ctx context.Context, login string, params *Params) (*Page[User], error)
}

// OrgsClient covers the orgs API.
type OrgsClient interface {
	Get(ctx context.Context, org string) (*Organization, error)
	ListForUser(ctx context.Context, login string, params *Params) (*Page[Organization], error)
	ListMembers(ctx context.Context, org string, params *Params) (*Page[User], error)
}

// SearchClient covers the search API. Search results carry
// incomplete_results when the query timed out server-side.
type SearchClient interface {
	Issues(ctx context.Context, query string, params *Params) (*Page[Issue], error)
	Repositories(ctx context.Context, query string, params *Params) (*Page[Repository], error)
	Users(ctx context.Context, query string, params *Params) (*Page[User], error)
}

// MetaClient covers small informational endpoints.
type MetaClient interface {
	RateLimit(ctx context.Context) (*RateLimitOverview, error)
	RenderMarkdown(ctx context.Context, text string) (string, error)
	ListGitignoreTemplates(ctx context.Context) ([]string, error)
	GetGitignoreTemplate(ctx context.Context, name string) (*GitignoreTemplate, error)
	Zen(ctx context.Context) (string, error)
}

// Client is the full typed client surface.
type Client interface {
	Issues() IssuesClient
	PullRequests() PullRequestsClient
	Repositories() RepositoriesClient
	Releases() ReleasesClient
	Apps() AppsClient
	Users() UsersClient
	Orgs() OrgsClient
	Search() SearchClient
	MetaClient

	// GraphQL posts a fully formed query body to /graphql and decodes the
	// data element into out.
	GraphQL(ctx context.Context, request *GraphQLRequest, out any) error

	// Installation derives a client that authenticates as the given
	// installation, sharing this client's App credential and token cache.
	Installation(installationID int64) (Client, error)

	// AbsoluteURL resolves a path against the configured base authority.
	AbsoluteURL(path string) (string, error)

	PageFetcher
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a Client.
//
// # Authentication precedence
//
//  1. Token: used directly as a static Bearer token (PAT or pre-minted
//     token).
//  2. Username/Password: HTTP basic auth.
//  3. OAuthAppToken: an OAuth app's token, sent as a Bearer header.
//  4. AppID + PrivateKeyPEM: authenticate as a GitHub App; a fresh RS256
//     JWT is minted per request.
//  5. AppID + PrivateKeyPEM + InstallationID: authenticate as an
//     installation; installation access tokens are exchanged lazily and
//     cached until shortly before expiry.
//  6. No credentials: requests are sent unauthenticated.
//
// The Authorization header is only ever attached to requests whose host
// matches BaseURL's host. Requests built against other authorities (asset
// CDNs, redirect targets) are sent without it.
type Config struct {
	// BaseURL is the API root (default "https://api.github.com").
	BaseURL string

	// Token is a static bearer token (personal access token).
	Token string
	// Username and Password enable HTTP basic authentication.
	Username string
	Password string
	// OAuthAppToken is an OAuth app access token.
	OAuthAppToken string
	// AppID identifies a GitHub App for JWT authentication.
	AppID int64
	// PrivateKeyPEM is the App's RSA private key in PEM form.
	PrivateKeyPEM []byte
	// InstallationID selects an installation of the App to act as.
	InstallationID int64

	// RetryMax is the maximum number of retries for transient failures
	// (connection errors, 5xx, rate limiting). Zero uses the default.
	RetryMax int
	// RetryDisabled turns retries off entirely.
	RetryDisabled bool
	// RetryWaitMin is the minimum backoff between retries.
	RetryWaitMin time.Duration
	// RetryWaitMax caps the backoff between retries.
	RetryWaitMax time.Duration

	// UserAgent overrides the default User-Agent header. GitHub rejects
	// requests without one.
	UserAgent string
	// Accept overrides the default versioned media type.
	Accept string

	// Debug enables verbose request/response logging when Logger is set.
	Debug bool
	// Logger is an optional structured logger used by the transport.
	Logger Logger

	// Cache optionally enables conditional-request caching of GET
	// responses (If-None-Match / 304 replay).
	Cache *CacheConfig
}

// FormatPreview builds the media type for a named API preview.
func FormatPreview(preview string) string {
	return "application/vnd.github." + preview + "-preview+json"
}

// FormatMediaType builds a github media type such as
// "application/vnd.github.raw+json".
func FormatMediaType(mediaType string) string {
	return "application/vnd.github." + mediaType + "+json"
}

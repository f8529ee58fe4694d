package github

import (
	"encoding/json"
	"time"
)

// User represents a GitHub user account.
type User struct {
	ID        int64  `json:"id"                   yaml:"id"`
	Login     string `json:"login"                yaml:"login"`
	NodeID    string `json:"node_id,omitempty"    yaml:"node_id,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty" yaml:"avatar_url,omitempty"`
	HTMLURL   string `json:"html_url,omitempty"   yaml:"html_url,omitempty"`
	Type      string `json:"type,omitempty"       yaml:"type,omitempty"`
	SiteAdmin bool   `json:"site_admin,omitempty" yaml:"site_admin,omitempty"`
	Name      string `json:"name,omitempty"       yaml:"name,omitempty"`
	Email     string `json:"email,omitempty"      yaml:"email,omitempty"`
	Company   string `json:"company,omitempty"    yaml:"company,omitempty"`
}

// Organization represents a GitHub organization.
type Organization struct {
	ID          int64  `json:"id"                    yaml:"id"`
	Login       string `json:"login"                 yaml:"login"`
	NodeID      string `json:"node_id,omitempty"     yaml:"node_id,omitempty"`
	URL         string `json:"url,omitempty"         yaml:"url,omitempty"`
	ReposURL    string `json:"repos_url,omitempty"   yaml:"repos_url,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Repository represents a GitHub repository.
type Repository struct {
	ID            int64      `json:"id"                       yaml:"id"`
	NodeID        string     `json:"node_id,omitempty"        yaml:"node_id,omitempty"`
	Name          string     `json:"name"                     yaml:"name"`
	FullName      string     `json:"full_name,omitempty"      yaml:"full_name,omitempty"`
	Owner         *User      `json:"owner,omitempty"          yaml:"owner,omitempty"`
	Private       bool       `json:"private"                  yaml:"private"`
	Description   string     `json:"description,omitempty"    yaml:"description,omitempty"`
	Fork          bool       `json:"fork,omitempty"           yaml:"fork,omitempty"`
	HTMLURL       string     `json:"html_url,omitempty"       yaml:"html_url,omitempty"`
	CloneURL      string     `json:"clone_url,omitempty"      yaml:"clone_url,omitempty"`
	DefaultBranch string     `json:"default_branch,omitempty" yaml:"default_branch,omitempty"`
	Language      string     `json:"language,omitempty"       yaml:"language,omitempty"`
	Archived      bool       `json:"archived,omitempty"       yaml:"archived,omitempty"`
	StarCount     int        `json:"stargazers_count"         yaml:"stargazers_count"`
	ForksCount    int        `json:"forks_count"              yaml:"forks_count"`
	OpenIssues    int        `json:"open_issues_count"        yaml:"open_issues_count"`
	Topics        []string   `json:"topics,omitempty"         yaml:"topics,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"     yaml:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"     yaml:"updated_at,omitempty"`
	PushedAt      *time.Time `json:"pushed_at,omitempty"      yaml:"pushed_at,omitempty"`
}

// RepositoryCreateRequest represents a request to create a repository.
type RepositoryCreateRequest struct {
	// Name is the repository name (required).
	Name string `json:"name" yaml:"name"`
	// Description is shown on the repository page.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Private creates a private repository when true.
	Private bool `json:"private,omitempty" yaml:"private,omitempty"`
	// AutoInit creates an initial commit with an empty README.
	AutoInit bool `json:"auto_init,omitempty" yaml:"auto_init,omitempty"`
}

// Label represents an issue label.
type Label struct {
	ID          int64  `json:"id,omitempty"          yaml:"id,omitempty"`
	Name        string `json:"name"                  yaml:"name"`
	Color       string `json:"color,omitempty"       yaml:"color,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Default     bool   `json:"default,omitempty"     yaml:"default,omitempty"`
}

// Milestone represents an issue milestone.
type Milestone struct {
	ID     int64      `json:"id,omitempty"     yaml:"id,omitempty"`
	Number int        `json:"number"           yaml:"number"`
	Title  string     `json:"title"            yaml:"title"`
	State  string     `json:"state,omitempty"  yaml:"state,omitempty"`
	DueOn  *time.Time `json:"due_on,omitempty" yaml:"due_on,omitempty"`
}

// Issue represents a GitHub issue.
type Issue struct {
	ID        int64      `json:"id"                   yaml:"id"`
	NodeID    string     `json:"node_id,omitempty"    yaml:"node_id,omitempty"`
	Number    int        `json:"number"               yaml:"number"`
	Title     string     `json:"title"                yaml:"title"`
	Body      string     `json:"body,omitempty"       yaml:"body,omitempty"`
	State     string     `json:"state"                yaml:"state"`
	User      *User      `json:"user,omitempty"       yaml:"user,omitempty"`
	Labels    []Label    `json:"labels,omitempty"     yaml:"labels,omitempty"`
	Assignees []User     `json:"assignees,omitempty"  yaml:"assignees,omitempty"`
	Milestone *Milestone `json:"milestone,omitempty"  yaml:"milestone,omitempty"`
	Comments  int        `json:"comments"             yaml:"comments"`
	HTMLURL   string     `json:"html_url,omitempty"   yaml:"html_url,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"  yaml:"closed_at,omitempty"`

	// PullRequest is non-nil when the issue is actually a pull request
	// surfaced through the issues API.
	PullRequest *PullRequestLinks `json:"pull_request,omitempty" yaml:"pull_request,omitempty"`
}

// PullRequestLinks marks an issue as a pull request.
type PullRequestLinks struct {
	URL     string `json:"url,omitempty"      yaml:"url,omitempty"`
	HTMLURL string `json:"html_url,omitempty" yaml:"html_url,omitempty"`
}

// IssueCreateRequest represents a request to open an issue.
type IssueCreateRequest struct {
	// Title is required.
	Title string `json:"title" yaml:"title"`
	// Body is the issue text in Markdown.
	Body string `json:"body,omitempty" yaml:"body,omitempty"`
	// Labels to apply on creation.
	Labels []string `json:"labels,omitempty" yaml:"labels,omitempty"`
	// Assignees are user logins.
	Assignees []string `json:"assignees,omitempty" yaml:"assignees,omitempty"`
	// Milestone is a milestone number.
	Milestone *int `json:"milestone,omitempty" yaml:"milestone,omitempty"`
}

// IssueUpdateRequest represents a partial update to an issue. Nil fields are
// left unchanged.
type IssueUpdateRequest struct {
	Title     *string   `json:"title,omitempty"     yaml:"title,omitempty"`
	Body      *string   `json:"body,omitempty"      yaml:"body,omitempty"`
	State     *string   `json:"state,omitempty"     yaml:"state,omitempty"`
	Labels    *[]string `json:"labels,omitempty"    yaml:"labels,omitempty"`
	Assignees *[]string `json:"assignees,omitempty" yaml:"assignees,omitempty"`
}

// Comment represents a comment on an issue or pull request.
type Comment struct {
	ID        int64      `json:"id"                   yaml:"id"`
	Body      string     `json:"body"                 yaml:"body"`
	User      *User      `json:"user,omitempty"       yaml:"user,omitempty"`
	HTMLURL   string     `json:"html_url,omitempty"   yaml:"html_url,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// PullRequest represents a GitHub pull request.
type PullRequest struct {
	ID             int64      `json:"id"                        yaml:"id"`
	NodeID         string     `json:"node_id,omitempty"         yaml:"node_id,omitempty"`
	Number         int        `json:"number"                    yaml:"number"`
	Title          string     `json:"title"                     yaml:"title"`
	Body           string     `json:"body,omitempty"            yaml:"body,omitempty"`
	State          string     `json:"state"                     yaml:"state"`
	Draft          bool       `json:"draft,omitempty"           yaml:"draft,omitempty"`
	User           *User      `json:"user,omitempty"            yaml:"user,omitempty"`
	Head           *PRBranch  `json:"head,omitempty"            yaml:"head,omitempty"`
	Base           *PRBranch  `json:"base,omitempty"            yaml:"base,omitempty"`
	Merged         bool       `json:"merged,omitempty"          yaml:"merged,omitempty"`
	Mergeable      *bool      `json:"mergeable,omitempty"       yaml:"mergeable,omitempty"`
	MergeCommitSHA string     `json:"merge_commit_sha,omitempty" yaml:"merge_commit_sha,omitempty"`
	HTMLURL        string     `json:"html_url,omitempty"        yaml:"html_url,omitempty"`
	CreatedAt      *time.Time `json:"created_at,omitempty"      yaml:"created_at,omitempty"`
	MergedAt       *time.Time `json:"merged_at,omitempty"       yaml:"merged_at,omitempty"`
}

// PRBranch identifies one side of a pull request.
type PRBranch struct {
	Label string      `json:"label,omitempty" yaml:"label,omitempty"`
	Ref   string      `json:"ref"             yaml:"ref"`
	SHA   string      `json:"sha,omitempty"   yaml:"sha,omitempty"`
	Repo  *Repository `json:"repo,omitempty"  yaml:"repo,omitempty"`
}

// PullRequestCreateRequest represents a request to open a pull request.
type PullRequestCreateRequest struct {
	// Title is required unless Issue is set.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	// Head is the branch with the changes.
	Head string `json:"head" yaml:"head"`
	// Base is the branch to merge into.
	Base string `json:"base" yaml:"base"`
	// Body is the pull request text in Markdown.
	Body string `json:"body,omitempty" yaml:"body,omitempty"`
	// Draft opens the pull request as a draft.
	Draft bool `json:"draft,omitempty" yaml:"draft,omitempty"`
}

// MergeRequest represents the options for merging a pull request.
type MergeRequest struct {
	CommitTitle   string `json:"commit_title,omitempty"   yaml:"commit_title,omitempty"`
	CommitMessage string `json:"commit_message,omitempty" yaml:"commit_message,omitempty"`
	SHA           string `json:"sha,omitempty"            yaml:"sha,omitempty"`
	MergeMethod   string `json:"merge_method,omitempty"   yaml:"merge_method,omitempty"`
}

// MergeResult represents the response of a merge call.
type MergeResult struct {
	SHA     string `json:"sha,omitempty" yaml:"sha,omitempty"`
	Merged  bool   `json:"merged"        yaml:"merged"`
	Message string `json:"message"       yaml:"message"`
}

// Release represents a repository release.
type Release struct {
	ID          int64          `json:"id"                     yaml:"id"`
	TagName     string         `json:"tag_name"               yaml:"tag_name"`
	Name        string         `json:"name,omitempty"         yaml:"name,omitempty"`
	Body        string         `json:"body,omitempty"         yaml:"body,omitempty"`
	Draft       bool           `json:"draft"                  yaml:"draft"`
	Prerelease  bool           `json:"prerelease"             yaml:"prerelease"`
	HTMLURL     string         `json:"html_url,omitempty"     yaml:"html_url,omitempty"`
	Assets      []ReleaseAsset `json:"assets,omitempty"       yaml:"assets,omitempty"`
	CreatedAt   *time.Time     `json:"created_at,omitempty"   yaml:"created_at,omitempty"`
	PublishedAt *time.Time     `json:"published_at,omitempty" yaml:"published_at,omitempty"`
}

// ReleaseAsset represents a file attached to a release.
type ReleaseAsset struct {
	ID                 int64  `json:"id"                             yaml:"id"`
	Name               string `json:"name"                           yaml:"name"`
	Label              string `json:"label,omitempty"                yaml:"label,omitempty"`
	ContentType        string `json:"content_type,omitempty"         yaml:"content_type,omitempty"`
	Size               int64  `json:"size"                           yaml:"size"`
	DownloadCount      int64  `json:"download_count"                 yaml:"download_count"`
	BrowserDownloadURL string `json:"browser_download_url,omitempty" yaml:"browser_download_url,omitempty"`
	URL                string `json:"url,omitempty"                  yaml:"url,omitempty"`
}

// ReleaseCreateRequest represents a request to create a release.
type ReleaseCreateRequest struct {
	// TagName is the git tag the release points at (required).
	TagName string `json:"tag_name" yaml:"tag_name"`
	// TargetCommitish is the commit/branch the tag is created from when the
	// tag does not exist yet.
	TargetCommitish string `json:"target_commitish,omitempty" yaml:"target_commitish,omitempty"`
	Name            string `json:"name,omitempty"             yaml:"name,omitempty"`
	Body            string `json:"body,omitempty"             yaml:"body,omitempty"`
	Draft           bool   `json:"draft,omitempty"            yaml:"draft,omitempty"`
	Prerelease      bool   `json:"prerelease,omitempty"       yaml:"prerelease,omitempty"`
}

// Installation represents an installation of a GitHub App.
type Installation struct {
	ID                  int64  `json:"id"                              yaml:"id"`
	AppID               int64  `json:"app_id"                          yaml:"app_id"`
	TargetID            int64  `json:"target_id,omitempty"             yaml:"target_id,omitempty"`
	TargetType          string `json:"target_type,omitempty"           yaml:"target_type,omitempty"`
	Account             *User  `json:"account,omitempty"               yaml:"account,omitempty"`
	AccessTokensURL     string `json:"access_tokens_url,omitempty"     yaml:"access_tokens_url,omitempty"`
	RepositoriesURL     string `json:"repositories_url,omitempty"      yaml:"repositories_url,omitempty"`
	RepositorySelection string `json:"repository_selection,omitempty"  yaml:"repository_selection,omitempty"`
}

// InstallationToken is the short-lived token minted for an installation.
type InstallationToken struct {
	Token        string            `json:"token"                  yaml:"token"`
	ExpiresAt    time.Time         `json:"expires_at"             yaml:"expires_at"`
	Permissions  map[string]string `json:"permissions,omitempty"  yaml:"permissions,omitempty"`
	Repositories []Repository      `json:"repositories,omitempty" yaml:"repositories,omitempty"`
}

// InstallationTokenRequest optionally scopes a minted installation token.
type InstallationTokenRequest struct {
	Repositories  []string          `json:"repositories,omitempty"   yaml:"repositories,omitempty"`
	RepositoryIDs []int64           `json:"repository_ids,omitempty" yaml:"repository_ids,omitempty"`
	Permissions   map[string]string `json:"permissions,omitempty"    yaml:"permissions,omitempty"`
}

// App represents a GitHub App.
type App struct {
	ID          int64  `json:"id"                    yaml:"id"`
	Slug        string `json:"slug,omitempty"        yaml:"slug,omitempty"`
	NodeID      string `json:"node_id,omitempty"     yaml:"node_id,omitempty"`
	Name        string `json:"name"                  yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Owner       *User  `json:"owner,omitempty"       yaml:"owner,omitempty"`
	HTMLURL     string `json:"html_url,omitempty"    yaml:"html_url,omitempty"`
}

// RateLimit describes one rate-limit bucket.
type RateLimit struct {
	Limit     int   `json:"limit"     yaml:"limit"`
	Remaining int   `json:"remaining" yaml:"remaining"`
	Used      int   `json:"used"      yaml:"used"`
	Reset     int64 `json:"reset"     yaml:"reset"`
}

// RateLimitOverview is the /rate_limit response.
type RateLimitOverview struct {
	Resources map[string]RateLimit `json:"resources" yaml:"resources"`
	Rate      RateLimit            `json:"rate"      yaml:"rate"`
}

// ResetTime converts the bucket's reset epoch to a time.
func (r RateLimit) ResetTime() time.Time {
	return time.Unix(r.Reset, 0)
}

// GraphQLRequest is the body of a POST to /graphql.
type GraphQLRequest struct {
	Query     string         `json:"query"               yaml:"query"`
	Variables map[string]any `json:"variables,omitempty" yaml:"variables,omitempty"`
}

// GraphQLResponse is the raw envelope of a GraphQL response.
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data,omitempty"   yaml:"data,omitempty"`
	Errors []GraphQLError  `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// GraphQLError is a single error entry from a GraphQL response.
type GraphQLError struct {
	Message string   `json:"message"        yaml:"message"`
	Type    string   `json:"type,omitempty" yaml:"type,omitempty"`
	Path    []string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Error implements the error interface.
func (e *GraphQLError) Error() string {
	if e.Type != "" {
		return e.Type + ": " + e.Message
	}

	return e.Message
}

// GitignoreTemplate is a named gitignore template.
type GitignoreTemplate struct {
	Name   string `json:"name"   yaml:"name"`
	Source string `json:"source" yaml:"source"`
}

// Package github provides types, interfaces, and helpers for working with
// the GitHub REST and GraphQL APIs.
//
// # Overview
//
// The github package defines the domain types (e.g., Repository, Issue,
// PullRequest, Release) and the interfaces for resource-oriented clients
// (e.g., IssuesClient, RepositoriesClient). A concrete implementation of
// these clients is provided by the ghclient package, which wires
// configuration, transport, authentication, and retries. Most consumers
// should import ghclient to construct a client and then interact with the
// resource client interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/hubgrip-io/ghapi/pkg/ghclient"
//	  "github.com/hubgrip-io/ghapi/pkg/github"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := ghclient.NewWithToken("ghp_...")
//	  if err != nil { log.Fatal(err) }
//
//	  issues, err := cli.Issues().List(ctx, "golang", "go",
//	    github.NewParams().WithState("open").WithPerPage(50))
//	  if err != nil { log.Fatal(err) }
//	  _ = issues
//	}
//
// # Pagination
//
// List endpoints return a Page whose links come from the HTTP Link header.
// The Next link drives forward iteration:
//
//	page, _ := cli.Issues().List(ctx, "golang", "go", nil)
//	for page != nil {
//	  for _, issue := range page.Items {
//	    _ = issue
//	  }
//	  page, _ = github.NextPage(ctx, cli, page)
//	}
//
// PageIterator and AllPages offer item-at-a-time and drain-everything
// alternatives.
//
// # Errors
//
// API errors are represented by APIError, carrying GitHub's error envelope
// and the HTTP status. Helpers such as IsNotFound, IsRateLimited, and
// IsAuthError make it easy to branch on common cases. Decode failures keep
// the raw body in DecodeError for diagnosis.
//
// # Interceptors and caching
//
// The package includes request/response interceptors (logging, pacing,
// conditional requests) and a pluggable Cache abstraction with memory and
// NATS KV backends. The ghclient package composes these pieces for a
// sensible default client.
package github

package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hubgrip-io/ghapi/pkg/github"
)

// NewPullsCommand creates the pull requests command group.
func NewPullsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pulls",
		Aliases: []string{"pr", "pull"},
		Short:   "Manage pull requests",
		Long:    "List, view, create, and merge pull requests",
	}

	cmd.AddCommand(newPullsListCommand())
	cmd.AddCommand(newPullsGetCommand())
	cmd.AddCommand(newPullsCreateCommand())
	cmd.AddCommand(newPullsMergeCommand())

	return cmd
}

func newPullsListCommand() *cobra.Command {
	var (
		state   string
		perPage int
		page    int
	)

	cmd := &cobra.Command{
		Use:   "list OWNER/REPO",
		Short: "List pull requests",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := splitRepoArg(args[0])
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			params := listParams(perPage, page).WithState(state)

			pulls, err := client.PullRequests().List(context.Background(), owner, repo, params)
			if err != nil {
				return fmt.Errorf("failed to list pull requests: %w", err)
			}

			return outputPulls(pulls)
		},
	}

	cmd.Flags().StringVar(&state, "state", "open", "pull request state (open, closed, all)")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "results per page")
	cmd.Flags().IntVar(&page, "page", 0, "page number")

	return cmd
}

func newPullsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get OWNER/REPO NUMBER",
		Short: "Get pull request details",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := splitRepoArg(args[0])
			if err != nil {
				return err
			}

			number, err := parseArgNumber(args[1])
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			pull, err := client.PullRequests().Get(ctx, owner, repo, number)
			if err != nil {
				return fmt.Errorf("failed to get pull request: %w", err)
			}

			merged, err := client.PullRequests().IsMerged(ctx, owner, repo, number)
			if err == nil {
				pull.Merged = merged
			}

			return outputPullDetails(pull)
		},
	}
}

func newPullsCreateCommand() *cobra.Command {
	var (
		title string
		head  string
		base  string
		body  string
		draft bool
	)

	cmd := &cobra.Command{
		Use:   "create OWNER/REPO",
		Short: "Create a pull request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := splitRepoArg(args[0])
			if err != nil {
				return err
			}

			client, err := CreateAuthenticatedClient()
			if err != nil {
				return err
			}

			pull, err := client.PullRequests().Create(context.Background(), owner, repo, &github.PullRequestCreateRequest{
				Title: title,
				Head:  head,
				Base:  base,
				Body:  body,
				Draft: draft,
			})
			if err != nil {
				return fmt.Errorf("failed to create pull request: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Created pull request #%d: %s\n", pull.Number, pull.HTMLURL)

			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "pull request title (required)")
	cmd.Flags().StringVar(&head, "head", "", "branch with the changes (required)")
	cmd.Flags().StringVar(&base, "base", "", "branch to merge into (required)")
	cmd.Flags().StringVar(&body, "body", "", "pull request body")
	cmd.Flags().BoolVar(&draft, "draft", false, "open as a draft")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("head")
	_ = cmd.MarkFlagRequired("base")

	return cmd
}

func newPullsMergeCommand() *cobra.Command {
	var (
		method  string
		title   string
		message string
	)

	cmd := &cobra.Command{
		Use:   "merge OWNER/REPO NUMBER",
		Short: "Merge a pull request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := splitRepoArg(args[0])
			if err != nil {
				return err
			}

			number, err := parseArgNumber(args[1])
			if err != nil {
				return err
			}

			client, err := CreateAuthenticatedClient()
			if err != nil {
				return err
			}

			result, err := client.PullRequests().Merge(context.Background(), owner, repo, number, &github.MergeRequest{
				MergeMethod:   method,
				CommitTitle:   title,
				CommitMessage: message,
			})
			if err != nil {
				return fmt.Errorf("failed to merge pull request: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "%s (sha: %s)\n", result.Message, result.SHA)

			return nil
		},
	}

	cmd.Flags().StringVar(&method, "method", "merge", "merge method (merge, squash, rebase)")
	cmd.Flags().StringVar(&title, "commit-title", "", "merge commit title")
	cmd.Flags().StringVar(&message, "commit-message", "", "merge commit message")

	return cmd
}

func outputPulls(pulls *github.Page[github.PullRequest]) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		return StandardJSONRenderer(pulls.Items)
	case OutputFormatYAML:
		return StandardYAMLRenderer(pulls.Items)
	default:
		return renderPullTable(pulls)
	}
}

func renderPullTable(pulls *github.Page[github.PullRequest]) error {
	if len(pulls.Items) == 0 {
		_, _ = os.Stdout.WriteString("No pull requests found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Number", "State", "Title", "Head", "Base")

	for _, pull := range pulls.Items {
		head, base := NotAvailable, NotAvailable
		if pull.Head != nil {
			head = pull.Head.Ref
		}

		if pull.Base != nil {
			base = pull.Base.Ref
		}

		_ = table.Append(formatInt(pull.Number), pull.State, pull.Title, head, base)
	}

	_ = table.Render()

	pageHint(pulls.Next)

	return nil
}

func outputPullDetails(pull *github.PullRequest) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		return StandardJSONRenderer(pull)
	case OutputFormatYAML:
		return StandardYAMLRenderer(pull)
	default:
		return renderPullDetailsTable(pull)
	}
}

func renderPullDetailsTable(pull *github.PullRequest) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("Number", formatInt(pull.Number))
	_ = table.Append("Title", pull.Title)
	_ = table.Append("State", pull.State)
	_ = table.Append("Draft", fmt.Sprintf("%t", pull.Draft))
	_ = table.Append("Merged", fmt.Sprintf("%t", pull.Merged))

	if pull.User != nil {
		_ = table.Append("Author", pull.User.Login)
	}

	if pull.Head != nil && pull.Base != nil {
		_ = table.Append("Branches", pull.Head.Ref+" -> "+pull.Base.Ref)
	}

	if pull.CreatedAt != nil {
		_ = table.Append("Created", pull.CreatedAt.Format(dateTimeFormat))
	}

	_ = table.Render()

	return nil
}

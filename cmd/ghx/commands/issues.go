package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hubgrip-io/ghapi/pkg/github"
)

// NewIssuesCommand creates the issues command group.
func NewIssuesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "issues",
		Aliases: []string{"issue"},
		Short:   "Manage issues",
		Long:    "List, view, create, and comment on repository issues",
	}

	cmd.AddCommand(newIssuesListCommand())
	cmd.AddCommand(newIssuesGetCommand())
	cmd.AddCommand(newIssuesCreateCommand())
	cmd.AddCommand(newIssuesCloseCommand())
	cmd.AddCommand(newIssuesCommentCommand())
	cmd.AddCommand(newIssuesLabelCommand())

	return cmd
}

func newIssuesListCommand() *cobra.Command {
	var (
		state   string
		all     bool
		perPage int
		page    int
	)

	cmd := &cobra.Command{
		Use:   "list OWNER/REPO",
		Short: "List issues",
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

			ctx := context.Background()
			params := listParams(perPage, page).WithState(state)

			issues, err := client.Issues().List(ctx, owner, repo, params)
			if err != nil {
				return fmt.Errorf("failed to list issues: %w", err)
			}

			items := issues.Items
			next := issues.Next

			if all {
				items, err = github.AllPages[github.Issue](ctx, client, issues)
				if err != nil {
					return fmt.Errorf("failed to fetch all pages: %w", err)
				}

				next = ""
			}

			return outputIssues(items, next)
		},
	}

	cmd.Flags().StringVar(&state, "state", "open", "issue state (open, closed, all)")
	cmd.Flags().BoolVar(&all, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "results per page")
	cmd.Flags().IntVar(&page, "page", 0, "page number")

	return cmd
}

func newIssuesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get OWNER/REPO NUMBER",
		Short: "Get issue details",
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

			issue, err := client.Issues().Get(context.Background(), owner, repo, number)
			if err != nil {
				return fmt.Errorf("failed to get issue: %w", err)
			}

			return outputIssueDetails(issue)
		},
	}
}

func newIssuesCreateCommand() *cobra.Command {
	var (
		title  string
		body   string
		labels []string
	)

	cmd := &cobra.Command{
		Use:   "create OWNER/REPO",
		Short: "Create an issue",
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

			issue, err := client.Issues().Create(context.Background(), owner, repo, &github.IssueCreateRequest{
				Title:  title,
				Body:   body,
				Labels: labels,
			})
			if err != nil {
				return fmt.Errorf("failed to create issue: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Created issue #%d: %s\n", issue.Number, issue.HTMLURL)

			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "issue title (required)")
	cmd.Flags().StringVar(&body, "body", "", "issue body")
	cmd.Flags().StringSliceVar(&labels, "labels", nil, "labels to apply")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newIssuesCloseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "close OWNER/REPO NUMBER",
		Short: "Close an issue",
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

			closed := "closed"

			issue, err := client.Issues().Update(context.Background(), owner, repo, number, &github.IssueUpdateRequest{
				State: &closed,
			})
			if err != nil {
				return fmt.Errorf("failed to close issue: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Closed issue #%d\n", issue.Number)

			return nil
		},
	}
}

func newIssuesCommentCommand() *cobra.Command {
	var body string

	cmd := &cobra.Command{
		Use:   "comment OWNER/REPO NUMBER",
		Short: "Comment on an issue",
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

			comment, err := client.Issues().CreateComment(context.Background(), owner, repo, number, body)
			if err != nil {
				return fmt.Errorf("failed to create comment: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Commented: %s\n", comment.HTMLURL)

			return nil
		},
	}

	cmd.Flags().StringVar(&body, "body", "", "comment text (required)")
	_ = cmd.MarkFlagRequired("body")

	return cmd
}

func newIssuesLabelCommand() *cobra.Command {
	var remove string

	cmd := &cobra.Command{
		Use:   "label OWNER/REPO NUMBER [LABEL...]",
		Short: "Add or remove issue labels",
		Args:  cobra.MinimumNArgs(2),
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

			ctx := context.Background()

			if remove != "" {
				err = client.Issues().RemoveLabel(ctx, owner, repo, number, remove)
				if err != nil {
					return fmt.Errorf("failed to remove label: %w", err)
				}

				_, _ = fmt.Fprintf(os.Stdout, "Removed label %q from #%d\n", remove, number)

				return nil
			}

			labels, err := client.Issues().AddLabels(ctx, owner, repo, number, args[2:])
			if err != nil {
				return fmt.Errorf("failed to add labels: %w", err)
			}

			names := make([]string, 0, len(labels))
			for _, label := range labels {
				names = append(names, label.Name)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Labels on #%d: %s\n", number, strings.Join(names, ", "))

			return nil
		},
	}

	cmd.Flags().StringVar(&remove, "remove", "", "remove this label instead of adding")

	return cmd
}

func outputIssues(issues []github.Issue, next string) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		return StandardJSONRenderer(issues)
	case OutputFormatYAML:
		return StandardYAMLRenderer(issues)
	default:
		return renderIssueTable(issues, next)
	}
}

func renderIssueTable(issues []github.Issue, next string) error {
	if len(issues) == 0 {
		_, _ = os.Stdout.WriteString("No issues found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Number", "State", "Title", "Labels", "Updated")

	for _, issue := range issues {
		names := make([]string, 0, len(issue.Labels))
		for _, label := range issue.Labels {
			names = append(names, label.Name)
		}

		updated := NotAvailable
		if issue.UpdatedAt != nil {
			updated = issue.UpdatedAt.Format(dateFormat)
		}

		_ = table.Append(formatInt(issue.Number), issue.State, issue.Title,
			strings.Join(names, ", "), updated)
	}

	_ = table.Render()

	pageHint(next)

	return nil
}

func outputIssueDetails(issue *github.Issue) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		return StandardJSONRenderer(issue)
	case OutputFormatYAML:
		return StandardYAMLRenderer(issue)
	default:
		return renderIssueDetailsTable(issue)
	}
}

func renderIssueDetailsTable(issue *github.Issue) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("Number", formatInt(issue.Number))
	_ = table.Append("Title", issue.Title)
	_ = table.Append("State", issue.State)

	if issue.User != nil {
		_ = table.Append("Author", issue.User.Login)
	}

	_ = table.Append("Comments", formatInt(issue.Comments))

	if issue.PullRequest != nil {
		_ = table.Append("Pull request", issue.PullRequest.HTMLURL)
	}

	if issue.CreatedAt != nil {
		_ = table.Append("Created", issue.CreatedAt.Format(dateTimeFormat))
	}

	_ = table.Render()

	if issue.Body != "" {
		_, _ = fmt.Fprintf(os.Stdout, "\n%s\n", issue.Body)
	}

	return nil
}

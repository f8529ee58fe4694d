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

// NewSearchCommand creates the search command group.
func NewSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search GitHub",
		Long:  "Search repositories, issues, and users",
	}

	cmd.AddCommand(newSearchReposCommand())
	cmd.AddCommand(newSearchIssuesCommand())
	cmd.AddCommand(newSearchUsersCommand())

	return cmd
}

func newSearchReposCommand() *cobra.Command {
	var (
		sort    string
		order   string
		perPage int
	)

	cmd := &cobra.Command{
		Use:   "repos QUERY...",
		Short: "Search repositories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			params := searchFlagsParams(sort, order, perPage)

			repos, err := client.Search().Repositories(context.Background(), strings.Join(args, " "), params)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			printSearchCounters(repos.TotalCount, repos.IncompleteResults)

			return outputRepositories(repos)
		},
	}

	addSearchFlags(cmd, &sort, &order, &perPage)

	return cmd
}

func newSearchIssuesCommand() *cobra.Command {
	var (
		sort    string
		order   string
		perPage int
	)

	cmd := &cobra.Command{
		Use:   "issues QUERY...",
		Short: "Search issues and pull requests",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			params := searchFlagsParams(sort, order, perPage)

			issues, err := client.Search().Issues(context.Background(), strings.Join(args, " "), params)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			printSearchCounters(issues.TotalCount, issues.IncompleteResults)

			return outputIssues(issues.Items, issues.Next)
		},
	}

	addSearchFlags(cmd, &sort, &order, &perPage)

	return cmd
}

func newSearchUsersCommand() *cobra.Command {
	var (
		sort    string
		order   string
		perPage int
	)

	cmd := &cobra.Command{
		Use:   "users QUERY...",
		Short: "Search users",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			params := searchFlagsParams(sort, order, perPage)

			users, err := client.Search().Users(context.Background(), strings.Join(args, " "), params)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			printSearchCounters(users.TotalCount, users.IncompleteResults)

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return StandardJSONRenderer(users.Items)
			case OutputFormatYAML:
				return StandardYAMLRenderer(users.Items)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Login", "Type", "Profile")

				for _, user := range users.Items {
					_ = table.Append(user.Login, user.Type, user.HTMLURL)
				}

				_ = table.Render()

				pageHint(users.Next)

				return nil
			}
		},
	}

	addSearchFlags(cmd, &sort, &order, &perPage)

	return cmd
}

func addSearchFlags(cmd *cobra.Command, sort, order *string, perPage *int) {
	cmd.Flags().StringVar(sort, "sort", "", "sort field")
	cmd.Flags().StringVar(order, "order", "", "sort order (asc, desc)")
	cmd.Flags().IntVar(perPage, "per-page", 0, "results per page")
}

func searchFlagsParams(sort, order string, perPage int) *github.Params {
	params := github.NewParams()

	if sort != "" {
		params.Set("sort", sort)
	}

	if order != "" {
		params.Set("order", order)
	}

	if perPage > 0 {
		params.WithPerPage(perPage)
	}

	return params
}

func printSearchCounters(total *int64, incomplete *bool) {
	if viper.GetString("output") != "table" {
		return
	}

	if total != nil {
		_, _ = fmt.Fprintf(os.Stdout, "%d results\n", *total)
	}

	if incomplete != nil && *incomplete {
		_, _ = os.Stdout.WriteString("(results are incomplete, the query timed out server-side)\n")
	}
}

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

// NewReposCommand creates the repositories command group.
func NewReposCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "repos",
		Aliases: []string{"repo", "repositories"},
		Short:   "Manage repositories",
		Long:    "Get, list, create, and delete repositories",
	}

	cmd.AddCommand(newReposGetCommand())
	cmd.AddCommand(newReposListCommand())
	cmd.AddCommand(newReposCreateCommand())
	cmd.AddCommand(newReposDeleteCommand())

	return cmd
}

func newReposGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get OWNER/REPO",
		Short: "Get repository details",
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

			repository, err := client.Repositories().Get(context.Background(), owner, repo)
			if err != nil {
				return fmt.Errorf("failed to get repository: %w", err)
			}

			return outputRepositoryDetails(repository)
		},
	}
}

func newReposListCommand() *cobra.Command {
	var (
		org     string
		user    string
		perPage int
		page    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List repositories",
		Long:  "List repositories for an organization or user",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()
			params := listParams(perPage, page)

			var repos *github.Page[github.Repository]

			switch {
			case org != "":
				repos, err = client.Repositories().ListForOrg(ctx, org, params)
			case user != "":
				repos, err = client.Repositories().ListForUser(ctx, user, params)
			default:
				return ErrTargetRequired
			}

			if err != nil {
				return fmt.Errorf("failed to list repositories: %w", err)
			}

			return outputRepositories(repos)
		},
	}

	cmd.Flags().StringVar(&org, "org", "", "list repositories of this organization")
	cmd.Flags().StringVar(&user, "user", "", "list repositories of this user")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "results per page")
	cmd.Flags().IntVar(&page, "page", 0, "page number")

	return cmd
}

func newReposCreateCommand() *cobra.Command {
	var (
		org         string
		description string
		private     bool
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a repository",
		Long:  "Create a repository for the authenticated user, or in an organization with --org",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateAuthenticatedClient()
			if err != nil {
				return err
			}

			ctx := context.Background()
			request := &github.RepositoryCreateRequest{
				Name:        args[0],
				Description: description,
				Private:     private,
			}

			var repository *github.Repository
			if org != "" {
				repository, err = client.Repositories().CreateForOrg(ctx, org, request)
			} else {
				repository, err = client.Repositories().Create(ctx, request)
			}

			if err != nil {
				return fmt.Errorf("failed to create repository: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Created %s\n", repository.FullName)

			return nil
		},
	}

	cmd.Flags().StringVar(&org, "org", "", "create in this organization")
	cmd.Flags().StringVar(&description, "description", "", "repository description")
	cmd.Flags().BoolVar(&private, "private", false, "create a private repository")

	return cmd
}

func newReposDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete OWNER/REPO",
		Short: "Delete a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("%w: %s", ErrForceRequired, args[0])
			}

			owner, repo, err := splitRepoArg(args[0])
			if err != nil {
				return err
			}

			client, err := CreateAuthenticatedClient()
			if err != nil {
				return err
			}

			err = client.Repositories().Delete(context.Background(), owner, repo)
			if err != nil {
				return fmt.Errorf("failed to delete repository: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Deleted %s/%s\n", owner, repo)

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "confirm deletion")

	return cmd
}

func outputRepositories(repos *github.Page[github.Repository]) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		return StandardJSONRenderer(repos.Items)
	case OutputFormatYAML:
		return StandardYAMLRenderer(repos.Items)
	default:
		return renderRepositoryTable(repos)
	}
}

func renderRepositoryTable(repos *github.Page[github.Repository]) error {
	if len(repos.Items) == 0 {
		_, _ = os.Stdout.WriteString("No repositories found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "Private", "Stars", "Forks", "Updated")

	for _, repo := range repos.Items {
		updated := NotAvailable
		if repo.UpdatedAt != nil {
			updated = repo.UpdatedAt.Format(dateFormat)
		}

		_ = table.Append(repo.FullName, fmt.Sprintf("%t", repo.Private),
			formatInt(repo.StarCount), formatInt(repo.ForksCount), updated)
	}

	_ = table.Render()

	pageHint(repos.Next)

	return nil
}

func outputRepositoryDetails(repo *github.Repository) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		return StandardJSONRenderer(repo)
	case OutputFormatYAML:
		return StandardYAMLRenderer(repo)
	default:
		return renderRepositoryDetailsTable(repo)
	}
}

func renderRepositoryDetailsTable(repo *github.Repository) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("Name", repo.FullName)
	_ = table.Append("ID", formatInt64(repo.ID))
	_ = table.Append("Description", repo.Description)
	_ = table.Append("Default branch", repo.DefaultBranch)
	_ = table.Append("Private", fmt.Sprintf("%t", repo.Private))
	_ = table.Append("Stars", formatInt(repo.StarCount))
	_ = table.Append("Forks", formatInt(repo.ForksCount))
	_ = table.Append("Open issues", formatInt(repo.OpenIssues))

	if repo.CreatedAt != nil {
		_ = table.Append("Created", repo.CreatedAt.Format(dateTimeFormat))
	}

	if repo.UpdatedAt != nil {
		_ = table.Append("Updated", repo.UpdatedAt.Format(dateTimeFormat))
	}

	_ = table.Render()

	return nil
}

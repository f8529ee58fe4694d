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

// NewAppsCommand creates the GitHub App command group. These commands need
// App credentials (--app-id and --private-key).
func NewAppsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "app",
		Short: "GitHub App operations",
		Long:  "Inspect the authenticated App, its installations, and mint installation tokens",
	}

	cmd.AddCommand(newAppGetCommand())
	cmd.AddCommand(newAppInstallationsCommand())
	cmd.AddCommand(newAppTokenCommand())

	return cmd
}

func newAppGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the authenticated App",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateAuthenticatedClient()
			if err != nil {
				return err
			}

			app, err := client.Apps().Get(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get app: %w", err)
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return StandardJSONRenderer(app)
			case OutputFormatYAML:
				return StandardYAMLRenderer(app)
			default:
				_, _ = fmt.Fprintf(os.Stdout, "%s (id %d) %s\n", app.Name, app.ID, app.HTMLURL)

				return nil
			}
		},
	}
}

func newAppInstallationsCommand() *cobra.Command {
	var (
		perPage int
		page    int
	)

	cmd := &cobra.Command{
		Use:   "installations",
		Short: "List installations of the App",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateAuthenticatedClient()
			if err != nil {
				return err
			}

			installations, err := client.Apps().ListInstallations(context.Background(), listParams(perPage, page))
			if err != nil {
				return fmt.Errorf("failed to list installations: %w", err)
			}

			return outputInstallations(installations)
		},
	}

	cmd.Flags().IntVar(&perPage, "per-page", 0, "results per page")
	cmd.Flags().IntVar(&page, "page", 0, "page number")

	return cmd
}

func newAppTokenCommand() *cobra.Command {
	var repositories []string

	cmd := &cobra.Command{
		Use:   "token INSTALLATION_ID",
		Short: "Mint an installation access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			installationID, err := parseArgNumber(args[0])
			if err != nil {
				return err
			}

			client, err := CreateAuthenticatedClient()
			if err != nil {
				return err
			}

			var request *github.InstallationTokenRequest
			if len(repositories) > 0 {
				request = &github.InstallationTokenRequest{Repositories: repositories}
			}

			token, err := client.Apps().CreateInstallationToken(context.Background(), int64(installationID), request)
			if err != nil {
				return fmt.Errorf("failed to create installation token: %w", err)
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return StandardJSONRenderer(token)
			case OutputFormatYAML:
				return StandardYAMLRenderer(token)
			default:
				_, _ = fmt.Fprintf(os.Stdout, "%s\nexpires: %s\n", token.Token, token.ExpiresAt.Format(dateTimeFormat))

				return nil
			}
		},
	}

	cmd.Flags().StringSliceVar(&repositories, "repos", nil, "restrict the token to these repositories")

	return cmd
}

func outputInstallations(installations *github.Page[github.Installation]) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		return StandardJSONRenderer(installations.Items)
	case OutputFormatYAML:
		return StandardYAMLRenderer(installations.Items)
	default:
		if len(installations.Items) == 0 {
			_, _ = os.Stdout.WriteString("No installations found\n")

			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header("ID", "Account", "Target", "Selection")

		for _, installation := range installations.Items {
			account := NotAvailable
			if installation.Account != nil {
				account = installation.Account.Login
			}

			_ = table.Append(formatInt64(installation.ID), account,
				installation.TargetType, installation.RepositorySelection)
		}

		_ = table.Render()

		pageHint(installations.Next)

		return nil
	}
}

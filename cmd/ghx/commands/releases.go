package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hubgrip-io/ghapi/pkg/github"
)

// ErrAssetNotFound is returned when a named asset is not on the release.
var ErrAssetNotFound = errors.New("asset not found on release")

// NewReleasesCommand creates the releases command group.
func NewReleasesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "releases",
		Aliases: []string{"release"},
		Short:   "Manage releases",
		Long:    "List releases and download release assets",
	}

	cmd.AddCommand(newReleasesListCommand())
	cmd.AddCommand(newReleasesLatestCommand())
	cmd.AddCommand(newReleasesDownloadCommand())

	return cmd
}

func newReleasesListCommand() *cobra.Command {
	var (
		perPage int
		page    int
	)

	cmd := &cobra.Command{
		Use:   "list OWNER/REPO",
		Short: "List releases",
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

			releases, err := client.Releases().List(context.Background(), owner, repo, listParams(perPage, page))
			if err != nil {
				return fmt.Errorf("failed to list releases: %w", err)
			}

			return outputReleases(releases)
		},
	}

	cmd.Flags().IntVar(&perPage, "per-page", 0, "results per page")
	cmd.Flags().IntVar(&page, "page", 0, "page number")

	return cmd
}

func newReleasesLatestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "latest OWNER/REPO",
		Short: "Show the latest release",
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

			release, err := client.Releases().GetLatest(context.Background(), owner, repo)
			if err != nil {
				return fmt.Errorf("failed to get latest release: %w", err)
			}

			return outputReleaseDetails(release)
		},
	}
}

func newReleasesDownloadCommand() *cobra.Command {
	var (
		tag    string
		output string
	)

	cmd := &cobra.Command{
		Use:   "download OWNER/REPO ASSET_NAME",
		Short: "Download a release asset",
		Long:  "Download a named asset from the latest release, or from a specific tag with --tag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := splitRepoArg(args[0])
			if err != nil {
				return err
			}

			assetName := args[1]

			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			var release *github.Release
			if tag != "" {
				release, err = client.Releases().GetByTag(ctx, owner, repo, tag)
			} else {
				release, err = client.Releases().GetLatest(ctx, owner, repo)
			}

			if err != nil {
				return fmt.Errorf("failed to resolve release: %w", err)
			}

			var assetID int64

			for _, asset := range release.Assets {
				if asset.Name == assetName {
					assetID = asset.ID

					break
				}
			}

			if assetID == 0 {
				return fmt.Errorf("%w: %q on %s", ErrAssetNotFound, assetName, release.TagName)
			}

			data, err := client.Releases().DownloadAsset(ctx, owner, repo, assetID)
			if err != nil {
				return fmt.Errorf("failed to download asset: %w", err)
			}

			target := output
			if target == "" {
				target = assetName
			}

			err = os.WriteFile(target, data, 0o644)
			if err != nil {
				return fmt.Errorf("writing asset file: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Downloaded %s (%d bytes)\n", target, len(data))

			return nil
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "release tag (default is the latest release)")
	cmd.Flags().StringVar(&output, "output", "", "output file (default is the asset name)")

	return cmd
}

func outputReleases(releases *github.Page[github.Release]) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		return StandardJSONRenderer(releases.Items)
	case OutputFormatYAML:
		return StandardYAMLRenderer(releases.Items)
	default:
		return renderReleaseTable(releases)
	}
}

func renderReleaseTable(releases *github.Page[github.Release]) error {
	if len(releases.Items) == 0 {
		_, _ = os.Stdout.WriteString("No releases found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Tag", "Name", "Draft", "Prerelease", "Published")

	for _, release := range releases.Items {
		published := NotAvailable
		if release.PublishedAt != nil {
			published = release.PublishedAt.Format(dateFormat)
		}

		_ = table.Append(release.TagName, release.Name,
			fmt.Sprintf("%t", release.Draft), fmt.Sprintf("%t", release.Prerelease), published)
	}

	_ = table.Render()

	pageHint(releases.Next)

	return nil
}

func outputReleaseDetails(release *github.Release) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		return StandardJSONRenderer(release)
	case OutputFormatYAML:
		return StandardYAMLRenderer(release)
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Property", "Value")

		_ = table.Append("Tag", release.TagName)
		_ = table.Append("Name", release.Name)
		_ = table.Append("Assets", formatInt(len(release.Assets)))

		if release.PublishedAt != nil {
			_ = table.Append("Published", release.PublishedAt.Format(dateTimeFormat))
		}

		_ = table.Render()

		for _, asset := range release.Assets {
			_, _ = fmt.Fprintf(os.Stdout, "  %s (%d bytes, %d downloads)\n",
				asset.Name, asset.Size, asset.DownloadCount)
		}

		return nil
	}
}

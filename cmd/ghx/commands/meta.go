package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRateLimitCommand creates the rate limit command.
func NewRateLimitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ratelimit",
		Short: "Show rate limit state",
		Long:  "Show the caller's current rate limit state across all resource groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			overview, err := client.RateLimit(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get rate limit: %w", err)
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return StandardJSONRenderer(overview)
			case OutputFormatYAML:
				return StandardYAMLRenderer(overview)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Resource", "Used", "Remaining", "Limit", "Resets")

				for name, bucket := range overview.Resources {
					_ = table.Append(name, formatInt(bucket.Used), formatInt(bucket.Remaining),
						formatInt(bucket.Limit), bucket.ResetTime().Format(dateTimeFormat))
				}

				_ = table.Render()

				return nil
			}
		},
	}
}

// NewZenCommand creates the zen command.
func NewZenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "zen",
		Short: "Print a zen of GitHub",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			koan, err := client.Zen(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get zen: %w", err)
			}

			_, _ = fmt.Fprintln(os.Stdout, koan)

			return nil
		},
	}
}

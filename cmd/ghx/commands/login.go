package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/hubgrip-io/ghapi/pkg/ghclient"
	"github.com/hubgrip-io/ghapi/pkg/github"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a personal access token",
		Long:  "Validate a personal access token against the API and store it in the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				token = viper.GetString("token")
			}

			if token == "" {
				fmt.Print("Personal access token: ")

				raw, err := term.ReadPassword(syscall.Stdin)

				fmt.Println()

				if err != nil {
					return fmt.Errorf("reading token: %w", err)
				}

				token = strings.TrimSpace(string(raw))
			}

			if token == "" {
				return ErrTokenRequired
			}

			client, err := ghclient.New(&github.Config{
				BaseURL: viper.GetString("api"),
				Token:   token,
			})
			if err != nil {
				return err
			}

			user, err := client.Users().Current(context.Background())
			if err != nil {
				return fmt.Errorf("validating token: %w", err)
			}

			err = persistToken(token)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Logged in as %s\n", user.Login)

			return nil
		},
	}

	cmd.Flags().StringVar(&token, "with-token", "", "token to store (prompted when omitted)")

	return cmd
}

func persistToken(token string) error {
	viper.Set("token", token)

	path := viper.ConfigFileUsed()
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}

		path = filepath.Join(home, ".ghx", "config.yml")
	}

	err := viper.WriteConfigAs(path)
	if err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

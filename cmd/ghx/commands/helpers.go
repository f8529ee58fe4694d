package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/hubgrip-io/ghapi/pkg/ghclient"
	"github.com/hubgrip-io/ghapi/pkg/github"
)

// Common string constants used throughout the commands package.
const (
	NotAvailable = "N/A"

	// Output formats.
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"

	// YAML formatting.
	defaultYAMLIndent = 2

	dateFormat     = "2006-01-02"
	dateTimeFormat = "2006-01-02 15:04:05"
)

// Common static errors used throughout the commands package.
var (
	ErrRepoArgRequired   = errors.New("expected OWNER/REPO argument")
	ErrTokenRequired     = errors.New("a token is required (flag --token, env GHX_TOKEN, or run 'ghx login')")
	ErrAppAuthIncomplete = errors.New("app auth requires both --app-id and --private-key")
	ErrTargetRequired    = errors.New("one of --org or --user is required")
	ErrForceRequired     = errors.New("refusing to delete without --force")
)

// CreateClient builds a client from the resolved configuration, preferring
// a token over App credentials.
func CreateClient() (github.Client, error) {
	config := &github.Config{
		BaseURL: viper.GetString("api"),
		Token:   viper.GetString("token"),
	}

	if config.Token == "" {
		appID := viper.GetInt64("app_id")
		keyPath := viper.GetString("private_key")

		if appID != 0 || keyPath != "" {
			if appID == 0 || keyPath == "" {
				return nil, ErrAppAuthIncomplete
			}

			pem, err := os.ReadFile(keyPath)
			if err != nil {
				return nil, fmt.Errorf("reading private key: %w", err)
			}

			config.AppID = appID
			config.PrivateKeyPEM = pem
			config.InstallationID = viper.GetInt64("installation_id")
		}
	}

	return ghclient.New(config)
}

// CreateAuthenticatedClient is CreateClient, but fails fast when no
// credential is configured.
func CreateAuthenticatedClient() (github.Client, error) {
	if viper.GetString("token") == "" && viper.GetInt64("app_id") == 0 {
		return nil, ErrTokenRequired
	}

	return CreateClient()
}

// StandardJSONRenderer creates a standard JSON encoder.
func StandardJSONRenderer[T any](data T) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

// StandardYAMLRenderer creates a standard YAML encoder.
func StandardYAMLRenderer[T any](data T) error {
	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(defaultYAMLIndent)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return nil
}

// listParams builds pagination parameters from the shared list flags.
func listParams(perPage, page int) *github.Params {
	params := github.NewParams()

	if perPage > 0 {
		params.WithPerPage(perPage)
	}

	if page > 0 {
		params.WithPage(page)
	}

	return params
}

// splitRepoArg parses an "owner/repo" argument.
func splitRepoArg(arg string) (string, string, error) {
	for i := range len(arg) {
		if arg[i] == '/' {
			if i == 0 || i == len(arg)-1 {
				break
			}

			return arg[:i], arg[i+1:], nil
		}
	}

	return "", "", fmt.Errorf("%w, got %q", ErrRepoArgRequired, arg)
}

func formatInt(v int) string {
	return strconv.Itoa(v)
}

func formatInt64(v int64) string {
	return strconv.FormatInt(v, 10)
}

// pageHint prints a hint when a list response has further pages.
func pageHint(next string) {
	if next != "" {
		_, _ = fmt.Fprintln(os.Stdout, "\nMore results available. Use --page to fetch the next page.")
	}
}

// parseArgNumber converts a positional issue/PR number argument.
func parseArgNumber(arg string) (int, error) {
	number, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("parsing %q as a number: %w", arg, err)
	}

	return number, nil
}

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// secretKeys are masked in settings output.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
var secretKeys = map[string]bool{
	"github.token":       true,
	"gitlab.token":       true,
	"extraction.api_key": true,
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure tokens, the extraction service and fetch options.

Settings are read from the config file and can be overridden with
environment variables (a .env file in the working directory is loaded too).`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting",
	Long: `Set a single setting in the config file. An empty value removes it.

Keys:
  github.token               GitHub personal access token
  github.url                 GitHub API URL (GitHub Enterprise)
  gitlab.token               GitLab access token
  gitlab.url                 GitLab instance URL
  extraction.url             Extraction service URL
  extraction.api_key         Extraction service API key
  fetch.workers              Concurrent file fetches
  fetch.requests_per_second  API request rate limit (0 = unlimited)
  fetch.timeout              HTTP request timeout (e.g. 30s)`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsTokenCmd = &cobra.Command{
	Use:   "token <reader>",
	Short: "Store a reader token",
	Long:  `Prompt for a reader's access token without echoing it and store it.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsToken,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsTokenCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	// Surface validation problems without hiding the values
	if _, err := settingsService.Get(); err != nil {
		cmd.PrintErrf("Warning: %v\n\n", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	if path := settingsService.Path(); path != "" {
		cmd.Printf("Config file: %s\n", path)
	}
	cmd.Println()

	section := ""
	for _, key := range settingsService.Keys() {
		prefix, _, _ := strings.Cut(key, ".")
		if prefix != section {
			if section != "" {
				cmd.Println()
			}
			section = prefix
			cmd.Printf("[%s]\n", section)
		}

		value, source := settingsService.Effective(key)
		display := value
		switch {
		case value == "":
			display = "(not set)"
		case secretKeys[key]:
			display = maskAPIKey(value)
		}

		origin := source
		if source == "env" {
			origin = "env " + settingsService.EnvVar(key)
		}
		cmd.Printf("  %-28s %s  [%s]\n", key, display, origin)
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}

	if value == "" {
		cmd.Printf("Removed %s\n", key)
	} else if secretKeys[key] {
		cmd.Printf("Saved %s = %s\n", key, maskAPIKey(value))
	} else {
		cmd.Printf("Saved %s = %s\n", key, value)
	}

	if env := settingsService.EnvVar(key); env != "" {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			cmd.Printf("Note: %s is set and overrides this value\n", env)
		}
	}
	return nil
}

func runSettingsToken(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if readerRegistry == nil {
		return errors.New("reader registry not configured")
	}

	rt, ok := readerRegistry.Get(args[0])
	if !ok {
		return fmt.Errorf("unknown reader %q", args[0])
	}
	if rt.TokenKey == "" {
		return fmt.Errorf("reader %s does not use a token", rt.ID)
	}

	cmd.Printf("Enter %s token: ", rt.Name)
	token := readPassword()
	cmd.Println()
	if token == "" {
		return errors.New("no token entered")
	}

	if err := settingsService.Set(rt.TokenKey, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	cmd.Printf("Saved %s = %s\n", rt.TokenKey, maskAPIKey(token))
	return nil
}

// readPasswordFunc is replaced in tests.
var readPasswordFunc = readPasswordFromStdin

func readPassword() string {
	return readPasswordFunc()
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPasswordFromStdin() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

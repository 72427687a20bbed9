// Package cli provides the reporeader command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/reporeader/internal/core/ports/driving"
	"github.com/custodia-labs/reporeader/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// LoadOptions configures one batch load.
type LoadOptions struct {
	// Workers overrides the configured worker count when positive.
	Workers int

	// Validate checks reader credentials before listing.
	Validate bool

	// Progress is called after each file completes.
	Progress driving.ProgressFunc

	// ChunkSize splits document text into chunks of this many characters
	// when positive.
	ChunkSize int

	// ChunkOverlap is the number of characters shared by adjacent chunks.
	ChunkOverlap int
}

// LoaderBuilder creates a loader for one command invocation.
type LoaderBuilder func(opts LoadOptions) (driving.Loader, error)

// Services holds the core services the commands drive.
type Services struct {
	Settings  driving.SettingsService
	Readers   driving.ReaderRegistry
	NewLoader LoaderBuilder
}

// Services injected by main.
var (
	settingsService driving.SettingsService
	readerRegistry  driving.ReaderRegistry
	newLoader       LoaderBuilder
)

// Global flags.
var (
	verbose   bool
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "reporeader",
	Short: "Fetch documents from GitHub and GitLab repositories",
	Long: `reporeader lists files in a GitHub repository or GitLab project folder,
downloads them and turns them into JSON documents ready for ingestion.

Text files (.md, .mdx, .txt) become one document each, .json files are read
as structured documents, and PDF/EPUB files are sent to an extraction service
with a local fallback.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		switch logFormat {
		case "console", "json":
		default:
			return fmt.Errorf("invalid --log-format %q: use console or json", logFormat)
		}
		logger.SetFormat(logFormat)
		logger.SetVerbose(verbose)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log format: console or json")
}

// Configure injects the services used by the commands.
func Configure(s Services) {
	settingsService = s.Settings
	readerRegistry = s.Readers
	newLoader = s.NewLoader
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. Cancelling ctx aborts a running fetch.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetOutput redirects command output, for tests and embedding.
func SetOutput(out, errOut io.Writer) {
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
}

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/reporeader/internal/core/domain"
	"github.com/custodia-labs/reporeader/internal/core/ports/driving"
)

// Fetch flags.
var (
	fetchReader     string
	fetchDocType    string
	fetchFormat     string
	fetchOutput     string
	fetchWorkers    int
	fetchValidate   bool
	fetchNoProgress bool
	fetchChunkSize  int
	fetchOverlap    int
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <location> [location...]",
	Short: "Fetch documents from repository folders",
	Long: `Lists the eligible files under each location, downloads them and writes
the resulting documents to stdout (or --output).

Location formats:
  github  {owner}/{repo}/{branch}/{folder}   branch defaults to main
  gitlab  {project}/{branch}/{folder}        branch is required

Documents read from structured JSON keep their own chunks; --chunk-size
splits every other document's text.

Files that cannot be fetched or parsed are skipped and listed in the
summary printed to stderr.`,
	Example: `  reporeader fetch weaviate/Verba/main/goldenverba
  reporeader fetch --reader gitlab --format jsonl gitlab-org/gitlab/master/doc/api`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchReader, "reader", "r", "github", "Reader type: github or gitlab")
	fetchCmd.Flags().StringVarP(&fetchDocType, "type", "t", domain.DefaultDocumentType, "Document type stamped on results")
	fetchCmd.Flags().StringVarP(&fetchFormat, "format", "f", formatJSON, "Output format: json, jsonl or yaml")
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "Write documents to a file instead of stdout")
	fetchCmd.Flags().IntVarP(&fetchWorkers, "workers", "w", 0, "Concurrent file fetches (default from settings)")
	fetchCmd.Flags().BoolVar(&fetchValidate, "validate", false, "Check credentials before fetching")
	fetchCmd.Flags().IntVar(&fetchChunkSize, "chunk-size", 0, "Split document text into chunks of this many characters (0 = off)")
	fetchCmd.Flags().IntVar(&fetchOverlap, "chunk-overlap", 0, "Characters shared by adjacent chunks")
	fetchCmd.Flags().BoolVar(&fetchNoProgress, "no-progress", false, "Disable the progress indicator")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if newLoader == nil {
		return errors.New("loader not configured")
	}
	if readerRegistry != nil {
		if _, ok := readerRegistry.Get(fetchReader); !ok {
			return fmt.Errorf("unknown reader %q: run 'reporeader readers' to list readers", fetchReader)
		}
	}
	if fetchWorkers < 0 {
		return errors.New("--workers must not be negative")
	}
	if fetchChunkSize < 0 || fetchOverlap < 0 {
		return errors.New("--chunk-size and --chunk-overlap must not be negative")
	}
	if !isOutputFormat(fetchFormat) {
		return fmt.Errorf("unknown format %q: use one of %s", fetchFormat, strings.Join(outputFormats, ", "))
	}

	var progress driving.ProgressFunc
	var bar *progressbar.ProgressBar
	if !fetchNoProgress {
		bar = newProgressBar(cmd.ErrOrStderr())
		progress = func(_ domain.RemoteFile, _ error) {
			_ = bar.Add(1)
		}
	}

	loader, err := newLoader(LoadOptions{
		Workers:  fetchWorkers,
		Validate: fetchValidate,
		Progress: progress,

		ChunkSize:    fetchChunkSize,
		ChunkOverlap: fetchOverlap,
	})
	if err != nil {
		return err
	}

	docs, report, err := loader.Load(cmd.Context(), fetchReader, args, fetchDocType)
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(cmd.ErrOrStderr())
	}
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	writeReport(cmd.ErrOrStderr(), report)

	if fetchOutput == "" {
		if err := writeDocuments(cmd.OutOrStdout(), docs, fetchFormat); err != nil {
			return fmt.Errorf("write documents: %w", err)
		}
		return nil
	}
	return writeOutputFile(fetchOutput, docs, fetchFormat)
}

// writeOutputFile writes docs to path. A failed close is reported since
// buffered data may not have reached the disk.
func writeOutputFile(path string, docs []domain.Document, format string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output file: %w", cerr)
		}
	}()

	if err := writeDocuments(f, docs, format); err != nil {
		return fmt.Errorf("write documents: %w", err)
	}
	return nil
}

// newProgressBar returns a spinner-style counter; the file total is not
// known until every location has been listed.
func newProgressBar(w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Fetching"),
		progressbar.OptionShowCount(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func isOutputFormat(format string) bool {
	for _, f := range outputFormats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}

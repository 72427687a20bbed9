package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/reporeader/internal/core/domain"
)

// Output formats for fetched documents.
const (
	formatJSON  = "json"
	formatJSONL = "jsonl"
	formatYAML  = "yaml"
)

var outputFormats = []string{formatJSON, formatJSONL, formatYAML}

// writeDocuments encodes docs to w in the given format.
// An empty batch is written as an empty list, never as null.
func writeDocuments(w io.Writer, docs []domain.Document, format string) error {
	if docs == nil {
		docs = []domain.Document{}
	}

	switch strings.ToLower(format) {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(docs)

	case formatJSONL:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		for i := range docs {
			if err := enc.Encode(&docs[i]); err != nil {
				return fmt.Errorf("encode document %d: %w", i, err)
			}
		}
		return nil

	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(docs); err != nil {
			return err
		}
		return enc.Close()

	default:
		return fmt.Errorf("unknown format %q: use one of %s", format, strings.Join(outputFormats, ", "))
	}
}

// writeReport prints a human-readable load summary.
func writeReport(w io.Writer, report *domain.LoadReport) {
	if report == nil {
		return
	}
	fmt.Fprintf(w, "Locations: %d  Files: %d  Loaded: %d  Documents: %d  Skipped: %d\n",
		report.Locations, report.Listed, report.Loaded, report.Documents, len(report.Skipped))

	for _, s := range report.Skipped {
		target := s.Location
		if s.Path != "" {
			target = s.Location + ": " + s.Path
		}
		fmt.Fprintf(w, "  skipped %s (%s)\n", target, s.Reason)
	}
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/electric-relaxation/concert-playlist/internal/pipeline"
	"github.com/electric-relaxation/concert-playlist/internal/show"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output after a sync run
type OutputResult struct {
	CheckedAt time.Time         `json:"checked_at"`
	DryRun    bool              `json:"dry_run,omitempty"`
	Results   []pipeline.Result `json:"venues"`
	Failed    int               `json:"failed"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	for _, res := range result.Results {
		if res.Err != nil {
			fmt.Fprintf(w, "%s: FAILED: %v\n", res.VenueID, res.Err)
			continue
		}

		status := "unchanged"
		switch {
		case res.Written && result.DryRun:
			status = "would write"
		case res.Written:
			status = "written"
		}

		fmt.Fprintf(w, "%s: %d shows, +%d ~%d -%d (%s)\n",
			res.VenueID, res.ShowCount,
			res.ForwardDiff.Added, res.ForwardDiff.Updated, res.ForwardDiff.Removed,
			status)

		if verbose {
			fmt.Fprintf(w, "     full diff: +%d ~%d -%d =%d\n",
				res.Diff.Added, res.Diff.Updated, res.Diff.Removed, res.Diff.Unchanged)
		}
	}

	if result.Failed > 0 {
		fmt.Fprintf(w, "\n%d venue(s) failed\n", result.Failed)
	}
	return nil
}

// writeShowsText prints a merged show listing
func writeShowsText(w io.Writer, shows []show.Show) error {
	if len(shows) == 0 {
		fmt.Fprintln(w, "No shows found.")
		return nil
	}

	for _, s := range shows {
		line := fmt.Sprintf("%s  %-8s  %s", s.DateISO, s.StartTime, joinBilling(s))
		fmt.Fprintf(w, "%s @ %s\n", line, s.VenueName)
	}
	fmt.Fprintf(w, "\nTotal: %d shows\n", len(shows))
	return nil
}

func joinBilling(s show.Show) string {
	billing := ""
	for i, h := range s.Headliners {
		if i > 0 {
			billing += " + "
		}
		billing += h
	}
	for i, o := range s.Openers {
		if i == 0 {
			billing += " with "
		} else {
			billing += ", "
		}
		billing += o
	}
	return billing
}

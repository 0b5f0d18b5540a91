package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/electric-relaxation/concert-playlist/internal/fetch"
	"github.com/electric-relaxation/concert-playlist/internal/logger"
	"github.com/electric-relaxation/concert-playlist/internal/pipeline"
	"github.com/electric-relaxation/concert-playlist/internal/venue"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	ExitChanges = 2
)

const defaultWindowDays = 90

var (
	flagVenue   string
	flagDataDir string
	flagFormat  string
	flagFrom    string
	flagTo      string
	flagRefDate string
	flagDryRun  bool
	flagVerbose bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "showsync",
		Short: "Sync venue concert calendars into stable local show feeds",
		Long: `Scrapes each venue's event calendar, normalizes the listings into show
records with run-to-run stable identifiers, and persists one JSON document
per venue plus a merged all-venues feed. Reruns only rewrite a venue's
output when something dated today or later actually changed.`,
		RunE: runSync,
	}

	cmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "~/.local/share/showsync", "Data directory for show documents")
	cmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.Flags().StringVar(&flagVenue, "venue", "all", "Venue id (e.g., casbah) or 'all'")
	cmd.Flags().StringVar(&flagFrom, "from", "", "Start of scrape window, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&flagTo, "to", "", "End of scrape window, YYYY-MM-DD (default today+90d)")
	cmd.Flags().StringVar(&flagRefDate, "reference-date", "", "Reference date for year inference, YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Reconcile and report without writing")

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newExportCmd())

	return cmd
}

// runSync is the main command logic
func runSync(cmd *cobra.Command, args []string) error {
	if flagVerbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
	}

	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	ref, err := resolveReferenceDate(flagRefDate)
	if err != nil {
		return err
	}

	from, to, err := resolveWindow(flagFrom, flagTo, ref)
	if err != nil {
		return err
	}

	venues, err := resolveVenues(flagVenue)
	if err != nil {
		return err
	}

	store, err := newStorage()
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(store, fetch.New(), pipeline.Options{
		ReferenceDate: ref,
		FromISO:       from,
		ToISO:         to,
		DryRun:        flagDryRun,
	})

	results := runner.Run(venues)

	out := &OutputResult{
		CheckedAt: time.Now().UTC(),
		DryRun:    flagDryRun,
		Results:   results,
		Failed:    pipeline.Failed(results),
	}
	if err := WriteOutput(os.Stdout, out, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	switch {
	case out.Failed > 0:
		os.Exit(ExitError)
	case pipeline.ForwardChanged(results):
		os.Exit(ExitChanges)
	default:
		os.Exit(ExitSuccess)
	}
	return nil
}

// resolveReferenceDate parses the override or defaults to the current day.
func resolveReferenceDate(override string) (time.Time, error) {
	if override == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	ref, err := time.Parse("2006-01-02", override)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --reference-date: %s", override)
	}
	return ref, nil
}

// resolveWindow fills in the default scrape window around the reference date.
func resolveWindow(from, to string, ref time.Time) (string, string, error) {
	if from == "" {
		from = ref.Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", from); err != nil {
		return "", "", fmt.Errorf("invalid --from: %s", from)
	}
	if to == "" {
		to = ref.AddDate(0, 0, defaultWindowDays).Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", to); err != nil {
		return "", "", fmt.Errorf("invalid --to: %s", to)
	}
	if to < from {
		return "", "", fmt.Errorf("--to (%s) is before --from (%s)", to, from)
	}
	return from, to, nil
}

// resolveVenues maps the --venue flag onto registry entries.
func resolveVenues(selector string) ([]venue.Venue, error) {
	selector = strings.ToLower(strings.TrimSpace(selector))
	if selector == "" || selector == "all" {
		return venue.All(), nil
	}
	v, ok := venue.Lookup(selector)
	if !ok {
		return nil, fmt.Errorf("unknown venue: %s", selector)
	}
	return []venue.Venue{v}, nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}

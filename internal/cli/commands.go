package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/electric-relaxation/concert-playlist/internal/calendar"
	"github.com/electric-relaxation/concert-playlist/internal/show"
	"github.com/electric-relaxation/concert-playlist/internal/storage"
	"github.com/electric-relaxation/concert-playlist/internal/textutil"
)

func newStorage() (*storage.Storage, error) {
	store, err := storage.New(flagDataDir)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return store, nil
}

// newListCmd prints the persisted merged feed, optionally filtered.
func newListCmd() *cobra.Command {
	var (
		listVenue string
		listFrom  string
		listTo    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List persisted shows from the merged feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newStorage()
			if err != nil {
				return err
			}

			shows := filterShows(store.LoadMerged().Shows, listVenue, listFrom, listTo)

			format := OutputFormat(strings.ToLower(flagFormat))
			switch format {
			case FormatJSON:
				return writeJSON(os.Stdout, shows)
			case FormatText:
				return writeShowsText(os.Stdout, shows)
			default:
				return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
			}
		},
	}

	cmd.Flags().StringVar(&listVenue, "venue", "", "Only shows at this venue id")
	cmd.Flags().StringVar(&listFrom, "from", "", "Only shows on or after this date, YYYY-MM-DD")
	cmd.Flags().StringVar(&listTo, "to", "", "Only shows on or before this date, YYYY-MM-DD")

	return cmd
}

// newExportCmd writes the persisted merged feed as an iCalendar document.
func newExportCmd() *cobra.Command {
	var (
		exportVenue  string
		exportOutput string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export persisted shows as an iCalendar (.ics) document",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newStorage()
			if err != nil {
				return err
			}

			shows := filterShows(store.LoadMerged().Shows, exportVenue, "", "")
			ics := calendar.GenerateICS(shows, time.Now().UTC())

			if exportOutput == "" || exportOutput == "-" {
				fmt.Fprint(os.Stdout, ics)
				return nil
			}
			if err := os.WriteFile(exportOutput, []byte(ics), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", exportOutput, err)
			}
			fmt.Fprintf(os.Stderr, "Wrote %d shows to %s\n", len(shows), exportOutput)
			return nil
		},
	}

	cmd.Flags().StringVar(&exportVenue, "venue", "", "Only shows at this venue id")
	cmd.Flags().StringVar(&exportOutput, "output", "", "Output file (default stdout)")

	return cmd
}

// filterShows applies the optional venue and date-range filters.
func filterShows(shows []show.Show, venueID, from, to string) []show.Show {
	if venueID == "" && from == "" && to == "" {
		return shows
	}
	if from == "" {
		from = "0000-01-01"
	}
	if to == "" {
		to = "9999-12-31"
	}

	var out []show.Show
	for _, s := range shows {
		if venueID != "" && s.VenueID != venueID {
			continue
		}
		if !textutil.IsWithinRange(s.DateISO, from, to) {
			continue
		}
		out = append(out, s)
	}
	return out
}

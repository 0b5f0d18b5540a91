// Package pipeline orchestrates one sync run: fetch each venue's calendar,
// parse and normalize it, reconcile against the previously persisted batch,
// and persist when the forward-looking diff says something actually changed.
// Venues are processed sequentially in registry order and failures are
// isolated per venue.
package pipeline

import (
	"fmt"
	"time"

	"github.com/electric-relaxation/concert-playlist/internal/logger"
	"github.com/electric-relaxation/concert-playlist/internal/show"
	"github.com/electric-relaxation/concert-playlist/internal/storage"
	"github.com/electric-relaxation/concert-playlist/internal/venue"
)

// Fetcher pulls one calendar page. Satisfied by fetch.Client.
type Fetcher interface {
	GetHTML(pageURL string) (string, error)
}

// Options configures a run.
type Options struct {
	ReferenceDate time.Time // drives year inference and the today-forward slice
	FromISO       string    // inclusive scrape window start, "" = unbounded
	ToISO         string    // inclusive scrape window end, "" = unbounded
	DryRun        bool      // reconcile and report, never write
}

// Result is the per-venue outcome of a run.
type Result struct {
	VenueID     string       `json:"venue_id"`
	VenueName   string       `json:"venue_name"`
	ShowCount   int          `json:"show_count"`
	Diff        show.Summary `json:"diff"`
	ForwardDiff show.Summary `json:"forward_diff"`
	Written     bool         `json:"written"`
	Err         error        `json:"-"`
	ErrMessage  string       `json:"error,omitempty"`
}

// Runner executes sync runs.
type Runner struct {
	store   *storage.Storage
	fetcher Fetcher
	opts    Options
}

// NewRunner creates a Runner.
func NewRunner(store *storage.Storage, fetcher Fetcher, opts Options) *Runner {
	return &Runner{store: store, fetcher: fetcher, opts: opts}
}

// Run processes the given venues in order. A venue failure is recorded on
// its Result and does not stop the remaining venues. After all venues are
// processed the index and merged feed are rebuilt from the persisted state.
func (r *Runner) Run(venues []venue.Venue) []Result {
	results := make([]Result, 0, len(venues))

	for _, v := range venues {
		res := r.runVenue(v)
		if res.Err != nil {
			res.ErrMessage = res.Err.Error()
			logger.Error("Venue sync failed", logger.Fields{"venue": v.ID}, res.Err)
			logger.IncrCounter("venues.failed")
		} else {
			logger.Info("Venue synced", logger.Fields{
				"venue":   v.ID,
				"shows":   res.ShowCount,
				"added":   res.ForwardDiff.Added,
				"updated": res.ForwardDiff.Updated,
				"removed": res.ForwardDiff.Removed,
				"written": res.Written,
			})
			logger.IncrCounter("venues.synced")
		}
		results = append(results, res)
	}

	if !r.opts.DryRun {
		if err := r.rebuildAggregates(venues); err != nil {
			logger.Error("Failed to rebuild aggregate documents", nil, err)
		}
	}

	return results
}

// runVenue executes the fetch/parse/normalize/reconcile/persist sequence for
// one venue.
func (r *Runner) runVenue(v venue.Venue) Result {
	res := Result{VenueID: v.ID, VenueName: v.Name}
	today := r.opts.ReferenceDate.Format("2006-01-02")

	html, err := r.fetcher.GetHTML(v.CalendarURL)
	if err != nil {
		res.Err = fmt.Errorf("fetching calendar: %w", err)
		return res
	}

	rows, err := v.Parser.Parse(html, v.CalendarURL, r.opts.ReferenceDate)
	if err != nil {
		res.Err = fmt.Errorf("parsing calendar: %w", err)
		return res
	}
	if len(rows) == 0 && html != "" {
		res.Err = fmt.Errorf("parser produced no rows from a non-empty page")
		return res
	}
	logger.AddCounter("rows.scraped", int64(len(rows)))

	rows = r.filterRows(rows)
	next := show.Normalize(rows, v.Info())

	prev := r.store.LoadBatch(v.ID)
	next = show.ResolveIdentity(prev.Shows, next)

	res.Diff = show.Diff(prev.Shows, next)
	res.ForwardDiff = show.Diff(
		show.FilterFromDate(prev.Shows, today),
		show.FilterFromDate(next, today),
	)

	// Past-dated shows the page no longer lists stay in the batch; the
	// source drops them, we don't.
	carried := show.CarryForwardPast(prev.Shows, next, today)
	persisted := append(next, carried...)
	show.Sort(persisted)
	res.ShowCount = len(persisted)

	// Write gate: churn confined to past dates must not rewrite the batch.
	if r.store.HasBatch(v.ID) && !res.ForwardDiff.Changed() {
		logger.IncrCounter("writes.gated")
		return res
	}

	res.Written = true
	if r.opts.DryRun {
		return res
	}

	batch := &show.Batch{
		Venue:       v.Info(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Shows:       persisted,
	}
	if err := r.store.SaveBatch(batch); err != nil {
		res.Written = false
		res.Err = fmt.Errorf("saving batch: %w", err)
		return res
	}
	return res
}

// filterRows keeps rows inside the configured date window.
func (r *Runner) filterRows(rows []show.RawRow) []show.RawRow {
	if r.opts.FromISO == "" && r.opts.ToISO == "" {
		return rows
	}
	from, to := r.opts.FromISO, r.opts.ToISO
	if from == "" {
		from = "0000-01-01"
	}
	if to == "" {
		to = "9999-12-31"
	}

	kept := rows[:0]
	for _, row := range rows {
		if row.Date >= from && row.Date <= to {
			kept = append(kept, row)
		}
	}
	return kept
}

// rebuildAggregates regenerates index.json and all_shows.json from the
// persisted per-venue batches.
func (r *Runner) rebuildAggregates(venues []venue.Venue) error {
	now := time.Now().UTC().Format(time.RFC3339)

	idx := &storage.Index{}
	var merged []show.Show

	for _, v := range venues {
		if !r.store.HasBatch(v.ID) {
			continue
		}
		batch := r.store.LoadBatch(v.ID)
		idx.Venues = append(idx.Venues, storage.IndexEntry{
			Venue:       batch.Venue,
			ShowCount:   len(batch.Shows),
			GeneratedAt: batch.GeneratedAt,
		})
		merged = append(merged, batch.Shows...)
	}

	show.SortMerged(merged)
	if merged == nil {
		merged = []show.Show{}
	}

	if err := r.store.WriteIndex(idx); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	if err := r.store.WriteMerged(&storage.Merged{GeneratedAt: now, Shows: merged}); err != nil {
		return fmt.Errorf("writing merged feed: %w", err)
	}
	return nil
}

// Failed reports how many results carry an error.
func Failed(results []Result) int {
	n := 0
	for _, res := range results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// ForwardChanged reports whether any venue saw forward-looking changes.
func ForwardChanged(results []Result) bool {
	for _, res := range results {
		if res.Err == nil && res.ForwardDiff.Changed() {
			return true
		}
	}
	return false
}

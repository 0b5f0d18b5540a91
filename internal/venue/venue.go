// Package venue defines the venue registry and the per-venue calendar
// parsers. Each venue supplies a Parser that turns its calendar HTML into
// raw show rows; the block-selection heuristics are venue-specific and live
// entirely inside each implementation.
package venue

import (
	"time"

	"github.com/electric-relaxation/concert-playlist/internal/show"
)

// Parser extracts raw show rows from one venue's calendar HTML. A Parser is
// a pure function of its inputs: no network I/O, and rows with missing
// essentials (no date, no headliner) are omitted rather than reported as
// errors. The reference date drives year inference for dates without an
// explicit year.
type Parser interface {
	Parse(html, sourceURL string, ref time.Time) ([]show.RawRow, error)
}

// Venue is one physical concert location with one calendar page.
type Venue struct {
	ID          string
	Name        string
	CalendarURL string
	Parser      Parser
}

// Info returns the venue metadata embedded in persisted batches.
func (v Venue) Info() show.VenueInfo {
	return show.VenueInfo{ID: v.ID, Name: v.Name, CalendarURL: v.CalendarURL}
}

// registry lists the supported venues in processing order.
var registry = []Venue{
	{
		ID:          "casbah",
		Name:        "The Casbah",
		CalendarURL: "https://casbahmusic.com/event-calendar/",
		Parser:      &CasbahParser{},
	},
	{
		ID:          "sodabar",
		Name:        "Soda Bar",
		CalendarURL: "https://sodabarmusic.com/calendar/",
		Parser:      &SodaBarParser{},
	},
	{
		ID:          "towerbar",
		Name:        "Tower Bar",
		CalendarURL: "https://thetowerbar.com/shows/",
		Parser:      &TowerBarParser{},
	},
}

// All returns the supported venues in declaration order.
func All() []Venue {
	out := make([]Venue, len(registry))
	copy(out, registry)
	return out
}

// Lookup finds a venue by ID.
func Lookup(id string) (Venue, bool) {
	for _, v := range registry {
		if v.ID == id {
			return v, true
		}
	}
	return Venue{}, false
}

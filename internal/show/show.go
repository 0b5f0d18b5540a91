package show

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"
)

// Role tags a raw row as either the billed act or a support act.
type Role string

const (
	RoleHeadliner Role = "headliner"
	RoleOpener    Role = "opener"
)

// RawRow is one artist-role appearance scraped from a calendar page. Several
// rows sharing a show identity (same listing URL, or same date and billing)
// belong to one conceptual show. Rows are transient: produced by a venue
// parser, consumed by Normalize within the same run.
type RawRow struct {
	Date      string   // ISO calendar date, no time
	Time      string   // 24-hour "HH:MM", "" when unknown
	Artists   []string // non-empty, usually one name
	Role      Role
	VenueID   string
	ShowURL   string // absolute URL, "" when none resolvable
	SourceURL string // the calendar page the row came from
}

// Show is one normalized real-world event.
type Show struct {
	ID         string   `json:"id"`
	DateISO    string   `json:"date"`
	StartTime  string   `json:"start_time,omitempty"` // "h:mm AM/PM", "" when unknown
	VenueID    string   `json:"venue_id"`
	VenueName  string   `json:"venue_name"`
	ShowURL    string   `json:"show_url,omitempty"`
	SourceURL  string   `json:"source_url"`
	Headliners []string `json:"headliners"` // sorted, de-duplicated, non-empty
	Openers    []string `json:"openers"`    // sorted, de-duplicated
}

// VenueInfo is the venue metadata embedded in a persisted batch.
type VenueInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CalendarURL string `json:"calendar_url"`
}

// Batch is all shows for one venue as of one run. Two batches (previous,
// next) are the unit of reconciliation.
type Batch struct {
	Venue       VenueInfo `json:"venue"`
	GeneratedAt string    `json:"generated_at"`
	Shows       []Show    `json:"shows"`
}

// ContentID derives a show's identifier purely from its own fields: the
// FNV-1a hash of "venueID|dateISO|showURL|headliners", rendered as eight hex
// digits. Reproducible from content alone, independent of scrape order.
func ContentID(venueID, dateISO, showURL string, headliners []string) string {
	h := fnv.New32a()
	h.Write([]byte(venueID + "|" + dateISO + "|" + showURL + "|" + strings.Join(headliners, ",")))
	return fmt.Sprintf("%08x", h.Sum32())
}

// FormatStartTime converts a 24-hour "HH:MM" string to the human "h:mm AM/PM"
// form used on Show records. Returns "" for empty or malformed input.
func FormatStartTime(hhmm string) string {
	if hhmm == "" {
		return ""
	}
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return ""
	}
	return t.Format("3:04 PM")
}

// startSortKey maps a Show's human start time back to a sortable 24-hour
// string. Unknown times sort last.
func startSortKey(startTime string) string {
	if startTime == "" {
		return "99:99"
	}
	t, err := time.Parse("3:04 PM", startTime)
	if err != nil {
		return "99:99"
	}
	return t.Format("15:04")
}

// Sort orders shows by (date, start time with unknown last, joined
// headliners). This is the canonical per-venue batch order.
func Sort(shows []Show) {
	sort.Slice(shows, func(i, j int) bool {
		a, b := &shows[i], &shows[j]
		if a.DateISO != b.DateISO {
			return a.DateISO < b.DateISO
		}
		ta, tb := startSortKey(a.StartTime), startSortKey(b.StartTime)
		if ta != tb {
			return ta < tb
		}
		return strings.Join(a.Headliners, ", ") < strings.Join(b.Headliners, ", ")
	})
}

// SortMerged orders shows from multiple venues by (date, start time, venue
// name, joined headliners). This is the all-venues feed order.
func SortMerged(shows []Show) {
	sort.Slice(shows, func(i, j int) bool {
		a, b := &shows[i], &shows[j]
		if a.DateISO != b.DateISO {
			return a.DateISO < b.DateISO
		}
		ta, tb := startSortKey(a.StartTime), startSortKey(b.StartTime)
		if ta != tb {
			return ta < tb
		}
		if a.VenueName != b.VenueName {
			return a.VenueName < b.VenueName
		}
		return strings.Join(a.Headliners, ", ") < strings.Join(b.Headliners, ", ")
	})
}

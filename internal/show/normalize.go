package show

import (
	"sort"
	"strings"
)

// group accumulates the raw rows that belong to one conceptual show while
// Normalize walks the input.
type group struct {
	date      string
	time24    string
	url       string
	sourceURL string
	heads     map[string]struct{}
	opens     map[string]struct{}
}

func newGroup(date, url, sourceURL string) *group {
	return &group{
		date:      date,
		url:       url,
		sourceURL: sourceURL,
		heads:     make(map[string]struct{}),
		opens:     make(map[string]struct{}),
	}
}

func (g *group) absorb(r *RawRow) {
	set := g.heads
	if r.Role == RoleOpener {
		set = g.opens
	}
	for _, name := range r.Artists {
		if name != "" {
			set[name] = struct{}{}
		}
	}
	if g.time24 == "" && r.Time != "" {
		g.time24 = r.Time
	}
}

// Normalize groups one venue's raw rows into canonical Show records.
//
// Grouping uses, in priority order: the listing URL when a row has one; for
// URL-less headliner rows, the composite of date and that row's artist names;
// URL-less opener rows attach to the nearest prior same-date URL-less show,
// else start a date-keyed record of their own so orphaned openers are not
// lost. Within each group headliner and opener names are unioned,
// de-duplicated, and sorted. Exact-duplicate shows collapse to the first
// seen, and the result is sorted by (date, start time, headliners).
//
// The output, identifiers included, is a pure function of the row multiset:
// re-running on the same rows yields the same sorted batch with the same IDs.
func Normalize(rows []RawRow, venue VenueInfo) []Show {
	byURL := make(map[string]*group)
	byDateHead := make(map[string]*group)
	orphanByDate := make(map[string]*group)
	var ordered []*group

	add := func(g *group) *group {
		ordered = append(ordered, g)
		return g
	}

	// First pass: rows that can anchor a show (anything with a URL, plus
	// URL-less headliner rows). Doing these before orphan openers keeps
	// grouping independent of row order.
	for i := range rows {
		r := &rows[i]
		if r.Date == "" || len(r.Artists) == 0 {
			continue
		}

		switch {
		case r.ShowURL != "":
			g, ok := byURL[r.ShowURL]
			if !ok {
				g = add(newGroup(r.Date, r.ShowURL, r.SourceURL))
				byURL[r.ShowURL] = g
			}
			g.absorb(r)
		case r.Role == RoleHeadliner:
			key := r.Date + "|" + strings.Join(r.Artists, ",")
			g, ok := byDateHead[key]
			if !ok {
				g = add(newGroup(r.Date, "", r.SourceURL))
				byDateHead[key] = g
			}
			g.absorb(r)
		}
	}

	// Second pass: URL-less opener rows attach to the nearest prior URL-less
	// show on the same date, else start their own date-keyed record. Two
	// unrelated opener-only rows on the same date will merge here; that
	// mirrors the source listings, where a support strip without its own
	// link belongs to whatever bill shares its night.
	for i := range rows {
		r := &rows[i]
		if r.Date == "" || len(r.Artists) == 0 || r.ShowURL != "" || r.Role != RoleOpener {
			continue
		}

		if g := nearestURLless(ordered, r.Date); g != nil {
			g.absorb(r)
			continue
		}
		g, ok := orphanByDate[r.Date]
		if !ok {
			g = add(newGroup(r.Date, "", r.SourceURL))
			orphanByDate[r.Date] = g
		}
		g.absorb(r)
	}

	shows := make([]Show, 0, len(ordered))
	for _, g := range ordered {
		heads := sortedNames(g.heads)
		opens := sortedNames(g.opens)
		if len(heads) == 0 {
			if len(opens) == 0 {
				continue
			}
			// Orphan opener-only record: the support acts are the bill.
			heads, opens = opens, []string{}
		}

		shows = append(shows, Show{
			ID:         ContentID(venue.ID, g.date, g.url, heads),
			DateISO:    g.date,
			StartTime:  FormatStartTime(g.time24),
			VenueID:    venue.ID,
			VenueName:  venue.Name,
			ShowURL:    g.url,
			SourceURL:  g.sourceURL,
			Headliners: heads,
			Openers:    opens,
		})
	}

	shows = dedupeExact(shows)
	Sort(shows)
	return shows
}

// nearestURLless returns the most recently created URL-less group on the
// given date, or nil.
func nearestURLless(ordered []*group, date string) *group {
	for i := len(ordered) - 1; i >= 0; i-- {
		if ordered[i].url == "" && ordered[i].date == date {
			return ordered[i]
		}
	}
	return nil
}

func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// dedupeExact drops shows identical in every field, keeping first-seen order.
func dedupeExact(shows []Show) []Show {
	seen := make(map[string]bool, len(shows))
	unique := make([]Show, 0, len(shows))
	for _, s := range shows {
		key := strings.Join([]string{
			s.DateISO, s.StartTime, s.VenueID, s.ShowURL,
			strings.Join(s.Headliners, ","), strings.Join(s.Openers, ","),
		}, "|")
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, s)
	}
	return unique
}

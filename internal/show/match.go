package show

import "strings"

// Summary reports how a freshly scraped batch relates to the previously
// persisted one. Unchanged pairs matched byte-identically; updated pairs
// matched through a looser strategy; removed and added records matched
// nothing on the other side.
type Summary struct {
	Unchanged int `json:"unchanged"`
	Updated   int `json:"updated"`
	Added     int `json:"added"`
	Removed   int `json:"removed"`
}

// Changed reports whether anything beyond byte-identical matches occurred.
func (s Summary) Changed() bool {
	return s.Updated > 0 || s.Added > 0 || s.Removed > 0
}

// A matching strategy extracts a comparison key from a show, or reports that
// the strategy does not apply to it. Strategies run strictest first; a record
// claimed at one tier is never revisited by a looser one.
type strategy struct {
	name string
	key  func(s *Show) (string, bool)
}

func names(list []string) string {
	return strings.Join(list, ",")
}

var strategies = []strategy{
	{"exact", func(s *Show) (string, bool) {
		return strings.Join([]string{s.DateISO, s.StartTime, s.VenueID, s.ShowURL, names(s.Headliners), names(s.Openers)}, "|"), true
	}},
	{"stable", func(s *Show) (string, bool) {
		return strings.Join([]string{s.DateISO, s.VenueID, s.ShowURL, names(s.Headliners)}, "|"), true
	}},
	{"url", func(s *Show) (string, bool) {
		if s.ShowURL == "" {
			return "", false
		}
		return s.VenueID + "|" + s.ShowURL, true
	}},
	{"date-time", func(s *Show) (string, bool) {
		return strings.Join([]string{s.VenueID, s.DateISO, s.StartTime}, "|"), true
	}},
	{"headliner-time", func(s *Show) (string, bool) {
		return strings.Join([]string{s.VenueID, s.DateISO, s.StartTime, names(s.Headliners)}, "|"), true
	}},
}

// pairing records which previous/next records matched and at which tier.
type pairing struct {
	nextToPrev  map[int]int // next index -> previous index
	tierOf      map[int]int // next index -> strategy ordinal
	prevMatched []bool
	nextMatched []bool
}

// matchBatches runs the full strategy cascade over a previous and next batch.
// Within one tier, a next record matches only when its key maps to exactly
// one not-yet-matched previous record; ambiguous keys are skipped at that
// tier rather than guessed, leaving the record to a looser tier or no match.
func matchBatches(prev, next []Show) *pairing {
	p := &pairing{
		nextToPrev:  make(map[int]int),
		tierOf:      make(map[int]int),
		prevMatched: make([]bool, len(prev)),
		nextMatched: make([]bool, len(next)),
	}

	for tier, st := range strategies {
		lookup := make(map[string][]int)
		for pi := range prev {
			if p.prevMatched[pi] {
				continue
			}
			if k, ok := st.key(&prev[pi]); ok {
				lookup[k] = append(lookup[k], pi)
			}
		}

		for ni := range next {
			if p.nextMatched[ni] {
				continue
			}
			k, ok := st.key(&next[ni])
			if !ok {
				continue
			}
			candidates := lookup[k]
			if len(candidates) != 1 {
				continue // no match, or ambiguous at this tier
			}
			pi := candidates[0]
			if p.prevMatched[pi] {
				continue // consumed earlier within this tier
			}
			p.prevMatched[pi] = true
			p.nextMatched[ni] = true
			p.nextToPrev[ni] = pi
			p.tierOf[ni] = tier
		}
	}

	return p
}

// ResolveIdentity reassigns each record in next the identifier of its
// matched predecessor in prev, so downstream consumers keep a persistent ID
// per real-world show even when the content hash changed. Records with no
// match keep their freshly computed content-hash identifier. The input
// slices are not modified.
func ResolveIdentity(prev, next []Show) []Show {
	resolved := make([]Show, len(next))
	copy(resolved, next)

	p := matchBatches(prev, next)
	for ni, pi := range p.nextToPrev {
		resolved[ni].ID = prev[pi].ID
	}
	return resolved
}

// Diff runs the strategy cascade with fresh matched-sets and reports counts.
// It never mutates identifiers; it is decision input for the write gate and
// run reporting.
func Diff(prev, next []Show) Summary {
	p := matchBatches(prev, next)

	var sum Summary
	for _, tier := range p.tierOf {
		if tier == 0 {
			sum.Unchanged++
		} else {
			sum.Updated++
		}
	}
	for _, matched := range p.prevMatched {
		if !matched {
			sum.Removed++
		}
	}
	for _, matched := range p.nextMatched {
		if !matched {
			sum.Added++
		}
	}
	return sum
}

// CarryForwardPast returns the previous shows that matched nothing in next
// and are dated before todayISO. Venue pages drop past listings, so these
// are retained in the persisted batch rather than treated as cancellations.
func CarryForwardPast(prev, next []Show, todayISO string) []Show {
	p := matchBatches(prev, next)

	var kept []Show
	for pi := range prev {
		if !p.prevMatched[pi] && prev[pi].DateISO < todayISO {
			kept = append(kept, prev[pi])
		}
	}
	return kept
}

// FilterFromDate returns the shows dated fromISO or later, preserving order.
func FilterFromDate(shows []Show, fromISO string) []Show {
	var out []Show
	for _, s := range shows {
		if s.DateISO >= fromISO {
			out = append(out, s)
		}
	}
	return out
}

package venue

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/electric-relaxation/concert-playlist/internal/show"
	"github.com/electric-relaxation/concert-playlist/internal/textutil"
)

// TowerBarParser reads the Tower Bar show list, which is plain paragraphs of
// the form "9/5 - Headliner w/ Opener One, Opener Two - 9pm". The page has
// no per-show links, so every row goes out with an empty ShowURL and
// grouping falls back to date and billing.
type TowerBarParser struct{}

// Line shape: slash date, a dash, the billing, optionally another dash and a
// time fragment.
var towerLine = regexp.MustCompile(`^(\d{1,2}/\d{1,2}(?:/\d{2,4})?)\s*[-\x{2013}]\s*(.+)$`)

// Parse extracts raw rows from the Tower Bar show list HTML.
func (p *TowerBarParser) Parse(html, sourceURL string, ref time.Time) ([]show.RawRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var rows []show.RawRow

	doc.Find("#shows p, .shows-list p").Each(func(_ int, sel *goquery.Selection) {
		for _, line := range strings.Split(sel.Text(), "\n") {
			line = textutil.NormalizeWhitespace(line)
			if line == "" {
				continue
			}

			m := towerLine.FindStringSubmatch(line)
			if m == nil {
				continue
			}

			date := textutil.ParseDateISO(m[1], ref)
			if date == "" {
				continue
			}

			billing := m[2]
			startTime := ""
			// A trailing " - 9pm" fragment is the start time, not billing.
			if idx := strings.LastIndex(billing, " - "); idx >= 0 {
				if t := textutil.ParseShowTime(billing[idx+3:]); t != "" {
					startTime = t
					billing = textutil.NormalizeWhitespace(billing[:idx])
				}
			}

			headliner := billing
			var openers []string
			if idx := strings.Index(strings.ToLower(billing), " w/ "); idx >= 0 {
				headliner = textutil.NormalizeWhitespace(billing[:idx])
				openers = textutil.SplitOpeners(billing[idx+1:])
			}
			if headliner == "" {
				continue
			}

			rows = append(rows, show.RawRow{
				Date:      date,
				Time:      startTime,
				Artists:   []string{headliner},
				Role:      show.RoleHeadliner,
				VenueID:   "towerbar",
				SourceURL: sourceURL,
			})
			if len(openers) > 0 {
				rows = append(rows, show.RawRow{
					Date:      date,
					Time:      startTime,
					Artists:   openers,
					Role:      show.RoleOpener,
					VenueID:   "towerbar",
					SourceURL: sourceURL,
				})
			}
		}
	})

	return rows, nil
}

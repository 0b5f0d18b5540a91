package venue

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/electric-relaxation/concert-playlist/internal/show"
	"github.com/electric-relaxation/concert-playlist/internal/textutil"
)

// SodaBarParser reads the Soda Bar calendar: <article class="event-card">
// blocks with month-name dates ("September 14th"), a linked headliner, a
// comma-separated support line, and a "Doors: ... | Show: ..." strip.
type SodaBarParser struct{}

// Parse extracts raw rows from the Soda Bar calendar HTML.
func (p *SodaBarParser) Parse(html, sourceURL string, ref time.Time) ([]show.RawRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var rows []show.RawRow

	doc.Find("article.event-card").Each(func(_ int, sel *goquery.Selection) {
		date := textutil.ParseDateISO(sel.Find(".event-card__date").Text(), ref)
		if date == "" {
			return
		}

		title := sel.Find(".event-card__headliner a").First()
		headliner := textutil.NormalizeWhitespace(title.Text())
		if headliner == "" {
			// Some cards are private-party placeholders with no billing.
			return
		}

		showURL := ""
		if href, ok := title.Attr("href"); ok && href != "" {
			showURL = textutil.ResolveURL(href, sourceURL)
		}

		startTime := textutil.ParseShowTime(sel.Find(".event-card__times").Text())

		rows = append(rows, show.RawRow{
			Date:      date,
			Time:      startTime,
			Artists:   []string{headliner},
			Role:      show.RoleHeadliner,
			VenueID:   "sodabar",
			ShowURL:   showURL,
			SourceURL: sourceURL,
		})

		openers := textutil.SplitOpeners(sel.Find(".event-card__support").Text())
		if len(openers) > 0 {
			rows = append(rows, show.RawRow{
				Date:      date,
				Time:      startTime,
				Artists:   openers,
				Role:      show.RoleOpener,
				VenueID:   "sodabar",
				ShowURL:   showURL,
				SourceURL: sourceURL,
			})
		}
	})

	return rows, nil
}

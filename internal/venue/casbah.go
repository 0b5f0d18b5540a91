package venue

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/electric-relaxation/concert-playlist/internal/show"
	"github.com/electric-relaxation/concert-playlist/internal/textutil"
)

// CasbahParser reads the Casbah event calendar: one .event-row block per
// show with a dot-notation date cell, a linked title, an optional "with ..."
// support strip, and a doors/show time line.
type CasbahParser struct{}

// Parse extracts raw rows from the Casbah calendar HTML.
func (p *CasbahParser) Parse(html, sourceURL string, ref time.Time) ([]show.RawRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var rows []show.RawRow

	doc.Find(".event-row").Each(func(_ int, sel *goquery.Selection) {
		date := textutil.ParseDateISO(sel.Find(".event-date").Text(), ref)
		if date == "" {
			return
		}

		title := sel.Find(".event-title a").First()
		headliner := textutil.NormalizeWhitespace(title.Text())
		if headliner == "" {
			return
		}

		showURL := ""
		if href, ok := title.Attr("href"); ok && href != "" {
			showURL = textutil.ResolveURL(href, sourceURL)
		}

		// The time strip reads like "Doors 8:30PM / Show 9PM"; the show
		// label wins inside ParseShowTime.
		startTime := textutil.ParseShowTime(sel.Find(".event-time").Text())

		rows = append(rows, show.RawRow{
			Date:      date,
			Time:      startTime,
			Artists:   []string{headliner},
			Role:      show.RoleHeadliner,
			VenueID:   "casbah",
			ShowURL:   showURL,
			SourceURL: sourceURL,
		})

		openers := textutil.SplitOpeners(sel.Find(".event-support").Text())
		if len(openers) > 0 {
			rows = append(rows, show.RawRow{
				Date:      date,
				Time:      startTime,
				Artists:   openers,
				Role:      show.RoleOpener,
				VenueID:   "casbah",
				ShowURL:   showURL,
				SourceURL: sourceURL,
			})
		}
	})

	return rows, nil
}

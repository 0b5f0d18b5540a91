// Package textutil provides pure text-extraction helpers shared by the venue
// parsers: whitespace normalization, free-text date and show-time parsing,
// opener-list splitting, URL resolution, and calendar-date range checks.
//
// Everything in this package is a pure function of its inputs. Date parsing
// takes an explicit reference date for year inference so callers (and tests)
// control "now".
package textutil

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeWhitespace collapses runs of whitespace to a single space and
// trims leading/trailing whitespace. Idempotent.
func NormalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// Date notation families tried in order by ParseDateISO.
var (
	dotDate   = regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\b`)
	slashDate = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?\b`)
	wordDate  = regexp.MustCompile(`(?i)\b(jan|january|feb|february|mar|march|apr|april|may|jun|june|jul|july|aug|august|sep|sept|september|oct|october|nov|november|dec|december)\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?\b`)
)

var monthsByName = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// ParseDateISO extracts the first recognizable calendar date from free text
// and returns it as "2006-01-02". Three notation families are tried in order:
// "M.D" dot notation, "M/D" slash notation (with optional 2- or 4-digit
// year), and month-name notation ("September 14th", "Sep 14, 2026"). Returns
// "" when no family matches.
//
// When the text carries no explicit year, the year is inferred against ref:
// dates that would land more than a month in the past roll forward a year
// (pages listing into next January), and dates that would land nearly a full
// year ahead roll back one (just-passed shows still on the page).
func ParseDateISO(text string, ref time.Time) string {
	text = NormalizeWhitespace(text)
	if text == "" {
		return ""
	}

	if m := dotDate.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		if validMonthDay(month, day) {
			return isoDate(inferYear(month, day, ref), month, day)
		}
	}

	if m := slashDate.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		if validMonthDay(month, day) {
			if m[3] != "" {
				year, _ := strconv.Atoi(m[3])
				if year < 100 {
					year += 2000
				}
				return isoDate(year, month, day)
			}
			return isoDate(inferYear(month, day, ref), month, day)
		}
	}

	if m := wordDate.FindStringSubmatch(text); m != nil {
		month := int(monthsByName[strings.ToLower(m[1])])
		day, _ := strconv.Atoi(m[2])
		if validMonthDay(month, day) {
			if m[3] != "" {
				year, _ := strconv.Atoi(m[3])
				return isoDate(year, month, day)
			}
			return isoDate(inferYear(month, day, ref), month, day)
		}
	}

	return ""
}

// inferYear picks a year for a bare month/day against the reference date.
// Venue calendars list roughly a year of upcoming shows plus a short tail of
// just-passed ones, so a candidate more than ~31 days before ref belongs to
// next year, and one that would land more than ~11 months ahead is really a
// recent past date from the previous year.
func inferYear(month, day int, ref time.Time) int {
	year := ref.Year()
	candidate := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	refDay := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)

	if candidate.Before(refDay.AddDate(0, 0, -31)) {
		return year + 1
	}
	if candidate.After(refDay.AddDate(0, 0, 365-31)) {
		return year - 1
	}
	return year
}

func validMonthDay(month, day int) bool {
	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}

func isoDate(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

var (
	labeledTime = regexp.MustCompile(`(?i)show\s*:?\s*(\d{1,2})(?::(\d{2}))?\s*(am|pm)`)
	bareTime    = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)`)
)

// ParseShowTime extracts a 12-hour clock time from free text and returns it
// as 24-hour "HH:MM", or "" when no time is present. A time carrying an
// explicit "show:" label wins over an earlier bare time, so strips like
// "Doors 7pm / Show 8pm" resolve to the show time.
func ParseShowTime(text string) string {
	m := labeledTime.FindStringSubmatch(text)
	if m == nil {
		m = bareTime.FindStringSubmatch(text)
	}
	if m == nil {
		return ""
	}

	hour, _ := strconv.Atoi(m[1])
	if hour < 1 || hour > 12 {
		return ""
	}
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
		if minute > 59 {
			return ""
		}
	}

	if strings.EqualFold(m[3], "pm") {
		if hour != 12 {
			hour += 12
		}
	} else if hour == 12 {
		hour = 0
	}

	return fmt.Sprintf("%02d:%02d", hour, minute)
}

var openerPlaceholders = map[string]bool{
	"tba":         true,
	"support tba": true,
	"more tba":    true,
}

var withPrefix = regexp.MustCompile(`(?i)^(with|w/)\s*`)

// SplitOpeners splits a support-act strip like "with Band A, Band B, TBA"
// into individual names. A leading "with"/"w/" connector is stripped,
// placeholder tokens ("TBA", "support TBA", "more TBA") and empty results
// are dropped.
func SplitOpeners(text string) []string {
	text = withPrefix.ReplaceAllString(NormalizeWhitespace(text), "")

	var openers []string
	for _, part := range strings.Split(text, ",") {
		name := NormalizeWhitespace(part)
		if name == "" || openerPlaceholders[strings.ToLower(name)] {
			continue
		}
		openers = append(openers, name)
	}
	return openers
}

// ResolveURL resolves a possibly-relative href against a base URL. When the
// href is empty or unparsable, the base itself is returned.
func ResolveURL(href, baseURL string) string {
	if href == "" {
		return baseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	ref, err := url.Parse(href)
	if err != nil {
		return baseURL
	}
	return base.ResolveReference(ref).String()
}

// IsWithinRange reports whether startISO <= dateISO <= endISO, comparing
// calendar dates only. ISO dates ("2006-01-02") compare correctly as
// strings, which keeps this a pure lexical check.
func IsWithinRange(dateISO, startISO, endISO string) bool {
	return dateISO >= startISO && dateISO <= endISO
}

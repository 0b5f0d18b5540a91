// Package calendar renders the merged show feed as an iCalendar (.ics)
// document so the output can be subscribed to from a calendar app.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/electric-relaxation/concert-playlist/internal/show"
)

// defaultStartHour is used when a show has no listed start time; club shows
// around here rarely start before 8.
const defaultStartHour = 20

// GenerateICS renders shows as one VCALENDAR with a VEVENT per show. The
// caller provides now for the DTSTAMP so output is reproducible in tests.
func GenerateICS(shows []show.Show, now time.Time) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//concert-playlist//showsync//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")

	for i := range shows {
		writeEvent(&ics, &shows[i], now)
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

func writeEvent(ics *strings.Builder, s *show.Show, now time.Time) {
	ics.WriteString("BEGIN:VEVENT\r\n")

	// Show IDs are only unique within a venue, so the UID carries both.
	fmt.Fprintf(ics, "UID:%s-%s@concert-playlist\r\n", s.VenueID, s.ID)
	fmt.Fprintf(ics, "DTSTAMP:%s\r\n", formatICSTime(now.UTC()))

	start := eventStart(s)
	end := start.Add(3 * time.Hour)
	fmt.Fprintf(ics, "DTSTART:%s\r\n", formatICSTime(start))
	fmt.Fprintf(ics, "DTEND:%s\r\n", formatICSTime(end))

	summary := strings.Join(s.Headliners, " + ")
	fmt.Fprintf(ics, "SUMMARY:%s\r\n", escapeICS(summary))

	var desc strings.Builder
	if len(s.Openers) > 0 {
		desc.WriteString("With " + strings.Join(s.Openers, ", "))
	}
	if s.ShowURL != "" {
		if desc.Len() > 0 {
			desc.WriteString("\n")
		}
		desc.WriteString(s.ShowURL)
	}
	if desc.Len() > 0 {
		fmt.Fprintf(ics, "DESCRIPTION:%s\r\n", escapeICS(desc.String()))
	}

	fmt.Fprintf(ics, "LOCATION:%s\r\n", escapeICS(s.VenueName))
	if s.ShowURL != "" {
		fmt.Fprintf(ics, "URL:%s\r\n", s.ShowURL)
	}
	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

// eventStart combines a show's date and start time. Shows without a listed
// time default to 8 PM.
func eventStart(s *show.Show) time.Time {
	day, err := time.Parse("2006-01-02", s.DateISO)
	if err != nil {
		return time.Time{}
	}

	hour, minute := defaultStartHour, 0
	if s.StartTime != "" {
		if t, err := time.Parse("3:04 PM", s.StartTime); err == nil {
			hour, minute = t.Hour(), t.Minute()
		}
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters according to RFC 5545
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

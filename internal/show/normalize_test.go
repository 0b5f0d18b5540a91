package show

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var testVenue = VenueInfo{
	ID:          "casbah",
	Name:        "The Casbah",
	CalendarURL: "https://casbahmusic.example/calendar/",
}

func TestNormalizeGroupsByURL(t *testing.T) {
	rows := []RawRow{
		{
			Date: "2026-03-14", Time: "21:00",
			Artists: []string{"Pinback"}, Role: RoleHeadliner,
			VenueID: "casbah", ShowURL: "https://casbahmusic.example/event/101",
			SourceURL: testVenue.CalendarURL,
		},
		{
			Date:    "2026-03-14",
			Artists: []string{"Opener B", "Opener A"}, Role: RoleOpener,
			VenueID: "casbah", ShowURL: "https://casbahmusic.example/event/101",
			SourceURL: testVenue.CalendarURL,
		},
	}

	shows := Normalize(rows, testVenue)

	if len(shows) != 1 {
		t.Fatalf("expected 1 show, got %d", len(shows))
	}

	s := shows[0]
	if s.DateISO != "2026-03-14" {
		t.Errorf("date = %q, want 2026-03-14", s.DateISO)
	}
	if s.StartTime != "9:00 PM" {
		t.Errorf("start time = %q, want \"9:00 PM\"", s.StartTime)
	}
	if diff := cmp.Diff([]string{"Pinback"}, s.Headliners); diff != "" {
		t.Errorf("headliners mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Opener A", "Opener B"}, s.Openers); diff != "" {
		t.Errorf("openers should be sorted (-want +got):\n%s", diff)
	}
	if s.VenueName != "The Casbah" {
		t.Errorf("venue name = %q, want \"The Casbah\"", s.VenueName)
	}
}

func TestNormalizeOrderIndependence(t *testing.T) {
	rows := []RawRow{
		{Date: "2026-03-14", Time: "21:00", Artists: []string{"Pinback"}, Role: RoleHeadliner, VenueID: "casbah", ShowURL: "https://casbahmusic.example/event/101", SourceURL: testVenue.CalendarURL},
		{Date: "2026-03-14", Artists: []string{"Opener A"}, Role: RoleOpener, VenueID: "casbah", ShowURL: "https://casbahmusic.example/event/101", SourceURL: testVenue.CalendarURL},
		{Date: "2026-03-20", Time: "20:00", Artists: []string{"The Album Leaf"}, Role: RoleHeadliner, VenueID: "casbah", SourceURL: testVenue.CalendarURL},
		{Date: "2026-03-20", Artists: []string{"Tristeza"}, Role: RoleOpener, VenueID: "casbah", SourceURL: testVenue.CalendarURL},
	}

	forward := Normalize(rows, testVenue)

	reversed := make([]RawRow, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		reversed = append(reversed, rows[i])
	}
	backward := Normalize(reversed, testVenue)

	if diff := cmp.Diff(forward, backward); diff != "" {
		t.Errorf("normalized output depends on row order (-forward +backward):\n%s", diff)
	}

	// Running again over the same rows must reproduce the exact batch.
	again := Normalize(rows, testVenue)
	if diff := cmp.Diff(forward, again); diff != "" {
		t.Errorf("normalization is not idempotent (-first +second):\n%s", diff)
	}
}

func TestNormalizeOrphanOpenerAttaches(t *testing.T) {
	rows := []RawRow{
		{Date: "2026-04-01", Time: "20:00", Artists: []string{"Hot Snakes"}, Role: RoleHeadliner, VenueID: "casbah", SourceURL: testVenue.CalendarURL},
		{Date: "2026-04-01", Artists: []string{"Deaf Club"}, Role: RoleOpener, VenueID: "casbah", SourceURL: testVenue.CalendarURL},
	}

	shows := Normalize(rows, testVenue)

	if len(shows) != 1 {
		t.Fatalf("expected opener to join the same-date show, got %d shows", len(shows))
	}
	if diff := cmp.Diff([]string{"Deaf Club"}, shows[0].Openers); diff != "" {
		t.Errorf("openers mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeOrphanOpenerStandsAlone(t *testing.T) {
	// No same-date URL-less show exists; the opener row becomes its own
	// record with the support acts promoted to the bill.
	rows := []RawRow{
		{Date: "2026-04-02", Artists: []string{"Systems Officer"}, Role: RoleOpener, VenueID: "casbah", SourceURL: testVenue.CalendarURL},
	}

	shows := Normalize(rows, testVenue)

	if len(shows) != 1 {
		t.Fatalf("expected orphaned opener to produce a show, got %d", len(shows))
	}
	if diff := cmp.Diff([]string{"Systems Officer"}, shows[0].Headliners); diff != "" {
		t.Errorf("headliners mismatch (-want +got):\n%s", diff)
	}
	if len(shows[0].Openers) != 0 {
		t.Errorf("expected no openers, got %v", shows[0].Openers)
	}
}

func TestNormalizeDeduplicatesHeadliners(t *testing.T) {
	// The same headliner row scraped twice (say, once from the calendar grid
	// and once from a featured strip) collapses to one show.
	rows := []RawRow{
		{Date: "2026-05-01", Time: "20:00", Artists: []string{"Drive Like Jehu"}, Role: RoleHeadliner, VenueID: "casbah", SourceURL: testVenue.CalendarURL},
		{Date: "2026-05-01", Time: "20:00", Artists: []string{"Drive Like Jehu"}, Role: RoleHeadliner, VenueID: "casbah", SourceURL: testVenue.CalendarURL},
	}

	shows := Normalize(rows, testVenue)

	if len(shows) != 1 {
		t.Fatalf("expected duplicate rows to collapse, got %d shows", len(shows))
	}
	if diff := cmp.Diff([]string{"Drive Like Jehu"}, shows[0].Headliners); diff != "" {
		t.Errorf("headliners mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeSortsBatch(t *testing.T) {
	rows := []RawRow{
		{Date: "2026-06-02", Artists: []string{"Late Show"}, Role: RoleHeadliner, VenueID: "casbah", SourceURL: testVenue.CalendarURL},
		{Date: "2026-06-01", Time: "22:00", Artists: []string{"Night Cap"}, Role: RoleHeadliner, VenueID: "casbah", SourceURL: testVenue.CalendarURL},
		{Date: "2026-06-01", Time: "19:00", Artists: []string{"Early Bird"}, Role: RoleHeadliner, VenueID: "casbah", SourceURL: testVenue.CalendarURL},
		{Date: "2026-06-01", Artists: []string{"No Time Listed"}, Role: RoleHeadliner, VenueID: "casbah", SourceURL: testVenue.CalendarURL},
	}

	shows := Normalize(rows, testVenue)

	var got []string
	for _, s := range shows {
		got = append(got, s.Headliners[0])
	}
	want := []string{"Early Bird", "Night Cap", "No Time Listed", "Late Show"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("batch order mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeSkipsRowsWithoutDate(t *testing.T) {
	rows := []RawRow{
		{Date: "", Artists: []string{"Undated"}, Role: RoleHeadliner, VenueID: "casbah", SourceURL: testVenue.CalendarURL},
		{Date: "2026-07-01", Artists: []string{"Dated"}, Role: RoleHeadliner, VenueID: "casbah", SourceURL: testVenue.CalendarURL},
	}

	shows := Normalize(rows, testVenue)

	if len(shows) != 1 || shows[0].Headliners[0] != "Dated" {
		t.Fatalf("expected only the dated row to survive, got %+v", shows)
	}
}

func TestContentIDStableUnderReordering(t *testing.T) {
	a := ContentID("casbah", "2026-03-14", "https://casbahmusic.example/event/101", []string{"Band A", "Band B"})
	b := ContentID("casbah", "2026-03-14", "https://casbahmusic.example/event/101", []string{"Band A", "Band B"})

	if a != b {
		t.Errorf("ContentID not deterministic: %q vs %q", a, b)
	}
	if len(a) != 8 {
		t.Errorf("ContentID length = %d, want 8 hex digits (%q)", len(a), a)
	}

	other := ContentID("casbah", "2026-03-14", "https://casbahmusic.example/event/102", []string{"Band A", "Band B"})
	if a == other {
		t.Error("different URLs should produce different IDs")
	}
}

func TestFormatStartTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Evening", input: "21:00", want: "9:00 PM"},
		{name: "With minutes", input: "19:30", want: "7:30 PM"},
		{name: "Morning", input: "11:00", want: "11:00 AM"},
		{name: "Midnight", input: "00:00", want: "12:00 AM"},
		{name: "Unknown", input: "", want: ""},
		{name: "Malformed", input: "25:99", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatStartTime(tt.input); got != tt.want {
				t.Errorf("FormatStartTime(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/electric-relaxation/concert-playlist/internal/pipeline"
	"github.com/electric-relaxation/concert-playlist/internal/show"
)

func TestResolveWindow(t *testing.T) {
	ref := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		from, to string
		wantFrom string
		wantTo   string
		wantErr  bool
	}{
		{name: "Defaults", from: "", to: "", wantFrom: "2026-09-01", wantTo: "2026-11-30"},
		{name: "Explicit range", from: "2026-10-01", to: "2026-10-31", wantFrom: "2026-10-01", wantTo: "2026-10-31"},
		{name: "From only", from: "2026-10-01", to: "", wantFrom: "2026-10-01", wantTo: "2026-11-30"},
		{name: "Inverted range", from: "2026-10-01", to: "2026-09-01", wantErr: true},
		{name: "Garbage from", from: "October 1st", to: "", wantErr: true},
		{name: "Garbage to", from: "", to: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := resolveWindow(tt.from, tt.to, ref)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if from != tt.wantFrom || to != tt.wantTo {
				t.Errorf("resolveWindow = (%s, %s), want (%s, %s)", from, to, tt.wantFrom, tt.wantTo)
			}
		})
	}
}

func TestResolveVenues(t *testing.T) {
	all, err := resolveVenues("all")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) == 0 {
		t.Fatal("expected registry venues for 'all'")
	}

	one, err := resolveVenues("casbah")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(one) != 1 || one[0].ID != "casbah" {
		t.Errorf("resolveVenues(casbah) = %+v", one)
	}

	if _, err := resolveVenues("madison-square-garden"); err == nil {
		t.Error("expected error for unknown venue")
	}
}

func TestWriteTextOutput(t *testing.T) {
	result := &OutputResult{
		CheckedAt: time.Now().UTC(),
		Results: []pipeline.Result{
			{
				VenueID:     "casbah",
				VenueName:   "The Casbah",
				ShowCount:   12,
				ForwardDiff: show.Summary{Added: 2, Updated: 1},
				Written:     true,
			},
			{
				VenueID:    "sodabar",
				Err:        errFake,
				ErrMessage: errFake.Error(),
			},
		},
		Failed: 1,
	}

	var buf bytes.Buffer
	if err := WriteOutput(&buf, result, FormatText, false); err != nil {
		t.Fatalf("WriteOutput failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"casbah: 12 shows, +2 ~1 -0 (written)",
		"sodabar: FAILED",
		"1 venue(s) failed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q in:\n%s", want, out)
		}
	}
}

var errFake = &fakeError{}

type fakeError struct{}

func (*fakeError) Error() string { return "connection refused" }

func TestFilterShows(t *testing.T) {
	shows := []show.Show{
		{VenueID: "casbah", DateISO: "2026-09-12", Headliners: []string{"A"}},
		{VenueID: "sodabar", DateISO: "2026-09-14", Headliners: []string{"B"}},
		{VenueID: "casbah", DateISO: "2026-10-01", Headliners: []string{"C"}},
	}

	t.Run("By venue", func(t *testing.T) {
		got := filterShows(shows, "casbah", "", "")
		if len(got) != 2 {
			t.Errorf("expected 2 casbah shows, got %d", len(got))
		}
	})

	t.Run("By range", func(t *testing.T) {
		got := filterShows(shows, "", "2026-09-13", "2026-09-30")
		if len(got) != 1 || got[0].Headliners[0] != "B" {
			t.Errorf("unexpected shows: %+v", got)
		}
	})

	t.Run("No filters", func(t *testing.T) {
		got := filterShows(shows, "", "", "")
		if len(got) != 3 {
			t.Errorf("expected passthrough, got %d", len(got))
		}
	})
}

func TestJoinBilling(t *testing.T) {
	s := show.Show{
		Headliners: []string{"Pinback", "Three Mile Pilot"},
		Openers:    []string{"Systems Officer", "Tristeza"},
	}

	got := joinBilling(s)
	want := "Pinback + Three Mile Pilot with Systems Officer, Tristeza"
	if got != want {
		t.Errorf("joinBilling = %q, want %q", got, want)
	}
}

package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/electric-relaxation/concert-playlist/internal/show"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	return s
}

func sampleBatch() *show.Batch {
	return &show.Batch{
		Venue: show.VenueInfo{
			ID:          "casbah",
			Name:        "The Casbah",
			CalendarURL: "https://casbahmusic.com/event-calendar/",
		},
		GeneratedAt: "2026-09-01T12:00:00Z",
		Shows: []show.Show{
			{
				ID:         "deadbeef",
				DateISO:    "2026-09-12",
				StartTime:  "9:00 PM",
				VenueID:    "casbah",
				VenueName:  "The Casbah",
				ShowURL:    "https://casbahmusic.com/event/pinback-0912",
				SourceURL:  "https://casbahmusic.com/event-calendar/",
				Headliners: []string{"Pinback"},
				Openers:    []string{"Systems Officer"},
			},
		},
	}
}

func TestSaveAndLoadBatch(t *testing.T) {
	s := newTestStorage(t)
	batch := sampleBatch()

	if s.HasBatch("casbah") {
		t.Fatal("batch should not exist before save")
	}

	if err := s.SaveBatch(batch); err != nil {
		t.Fatalf("SaveBatch failed: %v", err)
	}
	if !s.HasBatch("casbah") {
		t.Fatal("batch should exist after save")
	}

	loaded := s.LoadBatch("casbah")
	if diff := cmp.Diff(batch, loaded); diff != "" {
		t.Errorf("round trip mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestLoadBatchMissing(t *testing.T) {
	s := newTestStorage(t)

	batch := s.LoadBatch("nosuch")
	if batch == nil {
		t.Fatal("missing batch must load as empty, not nil")
	}
	if len(batch.Shows) != 0 {
		t.Errorf("expected empty shows, got %d", len(batch.Shows))
	}
}

func TestLoadBatchMalformed(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	// A truncated or corrupt file is treated as no previous batch.
	path := filepath.Join(dir, "shows_casbah.json")
	if err := os.WriteFile(path, []byte("{\"venue\": {"), 0644); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}

	batch := s.LoadBatch("casbah")
	if len(batch.Shows) != 0 {
		t.Errorf("corrupt batch should load as empty, got %d shows", len(batch.Shows))
	}
}

func TestWriteIndexAndMerged(t *testing.T) {
	s := newTestStorage(t)
	batch := sampleBatch()

	idx := &Index{
		Venues: []IndexEntry{
			{Venue: batch.Venue, ShowCount: 1, GeneratedAt: batch.GeneratedAt},
		},
	}
	if err := s.WriteIndex(idx); err != nil {
		t.Fatalf("WriteIndex failed: %v", err)
	}

	merged := &Merged{GeneratedAt: batch.GeneratedAt, Shows: batch.Shows}
	if err := s.WriteMerged(merged); err != nil {
		t.Fatalf("WriteMerged failed: %v", err)
	}

	loaded := s.LoadMerged()
	if diff := cmp.Diff(merged, loaded); diff != "" {
		t.Errorf("merged round trip mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestSaveBatchLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	if err := s.SaveBatch(sampleBatch()); err != nil {
		t.Fatalf("SaveBatch failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading data dir: %v", err)
	}
	for _, e := range entries {
		if e.Name() != "shows_casbah.json" {
			t.Errorf("unexpected file left behind: %s", e.Name())
		}
	}
}

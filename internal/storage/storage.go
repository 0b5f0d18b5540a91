// Package storage provides JSON-based persistence for venue batches.
//
// Each venue gets one document (shows_<venueID>.json) holding its metadata
// and normalized shows. Alongside those live index.json, aggregating venue
// metadata and counts, and all_shows.json, the merged cross-venue feed.
// Writing goes through a temp file and rename so a batch is either persisted
// in full or not at all.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/electric-relaxation/concert-playlist/internal/show"
)

// Storage handles persistence of venue batches.
type Storage struct {
	dataDir string
}

// New creates a new Storage instance rooted at dataDir, creating the
// directory if needed. A leading ~ expands to the home directory.
func New(dataDir string) (*Storage, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{dataDir: dataDir}, nil
}

func (s *Storage) batchPath(venueID string) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("shows_%s.json", venueID))
}

// HasBatch reports whether a batch file exists for the venue.
func (s *Storage) HasBatch(venueID string) bool {
	_, err := os.Stat(s.batchPath(venueID))
	return err == nil
}

// LoadBatch loads a venue's persisted batch. A missing, unreadable, or
// unparsable file is treated as "no previous batch" and returns an empty
// batch, never an error: a corrupt file must not block a fresh scrape.
func (s *Storage) LoadBatch(venueID string) *show.Batch {
	empty := &show.Batch{Shows: []show.Show{}}

	data, err := os.ReadFile(s.batchPath(venueID))
	if err != nil {
		return empty
	}

	var batch show.Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return empty
	}
	if batch.Shows == nil {
		batch.Shows = []show.Show{}
	}
	return &batch
}

// SaveBatch writes a venue's batch atomically.
func (s *Storage) SaveBatch(batch *show.Batch) error {
	return s.writeJSON(s.batchPath(batch.Venue.ID), batch)
}

// IndexEntry is one venue's line in index.json.
type IndexEntry struct {
	Venue       show.VenueInfo `json:"venue"`
	ShowCount   int            `json:"show_count"`
	GeneratedAt string         `json:"generated_at"`
}

// Index aggregates venue metadata across all persisted batches.
type Index struct {
	Venues []IndexEntry `json:"venues"`
}

// WriteIndex writes index.json.
func (s *Storage) WriteIndex(idx *Index) error {
	return s.writeJSON(filepath.Join(s.dataDir, "index.json"), idx)
}

// Merged is the all-venues feed document.
type Merged struct {
	GeneratedAt string      `json:"generated_at"`
	Shows       []show.Show `json:"shows"`
}

// WriteMerged writes all_shows.json. Callers pass shows already in the
// merged feed order.
func (s *Storage) WriteMerged(m *Merged) error {
	return s.writeJSON(filepath.Join(s.dataDir, "all_shows.json"), m)
}

// LoadMerged loads the all-venues feed, or an empty one when absent.
func (s *Storage) LoadMerged() *Merged {
	empty := &Merged{Shows: []show.Show{}}

	data, err := os.ReadFile(filepath.Join(s.dataDir, "all_shows.json"))
	if err != nil {
		return empty
	}

	var m Merged
	if err := json.Unmarshal(data, &m); err != nil {
		return empty
	}
	if m.Shows == nil {
		m.Shows = []show.Show{}
	}
	return &m
}

// writeJSON marshals v and writes it through a temp file plus rename, so
// readers never observe a partially written document.
func (s *Storage) writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(s.dataDir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}

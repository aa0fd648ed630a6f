// Package activitylog persists the PDF processor's cumulative activity log.
//
// The log is a single JSON file holding every processed file across all runs
// plus a last-updated timestamp. Each entry is appended with a full
// read-modify-write so an interrupt never leaves a half-written entry behind
// previously recorded ones.
package activitylog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/satriahrh/convoport/internal/domain/pdfrun"
)

const FileName = "processing_activity.json"

// Store appends entries to the activity log in dir.
type Store struct {
	path string
}

func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, FileName)}
}

// Path implements pdfrun.Recorder.
func (s *Store) Path() string { return s.path }

// Load reads the current log. A missing file yields an empty log; a corrupt
// file is an error rather than silent truncation of prior runs.
func (s *Store) Load() (*pdfrun.Log, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &pdfrun.Log{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read activity log: %w", err)
	}
	var log pdfrun.Log
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("activity log %s is corrupt: %w", s.path, err)
	}
	return &log, nil
}

// Append implements pdfrun.Recorder, preserving entries from prior runs and
// stamping last_updated.
func (s *Store) Append(e pdfrun.Entry) error {
	log, err := s.Load()
	if err != nil {
		return err
	}
	log.ProcessedFiles = append(log.ProcessedFiles, e)
	log.LastUpdated = time.Now().UTC()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("encode activity log: %w", err)
	}
	// Write-then-rename so a kill mid-write never truncates prior entries.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write activity log: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace activity log: %w", err)
	}
	return nil
}

var _ pdfrun.Recorder = (*Store)(nil)

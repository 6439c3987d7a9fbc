// Package journal appends the dispatches of each run to a rotating JSONL file.
package journal

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config enables the journal when Path is set.
type Config struct {
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// Enabled reports whether a journal file is configured.
func (c Config) Enabled() bool { return c.Path != "" }

// SetDefaults applies rotation defaults.
func (c *Config) SetDefaults() {
	if c.MaxSizeMB == 0 {
		c.MaxSizeMB = 10
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = 3
	}
	if c.MaxAgeDays == 0 {
		c.MaxAgeDays = 28
	}
}

// Validate rejects negative rotation settings.
func (c Config) Validate() error {
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return errors.New("journal: rotation settings must not be negative")
	}
	return nil
}

// Record is one shipment leaving the depot.
type Record struct {
	RunID      string    `json:"run_id"`
	Timestamp  time.Time `json:"timestamp"`
	VehicleID  string    `json:"vehicle_id"`
	PackageIDs []string  `json:"package_ids"`
	Weight     float64   `json:"weight_kg"`
	DepartAt   float64   `json:"depart_at"`
	ReturnAt   float64   `json:"return_at"`
}

// Store writes records through a lumberjack logger.
type Store struct {
	mu   sync.Mutex
	out  *lumberjack.Logger
	path string
}

// New opens a journal at cfg.Path, creating its directory.
func New(cfg Config) (*Store, error) {
	if !cfg.Enabled() {
		return nil, errors.New("journal: path is required")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("journal: %w", err)
		}
	}
	lj := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
	return &Store{out: lj, path: cfg.Path}, nil
}

// Append writes recs, one JSON document per line.
func (s *Store) Append(ctx context.Context, recs ...Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	enc := json.NewEncoder(s.out)
	for _, r := range recs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("journal: %w", err)
		}
	}
	return nil
}

// Query returns the records of runID from the journal and its rotated
// backups, ordered by departure. An empty runID matches every run.
func (s *Store) Query(ctx context.Context, runID string) ([]Record, error) {
	files, err := filepath.Glob(s.path + "*")
	if err != nil {
		return nil, err
	}
	backups, err := filepath.Glob(backupPattern(s.path))
	if err != nil {
		return nil, err
	}
	files = append(files, backups...)

	seen := make(map[string]bool, len(files))
	var res []Record
	for _, f := range files {
		if seen[f] {
			continue
		}
		seen[f] = true
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		recs, err := readFile(f, runID)
		if errors.Is(err, fs.ErrNotExist) {
			// Rotated away between Glob and Open.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("journal: read %s: %w", f, err)
		}
		res = append(res, recs...)
	}
	sort.SliceStable(res, func(i, j int) bool {
		if !res[i].Timestamp.Equal(res[j].Timestamp) {
			return res[i].Timestamp.Before(res[j].Timestamp)
		}
		return res[i].DepartAt < res[j].DepartAt
	})
	return res, nil
}

// Close releases the journal file.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Close()
}

// lumberjack names backups <name>-<timestamp><ext> next to the journal.
func backupPattern(path string) string {
	ext := filepath.Ext(path)
	base := path[:len(path)-len(ext)]
	return base + "-*" + ext
}

func readFile(name, runID string) ([]Record, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var res []Record
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var r Record
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			continue
		}
		if runID != "" && r.RunID != runID {
			continue
		}
		res = append(res, r)
	}
	return res, sc.Err()
}

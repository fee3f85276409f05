package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gitlab.com/nevasik7/alerting/logger"

	"dexsentry/internal/domain"
)

// Flat-JSON snapshot store: one pretty-printed document per token key,
// fully overwritten on every save.
type Store struct {
	log logger.Logger
	dir string
}

func New(log logger.Logger, dir string) (*Store, error) {
	if dir == "" {
		dir = "data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot dir %s: %w", dir, err)
	}

	return &Store{log: log, dir: dir}, nil
}

// Load reads the persisted report for key. Any failure (missing file,
// unreadable JSON) degrades to "no prior data".
func (s *Store) Load(_ context.Context, key string) (*domain.Report, bool) {
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warnf("Failed to read snapshot %s, error=%v", key, err)
		}
		return nil, false
	}

	var report domain.Report
	if err = json.Unmarshal(b, &report); err != nil {
		s.log.Warnf("Failed to decode snapshot %s, error=%v", key, err)
		return nil, false
	}

	return &report, true
}

// Save overwrites the document for key with the given report.
func (s *Store) Save(_ context.Context, key string, report *domain.Report) error {
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %s: %w", key, err)
	}

	if err = os.WriteFile(s.path(key), b, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", key, err)
	}

	return nil
}

func (s *Store) Health(_ context.Context) error {
	_, err := os.Stat(s.dir)
	return err
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"gitlab.com/nevasik7/alerting/logger"

	"dexsentry/internal/domain"
)

// Redis-backed snapshot store, same degrade contract as the file
// backend: one value per token key, fully overwritten, never expiring.
// Prefix example "dexsentry:snapshot:"
type SnapshotStore struct {
	log    logger.Logger
	rdb    *Client
	prefix string
}

func NewSnapshotStore(log logger.Logger, rdb *Client, prefix string) (*SnapshotStore, error) {
	if rdb == nil {
		return nil, errors.New("redis client is required to the snapshot store")
	}
	if prefix == "" {
		prefix = "snapshot:"
	}

	return &SnapshotStore{log: log, rdb: rdb, prefix: prefix}, nil
}

func (s *SnapshotStore) Load(ctx context.Context, key string) (*domain.Report, bool) {
	b, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			s.log.Warnf("Failed to load snapshot %s from redis, error=%v", key, err)
		}
		return nil, false
	}

	var report domain.Report
	if err = json.Unmarshal(b, &report); err != nil {
		s.log.Warnf("Failed to decode snapshot %s from redis, error=%v", key, err)
		return nil, false
	}

	return &report, true
}

func (s *SnapshotStore) Save(ctx context.Context, key string, report *domain.Report) error {
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %s: %w", key, err)
	}

	if err = s.rdb.Set(ctx, s.prefix+key, b, 0).Err(); err != nil {
		return fmt.Errorf("failed to write snapshot %s to redis: %w", key, err)
	}

	return nil
}

func (s *SnapshotStore) Health(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

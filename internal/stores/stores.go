package stores

import (
	"context"

	"dexsentry/internal/domain"
)

// SnapshotStore persists the latest report per token key, last-write-wins.
// Load never fails: a missing or unreadable document reads as "no prior
// data". Save errors are returned so callers can log them, but an
// invocation never aborts on a persistence failure.
type SnapshotStore interface {
	Load(ctx context.Context, key string) (*domain.Report, bool)
	Save(ctx context.Context, key string, report *domain.Report) error
	Health(ctx context.Context) error
}

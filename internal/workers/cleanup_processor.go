// internal/workers/cleanup_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	redis_a "github.com/retailtools/item-inspector/internal/adapters/redis_adapter"
	"github.com/retailtools/item-inspector/internal/core/ports"
)

// CleanupProcessor drops lookup caches so stale snapshots and re-assigned
// barcodes cannot outlive master-data changes.
type CleanupProcessor struct {
	cache  ports.CacheRepository
	logger *slog.Logger
}

// NewCleanupProcessor creates a new cleanup processor
func NewCleanupProcessor(cache ports.CacheRepository, logger *slog.Logger) *CleanupProcessor {
	return &CleanupProcessor{
		cache:  cache,
		logger: logger.With(slog.String("processor", "cleanup")),
	}
}

// CleanupCaches flushes the snapshot and barcode-resolution key spaces.
func (p *CleanupProcessor) CleanupCaches(ctx context.Context, t *asynq.Task) error {
	p.logger.InfoContext(ctx, "cleaning up lookup caches")

	for _, prefix := range []redis_a.CacheKeyPrefix{redis_a.PrefixSnapshot, redis_a.PrefixResolution} {
		pattern := redis_a.BuildKey(prefix, "*")
		if err := p.cache.DeletePattern(ctx, pattern); err != nil {
			return fmt.Errorf("failed to delete %s keys: %w", prefix, err)
		}
	}

	p.logger.InfoContext(ctx, "lookup caches cleaned up")
	return nil
}

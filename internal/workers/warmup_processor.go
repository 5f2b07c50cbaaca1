// internal/workers/warmup_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	redis_a "github.com/retailtools/item-inspector/internal/adapters/redis_adapter"
	"github.com/retailtools/item-inspector/internal/core/ports"
)

const (
	defaultWarmupLimit  = 25
	warmupSalesWindow   = 30 * 24 * time.Hour
	warmupSnapshotTTL   = 15 * time.Minute
	warmupResolutionTTL = 30 * time.Minute
)

// WarmupProcessor pre-populates the snapshot cache so the first lookup of
// a busy item hits warm data.
type WarmupProcessor struct {
	service ports.SnapshotService
	repo    ports.SnapshotRepository
	cache   ports.CacheRepository
	logger  *slog.Logger
}

// NewWarmupProcessor creates a new warmup processor
func NewWarmupProcessor(service ports.SnapshotService, repo ports.SnapshotRepository, cache ports.CacheRepository, logger *slog.Logger) *WarmupProcessor {
	return &WarmupProcessor{
		service: service,
		repo:    repo,
		cache:   cache,
		logger:  logger.With(slog.String("processor", "warmup")),
	}
}

// WarmSnapshots recomposes and caches snapshots for the selected items.
// Individual item failures are collected, not fatal: one unreadable item
// must not starve the rest of the warm set.
func (p *WarmupProcessor) WarmSnapshots(ctx context.Context, t *asynq.Task) error {
	var payload WarmupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	itemCodes := payload.ItemCodes
	if len(itemCodes) == 0 {
		limit := payload.Limit
		if limit <= 0 {
			limit = defaultWarmupLimit
		}
		since := time.Now().Add(-warmupSalesWindow)
		codes, err := p.repo.GetTopSellingItems(ctx, since, limit)
		if err != nil {
			return fmt.Errorf("failed to list top selling items: %w", err)
		}
		itemCodes = codes
	}

	p.logger.InfoContext(ctx, "warming snapshot cache",
		slog.Int("item_count", len(itemCodes)))

	result := WarmupResult{}
	for _, itemCode := range itemCodes {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		snap, err := p.service.GetSnapshot(ctx, itemCode)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", itemCode, err))
			continue
		}

		key := redis_a.BuildKey(redis_a.PrefixSnapshot, itemCode)
		if err := p.cache.SetWithTTL(ctx, key, snap, warmupSnapshotTTL); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: cache: %v", itemCode, err))
			continue
		}
		result.ItemsWarmed++
	}

	p.logger.InfoContext(ctx, "snapshot warmup completed",
		slog.Int("items_warmed", result.ItemsWarmed),
		slog.Int("errors", len(result.Errors)))

	if w := t.ResultWriter(); w != nil {
		if data, err := json.Marshal(result); err == nil {
			if _, err := w.Write(data); err != nil {
				p.logger.WarnContext(ctx, "failed to record warmup result",
					slog.String("error", err.Error()))
			}
		}
	}
	return nil
}

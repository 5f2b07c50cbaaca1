// internal/workers/tasks.go
package workers

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	TypeSnapshotWarmup = "snapshot:warmup"
	TypeCacheCleanup   = "cache:cleanup"
)

// WarmupPayload selects which items to warm. An explicit list wins;
// otherwise the top Limit sellers of the trailing window are warmed.
type WarmupPayload struct {
	ItemCodes []string `json:"item_codes,omitempty"`
	Limit     int      `json:"limit,omitempty"`
}

// WarmupResult summarizes one warmup run.
type WarmupResult struct {
	ItemsWarmed int      `json:"items_warmed"`
	Errors      []string `json:"errors,omitempty"`
}

// NewSnapshotWarmupTask creates a warmup task.
func NewSnapshotWarmupTask(payload WarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal warmup payload: %w", err)
	}
	return asynq.NewTask(TypeSnapshotWarmup, data), nil
}

// NewCacheCleanupTask creates a cache cleanup task.
func NewCacheCleanupTask() *asynq.Task {
	return asynq.NewTask(TypeCacheCleanup, nil)
}

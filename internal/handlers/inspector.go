// internal/handlers/inspector.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	redis_a "github.com/retailtools/item-inspector/internal/adapters/redis_adapter"
	"github.com/retailtools/item-inspector/internal/core/domain"
	"github.com/retailtools/item-inspector/internal/core/ports"
	"github.com/retailtools/item-inspector/internal/core/services"
	"github.com/retailtools/item-inspector/internal/workers"
)

// Cache lifetimes for lookup responses.
const (
	snapshotCacheTTL   = 5 * time.Minute
	resolutionCacheTTL = 10 * time.Minute
)

// TaskEnqueuer is the slice of the asynq client used to schedule
// background work from request handlers.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// InspectorHandler serves the JSON lookup API.
type InspectorHandler struct {
	service ports.SnapshotService
	cache   ports.CacheRepository
	warmups TaskEnqueuer
	logger  *slog.Logger
}

// InspectorOption configures optional handler collaborators.
type InspectorOption func(*InspectorHandler)

// WithWarmupQueue makes cache-missed lookups schedule a background warmup
// so the entry is refilled off the request path when it expires.
func WithWarmupQueue(q TaskEnqueuer) InspectorOption {
	return func(h *InspectorHandler) { h.warmups = q }
}

// NewInspectorHandler creates a new inspector handler
func NewInspectorHandler(service ports.SnapshotService, cache ports.CacheRepository, logger *slog.Logger, opts ...InspectorOption) *InspectorHandler {
	h := &InspectorHandler{
		service: service,
		cache:   cache,
		logger:  logger.With(slog.String("handler", "inspector")),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// snapshotResponse is the API envelope: logical failures report ok=false
// with a message rather than an HTTP error.
type snapshotResponse struct {
	OK      bool             `json:"ok"`
	Data    *domain.Snapshot `json:"data,omitempty"`
	Message string           `json:"message,omitempty"`
}

// GetSnapshot handles GET /api/v1/items/{item_code}/snapshot
func (h *InspectorHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	itemCode := strings.TrimSpace(r.PathValue("item_code"))
	if itemCode == "" {
		h.respondJSON(w, http.StatusBadRequest, snapshotResponse{Message: "item_code is required"})
		return
	}

	cacheKey := redis_a.BuildKey(redis_a.PrefixSnapshot, itemCode)
	var snap domain.Snapshot

	err := h.cache.GetOrSet(ctx, cacheKey, &snap, func() (interface{}, error) {
		s, err := h.service.GetSnapshot(ctx, itemCode)
		if err != nil {
			return nil, err
		}
		// The closure only runs on a cache miss, so this item is both
		// requested and cold: have the worker refill it at expiry.
		h.scheduleWarmup(ctx, itemCode)
		return s, nil
	}, snapshotCacheTTL)

	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			h.respondJSON(w, http.StatusNotFound, snapshotResponse{Message: "Item not found: " + itemCode})
			return
		}
		h.logger.ErrorContext(ctx, "failed to load snapshot",
			slog.String("item_code", itemCode),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to load item snapshot")
		return
	}

	h.respondJSON(w, http.StatusOK, snapshotResponse{OK: true, Data: &snap})
}

// ResolveBarcode handles GET /api/v1/barcode/resolve?barcode=...
func (h *InspectorHandler) ResolveBarcode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	barcode := strings.TrimSpace(r.URL.Query().Get("barcode"))

	cacheKey := redis_a.BuildKey(redis_a.PrefixResolution, barcode)
	var res domain.Resolution

	err := h.cache.GetOrSet(ctx, cacheKey, &res, func() (interface{}, error) {
		return h.service.ResolveBarcode(ctx, barcode)
	}, resolutionCacheTTL)

	if err != nil {
		h.logger.ErrorContext(ctx, "failed to resolve barcode",
			slog.String("barcode", barcode),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to resolve barcode")
		return
	}

	h.respondJSON(w, http.StatusOK, res)
}

// scheduleWarmup is best effort: a full queue or unreachable broker must
// never fail the lookup that triggered it.
func (h *InspectorHandler) scheduleWarmup(ctx context.Context, itemCode string) {
	if h.warmups == nil {
		return
	}
	task, err := workers.NewSnapshotWarmupTask(workers.WarmupPayload{ItemCodes: []string{itemCode}})
	if err != nil {
		h.logger.WarnContext(ctx, "failed to build warmup task", slog.String("error", err.Error()))
		return
	}
	_, err = h.warmups.EnqueueContext(ctx, task,
		asynq.ProcessIn(snapshotCacheTTL),
		asynq.Queue("low"))
	if err != nil {
		h.logger.WarnContext(ctx, "failed to enqueue warmup task",
			slog.String("item_code", itemCode),
			slog.String("error", err.Error()))
	}
}

func (h *InspectorHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

func (h *InspectorHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// internal/handlers/page.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/retailtools/item-inspector/internal/core/domain"
	"github.com/retailtools/item-inspector/internal/core/ports"
	"github.com/retailtools/item-inspector/internal/core/services"
	"github.com/retailtools/item-inspector/internal/render"
)

// PageHandler serves the server-rendered inspector pages.
type PageHandler struct {
	service   ports.SnapshotService
	engine    *render.Engine
	formatter *render.Formatter
	logger    *slog.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(service ports.SnapshotService, engine *render.Engine, formatter *render.Formatter, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		service:   service,
		engine:    engine,
		formatter: formatter,
		logger:    logger.With(slog.String("handler", "page")),
	}
}

// Inspector handles GET /inspector/{item_code}?price_list=...
func (h *PageHandler) Inspector(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.loadSnapshot(w, r)
	if !ok {
		return
	}

	view := h.formatter.Page(snap, r.URL.Query().Get("price_list"))
	h.render(w, r, "inspector.html", view.Header.Title, view)
}

// InspectorLight handles GET /inspector/{item_code}/light
func (h *PageHandler) InspectorLight(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.loadSnapshot(w, r)
	if !ok {
		return
	}

	view := h.formatter.LightPage(snap)
	h.render(w, r, "inspector_light.html", view.Header.Title, view)
}

// PriceSection handles GET /inspector/{item_code}/price-section?price_list=...
// It serves the price section alone so a selection switch can swap just
// that fragment.
func (h *PageHandler) PriceSection(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.loadSnapshot(w, r)
	if !ok {
		return
	}

	view := h.formatter.PriceSection(snap, r.URL.Query().Get("price_list"))
	h.render(w, r, "price_section.html", "Prices: "+snap.Item.ItemCode, view)
}

func (h *PageHandler) loadSnapshot(w http.ResponseWriter, r *http.Request) (*domain.Snapshot, bool) {
	ctx := r.Context()

	itemCode := strings.TrimSpace(r.PathValue("item_code"))
	if itemCode == "" {
		http.Error(w, "item code is required", http.StatusBadRequest)
		return nil, false
	}

	s, err := h.service.GetSnapshot(ctx, itemCode)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			http.Error(w, "Item not found: "+itemCode, http.StatusNotFound)
			return nil, false
		}
		h.logger.ErrorContext(ctx, "failed to load snapshot",
			slog.String("item_code", itemCode),
			slog.String("error", err.Error()))
		http.Error(w, "Failed to load item", http.StatusInternalServerError)
		return nil, false
	}
	return s, true
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	if err := h.engine.Render(w, name, render.TemplateData{Title: title, Data: data}); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render template",
			slog.String("template", name),
			slog.String("error", err.Error()))
	}
}

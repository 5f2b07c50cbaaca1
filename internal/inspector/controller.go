// internal/inspector/controller.go
package inspector

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/retailtools/item-inspector/internal/core/domain"
	"github.com/retailtools/item-inspector/internal/core/ports"
	"github.com/retailtools/item-inspector/internal/render"
)

// Sink receives the controller's output. Implementations push rendered
// views to whatever surface hosts the inspector (websocket, SSE, tests).
type Sink interface {
	RenderPage(view render.PageView)
	RenderPriceSection(view render.PriceSectionView)
	Notify(message string)
	PromptDisambiguation(matches []domain.BarcodeMatch)
}

// Controller drives one inspector session. Each session gets its own
// instance; sessions never share lookup state. Search input is debounced,
// scans fire immediately, and every fetch is generation-fenced so a stale
// response can never overwrite a newer one.
type Controller struct {
	service   ports.SnapshotService
	formatter *render.Formatter
	sink      Sink
	logger    *slog.Logger
	debouncer *Debouncer
	light     bool

	mu        sync.Mutex
	snap      *domain.Snapshot
	selected  string
	gen       uint64
	destroyed bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLight switches the controller to the reduced three-tile variant.
func WithLight() Option {
	return func(c *Controller) { c.light = true }
}

// WithSearchDelay overrides the search debounce delay.
func WithSearchDelay(d time.Duration) Option {
	return func(c *Controller) { c.debouncer = NewDebouncer(d) }
}

// NewController creates an inspector session.
func NewController(service ports.SnapshotService, formatter *render.Formatter, sink Sink, logger *slog.Logger, opts ...Option) *Controller {
	c := &Controller{
		service:   service,
		formatter: formatter,
		sink:      sink,
		logger:    logger.With(slog.String("component", "inspector")),
		debouncer: NewDebouncer(DefaultSearchDelay),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search schedules a lookup for the typed item code. Rapid keystrokes
// collapse to one fetch after the input settles.
func (c *Controller) Search(ctx context.Context, itemCode string) {
	c.debouncer.Trigger(func() {
		c.fetch(ctx, itemCode)
	})
}

// Scan resolves a barcode and fetches immediately, cancelling any pending
// debounced search. Ambiguous barcodes prompt for disambiguation; failures
// surface as notifications.
func (c *Controller) Scan(ctx context.Context, barcode string) {
	c.cancelPending()

	res, err := c.service.ResolveBarcode(ctx, barcode)
	if err != nil {
		c.logger.Error("barcode resolution failed", slog.String("error", err.Error()))
		c.notify("Lookup failed. Please try again.")
		return
	}
	if !res.OK {
		c.notify(res.Message)
		return
	}
	if len(res.Matches) > 0 {
		c.prompt(res.Matches)
		return
	}
	c.fetch(ctx, res.ItemCode)
}

// SelectPriceList switches the price section to another list. The held
// snapshot is re-derived; nothing is re-fetched.
func (c *Controller) SelectPriceList(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed || c.snap == nil {
		return
	}
	view := c.formatter.PriceSection(c.snap, name)
	c.selected = view.Selected
	c.sink.RenderPriceSection(view)
}

// Resize re-renders the price section from held state. Deriving from the
// same snapshot and selection is idempotent, so repeated resizes are safe.
func (c *Controller) Resize() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed || c.snap == nil {
		return
	}
	c.sink.RenderPriceSection(c.formatter.PriceSection(c.snap, c.selected))
}

// Close tears the session down: pending searches are cancelled, held state
// dropped, and late fetch results discarded. Close is idempotent.
func (c *Controller) Close() {
	c.debouncer.Stop()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.destroyed = true
	c.snap = nil
	c.gen++
}

func (c *Controller) fetch(ctx context.Context, itemCode string) {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	snap, err := c.service.GetSnapshot(ctx, itemCode)

	c.mu.Lock()
	defer c.mu.Unlock()
	// A newer search or a Close superseded this fetch; drop it.
	if c.destroyed || gen != c.gen {
		return
	}
	if err != nil {
		// Not-found and transport failures surface the same way: a
		// notification, with detail kept in the log.
		c.logger.Error("snapshot fetch failed",
			slog.String("item_code", itemCode),
			slog.String("error", err.Error()))
		c.sink.Notify("Could not load item: " + itemCode)
		return
	}

	c.snap = snap
	// A replaced snapshot starts from the first price list it carries;
	// the previous session's selection does not survive.
	c.selected = ""
	if c.light {
		c.sink.RenderPage(c.formatter.LightPage(snap))
		return
	}
	view := c.formatter.Page(snap, c.selected)
	c.selected = view.Price.Selected
	c.sink.RenderPage(view)
}

func (c *Controller) cancelPending() {
	c.debouncer.Cancel()
	c.mu.Lock()
	// Invalidate any in-flight fetch without tearing down the session.
	c.gen++
	c.mu.Unlock()
}

func (c *Controller) notify(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return
	}
	c.sink.Notify(message)
}

func (c *Controller) prompt(matches []domain.BarcodeMatch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return
	}
	c.sink.PromptDisambiguation(matches)
}

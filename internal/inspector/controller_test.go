// internal/inspector/controller_test.go
package inspector

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/retailtools/item-inspector/internal/core/domain"
	"github.com/retailtools/item-inspector/internal/render"
	"github.com/retailtools/item-inspector/test/helpers"
	"github.com/retailtools/item-inspector/test/mocks"
)

type recordSink struct {
	mu       sync.Mutex
	pages    []render.PageView
	sections []render.PriceSectionView
	notices  []string
	prompts  [][]domain.BarcodeMatch
}

func (s *recordSink) RenderPage(view render.PageView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = append(s.pages, view)
}

func (s *recordSink) RenderPriceSection(view render.PriceSectionView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sections = append(s.sections, view)
}

func (s *recordSink) Notify(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, message)
}

func (s *recordSink) PromptDisambiguation(matches []domain.BarcodeMatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, matches)
}

func (s *recordSink) pageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages)
}

func (s *recordSink) lastPage() render.PageView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pages[len(s.pages)-1]
}

func (s *recordSink) allNotices() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.notices...)
}

func (s *recordSink) allSections() []render.PriceSectionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]render.PriceSectionView(nil), s.sections...)
}

func (s *recordSink) promptCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

func newTestController(t *testing.T, opts ...Option) (*Controller, *mocks.MockSnapshotService, *recordSink) {
	t.Helper()
	ctrl := gomock.NewController(t)
	service := mocks.NewMockSnapshotService(ctrl)
	sink := &recordSink{}
	opts = append([]Option{WithSearchDelay(10 * time.Millisecond)}, opts...)
	c := NewController(service, render.NewFormatter("en", "USD"), sink, helpers.TestLogger(), opts...)
	return c, service, sink
}

func TestControllerSearch(t *testing.T) {
	t.Run("debounced_search_renders_page", func(t *testing.T) {
		c, service, sink := newTestController(t)
		defer c.Close()

		service.EXPECT().
			GetSnapshot(gomock.Any(), "WIDGET-01").
			Return(helpers.CreateTestSnapshot(), nil)

		c.Search(context.Background(), "WIDGET-01")

		require.Eventually(t, func() bool { return sink.pageCount() == 1 }, time.Second, 5*time.Millisecond)
		assert.Equal(t, "WIDGET-01", sink.lastPage().Header.Code)
	})

	t.Run("rapid_keystrokes_fetch_once", func(t *testing.T) {
		c, service, sink := newTestController(t)
		defer c.Close()

		service.EXPECT().
			GetSnapshot(gomock.Any(), "WIDGET-01").
			Return(helpers.CreateTestSnapshot(), nil).
			Times(1)

		for _, partial := range []string{"W", "WI", "WIDGET", "WIDGET-01"} {
			c.Search(context.Background(), partial)
		}

		require.Eventually(t, func() bool { return sink.pageCount() == 1 }, time.Second, 5*time.Millisecond)
		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, 1, sink.pageCount())
	})

	t.Run("stale_fetch_never_overwrites_newer", func(t *testing.T) {
		c, service, sink := newTestController(t)
		defer c.Close()

		slowRelease := make(chan struct{})
		slow := helpers.CreateTestSnapshot()
		slow.Item.ItemCode = "SLOW-01"
		fast := helpers.CreateTestSnapshot()
		fast.Item.ItemCode = "FAST-01"

		service.EXPECT().
			GetSnapshot(gomock.Any(), "SLOW-01").
			DoAndReturn(func(context.Context, string) (*domain.Snapshot, error) {
				<-slowRelease
				return slow, nil
			})
		service.EXPECT().
			GetSnapshot(gomock.Any(), "FAST-01").
			Return(fast, nil)

		c.Search(context.Background(), "SLOW-01")
		time.Sleep(30 * time.Millisecond) // let the slow fetch start
		c.Search(context.Background(), "FAST-01")

		require.Eventually(t, func() bool { return sink.pageCount() == 1 }, time.Second, 5*time.Millisecond)
		close(slowRelease)
		time.Sleep(50 * time.Millisecond)

		assert.Equal(t, 1, sink.pageCount())
		assert.Equal(t, "FAST-01", sink.lastPage().Header.Code)
	})

	t.Run("not_found_and_failure_surface_identically", func(t *testing.T) {
		c, service, sink := newTestController(t)
		defer c.Close()

		service.EXPECT().
			GetSnapshot(gomock.Any(), "MISSING").
			Return(nil, errors.New("item not found: MISSING"))
		service.EXPECT().
			GetSnapshot(gomock.Any(), "BROKEN").
			Return(nil, errors.New("connection refused"))

		c.Search(context.Background(), "MISSING")
		require.Eventually(t, func() bool { return len(sink.allNotices()) == 1 }, time.Second, 5*time.Millisecond)

		c.Search(context.Background(), "BROKEN")
		require.Eventually(t, func() bool { return len(sink.allNotices()) == 2 }, time.Second, 5*time.Millisecond)

		notices := sink.allNotices()
		assert.Equal(t, "Could not load item: MISSING", notices[0])
		assert.Equal(t, "Could not load item: BROKEN", notices[1])
		assert.Zero(t, sink.pageCount())
	})

	t.Run("light_variant_renders_three_tiles", func(t *testing.T) {
		c, service, sink := newTestController(t, WithLight())
		defer c.Close()

		service.EXPECT().
			GetSnapshot(gomock.Any(), "WIDGET-01").
			Return(helpers.CreateTestSnapshot(), nil)

		c.Search(context.Background(), "WIDGET-01")

		require.Eventually(t, func() bool { return sink.pageCount() == 1 }, time.Second, 5*time.Millisecond)
		page := sink.lastPage()
		assert.True(t, page.Light)
		assert.Len(t, page.KPIs, 3)
	})
}

func TestControllerScan(t *testing.T) {
	t.Run("single_match_fetches_immediately", func(t *testing.T) {
		c, service, sink := newTestController(t)
		defer c.Close()

		service.EXPECT().
			ResolveBarcode(gomock.Any(), "4006381333931").
			Return(&domain.Resolution{OK: true, ItemCode: "WIDGET-01"}, nil)
		service.EXPECT().
			GetSnapshot(gomock.Any(), "WIDGET-01").
			Return(helpers.CreateTestSnapshot(), nil)

		c.Scan(context.Background(), "4006381333931")

		assert.Equal(t, 1, sink.pageCount())
	})

	t.Run("ambiguous_barcode_prompts", func(t *testing.T) {
		c, service, sink := newTestController(t)
		defer c.Close()

		service.EXPECT().
			ResolveBarcode(gomock.Any(), "555").
			Return(&domain.Resolution{OK: true, Matches: []domain.BarcodeMatch{
				{ItemCode: "A"}, {ItemCode: "B"},
			}}, nil)

		c.Scan(context.Background(), "555")

		assert.Equal(t, 1, sink.promptCount())
		assert.Zero(t, sink.pageCount())
	})

	t.Run("no_match_notifies", func(t *testing.T) {
		c, service, sink := newTestController(t)
		defer c.Close()

		service.EXPECT().
			ResolveBarcode(gomock.Any(), "000").
			Return(&domain.Resolution{OK: false, Message: "No item found for barcode: 000"}, nil)

		c.Scan(context.Background(), "000")

		assert.Equal(t, []string{"No item found for barcode: 000"}, sink.allNotices())
	})

	t.Run("resolution_error_notifies", func(t *testing.T) {
		c, service, sink := newTestController(t)
		defer c.Close()

		service.EXPECT().
			ResolveBarcode(gomock.Any(), "999").
			Return(nil, errors.New("connection refused"))

		c.Scan(context.Background(), "999")

		assert.Equal(t, []string{"Lookup failed. Please try again."}, sink.allNotices())
	})

	t.Run("scan_cancels_pending_search", func(t *testing.T) {
		c, service, sink := newTestController(t)
		defer c.Close()

		service.EXPECT().
			ResolveBarcode(gomock.Any(), "4006381333931").
			Return(&domain.Resolution{OK: true, ItemCode: "WIDGET-01"}, nil)
		service.EXPECT().
			GetSnapshot(gomock.Any(), "WIDGET-01").
			Return(helpers.CreateTestSnapshot(), nil)

		c.Search(context.Background(), "WID")
		c.Scan(context.Background(), "4006381333931")

		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, 1, sink.pageCount())
	})
}

func TestControllerPriceSelection(t *testing.T) {
	load := func(t *testing.T) (*Controller, *recordSink) {
		c, service, sink := newTestController(t)
		t.Cleanup(c.Close)

		service.EXPECT().
			GetSnapshot(gomock.Any(), "WIDGET-01").
			Return(helpers.CreateTestSnapshot(), nil)
		c.Search(context.Background(), "WIDGET-01")
		require.Eventually(t, func() bool { return sink.pageCount() == 1 }, time.Second, 5*time.Millisecond)
		return c, sink
	}

	t.Run("selection_switch_rerenders_without_fetch", func(t *testing.T) {
		c, sink := load(t)

		c.SelectPriceList("Wholesale")

		sections := sink.allSections()
		require.Len(t, sections, 1)
		assert.Equal(t, "Wholesale", sections[0].Selected)
	})

	t.Run("selection_sticks_for_resize", func(t *testing.T) {
		c, sink := load(t)

		c.SelectPriceList("Wholesale")
		c.Resize()

		sections := sink.allSections()
		require.Len(t, sections, 2)
		assert.Equal(t, sections[0], sections[1])
	})

	t.Run("new_snapshot_resets_selection_to_first_list", func(t *testing.T) {
		c, service, sink := newTestController(t)
		t.Cleanup(c.Close)

		service.EXPECT().
			GetSnapshot(gomock.Any(), "WIDGET-01").
			Return(helpers.CreateTestSnapshot(), nil).
			Times(2)

		c.Search(context.Background(), "WIDGET-01")
		require.Eventually(t, func() bool { return sink.pageCount() == 1 }, time.Second, 5*time.Millisecond)

		c.SelectPriceList("Wholesale")

		// Re-searching replaces the snapshot; the old selection must not
		// survive even though the new snapshot carries the same list.
		c.Search(context.Background(), "WIDGET-01")
		require.Eventually(t, func() bool { return sink.pageCount() == 2 }, time.Second, 5*time.Millisecond)

		assert.Equal(t, "Standard Selling", sink.lastPage().Price.Selected)

		c.Resize()
		sections := sink.allSections()
		assert.Equal(t, "Standard Selling", sections[len(sections)-1].Selected)
	})

	t.Run("selection_before_snapshot_is_noop", func(t *testing.T) {
		c, _, sink := newTestController(t)
		defer c.Close()

		c.SelectPriceList("Wholesale")
		c.Resize()

		assert.Empty(t, sink.allSections())
	})
}

func TestControllerClose(t *testing.T) {
	t.Run("close_discards_late_results", func(t *testing.T) {
		c, service, sink := newTestController(t)

		release := make(chan struct{})
		service.EXPECT().
			GetSnapshot(gomock.Any(), "WIDGET-01").
			DoAndReturn(func(context.Context, string) (*domain.Snapshot, error) {
				<-release
				return helpers.CreateTestSnapshot(), nil
			})

		c.Search(context.Background(), "WIDGET-01")
		time.Sleep(30 * time.Millisecond) // let the fetch start
		c.Close()
		close(release)

		time.Sleep(50 * time.Millisecond)
		assert.Zero(t, sink.pageCount())
	})

	t.Run("close_cancels_pending_search", func(t *testing.T) {
		c, _, sink := newTestController(t)

		c.Search(context.Background(), "WIDGET-01")
		c.Close()

		time.Sleep(50 * time.Millisecond)
		assert.Zero(t, sink.pageCount())
	})

	t.Run("close_is_idempotent", func(t *testing.T) {
		c, _, _ := newTestController(t)
		c.Close()
		c.Close()
	})

	t.Run("operations_after_close_are_noops", func(t *testing.T) {
		c, _, sink := newTestController(t)
		c.Close()

		c.SelectPriceList("Wholesale")
		c.Resize()

		assert.Empty(t, sink.allSections())
	})
}

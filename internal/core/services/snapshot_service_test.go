package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/retailtools/item-inspector/internal/core/domain"
	"github.com/retailtools/item-inspector/internal/core/services"
	"github.com/retailtools/item-inspector/test/helpers"
	"github.com/retailtools/item-inspector/test/mocks"
)

func TestSnapshotService_GetSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSnapshotRepository(ctrl)
	svc := services.NewSnapshotService(repo, helpers.TestLogger())
	ctx := context.Background()

	lastSale := time.Now().AddDate(0, 0, -45)

	repo.EXPECT().ItemExists(gomock.Any(), "WIDGET-01").Return(true, nil)
	repo.EXPECT().GetItem(gomock.Any(), "WIDGET-01").Return(&domain.Item{
		ItemCode: "WIDGET-01",
		ItemName: "Widget",
	}, nil)
	repo.EXPECT().GetBarcodes(gomock.Any(), "WIDGET-01").Return([]string{"5901234123457"}, nil)
	repo.EXPECT().GetBins(gomock.Any(), "WIDGET-01").Return([]domain.Bin{
		{Warehouse: "Main - WH", ActualQty: domain.FlexFromFloat(8)},
		{Warehouse: "Outlet - WH", ActualQty: domain.FlexFromFloat(2)},
	}, nil)
	repo.EXPECT().GetValuationRates(gomock.Any(), "WIDGET-01").Return(map[string]decimal.Decimal{
		"Main - WH": decimal.NewFromFloat(12.5),
	}, nil)
	repo.EXPECT().GetPriceHistory(gomock.Any(), "WIDGET-01").Return([]domain.PriceRecord{
		{PriceList: "Standard Selling", PriceListRate: domain.FlexFromFloat(20)},
	}, nil)
	repo.EXPECT().GetRecentSales(gomock.Any(), "WIDGET-01", 10).Return(nil, nil)
	repo.EXPECT().GetRecentPurchases(gomock.Any(), "WIDGET-01", 10).Return(nil, nil)
	repo.EXPECT().GetSalesSince(gomock.Any(), "WIDGET-01", gomock.Any()).Return(domain.SalesSummary{Count: 3}, nil)
	repo.EXPECT().GetDefaultSellingPrice(gomock.Any(), "WIDGET-01").Return(&domain.SellingPrice{
		Price:     domain.FlexFromFloat(20),
		PriceList: "Standard Selling",
	}, nil)
	repo.EXPECT().GetLastSaleDate(gomock.Any(), "WIDGET-01").Return(&lastSale, nil)

	snap, err := svc.GetSnapshot(ctx, "WIDGET-01")
	require.NoError(t, err)

	assert.Equal(t, "WIDGET-01", snap.Item.ItemCode)
	require.Len(t, snap.Bins, 2)

	// Bin with a ledger entry gets the valuation rate and derived value.
	assert.InDelta(t, 12.5, snap.Bins[0].ValuationRate.Float64(), 1e-9)
	assert.InDelta(t, 100, snap.Bins[0].StockValueEst.Float64(), 1e-9)

	// Bin without a ledger entry keeps zero valuation.
	assert.True(t, snap.Bins[1].ValuationRate.IsZero())
	assert.True(t, snap.Bins[1].StockValueEst.IsZero())

	require.NotNil(t, snap.DaysSinceLastSale)
	assert.Equal(t, 45, *snap.DaysSinceLastSale)
	assert.Equal(t, 3, snap.SalesLast30Days.Count)
}

func TestSnapshotService_GetSnapshot_ItemNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSnapshotRepository(ctrl)
	svc := services.NewSnapshotService(repo, helpers.TestLogger())

	repo.EXPECT().ItemExists(gomock.Any(), "MISSING").Return(false, nil)

	snap, err := svc.GetSnapshot(context.Background(), "MISSING")
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, services.ErrItemNotFound)
}

func TestSnapshotService_GetSnapshot_ItemVanishesAfterExistenceCheck(t *testing.T) {
	// The seeder reloads the replica with TRUNCATE, so an item can
	// disappear between the existence check and the master load.
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSnapshotRepository(ctrl)
	svc := services.NewSnapshotService(repo, helpers.TestLogger())

	repo.EXPECT().ItemExists(gomock.Any(), "GONE-01").Return(true, nil)
	repo.EXPECT().GetItem(gomock.Any(), "GONE-01").Return(nil, nil)

	snap, err := svc.GetSnapshot(context.Background(), "GONE-01")
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, services.ErrItemNotFound)
}

func TestSnapshotService_GetSnapshot_RepositoryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSnapshotRepository(ctrl)
	svc := services.NewSnapshotService(repo, helpers.TestLogger())

	repo.EXPECT().ItemExists(gomock.Any(), "WIDGET-01").Return(true, nil)
	repo.EXPECT().GetItem(gomock.Any(), "WIDGET-01").Return(nil, errors.New("connection refused"))

	snap, err := svc.GetSnapshot(context.Background(), "WIDGET-01")
	assert.Nil(t, snap)
	assert.ErrorContains(t, err, "failed to load item master")
}

func TestSnapshotService_GetSnapshot_NeverSold(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSnapshotRepository(ctrl)
	svc := services.NewSnapshotService(repo, helpers.TestLogger())

	repo.EXPECT().ItemExists(gomock.Any(), "NEW-01").Return(true, nil)
	repo.EXPECT().GetItem(gomock.Any(), "NEW-01").Return(&domain.Item{ItemCode: "NEW-01"}, nil)
	repo.EXPECT().GetBarcodes(gomock.Any(), "NEW-01").Return(nil, nil)
	repo.EXPECT().GetBins(gomock.Any(), "NEW-01").Return(nil, nil)
	repo.EXPECT().GetPriceHistory(gomock.Any(), "NEW-01").Return(nil, nil)
	repo.EXPECT().GetRecentSales(gomock.Any(), "NEW-01", 10).Return(nil, nil)
	repo.EXPECT().GetRecentPurchases(gomock.Any(), "NEW-01", 10).Return(nil, nil)
	repo.EXPECT().GetSalesSince(gomock.Any(), "NEW-01", gomock.Any()).Return(domain.SalesSummary{}, nil)
	repo.EXPECT().GetDefaultSellingPrice(gomock.Any(), "NEW-01").Return(nil, nil)
	repo.EXPECT().GetLastSaleDate(gomock.Any(), "NEW-01").Return(nil, nil)

	snap, err := svc.GetSnapshot(context.Background(), "NEW-01")
	require.NoError(t, err)

	assert.Nil(t, snap.DaysSinceLastSale)
	assert.Nil(t, snap.SellingPrice)
	assert.Empty(t, snap.Bins)
}

func TestSnapshotService_ResolveBarcode(t *testing.T) {
	tests := []struct {
		name       string
		barcode    string
		setupMocks func(*mocks.MockSnapshotRepository)
		wantOK     bool
		wantCode   string
		wantCount  int
		wantMsg    string
	}{
		{
			name:       "empty_barcode",
			barcode:    "   ",
			setupMocks: func(m *mocks.MockSnapshotRepository) {},
			wantOK:     false,
			wantMsg:    "Empty barcode",
		},
		{
			name:    "single_match",
			barcode: "5901234123457",
			setupMocks: func(m *mocks.MockSnapshotRepository) {
				m.EXPECT().FindByBarcode(gomock.Any(), "5901234123457").
					Return([]string{"WIDGET-01"}, nil)
			},
			wantOK:   true,
			wantCode: "WIDGET-01",
		},
		{
			name:    "duplicates_collapse_to_single_match",
			barcode: "5901234123457",
			setupMocks: func(m *mocks.MockSnapshotRepository) {
				m.EXPECT().FindByBarcode(gomock.Any(), "5901234123457").
					Return([]string{"WIDGET-01", "WIDGET-01"}, nil)
			},
			wantOK:   true,
			wantCode: "WIDGET-01",
		},
		{
			name:    "multiple_matches_prompt_disambiguation",
			barcode: "4006381333931",
			setupMocks: func(m *mocks.MockSnapshotRepository) {
				m.EXPECT().FindByBarcode(gomock.Any(), "4006381333931").
					Return([]string{"A1", "A2"}, nil)
				m.EXPECT().GetBarcodeMatches(gomock.Any(), []string{"A1", "A2"}).
					Return([]domain.BarcodeMatch{
						{ItemCode: "A1", ItemName: "Alpha"},
						{ItemCode: "A2", ItemName: "Beta"},
					}, nil)
			},
			wantOK:    true,
			wantCount: 2,
		},
		{
			name:    "falls_back_to_direct_item_code",
			barcode: "WIDGET-01",
			setupMocks: func(m *mocks.MockSnapshotRepository) {
				m.EXPECT().FindByBarcode(gomock.Any(), "WIDGET-01").Return(nil, nil)
				m.EXPECT().ItemExists(gomock.Any(), "WIDGET-01").Return(true, nil)
			},
			wantOK:   true,
			wantCode: "WIDGET-01",
		},
		{
			name:    "no_match_anywhere",
			barcode: "0000000000000",
			setupMocks: func(m *mocks.MockSnapshotRepository) {
				m.EXPECT().FindByBarcode(gomock.Any(), "0000000000000").Return(nil, nil)
				m.EXPECT().ItemExists(gomock.Any(), "0000000000000").Return(false, nil)
			},
			wantOK:  false,
			wantMsg: "No item found for barcode: 0000000000000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockSnapshotRepository(ctrl)
			tt.setupMocks(repo)

			svc := services.NewSnapshotService(repo, helpers.TestLogger())
			res, err := svc.ResolveBarcode(context.Background(), tt.barcode)
			require.NoError(t, err)

			assert.Equal(t, tt.wantOK, res.OK)
			assert.Equal(t, tt.wantCode, res.ItemCode)
			assert.Len(t, res.Matches, tt.wantCount)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, res.Message)
			}
		})
	}
}

func TestSnapshotService_ResolveBarcode_RepositoryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSnapshotRepository(ctrl)
	svc := services.NewSnapshotService(repo, helpers.TestLogger())

	repo.EXPECT().FindByBarcode(gomock.Any(), "123").Return(nil, errors.New("db down"))

	res, err := svc.ResolveBarcode(context.Background(), "123")
	assert.Nil(t, res)
	assert.ErrorContains(t, err, "failed to search barcodes")
}

// prefixResolver fakes an image store by prefixing references.
type prefixResolver struct {
	prefix string
	err    error
}

func (r prefixResolver) ResolveImageURL(_ context.Context, ref string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return r.prefix + ref, nil
}

func TestSnapshotService_GetSnapshot_ResolvesImageURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSnapshotRepository(ctrl)
	svc := services.NewSnapshotService(repo, helpers.TestLogger(),
		services.WithImageResolver(prefixResolver{prefix: "https://cdn.example/"}))

	repo.EXPECT().ItemExists(gomock.Any(), "IMG-01").Return(true, nil)
	repo.EXPECT().GetItem(gomock.Any(), "IMG-01").Return(&domain.Item{
		ItemCode: "IMG-01",
		Image:    "files/widget.png",
	}, nil)
	repo.EXPECT().GetBarcodes(gomock.Any(), "IMG-01").Return(nil, nil)
	repo.EXPECT().GetBins(gomock.Any(), "IMG-01").Return(nil, nil)
	repo.EXPECT().GetPriceHistory(gomock.Any(), "IMG-01").Return(nil, nil)
	repo.EXPECT().GetRecentSales(gomock.Any(), "IMG-01", 10).Return(nil, nil)
	repo.EXPECT().GetRecentPurchases(gomock.Any(), "IMG-01", 10).Return(nil, nil)
	repo.EXPECT().GetSalesSince(gomock.Any(), "IMG-01", gomock.Any()).Return(domain.SalesSummary{}, nil)
	repo.EXPECT().GetDefaultSellingPrice(gomock.Any(), "IMG-01").Return(nil, nil)
	repo.EXPECT().GetLastSaleDate(gomock.Any(), "IMG-01").Return(nil, nil)

	snap, err := svc.GetSnapshot(context.Background(), "IMG-01")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/files/widget.png", snap.Item.Image)
}

func TestSnapshotService_GetSnapshot_ImageResolverFailureKeepsRawRef(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSnapshotRepository(ctrl)
	svc := services.NewSnapshotService(repo, helpers.TestLogger(),
		services.WithImageResolver(prefixResolver{err: errors.New("presign failed")}))

	repo.EXPECT().ItemExists(gomock.Any(), "IMG-02").Return(true, nil)
	repo.EXPECT().GetItem(gomock.Any(), "IMG-02").Return(&domain.Item{
		ItemCode: "IMG-02",
		Image:    "files/gadget.png",
	}, nil)
	repo.EXPECT().GetBarcodes(gomock.Any(), "IMG-02").Return(nil, nil)
	repo.EXPECT().GetBins(gomock.Any(), "IMG-02").Return(nil, nil)
	repo.EXPECT().GetPriceHistory(gomock.Any(), "IMG-02").Return(nil, nil)
	repo.EXPECT().GetRecentSales(gomock.Any(), "IMG-02", 10).Return(nil, nil)
	repo.EXPECT().GetRecentPurchases(gomock.Any(), "IMG-02", 10).Return(nil, nil)
	repo.EXPECT().GetSalesSince(gomock.Any(), "IMG-02", gomock.Any()).Return(domain.SalesSummary{}, nil)
	repo.EXPECT().GetDefaultSellingPrice(gomock.Any(), "IMG-02").Return(nil, nil)
	repo.EXPECT().GetLastSaleDate(gomock.Any(), "IMG-02").Return(nil, nil)

	snap, err := svc.GetSnapshot(context.Background(), "IMG-02")
	require.NoError(t, err)
	assert.Equal(t, "files/gadget.png", snap.Item.Image)
}

// internal/handlers/inspector_handler_test.go
package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	redis_a "github.com/retailtools/item-inspector/internal/adapters/redis_adapter"
	"github.com/retailtools/item-inspector/internal/core/domain"
	"github.com/retailtools/item-inspector/internal/core/ports"
	"github.com/retailtools/item-inspector/internal/core/services"
	"github.com/retailtools/item-inspector/internal/handlers"
	"github.com/retailtools/item-inspector/internal/workers"
	"github.com/retailtools/item-inspector/test/helpers"
	"github.com/retailtools/item-inspector/test/mocks"
)

func newTestCache(t *testing.T) ports.CacheRepository {
	t.Helper()
	tr := helpers.SetupTestRedis(t)
	return redis_a.NewCache(tr.Client, time.Minute, helpers.TestLogger())
}

func TestInspectorHandler_GetSnapshot(t *testing.T) {
	testSnap := helpers.CreateTestSnapshot()

	tests := []struct {
		name           string
		itemCode       string
		setupMocks     func(*mocks.MockSnapshotService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name:     "successfully_returns_snapshot",
			itemCode: "WIDGET-01",
			setupMocks: func(m *mocks.MockSnapshotService) {
				m.EXPECT().
					GetSnapshot(gomock.Any(), "WIDGET-01").
					Return(testSnap, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var response struct {
					OK   bool             `json:"ok"`
					Data *domain.Snapshot `json:"data"`
				}
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.True(t, response.OK)
				require.NotNil(t, response.Data)
				assert.Equal(t, "WIDGET-01", response.Data.Item.ItemCode)
				assert.Len(t, response.Data.Bins, 2)
			},
		},
		{
			name:           "missing_item_code",
			itemCode:       "  ",
			setupMocks:     func(m *mocks.MockSnapshotService) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				var response struct {
					OK      bool   `json:"ok"`
					Message string `json:"message"`
				}
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.False(t, response.OK)
				assert.Equal(t, "item_code is required", response.Message)
			},
		},
		{
			name:     "item_not_found",
			itemCode: "MISSING-01",
			setupMocks: func(m *mocks.MockSnapshotService) {
				m.EXPECT().
					GetSnapshot(gomock.Any(), "MISSING-01").
					Return(nil, fmt.Errorf("%w: MISSING-01", services.ErrItemNotFound))
			},
			expectedStatus: http.StatusNotFound,
			validateBody: func(t *testing.T, body []byte) {
				var response struct {
					OK      bool   `json:"ok"`
					Message string `json:"message"`
				}
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.False(t, response.OK)
				assert.Contains(t, response.Message, "MISSING-01")
			},
		},
		{
			name:     "service_error",
			itemCode: "WIDGET-01",
			setupMocks: func(m *mocks.MockSnapshotService) {
				m.EXPECT().
					GetSnapshot(gomock.Any(), "WIDGET-01").
					Return(nil, errors.New("replica connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, "Failed to load item snapshot", response["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockSnapshotService(ctrl)
			tt.setupMocks(mockService)

			handler := handlers.NewInspectorHandler(mockService, newTestCache(t), helpers.TestLogger())

			req := httptest.NewRequest("GET", "/api/v1/items/code/snapshot", nil)
			req.SetPathValue("item_code", tt.itemCode)
			w := httptest.NewRecorder()

			handler.GetSnapshot(w, req)

			resp := w.Result()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.validateBody != nil {
				tt.validateBody(t, w.Body.Bytes())
			}
		})
	}
}

func TestInspectorHandler_GetSnapshot_ServesRepeatFromCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockSnapshotService(ctrl)
	mockService.EXPECT().
		GetSnapshot(gomock.Any(), "WIDGET-01").
		Return(helpers.CreateTestSnapshot(), nil).
		Times(1)

	handler := handlers.NewInspectorHandler(mockService, newTestCache(t), helpers.TestLogger())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/api/v1/items/WIDGET-01/snapshot", nil)
		req.SetPathValue("item_code", "WIDGET-01")
		w := httptest.NewRecorder()

		handler.GetSnapshot(w, req)
		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	}
}

func TestInspectorHandler_GetSnapshot_ErrorsAreNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockSnapshotService(ctrl)
	gomock.InOrder(
		mockService.EXPECT().
			GetSnapshot(gomock.Any(), "FLAKY-01").
			Return(nil, errors.New("replica connection refused")),
		mockService.EXPECT().
			GetSnapshot(gomock.Any(), "FLAKY-01").
			Return(helpers.CreateTestSnapshot(), nil),
	)

	handler := handlers.NewInspectorHandler(mockService, newTestCache(t), helpers.TestLogger())

	req := httptest.NewRequest("GET", "/api/v1/items/FLAKY-01/snapshot", nil)
	req.SetPathValue("item_code", "FLAKY-01")
	w := httptest.NewRecorder()
	handler.GetSnapshot(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Result().StatusCode)

	// A retry after the transient failure composes again and succeeds
	req = httptest.NewRequest("GET", "/api/v1/items/FLAKY-01/snapshot", nil)
	req.SetPathValue("item_code", "FLAKY-01")
	w = httptest.NewRecorder()
	handler.GetSnapshot(w, req)
	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
}

type recordEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (e *recordEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if e.err != nil {
		return nil, e.err
	}
	e.tasks = append(e.tasks, task)
	return &asynq.TaskInfo{}, nil
}

func TestInspectorHandler_GetSnapshot_CacheMissSchedulesWarmup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockSnapshotService(ctrl)
	mockService.EXPECT().
		GetSnapshot(gomock.Any(), "WIDGET-01").
		Return(helpers.CreateTestSnapshot(), nil).
		Times(1)

	queue := &recordEnqueuer{}
	handler := handlers.NewInspectorHandler(mockService, newTestCache(t), helpers.TestLogger(),
		handlers.WithWarmupQueue(queue))

	// First request misses the cache and schedules a warmup; the repeat
	// is served from cache and must not schedule another.
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/api/v1/items/WIDGET-01/snapshot", nil)
		req.SetPathValue("item_code", "WIDGET-01")
		w := httptest.NewRecorder()
		handler.GetSnapshot(w, req)
		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	}

	require.Len(t, queue.tasks, 1)
	assert.Equal(t, workers.TypeSnapshotWarmup, queue.tasks[0].Type())

	var payload workers.WarmupPayload
	require.NoError(t, json.Unmarshal(queue.tasks[0].Payload(), &payload))
	assert.Equal(t, []string{"WIDGET-01"}, payload.ItemCodes)
}

func TestInspectorHandler_GetSnapshot_WarmupEnqueueFailureIsIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockSnapshotService(ctrl)
	mockService.EXPECT().
		GetSnapshot(gomock.Any(), "WIDGET-01").
		Return(helpers.CreateTestSnapshot(), nil)

	queue := &recordEnqueuer{err: errors.New("broker unreachable")}
	handler := handlers.NewInspectorHandler(mockService, newTestCache(t), helpers.TestLogger(),
		handlers.WithWarmupQueue(queue))

	req := httptest.NewRequest("GET", "/api/v1/items/WIDGET-01/snapshot", nil)
	req.SetPathValue("item_code", "WIDGET-01")
	w := httptest.NewRecorder()
	handler.GetSnapshot(w, req)

	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
}

func TestInspectorHandler_ResolveBarcode(t *testing.T) {
	tests := []struct {
		name           string
		barcode        string
		setupMocks     func(*mocks.MockSnapshotService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name:    "resolves_to_single_item",
			barcode: "5901234123457",
			setupMocks: func(m *mocks.MockSnapshotService) {
				m.EXPECT().
					ResolveBarcode(gomock.Any(), "5901234123457").
					Return(&domain.Resolution{OK: true, ItemCode: "WIDGET-01"}, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var res domain.Resolution
				require.NoError(t, json.Unmarshal(body, &res))
				assert.True(t, res.OK)
				assert.Equal(t, "WIDGET-01", res.ItemCode)
			},
		},
		{
			name:    "ambiguous_barcode_lists_candidates",
			barcode: "2000000000017",
			setupMocks: func(m *mocks.MockSnapshotService) {
				m.EXPECT().
					ResolveBarcode(gomock.Any(), "2000000000017").
					Return(&domain.Resolution{
						OK: false,
						Matches: []domain.BarcodeMatch{
							{ItemCode: "WIDGET-01", ItemName: "Standard Widget"},
							{ItemCode: "WIDGET-02", ItemName: "Deluxe Widget"},
						},
						Message: "Barcode matches multiple items",
					}, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var res domain.Resolution
				require.NoError(t, json.Unmarshal(body, &res))
				assert.False(t, res.OK)
				assert.Len(t, res.Matches, 2)
			},
		},
		{
			name:    "no_match_is_logical_failure",
			barcode: "0000000000000",
			setupMocks: func(m *mocks.MockSnapshotService) {
				m.EXPECT().
					ResolveBarcode(gomock.Any(), "0000000000000").
					Return(&domain.Resolution{OK: false, Message: "No item found for barcode"}, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var res domain.Resolution
				require.NoError(t, json.Unmarshal(body, &res))
				assert.False(t, res.OK)
				assert.NotEmpty(t, res.Message)
			},
		},
		{
			name:    "service_error",
			barcode: "5901234123457",
			setupMocks: func(m *mocks.MockSnapshotService) {
				m.EXPECT().
					ResolveBarcode(gomock.Any(), "5901234123457").
					Return(nil, errors.New("replica connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "Failed to resolve barcode", response["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockSnapshotService(ctrl)
			tt.setupMocks(mockService)

			handler := handlers.NewInspectorHandler(mockService, newTestCache(t), helpers.TestLogger())

			req := httptest.NewRequest("GET", "/api/v1/barcode/resolve?barcode="+tt.barcode, nil)
			w := httptest.NewRecorder()

			handler.ResolveBarcode(w, req)

			resp := w.Result()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.validateBody != nil {
				tt.validateBody(t, w.Body.Bytes())
			}
		})
	}
}

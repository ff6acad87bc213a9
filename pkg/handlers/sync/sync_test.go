package sync_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chris/loyalty-points/pkg/api"
	handler "github.com/chris/loyalty-points/pkg/handlers/sync"
	"github.com/chris/loyalty-points/pkg/models"
	"github.com/chris/loyalty-points/pkg/registry"
	"github.com/chris/loyalty-points/pkg/scheduler"
	schedmocks "github.com/chris/loyalty-points/pkg/scheduler/mocks"
	"github.com/chris/loyalty-points/pkg/storage"
	"github.com/chris/loyalty-points/pkg/storage/mocks"
	appsync "github.com/chris/loyalty-points/pkg/sync"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type stubBalances struct{ balance int64 }

func (s stubBalances) Balance(ctx context.Context, userID string) (int64, error) {
	return s.balance, nil
}

func newRouter(t *testing.T, mockStorage *mocks.Storage, sched *schedmocks.SyncScheduler) chi.Router {
	users := registry.NewInMemory()
	err := users.CreateUser(context.Background(), &models.Profile{Id: "alice", Username: "alice"}, "pw")
	assert.NoError(t, err)

	syncer := appsync.NewSyncer(mockStorage, users, stubBalances{balance: 300}, nil, nil, 0)

	var s scheduler.SyncScheduler
	if sched != nil {
		s = sched
	}
	h := handler.NewSyncHandler(syncer, mockStorage, mockStorage, s)

	r := chi.NewRouter()
	r.Mount("/sync", h.Routes())
	return r
}

func TestTriggerSync(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetProfile", mock.Anything, "alice").Return(&models.Profile{Id: "alice", Version: 1}, nil)
		mockStorage.On("UpdateProfile", mock.Anything, mock.Anything).Return(&models.Profile{Id: "alice", Version: 2}, nil)
		mockStorage.On("GetSyncStatus", mock.Anything, "alice").Return(nil, storage.ErrNotFound)
		mockStorage.On("UpsertSyncStatus", mock.Anything, mock.Anything).Return(nil)

		router := newRouter(t, mockStorage, nil)

		req := httptest.NewRequest(http.MethodPost, "/sync/alice", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var status api.SyncStatus
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
		assert.Equal(t, int64(1), status.SyncVersion)
		assert.True(t, status.IsOnline)
	})

	t.Run("Version Conflict", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetProfile", mock.Anything, "alice").Return(&models.Profile{Id: "alice", Version: 1}, nil)
		mockStorage.On("UpdateProfile", mock.Anything, mock.Anything).Return(nil, storage.ErrVersionConflict)

		router := newRouter(t, mockStorage, nil)

		req := httptest.NewRequest(http.MethodPost, "/sync/alice", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Contains(t, rr.Body.String(), "reload")
	})
}

func TestGetSyncStatus(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetSyncStatus", mock.Anything, "alice").Return(&models.SyncStatus{
			UserId: "alice", IsOnline: true, SyncVersion: 3, LastSyncAt: time.Now().UTC(),
		}, nil)

		router := newRouter(t, mockStorage, nil)

		req := httptest.NewRequest(http.MethodGet, "/sync/alice", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Never Synced", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetSyncStatus", mock.Anything, "ghost").Return(nil, storage.ErrNotFound)

		router := newRouter(t, mockStorage, nil)

		req := httptest.NewRequest(http.MethodGet, "/sync/ghost", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestDeferSync(t *testing.T) {
	t.Run("Enqueues With Delay", func(t *testing.T) {
		sched := new(schedmocks.SyncScheduler)
		sched.On("ScheduleSync", mock.Anything, "alice", 90*time.Second).Return(nil)

		router := newRouter(t, new(mocks.Storage), sched)

		body, _ := json.Marshal(map[string]int32{"delay_seconds": 90})
		req := httptest.NewRequest(http.MethodPost, "/sync/alice/defer", bytes.NewReader(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusAccepted, rr.Code)
		sched.AssertExpectations(t)
	})

	t.Run("Not Configured", func(t *testing.T) {
		router := newRouter(t, new(mocks.Storage), nil)

		body, _ := json.Marshal(map[string]int32{"delay_seconds": 90})
		req := httptest.NewRequest(http.MethodPost, "/sync/alice/defer", bytes.NewReader(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotImplemented, rr.Code)
	})
}

func TestListOnlineUsers(t *testing.T) {
	mockStorage := new(mocks.Storage)
	mockStorage.On("GetAllConnections", mock.Anything).Return([]models.Connection{
		{ConnectionId: "c1", UserId: "alice"},
		{ConnectionId: "c2", UserId: "alice"},
		{ConnectionId: "c3", UserId: "bob"},
		{ConnectionId: "c4", UserId: ""},
	}, nil)

	router := newRouter(t, mockStorage, nil)

	req := httptest.NewRequest(http.MethodGet, "/sync/presence", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string][]string
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.ElementsMatch(t, []string{"alice", "bob"}, resp["online_users"])
}

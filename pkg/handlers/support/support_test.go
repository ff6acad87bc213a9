package support_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chris/loyalty-points/pkg/api"
	"github.com/chris/loyalty-points/pkg/handlers/support"
	"github.com/chris/loyalty-points/pkg/models"
	"github.com/chris/loyalty-points/pkg/storage"
	"github.com/chris/loyalty-points/pkg/storage/mocks"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func passthrough(next http.Handler) http.Handler { return next }

func newRouter(mockStorage *mocks.Storage) chi.Router {
	r := chi.NewRouter()
	r.Mount("/support", support.NewSupportHandler(mockStorage).Routes(passthrough))
	return r
}

func TestCreateTicket(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("CreateTicket", mock.Anything, mock.MatchedBy(func(ticket *models.SupportTicket) bool {
			return ticket.UserId == "user1" && ticket.Message == "points missing" && ticket.Id != ""
		})).Return(&models.SupportTicket{Id: "t1", UserId: "user1", Message: "points missing"}, nil)

		router := newRouter(mockStorage)

		body, _ := json.Marshal(api.NewTicket{UserId: "user1", Message: "points missing"})
		req := httptest.NewRequest(http.MethodPost, "/support", bytes.NewReader(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Missing Fields", func(t *testing.T) {
		router := newRouter(new(mocks.Storage))

		body, _ := json.Marshal(api.NewTicket{UserId: "user1"})
		req := httptest.NewRequest(http.MethodPost, "/support", bytes.NewReader(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestListTickets(t *testing.T) {
	mockStorage := new(mocks.Storage)
	mockStorage.On("ListTicketsByUserID", mock.Anything, "user1").Return([]models.SupportTicket{
		{Id: "t1", UserId: "user1", Message: "first", CreatedAt: time.Now().UTC()},
		{Id: "t2", UserId: "user1", Message: "second", CreatedAt: time.Now().UTC()},
	}, nil)

	router := newRouter(mockStorage)

	req := httptest.NewRequest(http.MethodGet, "/support/user/user1", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var tickets []api.Ticket
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tickets))
	assert.Len(t, tickets, 2)
	mockStorage.AssertExpectations(t)
}

func TestRespondTicket(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("RespondTicket", mock.Anything, "t1", "resolved it", true).Return(&models.SupportTicket{
			Id: "t1", UserId: "user1", AdminResponse: "resolved it", Resolved: true,
		}, nil)

		router := newRouter(mockStorage)

		body, _ := json.Marshal(api.TicketResponse{Response: "resolved it", Resolved: true})
		req := httptest.NewRequest(http.MethodPost, "/support/t1/respond", bytes.NewReader(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var ticket api.Ticket
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ticket))
		assert.True(t, ticket.Resolved)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("RespondTicket", mock.Anything, "ghost", "hi", false).Return(nil, storage.ErrNotFound)

		router := newRouter(mockStorage)

		body, _ := json.Marshal(api.TicketResponse{Response: "hi"})
		req := httptest.NewRequest(http.MethodPost, "/support/ghost/respond", bytes.NewReader(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockStorage.AssertExpectations(t)
	})
}

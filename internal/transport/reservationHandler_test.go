package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teatro/backend/internal/entity"
	"github.com/teatro/backend/internal/service"
)

// stubReservationService returns canned values per method and records the
// last create request it received.
type stubReservationService struct {
	reservation *entity.Reservation
	list        []*entity.Reservation
	err         error
	lastCreate  *service.CreateReservationRequest
}

func (s *stubReservationService) CreateReservation(_ context.Context, req *service.CreateReservationRequest) (*entity.Reservation, error) {
	s.lastCreate = req
	return s.reservation, s.err
}

func (s *stubReservationService) GetReservation(context.Context, int64) (*entity.Reservation, error) {
	return s.reservation, s.err
}

func (s *stubReservationService) GetAllReservations(context.Context) ([]*entity.Reservation, error) {
	return s.list, s.err
}

func (s *stubReservationService) GetReservationsByCustomer(context.Context, int64) ([]*entity.Reservation, error) {
	return s.list, s.err
}

func (s *stubReservationService) UpdateReservationStatus(context.Context, int64, string) (*entity.Reservation, error) {
	return s.reservation, s.err
}

func (s *stubReservationService) DeleteReservation(context.Context, int64) error {
	return s.err
}

func newReservationRouter(svc service.ReservationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewReservationHandler(svc)

	router := gin.New()
	router.POST("/api/v1/reservations", handler.CreateReservation)
	router.GET("/api/v1/reservations/:id", handler.GetReservation)
	router.PATCH("/api/v1/reservations/:id/status", handler.UpdateReservationStatus)
	router.DELETE("/api/v1/reservations/:id", handler.DeleteReservation)
	return router
}

func performRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateReservationHandler(t *testing.T) {
	validBody := map[string]any{
		"customerId": 1,
		"eventId":    2,
		"attendedBy": "Maria Moreno",
		"items":      []map[string]any{{"ticketOptionId": 101, "quantity": 2}},
	}

	t.Run("created", func(t *testing.T) {
		paid := time.Date(2026, time.March, 10, 19, 0, 0, 0, time.UTC)
		svc := &stubReservationService{reservation: &entity.Reservation{
			ID:         7,
			CustomerID: 1,
			EventID:    2,
			Status:     entity.ReservationStatusPending,
			Total:      100,
			CreatedAt:  paid,
			Active:     true,
			Items: []*entity.ReservationItem{
				{ID: 1, TicketOptionID: 101, Quantity: 2, UnitPrice: 50},
			},
		}}
		rec := performRequest(newReservationRouter(svc), http.MethodPost, "/api/v1/reservations", validBody)

		require.Equal(t, http.StatusCreated, rec.Code)

		var got entity.Reservation
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, int64(7), got.ID)
		assert.Equal(t, entity.ReservationStatusPending, got.Status)
		assert.Equal(t, 100.0, got.Total)
		require.Len(t, got.Items, 1)
		assert.Equal(t, int64(101), got.Items[0].TicketOptionID)

		require.NotNil(t, svc.lastCreate)
		assert.Equal(t, "Maria Moreno", svc.lastCreate.AttendedBy)
	})

	t.Run("missing items is rejected before the service", func(t *testing.T) {
		svc := &stubReservationService{}
		rec := performRequest(newReservationRouter(svc), http.MethodPost, "/api/v1/reservations", map[string]any{
			"customerId": 1,
			"eventId":    2,
		})

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("capacity shortage maps to conflict", func(t *testing.T) {
		svc := &stubReservationService{err: &entity.InsufficientCapacityError{
			OptionID:   101,
			OptionName: "Platea",
			Requested:  5,
			Available:  2,
		}}
		rec := performRequest(newReservationRouter(svc), http.MethodPost, "/api/v1/reservations", validBody)

		require.Equal(t, http.StatusConflict, rec.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusConflict, resp.Status)
		assert.Contains(t, resp.Message, "Platea")
	})

	t.Run("version conflict maps to conflict", func(t *testing.T) {
		svc := &stubReservationService{err: entity.ErrVersionConflict}
		rec := performRequest(newReservationRouter(svc), http.MethodPost, "/api/v1/reservations", validBody)

		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("closed event maps to bad request", func(t *testing.T) {
		svc := &stubReservationService{err: entity.ErrEventNotOpen}
		rec := performRequest(newReservationRouter(svc), http.MethodPost, "/api/v1/reservations", validBody)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetReservationHandler(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		svc := &stubReservationService{err: entity.ErrReservationNotFound}
		rec := performRequest(newReservationRouter(svc), http.MethodGet, "/api/v1/reservations/99", nil)

		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		svc := &stubReservationService{}
		rec := performRequest(newReservationRouter(svc), http.MethodGet, "/api/v1/reservations/abc", nil)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateReservationStatusHandler(t *testing.T) {
	t.Run("paid reservation rejects changes", func(t *testing.T) {
		svc := &stubReservationService{err: entity.ErrReservationPaid}
		rec := performRequest(newReservationRouter(svc), http.MethodPatch, "/api/v1/reservations/7/status", map[string]any{
			"status": "CANCELLED",
		})

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Message, "paid")
	})

	t.Run("missing status field", func(t *testing.T) {
		svc := &stubReservationService{}
		rec := performRequest(newReservationRouter(svc), http.MethodPatch, "/api/v1/reservations/7/status", map[string]any{})

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeleteReservationHandler(t *testing.T) {
	svc := &stubReservationService{}
	rec := performRequest(newReservationRouter(svc), http.MethodDelete, "/api/v1/reservations/7", nil)

	require.Equal(t, http.StatusNoContent, rec.Code)
}

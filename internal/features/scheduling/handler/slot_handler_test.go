package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pedidos-service/internal/features/scheduling/domain"
)

// MockSlotAllocator is a mock implementation of ports.SlotAllocator
type MockSlotAllocator struct {
	mock.Mock
}

func (m *MockSlotAllocator) PreviewSlot(ctx context.Context, qty int) (domain.Slot, error) {
	args := m.Called(ctx, qty)
	return args.Get(0).(domain.Slot), args.Error(1)
}

func (m *MockSlotAllocator) ReserveSlot(ctx context.Context, qty int) (domain.Slot, error) {
	args := m.Called(ctx, qty)
	return args.Get(0).(domain.Slot), args.Error(1)
}

func setupApp(allocator *MockSlotAllocator) *fiber.App {
	app := fiber.New()
	h := NewSlotHandler(allocator)
	app.Post("/delivery-date", h.PreviewSlot)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestSlotHandler_PreviewSlot(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		allocator := new(MockSlotAllocator)
		app := setupApp(allocator)

		slot := domain.Slot{
			TierLabel:    "cupo_6",
			LeadDays:     3,
			DeliveryDate: time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC),
			Usage:        domain.CapacityState{Cupo6: 5},
		}
		allocator.On("PreviewSlot", mock.Anything, 5).Return(slot, nil).Once()

		resp := postJSON(t, app, "/delivery-date", PreviewSlotRequest{Quantity: 5})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body PreviewSlotResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "cupo_6", body.Tier)
		assert.Equal(t, 3, body.LeadDays)
		assert.Equal(t, "2024-06-13", body.DeliveryDate)
		allocator.AssertExpectations(t)
	})

	t.Run("InvalidQuantity", func(t *testing.T) {
		allocator := new(MockSlotAllocator)
		app := setupApp(allocator)

		allocator.On("PreviewSlot", mock.Anything, 31).
			Return(domain.Slot{}, domain.ErrInvalidQuantity).Once()

		resp := postJSON(t, app, "/delivery-date", PreviewSlotRequest{Quantity: 31})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		allocator.AssertExpectations(t)
	})

	t.Run("Exhausted", func(t *testing.T) {
		allocator := new(MockSlotAllocator)
		app := setupApp(allocator)

		exhausted := &domain.ExhaustedError{
			Usage: domain.CapacityState{Cupo6: 6, Cupo15: 15, Cupo30: 30},
		}
		allocator.On("PreviewSlot", mock.Anything, 2).
			Return(domain.Slot{}, exhausted).Once()

		resp := postJSON(t, app, "/delivery-date", PreviewSlotRequest{Quantity: 2})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Contains(t, body, "usage")
		allocator.AssertExpectations(t)
	})

	t.Run("InvalidBody", func(t *testing.T) {
		allocator := new(MockSlotAllocator)
		app := setupApp(allocator)

		req := httptest.NewRequest("POST", "/delivery-date", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

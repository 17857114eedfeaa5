package handler

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"pedidos-service/internal/core/logger"
	"pedidos-service/internal/features/scheduling/domain"
	"pedidos-service/internal/features/scheduling/ports"
)

// SlotHandler handles HTTP requests for delivery-slot estimates.
type SlotHandler struct {
	allocator ports.SlotAllocator
}

// NewSlotHandler creates a new SlotHandler.
func NewSlotHandler(allocator ports.SlotAllocator) *SlotHandler {
	return &SlotHandler{
		allocator: allocator,
	}
}

// PreviewSlotRequest represents the request body for a delivery-date estimate.
type PreviewSlotRequest struct {
	Quantity int `json:"quantity"`
}

// PreviewSlotResponse represents a successful delivery-date estimate.
type PreviewSlotResponse struct {
	Tier         string               `json:"tier"`
	LeadDays     int                  `json:"lead_days"`
	DeliveryDate string               `json:"delivery_date"`
	Quantity     int                  `json:"quantity"`
	Usage        domain.CapacityState `json:"usage"`
}

// PreviewSlot handles POST /delivery-date.
// The estimate is a dry run: no capacity is consumed until an order is placed.
// @Summary Estimate the delivery date for a quantity
// @Description Computes the capacity tier and delivery date an order of the given quantity would get today.
// @Tags Scheduling
// @Accept json
// @Produce json
// @Param request body PreviewSlotRequest true "Requested quantity (1-30)"
// @Success 200 {object} PreviewSlotResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]interface{}
// @Router /delivery-date [post]
func (h *SlotHandler) PreviewSlot(c *fiber.Ctx) error {
	var req PreviewSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	slot, err := h.allocator.PreviewSlot(c.Context(), req.Quantity)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidQuantity) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error":    "Quantity must be between 1 and 30 garments",
				"quantity": req.Quantity,
			})
		}

		var exhausted *domain.ExhaustedError
		if errors.As(err, &exhausted) {
			return c.Status(http.StatusConflict).JSON(fiber.Map{
				"error": "All daily capacity tiers are full, please try again tomorrow",
				"usage": exhausted.Usage,
			})
		}

		logger.Get().Error("Failed to preview delivery slot", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(http.StatusOK).JSON(PreviewSlotResponse{
		Tier:         slot.TierLabel,
		LeadDays:     slot.LeadDays,
		DeliveryDate: slot.DeliveryDate.Format(domain.DateLayout),
		Quantity:     req.Quantity,
		Usage:        slot.Usage,
	})
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pedidos-service/internal/core/logger"
	"pedidos-service/internal/features/shipping/domain"
	"pedidos-service/internal/features/shipping/ports"
	"pedidos-service/internal/features/shipping/service"
)

// ShippingHandler handles HTTP requests for shipping quotes.
type ShippingHandler struct {
	service ports.ShippingService
}

// NewShippingHandler creates a new ShippingHandler.
func NewShippingHandler(s ports.ShippingService) *ShippingHandler {
	return &ShippingHandler{
		service: s,
	}
}

// QuoteRequest represents the request body for a shipping quote.
type QuoteRequest struct {
	Mode     string          `json:"mode"`
	CityID   *int64          `json:"city_id"`
	WeightKg decimal.Decimal `json:"weight_kg"`
}

// Quote handles POST /shipping/cost.
// @Summary Quote the shipping cost for an order
// @Description Computes the cost for store pickup (always free) or national shipping (weight and city based).
// @Tags Shipping
// @Accept json
// @Produce json
// @Param request body QuoteRequest true "Shipping mode, optional city and total weight"
// @Success 200 {object} domain.Quote
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /shipping/cost [post]
func (h *ShippingHandler) Quote(c *fiber.Ctx) error {
	var req QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	mode, err := domain.ParseShippingMode(req.Mode)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Shipping mode must be 'Envío Nacional' or 'Retiro tienda Física'",
		})
	}

	quote, err := h.service.Quote(c.Context(), mode, req.CityID, req.WeightKg)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCity) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "Shipping city not found",
			})
		}

		// Missing configuration is an operator problem, not the customer's.
		logger.Get().Error("Failed to quote shipping", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(http.StatusOK).JSON(quote)
}

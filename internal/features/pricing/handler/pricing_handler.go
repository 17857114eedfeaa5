package handler

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"pedidos-service/internal/core/logger"
	"pedidos-service/internal/features/pricing/domain"
	"pedidos-service/internal/features/pricing/ports"
	"pedidos-service/internal/features/pricing/service"
)

// PricingHandler handles HTTP requests for basket pricing.
type PricingHandler struct {
	service ports.PricingService
}

// NewPricingHandler creates a new PricingHandler.
func NewPricingHandler(s ports.PricingService) *PricingHandler {
	return &PricingHandler{
		service: s,
	}
}

// PriceBasketRequest represents the request body for pricing a basket.
type PriceBasketRequest struct {
	Items []domain.BasketItem `json:"items"`
}

// PriceBasket handles POST /pricing/discounts.
// @Summary Price a basket with all applicable discounts
// @Description Computes specific and proportionally distributed global discounts for the given line items.
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body PriceBasketRequest true "Basket line items"
// @Success 200 {object} domain.BasketPricing
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /pricing/discounts [post]
func (h *PricingHandler) PriceBasket(c *fiber.Ctx) error {
	var req PriceBasketRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	pricing, err := h.service.PriceBasket(c.Context(), req.Items)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			return c.Status(http.StatusNotFound).JSON(fiber.Map{
				"error": "Product variant not found",
			})
		case errors.Is(err, domain.ErrEmptyBasket), errors.Is(err, domain.ErrInvalidLineQuantity):
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		logger.Get().Error("Failed to price basket", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"discount_applied": pricing.DiscountTotal.IsPositive(),
		"total_quantity":   pricing.TotalQuantity,
		"discount_total":   pricing.DiscountTotal,
		"items":            pricing.Items,
	})
}

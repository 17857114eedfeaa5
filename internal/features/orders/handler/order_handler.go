package handler

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"pedidos-service/internal/core/logger"
	"pedidos-service/internal/features/orders/domain"
	"pedidos-service/internal/features/orders/ports"
	orderservice "pedidos-service/internal/features/orders/service"
	pricingdomain "pedidos-service/internal/features/pricing/domain"
	pricingservice "pedidos-service/internal/features/pricing/service"
	schedulingdomain "pedidos-service/internal/features/scheduling/domain"
	shippingdomain "pedidos-service/internal/features/shipping/domain"
	shippingservice "pedidos-service/internal/features/shipping/service"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service ports.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(s ports.OrderService) *OrderHandler {
	return &OrderHandler{
		service: s,
	}
}

// CreateOrder handles POST /orders.
// @Summary Place an order
// @Description Reserves a delivery slot, prices the basket, quotes shipping and persists the order atomically.
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body ports.CreateOrderRequest true "Customer, basket lines and shipping"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]interface{}
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req ports.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	order, err := h.service.CreateOrder(c.Context(), req)
	if err != nil {
		return mapError(c, err, "Failed to create order")
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message":       "Order created successfully",
		"order":         order,
		"shipping_cost": order.Shipping.Cost,
	})
}

// UpdateOrder handles PATCH /orders/:id.
// @Summary Update order status
// @Description Changes the status and/or payment status of an order under a row lock.
// @Tags Orders
// @Accept json
// @Produce json
// @Param id path string true "Order id"
// @Param request body ports.UpdateOrderRequest true "Optional status and payment status"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [patch]
func (h *OrderHandler) UpdateOrder(c *fiber.Ctx) error {
	var req ports.UpdateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	order, err := h.service.UpdateOrder(c.Context(), c.Params("id"), req)
	if err != nil {
		return mapError(c, err, "Failed to update order")
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "Order updated successfully",
		"order":   order,
	})
}

// ListOrders handles GET /orders.
// @Summary List orders
// @Description Returns every order with its lines, optionally filtered by status.
// @Tags Orders
// @Produce json
// @Param status query string false "Order status filter"
// @Success 200 {object} map[string]interface{}
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListOrders(c.Context(), statusQuery(c))
	if err != nil {
		return mapError(c, err, "Failed to list orders")
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"orders": orders,
	})
}

// ListCustomerOrders handles GET /orders/customer/:id.
// @Summary List one customer's orders
// @Tags Orders
// @Produce json
// @Param id path int true "Customer id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /orders/customer/{id} [get]
func (h *OrderHandler) ListCustomerOrders(c *fiber.Ctx) error {
	customerID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Customer id must be numeric",
		})
	}

	orders, err := h.service.ListOrdersByCustomer(c.Context(), int64(customerID))
	if err != nil {
		return mapError(c, err, "Failed to list customer orders")
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"orders": orders,
	})
}

// ListDeliveryDates handles GET /orders/delivery-dates.
// @Summary List delivery dates
// @Description Returns the {deliveryDate, customerName} projection for the workshop calendar.
// @Tags Orders
// @Produce json
// @Param status query string false "Order status filter"
// @Success 200 {object} map[string]interface{}
// @Router /orders/delivery-dates [get]
func (h *OrderHandler) ListDeliveryDates(c *fiber.Ctx) error {
	schedules, err := h.service.ListDeliveryDates(c.Context(), statusQuery(c))
	if err != nil {
		return mapError(c, err, "Failed to list delivery dates")
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"orders": schedules,
	})
}

// DeleteOrder handles DELETE /orders/:id.
// @Summary Delete an order
// @Description Removes the order and its lines in one transaction.
// @Tags Orders
// @Produce json
// @Param id path string true "Order id"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [delete]
func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	if err := h.service.DeleteOrder(c.Context(), c.Params("id")); err != nil {
		return mapError(c, err, "Failed to delete order")
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "Order deleted successfully",
	})
}

func statusQuery(c *fiber.Ctx) *string {
	status := c.Query("status")
	if status == "" {
		return nil
	}
	return &status
}

// mapError translates service errors into HTTP statuses: invalid input maps
// to 400, missing records to 404, exhausted capacity to 409 and everything
// else to a logged 500.
func mapError(c *fiber.Ctx, err error, logMsg string) error {
	var exhausted *schedulingdomain.ExhaustedError
	if errors.As(err, &exhausted) {
		return c.Status(http.StatusConflict).JSON(fiber.Map{
			"error": "All daily capacity tiers are full, please try again tomorrow",
			"usage": exhausted.Usage,
		})
	}

	switch {
	case errors.Is(err, shippingdomain.ErrInvalidShippingMode),
		errors.Is(err, orderservice.ErrShippingCityRequired),
		errors.Is(err, orderservice.ErrShippingAddressRequired),
		errors.Is(err, pricingdomain.ErrEmptyBasket),
		errors.Is(err, pricingdomain.ErrInvalidLineQuantity),
		errors.Is(err, schedulingdomain.ErrInvalidQuantity),
		errors.Is(err, shippingservice.ErrInvalidCity),
		errors.Is(err, domain.ErrInvalidOrderStatus),
		errors.Is(err, domain.ErrInvalidPaymentStatus):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, orderservice.ErrCustomerNotFound),
		errors.Is(err, orderservice.ErrProductNotFound),
		errors.Is(err, orderservice.ErrSizeNotFound),
		errors.Is(err, orderservice.ErrNoOrders),
		errors.Is(err, pricingservice.ErrProductNotFound),
		errors.Is(err, domain.ErrOrderNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	logger.Get().Error(logMsg, zap.Error(err))
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}

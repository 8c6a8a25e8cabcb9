package handlers

import (
	"aesthetx/internal/services/checkout"
	"aesthetx/internal/services/order"
	"aesthetx/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type CheckoutHandler struct {
	checkoutService checkout.Service
	orderService    order.Service
}

func NewCheckoutHandler(checkoutSvc checkout.Service, orderSvc order.Service) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutSvc,
		orderService:    orderSvc,
	}
}

// CreateOrder opens a payment with the provider for the caller's cart.
func (h *CheckoutHandler) CreateOrder(c *fiber.Ctx) error {
	po, err := h.checkoutService.CreatePaymentOrder(c.UserContext(), userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, po)
}

// VerifyPayment confirms the payment and records the order.
func (h *CheckoutHandler) VerifyPayment(c *fiber.Ctx) error {
	var input checkout.VerifyInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	o, err := h.checkoutService.VerifyPayment(c.UserContext(), userID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Created(c, fiber.Map{
		"success":     true,
		"orderNumber": o.OrderNumber,
		"order":       o,
	})
}

func (h *CheckoutHandler) ListOrders(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, 10)
	orders, total, err := h.orderService.ListMine(c.UserContext(), userID(c), p.Offset, p.Limit)
	if err != nil {
		return respondError(c, err)
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(orders, p))
}

func (h *CheckoutHandler) GetOrder(c *fiber.Ctx) error {
	o, err := h.orderService.GetMine(c.UserContext(), userID(c), c.Params("orderNumber"))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, o)
}

package handlers

import (
	"aesthetx/internal/services/review"
	"aesthetx/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type ReviewHandler struct {
	reviewService review.Service
}

func NewReviewHandler(reviewSvc review.Service) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewSvc}
}

func (h *ReviewHandler) List(c *fiber.Ctx) error {
	result, err := h.reviewService.ListForProduct(c.UserContext(), c.Params("itemId"))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, result)
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	var input review.Input
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	r, err := h.reviewService.Create(c.UserContext(), userID(c), c.Params("itemId"), input)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Created(c, r)
}

// Delete removes the caller's own review.
func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	return h.delete(c, false)
}

// AdminDelete removes any review.
func (h *ReviewHandler) AdminDelete(c *fiber.Ctx) error {
	return h.delete(c, true)
}

func (h *ReviewHandler) delete(c *fiber.Ctx, asAdmin bool) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.reviewService.Delete(c.UserContext(), userID(c), id, asAdmin); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"success": true})
}

package handlers

import (
	"aesthetx/internal/services/cart"
	"aesthetx/internal/services/wishlist"
	"aesthetx/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	cartService     cart.Service
	wishlistService wishlist.Service
}

func NewCartHandler(cartSvc cart.Service, wishlistSvc wishlist.Service) *CartHandler {
	return &CartHandler{
		cartService:     cartSvc,
		wishlistService: wishlistSvc,
	}
}

func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	ct, err := h.cartService.Get(c.UserContext(), userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, ct)
}

func (h *CartHandler) AddToCart(c *fiber.Ctx) error {
	var input cart.AddInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}

	ct, err := h.cartService.Add(c.UserContext(), userID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, ct)
}

type quantityUpdate struct {
	Quantity int `json:"quantity"`
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (h *CartHandler) UpdateQuantity(c *fiber.Ctx) error {
	itemID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var input quantityUpdate
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}

	ct, err := h.cartService.UpdateQuantity(c.UserContext(), userID(c), itemID, input.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, ct)
}

func (h *CartHandler) RemoveFromCart(c *fiber.Ctx) error {
	itemID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	ct, err := h.cartService.Remove(c.UserContext(), userID(c), itemID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, ct)
}

func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	if err := h.cartService.Clear(c.UserContext(), userID(c)); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"success": true})
}

type wishlistRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

type moveToCartRequest struct {
	Size  string `json:"size"`
	Color string `json:"color"`
}

func (h *CartHandler) GetWishlist(c *fiber.Ctx) error {
	items, err := h.wishlistService.Get(c.UserContext(), userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"items": items})
}

func (h *CartHandler) AddToWishlist(c *fiber.Ctx) error {
	var input wishlistRequest
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}
	if err := h.wishlistService.Add(c.UserContext(), userID(c), input.ProductID); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"inWishlist": true})
}

func (h *CartHandler) ToggleWishlist(c *fiber.Ctx) error {
	var input wishlistRequest
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}
	listed, err := h.wishlistService.Toggle(c.UserContext(), userID(c), input.ProductID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"inWishlist": listed})
}

func (h *CartHandler) RemoveFromWishlist(c *fiber.Ctx) error {
	if err := h.wishlistService.Remove(c.UserContext(), userID(c), c.Params("productId")); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"inWishlist": false})
}

func (h *CartHandler) MoveToCart(c *fiber.Ctx) error {
	var input moveToCartRequest
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}
	ct, err := h.wishlistService.MoveToCart(c.UserContext(), userID(c), c.Params("productId"), input.Size, input.Color)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, ct)
}

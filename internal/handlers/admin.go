package handlers

import (
	"log"
	"strings"

	"aesthetx/internal/repositories"
	"aesthetx/internal/services/order"
	"aesthetx/internal/services/product"
	"aesthetx/internal/services/upload"
	"aesthetx/internal/services/user"
	"aesthetx/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves the back office catalogue, order and user screens.
type AdminHandler struct {
	productService product.Service
	orderService   order.Service
	userService    user.Service
	uploadService  upload.Service
}

func NewAdminHandler(productSvc product.Service, orderSvc order.Service, userSvc user.Service, uploadSvc upload.Service) *AdminHandler {
	return &AdminHandler{
		productService: productSvc,
		orderService:   orderSvc,
		userService:    userSvc,
		uploadService:  uploadSvc,
	}
}

func (h *AdminHandler) ListProducts(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, 20)
	filter := product.AdminFilter{
		Category:   c.Query("category"),
		OutOfStock: c.QueryBool("outOfStock", false),
		Search:     strings.TrimSpace(c.Query("search")),
	}
	if raw := c.Query("hidden"); raw != "" {
		hidden := c.QueryBool("hidden", false)
		filter.Hidden = &hidden
	}

	products, total, err := h.productService.AdminList(c.UserContext(), filter, p.Offset, p.Limit)
	if err != nil {
		return respondError(c, err)
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(products, p))
}

func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var input product.Input
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	p, err := h.productService.Create(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}
	log.Printf("✅ Product %s created", p.ItemID)
	return utils.Created(c, p)
}

func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	var input product.Update
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	p, err := h.productService.Update(c.UserContext(), c.Params("itemId"), input)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, p)
}

func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.productService.Delete(c.UserContext(), c.Params("itemId")); err != nil {
		return respondError(c, err)
	}
	log.Printf("🗑️ Product %s deleted", c.Params("itemId"))
	return utils.Success(c, fiber.Map{"success": true})
}

type visibilityRequest struct {
	IsHidden bool `json:"isHidden"`
}

func (h *AdminHandler) SetVisibility(c *fiber.Ctx) error {
	var input visibilityRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	p, err := h.productService.SetVisibility(c.UserContext(), c.Params("itemId"), input.IsHidden)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, p)
}

type stockRequest struct {
	Stock map[string]string `json:"stock" validate:"required"`
}

// UpdateStock takes the stock form as entered: a value per size or colour,
// blanks counting as zero.
func (h *AdminHandler) UpdateStock(c *fiber.Ctx) error {
	var input stockRequest
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}

	p, err := h.productService.UpdateStock(c.UserContext(), c.Params("itemId"), input.Stock)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, p)
}

func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, 20)
	filter := repositories.OrderFilter{
		Status: c.Query("status"),
		Search: strings.TrimSpace(c.Query("search")),
	}

	orders, total, err := h.orderService.List(c.UserContext(), filter, p.Offset, p.Limit)
	if err != nil {
		return respondError(c, err)
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(orders, p))
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	var input statusRequest
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}

	o, err := h.orderService.UpdateStatus(c.UserContext(), c.Params("orderNumber"), input.Status)
	if err != nil {
		return respondError(c, err)
	}
	log.Printf("📦 Order %s is now %s", o.OrderNumber, o.Status)
	return utils.Success(c, o)
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, 20)
	filter := repositories.UserFilter{
		Role:           c.Query("role"),
		Search:         strings.TrimSpace(c.Query("search")),
		IncludeDeleted: c.QueryBool("includeDeleted", false),
	}

	users, total, err := h.userService.ListUsers(c.UserContext(), filter, p.Offset, p.Limit)
	if err != nil {
		return respondError(c, err)
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(users, p))
}

type roleRequest struct {
	Role string `json:"role" validate:"required"`
}

// SetRole is limited to super admins, who may not change their own role.
func (h *AdminHandler) SetRole(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var input roleRequest
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}
	claims, err := utils.GetSessionClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Not signed in")
	}

	u, err := h.userService.SetRole(c.UserContext(), claims, id, input.Role)
	if err != nil {
		return respondError(c, err)
	}
	log.Printf("👤 User %d role set to %s by %d", u.ID, u.Role, claims.UserID)
	return utils.Success(c, u)
}

type activeRequest struct {
	IsActive bool `json:"isActive"`
}

func (h *AdminHandler) SetActive(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var input activeRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	u, err := h.userService.SetActive(c.UserContext(), id, input.IsActive)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, u)
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if id == userID(c) {
		return utils.BadRequest(c, "You cannot delete your own account here")
	}

	if err := h.userService.SoftDelete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"success": true})
}

type unlockRequest struct {
	Phone   bool `json:"phone"`
	Address bool `json:"address"`
}

// UnlockFields lets a user edit contact details locked at onboarding.
func (h *AdminHandler) UnlockFields(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var input unlockRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	u, err := h.userService.UnlockFields(c.UserContext(), id, input.Phone, input.Address)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, u)
}

// Upload stores a product image sent as the multipart field "file".
func (h *AdminHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return utils.BadRequest(c, "No file uploaded")
	}

	f, err := fh.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer f.Close()

	url, err := h.uploadService.Store(c.UserContext(), fh.Filename, fh.Size, f)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Created(c, fiber.Map{"url": url})
}

package handlers

import (
	"strconv"

	"aesthetx/internal/middleware"
	"aesthetx/internal/services/user"
	"aesthetx/internal/services/view"
	"aesthetx/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService user.Service
	viewService view.Service
}

func NewUserHandler(userSvc user.Service, viewSvc view.Service) *UserHandler {
	return &UserHandler{
		userService: userSvc,
		viewService: viewSvc,
	}
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	u, err := h.userService.GetProfile(c.UserContext(), userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, u)
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var input user.ProfileUpdate
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}

	u, err := h.userService.UpdateProfile(c.UserContext(), userID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, u)
}

func (h *UserHandler) UpdateOnboarding(c *fiber.Ctx) error {
	var input user.OnboardingUpdate
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}

	u, err := h.userService.UpdateOnboarding(c.UserContext(), userID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, u)
}

func (h *UserHandler) CompleteOnboarding(c *fiber.Ctx) error {
	u, err := h.userService.CompleteOnboarding(c.UserContext(), userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, u)
}

// Deactivate signs the user out everywhere; the next sign-in reactivates.
func (h *UserHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.userService.DeactivateAccount(c.UserContext(), userID(c)); err != nil {
		return respondError(c, err)
	}
	middleware.ClearSessionCookie(c)
	return utils.Success(c, fiber.Map{"success": true})
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.userService.DeleteAccount(c.UserContext(), userID(c)); err != nil {
		return respondError(c, err)
	}
	middleware.ClearSessionCookie(c)
	return utils.Success(c, fiber.Map{"success": true})
}

// ViewHistory returns the products the user looked at most recently.
func (h *UserHandler) ViewHistory(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	entries, err := h.viewService.History(c.UserContext(), userID(c), limit)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"items": entries})
}

func (h *UserHandler) ClearViewHistory(c *fiber.Ctx) error {
	cleared, err := h.viewService.ClearHistory(c.UserContext(), userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"cleared": cleared})
}

package handlers

import (
	"log"

	apperrors "aesthetx/internal/errors"
	"aesthetx/internal/utils"
	"aesthetx/internal/validation"

	"github.com/gofiber/fiber/v2"
)

var kindStatus = map[apperrors.Kind]int{
	apperrors.KindInvalid:       fiber.StatusBadRequest,
	apperrors.KindUnauthorized:  fiber.StatusUnauthorized,
	apperrors.KindForbidden:     fiber.StatusForbidden,
	apperrors.KindNotFound:      fiber.StatusNotFound,
	apperrors.KindConflict:      fiber.StatusConflict,
	apperrors.KindUnprocessable: fiber.StatusUnprocessableEntity,
}

// respondError writes err as {"error": message}. Unknown errors are logged
// and reported as a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	if ve, ok := apperrors.AsValidation(err); ok {
		return utils.ValidationFailed(c, ve.Fields)
	}
	if de, ok := apperrors.AsDomain(err); ok {
		status, found := kindStatus[de.Kind]
		if !found {
			status = fiber.StatusBadRequest
		}
		return utils.Error(c, status, de.Message)
	}

	log.Printf("❌ %s %s failed: %v", c.Method(), c.Path(), err)
	return utils.InternalError(c, "Something went wrong. Please try again")
}

// parseBody decodes the request body and runs its struct tags.
func parseBody(c *fiber.Ctx, dest interface{}) error {
	if err := c.BodyParser(dest); err != nil {
		return apperrors.ErrInvalidInput.WithMessage("Invalid request body")
	}
	return apperrors.NewValidation(validation.Struct(dest))
}

func userID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// paramID parses a positive numeric route parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, apperrors.ErrInvalidInput.WithMessage("Invalid " + name)
	}
	return uint(id), nil
}

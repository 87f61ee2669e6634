package handlers

import (
	"errors"

	"usersvc/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// respondError maps a service error to a status and a client-safe body.
// Dependency and asset failures are logged with detail and reported with
// the generic fallback message only.
func respondError(c *fiber.Ctx, log zerolog.Logger, err error, fallback string) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  verr.Fields,
		})
	case errors.Is(err, services.ErrEmptyPatch):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "No valid fields provided for update.",
		})
	case errors.Is(err, services.ErrEmailTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "A user with this email address already exists. Please use a different email.",
		})
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "User with id: " + c.Params("id") + " does not exist.",
		})
	}

	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg(fallback)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": fallback,
	})
}

func badBody(c *fiber.Ctx, log zerolog.Logger, err error) error {
	log.Debug().Err(err).Str("path", c.Path()).Msg("error parsing request body")
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
	})
}

package handlers

import (
	"time"

	"usersvc/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SystemHandler serves the welcome and health endpoints.
type SystemHandler struct {
	users *services.UserService
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(users *services.UserService) *SystemHandler {
	return &SystemHandler{users: users}
}

// RegisterRoutes registers the unversioned routes.
func (h *SystemHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleWelcome)
	router.Get("/health", h.HandleHealth)
}

// HandleWelcome greets the caller.
func (h *SystemHandler) HandleWelcome(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Welcome to the user service",
	})
}

// HandleHealth reports process and store health. It always answers 200.
func (h *SystemHandler) HandleHealth(c *fiber.Ctx) error {
	store := "ok"
	if !h.users.StoreHealthy(c.UserContext()) {
		store = "unreachable"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
		"store":  store,
	})
}

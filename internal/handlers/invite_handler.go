package handlers

import (
	"usersvc/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// InviteHandler handles the invite email trigger.
type InviteHandler struct {
	service *services.InviteService
	log     zerolog.Logger
}

// NewInviteHandler creates a new InviteHandler.
func NewInviteHandler(service *services.InviteService, log zerolog.Logger) *InviteHandler {
	return &InviteHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the invite route with the Fiber app.
func (h *InviteHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/send_invite", h.HandleSendInvite)
}

// HandleSendInvite sends the invite email to the configured recipients.
func (h *InviteHandler) HandleSendInvite(c *fiber.Ctx) error {
	if err := h.service.SendInvite(c.UserContext()); err != nil {
		return respondError(c, h.log, err, "Error sending email.")
	}
	return c.JSON(fiber.Map{
		"detail": "Email sent successfully",
	})
}

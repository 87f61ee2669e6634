package handlers

import (
	"strings"

	"usersvc/internal/models"
	"usersvc/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// UserHandler handles HTTP requests for users.
type UserHandler struct {
	service *services.UserService
	log     zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Post("/", h.HandleCreateUser)
	userRoutes.Get("/", h.HandleGetUsers)
	userRoutes.Get("/:id", h.HandleGetUserByID)
	userRoutes.Put("/:id", h.HandleUpdateUser)
	userRoutes.Delete("/:id", h.HandleDeleteUser)
}

// HandleCreateUser creates a new user and returns it with its assigned ID.
func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req models.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, h.log, err)
	}

	user, err := h.service.CreateUser(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err, "An unexpected error occurred. Please try again later.")
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleGetUsers retrieves all users.
func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.service.GetAllUsers(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err, "An unexpected error occurred while retrieving users. Please try again later.")
	}
	return c.JSON(users)
}

// HandleGetUserByID retrieves a single user by its ID.
func (h *UserHandler) HandleGetUserByID(c *fiber.Ctx) error {
	user, err := h.service.GetUserByID(c.UserContext(), strings.TrimSpace(c.Params("id")))
	if err != nil {
		return respondError(c, h.log, err, "An unexpected error occurred while retrieving the user.")
	}
	return c.JSON(user)
}

// HandleUpdateUser applies a sparse patch to a user.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var req models.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, h.log, err)
	}

	user, err := h.service.UpdateUser(c.UserContext(), strings.TrimSpace(c.Params("id")), req)
	if err != nil {
		return respondError(c, h.log, err, "An unexpected error occurred while updating the user.")
	}
	return c.JSON(user)
}

// HandleDeleteUser deletes a user.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	if err := h.service.DeleteUser(c.UserContext(), strings.TrimSpace(c.Params("id"))); err != nil {
		return respondError(c, h.log, err, "An unexpected error occurred while deleting the user.")
	}
	return c.JSON(fiber.Map{
		"detail": "User deleted successfully",
	})
}

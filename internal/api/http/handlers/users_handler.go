package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/api/dto"
	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/service"
	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/pkg/util"
)

// UsersHandler exposes registration, login and account lookup.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Register handles POST /users.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	user, err := h.auth.Register(c.UserContext(), req.Email, req.Password, req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewUserResponse(*user))
}

// Login handles POST /login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return util.NewValidationError("email and password are required", nil)
	}

	token, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAuthResponse(*token))
}

// Lookup handles GET /users?email=. Passwords never appear in the
// response; an unknown email yields an empty array, not a 404.
func (h *UsersHandler) Lookup(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return util.NewValidationError("email query parameter is required", nil)
	}

	users, err := h.auth.LookupByEmail(c.UserContext(), email)
	if err != nil {
		return err
	}
	result := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		result = append(result, dto.NewUserResponse(user))
	}
	return c.JSON(result)
}

// Logout handles POST /logout, revoking the presented token.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
	token := strings.TrimSpace(strings.TrimPrefix(c.Get("Authorization"), "Bearer "))
	if err := h.auth.Logout(c.UserContext(), token); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

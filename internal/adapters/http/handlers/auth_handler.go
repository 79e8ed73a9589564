package handlers

import (
	"errors"
	"strings"

	"loyaltyhub/internal/core/services"
	"loyaltyhub/internal/pkg/password"
	"loyaltyhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles account endpoints
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest represents registration request body
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
}

// Login handles account login
// @Summary Login
// @Description Authenticate with username and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return response.BadRequest(c, "Username and password are required")
	}

	result, err := h.authService.Login(c.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return response.Unauthorized(c, "Invalid username or password")
		}
		return response.InternalServerError(c, "Failed to login")
	}

	return response.Success(c, "Login successful", result)
}

// Register handles account registration
// @Summary Register
// @Description Create an account and its customer profile
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	username := strings.TrimSpace(req.Username)
	fullName := strings.TrimSpace(req.FullName)
	phone := strings.TrimSpace(req.PhoneNumber)

	if len(username) < 3 || len(username) > 50 {
		return response.BadRequest(c, "Username must be between 3 and 50 characters")
	}
	if !password.ValidatePassword(req.Password) {
		return response.BadRequest(c, "Password must be at least 6 characters")
	}
	if fullName == "" {
		return response.BadRequest(c, "Full name is required")
	}
	if len(fullName) > 100 {
		return response.BadRequest(c, "Full name must not exceed 100 characters")
	}
	if len(phone) > 15 {
		return response.BadRequest(c, "Phone number must not exceed 15 characters")
	}

	input := &services.RegisterInput{
		Username:    username,
		Password:    req.Password,
		FullName:    fullName,
		PhoneNumber: phone,
	}

	result, err := h.authService.Register(c.Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrUsernameTaken) {
			return response.Conflict(c, "Username already exists")
		}
		return response.InternalServerError(c, "Failed to register")
	}

	return response.Created(c, "Registration successful", result)
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/commercekit/storefront/internal/auth"
	"github.com/commercekit/storefront/internal/httpx"
	"github.com/commercekit/storefront/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Register(c *fiber.Ctx) error {
	var request RegisterUserRequest
	if err := c.BodyParser(&request); err != nil {
		return httpx.BadRequestResponse(c, "Invalid request body", map[string]interface{}{
			"parse_error": err.Error(),
		})
	}

	user, token, err := h.userService.Register(c.Context(), service.RegisterInput{
		Username: request.Username,
		Email:    request.Email,
		Password: request.Password,
	})
	if err != nil {
		return respondError(c, err)
	}

	c.Set("x-auth-token", token)
	return httpx.CreatedResponse(c, "New user created successfully!", toUserResponse(user))
}

func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	user, err := h.userService.Get(c.Context(), auth.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return httpx.SuccessResponse(c, "User retrieved successfully", toUserResponse(user))
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	var request UpdateUserRequest
	if err := c.BodyParser(&request); err != nil {
		return httpx.BadRequestResponse(c, "Invalid request body", map[string]interface{}{
			"parse_error": err.Error(),
		})
	}

	user, err := h.userService.Update(c.Context(), auth.UserID(c), service.UpdateUserInput{
		Username: request.Username,
		Email:    request.Email,
		Password: request.Password,
	})
	if err != nil {
		return respondError(c, err)
	}
	return httpx.SuccessResponse(c, "User updated successfully", toUserResponse(user))
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	user, err := h.userService.Delete(c.Context(), auth.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return httpx.SuccessResponse(c, "This user has been deleted successfully!", map[string]interface{}{
		"email": user.Email,
	})
}

func (h *UserHandler) RequestSeller(c *fiber.Ctx) error {
	user, err := h.userService.RequestSeller(c.Context(), auth.UserID(c), c.Hostname())
	if err != nil {
		return respondError(c, err)
	}
	return httpx.SuccessResponse(c, "A verification email has been sent to "+user.Email, nil)
}

func (h *UserHandler) ConfirmSeller(c *fiber.Ctx) error {
	if err := h.userService.ConfirmSeller(c.Context(), auth.UserID(c)); err != nil {
		return respondError(c, err)
	}
	return httpx.SuccessResponse(c, "BINGO, you are a seller now!", nil)
}

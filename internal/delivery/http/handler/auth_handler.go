package handler

import (
	"skills-matrix/internal/delivery/http/dto"
	"skills-matrix/internal/delivery/http/middleware"
	"skills-matrix/internal/pkg/response"
	"skills-matrix/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AuthHandler struct {
	uc usecase.AuthUsecase
}

func NewAuthHandler(uc usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.Bind().Body(&req); err != nil {
		return badBody(err)
	}

	res, err := h.uc.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, dto.LoginResponse{
		Token:    res.Token,
		Username: res.Username,
		Message:  "Login successful",
	})
}

func (h *AuthHandler) Logout(c fiber.Ctx) error {
	tok, _ := middleware.BearerToken(c.Get("Authorization"))
	if err := h.uc.Logout(c.Context(), tok); err != nil {
		return mapUsecaseError(err)
	}
	return response.Message(c, fiber.StatusOK, "Logout successful")
}

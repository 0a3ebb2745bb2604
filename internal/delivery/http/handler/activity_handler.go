package handler

import (
	"strconv"

	"skills-matrix/internal/delivery/http/dto"
	"skills-matrix/internal/delivery/http/middleware"
	"skills-matrix/internal/pkg/response"
	"skills-matrix/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ActivityHandler struct {
	uc usecase.ActivityUsecase
}

func NewActivityHandler(uc usecase.ActivityUsecase) *ActivityHandler {
	return &ActivityHandler{uc: uc}
}

func (h *ActivityHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/activity", h.List)
}

func (h *ActivityHandler) List(c fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "limit must be an integer", err)
		}
		limit = n
	}

	items, err := h.uc.ListRecentActivity(c.Context(), limit)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, dto.NewActivityResponses(items))
}

package handler

import (
	"context"
	"log"
	"time"

	"skills-matrix/internal/delivery/http/dto"
	"skills-matrix/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db     Pinger
	logger *log.Logger
}

func NewHealthHandler(db Pinger, logger *log.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/health", h.Check)
}

func (h *HealthHandler) Check(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	if h.db == nil {
		return response.JSON(c, fiber.StatusServiceUnavailable, dto.HealthResponse{Status: "unhealthy", Database: "disconnected"})
	}
	if err := h.db.Ping(ctx); err != nil {
		if h.logger != nil {
			h.logger.Printf("[Health] database ping failed err=%v", err)
		}
		return response.JSON(c, fiber.StatusServiceUnavailable, dto.HealthResponse{Status: "unhealthy", Database: "disconnected"})
	}
	return response.JSON(c, fiber.StatusOK, dto.HealthResponse{Status: "healthy", Database: "connected"})
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

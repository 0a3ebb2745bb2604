package handler

import (
	"errors"

	"skills-matrix/internal/delivery/http/middleware"
	"skills-matrix/internal/pkg/response"
	"skills-matrix/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const msgInvalidLevel = "Invalid level: must be \"X\" or an integer from 1 to 4"

func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	var ve *usecase.ValidationError
	switch {
	case errors.As(err, &ve):
		return middleware.NewAppError(fiber.StatusBadRequest, ve.Message, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", err)
	case errors.Is(err, usecase.ErrInvalidLevel):
		return middleware.NewAppError(fiber.StatusBadRequest, msgInvalidLevel, err)
	case errors.Is(err, usecase.ErrDepartmentNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Department not found", err)
	case errors.Is(err, usecase.ErrEmployeeNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Employee not found", err)
	case errors.Is(err, usecase.ErrSkillNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Skill not found", err)
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid credentials", err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", err)
	case errors.Is(err, usecase.ErrStorage):
		return middleware.NewAppError(fiber.StatusInternalServerError, err.Error(), err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, err)
	}
}

func badBody(err error) error {
	return middleware.NewAppError(fiber.StatusBadRequest, "Invalid JSON body", err)
}

// pathID parses a uuid path parameter. Ids that cannot exist are reported
// as the missing entity.
func pathID(c fiber.Ctx, notFound error) (uuid.UUID, error) {
	return parseID(c.Params("id"), notFound)
}

func parseID(raw string, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, mapUsecaseError(notFound)
	}
	return id, nil
}

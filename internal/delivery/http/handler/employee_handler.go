package handler

import (
	"strings"

	"skills-matrix/internal/delivery/http/dto"
	"skills-matrix/internal/delivery/http/middleware"
	"skills-matrix/internal/pkg/response"
	"skills-matrix/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type EmployeeHandler struct {
	uc usecase.MatrixUsecase
}

func NewEmployeeHandler(uc usecase.MatrixUsecase) *EmployeeHandler {
	return &EmployeeHandler{uc: uc}
}

func (h *EmployeeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/employees", h.Create)
	r.Put("/employees/:id", h.Update)
	r.Delete("/employees/:id", h.Delete)
}

func (h *EmployeeHandler) Create(c fiber.Ctx) error {
	var req dto.AddEmployeeRequest
	if err := c.Bind().Body(&req); err != nil {
		return badBody(err)
	}
	if strings.TrimSpace(req.DepartmentID) == "" || strings.TrimSpace(req.Name) == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "Department ID and name are required", nil)
	}
	deptID, err := parseID(req.DepartmentID, usecase.ErrDepartmentNotFound)
	if err != nil {
		return err
	}

	v, err := h.uc.AddEmployee(c.Context(), deptID, usecase.AddEmployeeInput{Name: req.Name, Role: req.Role})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusCreated, dto.NewDepartmentResponse(v))
}

func (h *EmployeeHandler) Update(c fiber.Ctx) error {
	id, err := pathID(c, usecase.ErrEmployeeNotFound)
	if err != nil {
		return err
	}
	var req dto.UpdateEmployeeRequest
	if err := c.Bind().Body(&req); err != nil {
		return badBody(err)
	}

	v, err := h.uc.UpdateEmployee(c.Context(), id, usecase.UpdateEmployeeInput{Name: req.Name, Role: req.Role})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, dto.NewDepartmentResponse(v))
}

func (h *EmployeeHandler) Delete(c fiber.Ctx) error {
	id, err := pathID(c, usecase.ErrEmployeeNotFound)
	if err != nil {
		return err
	}
	v, err := h.uc.DeleteEmployee(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, dto.NewDepartmentResponse(v))
}

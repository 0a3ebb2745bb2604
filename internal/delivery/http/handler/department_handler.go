package handler

import (
	"strconv"

	"skills-matrix/internal/delivery/http/dto"
	"skills-matrix/internal/delivery/http/middleware"
	"skills-matrix/internal/pkg/response"
	"skills-matrix/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type DepartmentHandler struct {
	uc     usecase.MatrixUsecase
	export usecase.ExportUsecase
}

func NewDepartmentHandler(uc usecase.MatrixUsecase, export usecase.ExportUsecase) *DepartmentHandler {
	return &DepartmentHandler{uc: uc, export: export}
}

func (h *DepartmentHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/departments", h.List)
	r.Post("/departments", h.Create)
	r.Get("/departments/:id", h.Get)
	r.Put("/departments/:id", h.Update)
	r.Delete("/departments/:id", h.Delete)
	r.Get("/departments/:id/export", h.Export)
	r.Post("/departments/:id/employees", h.AddEmployee)
}

func (h *DepartmentHandler) List(c fiber.Ctx) error {
	views, err := h.uc.ListDepartments(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, dto.NewDepartmentListResponse(views))
}

func (h *DepartmentHandler) Get(c fiber.Ctx) error {
	id, err := pathID(c, usecase.ErrDepartmentNotFound)
	if err != nil {
		return err
	}
	v, err := h.uc.GetDepartmentView(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, dto.NewDepartmentResponse(v))
}

func (h *DepartmentHandler) Create(c fiber.Ctx) error {
	var req dto.CreateDepartmentRequest
	if err := c.Bind().Body(&req); err != nil {
		return badBody(err)
	}

	v, err := h.uc.CreateDepartment(c.Context(), usecase.CreateDepartmentInput{Name: req.Name, TargetLevel: req.TargetLevel})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusCreated, dto.NewDepartmentResponse(v))
}

func (h *DepartmentHandler) Update(c fiber.Ctx) error {
	id, err := pathID(c, usecase.ErrDepartmentNotFound)
	if err != nil {
		return err
	}
	var req dto.UpdateDepartmentRequest
	if err := c.Bind().Body(&req); err != nil {
		return badBody(err)
	}

	v, err := h.uc.UpdateDepartment(c.Context(), id, usecase.UpdateDepartmentInput{Name: req.Name, TargetLevel: req.TargetLevel})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, dto.NewDepartmentResponse(v))
}

func (h *DepartmentHandler) Delete(c fiber.Ctx) error {
	id, err := pathID(c, usecase.ErrDepartmentNotFound)
	if err != nil {
		return err
	}
	if err := h.uc.DeleteDepartment(c.Context(), id); err != nil {
		return mapUsecaseError(err)
	}
	return response.Message(c, fiber.StatusOK, "Department deleted successfully")
}

func (h *DepartmentHandler) AddEmployee(c fiber.Ctx) error {
	id, err := pathID(c, usecase.ErrDepartmentNotFound)
	if err != nil {
		return err
	}
	var req dto.AddEmployeeRequest
	if err := c.Bind().Body(&req); err != nil {
		return badBody(err)
	}

	v, err := h.uc.AddEmployee(c.Context(), id, usecase.AddEmployeeInput{Name: req.Name, Role: req.Role})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusCreated, dto.NewDepartmentResponse(v))
}

func (h *DepartmentHandler) Export(c fiber.Ctx) error {
	if h.export == nil {
		return middleware.NewAppError(fiber.StatusNotFound, "Endpoint not found", nil)
	}
	id, err := pathID(c, usecase.ErrDepartmentNotFound)
	if err != nil {
		return err
	}

	wb, err := h.export.ExportDepartment(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}

	c.Set(fiber.HeaderContentType, wb.ContentType)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+strconv.Quote(wb.Filename))
	return c.Status(fiber.StatusOK).Send(wb.Data)
}

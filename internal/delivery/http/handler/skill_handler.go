package handler

import (
	"bytes"
	"encoding/json"
	"strings"

	"skills-matrix/internal/delivery/http/dto"
	"skills-matrix/internal/delivery/http/middleware"
	"skills-matrix/internal/pkg/response"
	"skills-matrix/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const msgSkillFieldsRequired = "Department ID and skill name are required"

type SkillHandler struct {
	uc usecase.MatrixUsecase
}

func NewSkillHandler(uc usecase.MatrixUsecase) *SkillHandler {
	return &SkillHandler{uc: uc}
}

func (h *SkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/skills", h.Add)
	r.Delete("/skills", h.Remove)
	r.Put("/skills/level", h.SetLevel)
}

func (h *SkillHandler) Add(c fiber.Ctx) error {
	var req dto.SkillRequest
	if err := c.Bind().Body(&req); err != nil {
		return badBody(err)
	}
	if strings.TrimSpace(req.DepartmentID) == "" || strings.TrimSpace(req.Name) == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, msgSkillFieldsRequired, nil)
	}
	deptID, err := parseID(req.DepartmentID, usecase.ErrDepartmentNotFound)
	if err != nil {
		return err
	}

	v, err := h.uc.AddSkill(c.Context(), deptID, req.Name)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusCreated, dto.NewDepartmentResponse(v))
}

func (h *SkillHandler) Remove(c fiber.Ctx) error {
	var req dto.SkillRequest
	if err := c.Bind().Body(&req); err != nil {
		return badBody(err)
	}
	if strings.TrimSpace(req.DepartmentID) == "" || strings.TrimSpace(req.Name) == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, msgSkillFieldsRequired, nil)
	}
	deptID, err := parseID(req.DepartmentID, usecase.ErrDepartmentNotFound)
	if err != nil {
		return err
	}

	v, err := h.uc.RemoveSkill(c.Context(), deptID, req.Name)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, dto.NewDepartmentResponse(v))
}

func (h *SkillHandler) SetLevel(c fiber.Ctx) error {
	var req dto.SetLevelRequest
	if err := c.Bind().Body(&req); err != nil {
		return badBody(err)
	}
	level, present := decodeLevel(req.Level)
	if strings.TrimSpace(req.EmployeeID) == "" || strings.TrimSpace(req.SkillName) == "" || !present {
		return middleware.NewAppError(fiber.StatusBadRequest, "Employee ID, skill name, and level are required", nil)
	}
	empID, err := parseID(req.EmployeeID, usecase.ErrEmployeeNotFound)
	if err != nil {
		return err
	}

	v, err := h.uc.SetSkillLevel(c.Context(), empID, req.SkillName, level)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, dto.NewDepartmentResponse(v))
}

// decodeLevel keeps numbers as json.Number so 2.5 is not silently truncated.
// A missing or null level is reported as absent.
func decodeLevel(raw json.RawMessage) (any, bool) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || v == nil {
		return nil, false
	}
	return v, true
}

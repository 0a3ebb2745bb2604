package dto

import "encoding/json"

type CreateDepartmentRequest struct {
	Name        string `json:"name"`
	TargetLevel *int   `json:"targetLevel"`
}

type UpdateDepartmentRequest struct {
	Name        *string `json:"name"`
	TargetLevel *int    `json:"targetLevel"`
}

type AddEmployeeRequest struct {
	DepartmentID string `json:"departmentId"`
	Name         string `json:"name"`
	Role         string `json:"role"`
}

type UpdateEmployeeRequest struct {
	Name *string `json:"name"`
	Role *string `json:"role"`
}

type SkillRequest struct {
	DepartmentID string `json:"departmentId"`
	Name         string `json:"name"`
}

// SetLevelRequest keeps the level raw so "X" and numbers reach the level codec untouched.
type SetLevelRequest struct {
	EmployeeID string          `json:"employeeId"`
	SkillName  string          `json:"skillName"`
	Level      json.RawMessage `json:"level"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

package dto

import (
	"skills-matrix/internal/domain/matrix"
)

// ListVersion is bumped whenever the shape of the department list changes.
const ListVersion = 1

type EmployeeResponse struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Role   string        `json:"role"`
	Levels matrix.Levels `json:"levels"`
}

type DepartmentResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	TargetLevel int                `json:"targetLevel"`
	Skills      []string           `json:"skills"`
	Employees   []EmployeeResponse `json:"employees"`
}

type DepartmentListResponse struct {
	Departments []DepartmentResponse `json:"departments"`
	Version     int                  `json:"version"`
}

func NewDepartmentResponse(v matrix.DepartmentView) DepartmentResponse {
	skills := v.Skills
	if skills == nil {
		skills = []string{}
	}
	employees := make([]EmployeeResponse, 0, len(v.Employees))
	for _, e := range v.Employees {
		levels := e.Levels
		if levels == nil {
			levels = matrix.Levels{}
		}
		employees = append(employees, EmployeeResponse{
			ID:     e.ID.String(),
			Name:   e.Name,
			Role:   e.Role,
			Levels: levels,
		})
	}
	return DepartmentResponse{
		ID:          v.ID.String(),
		Name:        v.Name,
		TargetLevel: v.TargetLevel,
		Skills:      skills,
		Employees:   employees,
	}
}

func NewDepartmentListResponse(views []matrix.DepartmentView) DepartmentListResponse {
	out := make([]DepartmentResponse, 0, len(views))
	for _, v := range views {
		out = append(out, NewDepartmentResponse(v))
	}
	return DepartmentListResponse{Departments: out, Version: ListVersion}
}

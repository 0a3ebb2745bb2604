package seeder

import (
	"context"
	"fmt"

	"skills-matrix/internal/domain/matrix"
	"skills-matrix/internal/usecase"
)

const DemoDepartmentName = "Engineering"

// DemoDepartmentSeeder creates one populated department on an empty install.
// It does nothing once any department exists.
type DemoDepartmentSeeder struct{}

func (DemoDepartmentSeeder) Name() string { return "demo_department" }

func (DemoDepartmentSeeder) Run(ctx context.Context, uc usecase.MatrixUsecase) error {
	existing, err := uc.ListDepartments(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	target := 3
	dept, err := uc.CreateDepartment(ctx, usecase.CreateDepartmentInput{Name: DemoDepartmentName, TargetLevel: &target})
	if err != nil {
		return err
	}

	for _, s := range []string{"Go", "PostgreSQL", "Docker", "Kubernetes"} {
		if _, err := uc.AddSkill(ctx, dept.ID, s); err != nil {
			return fmt.Errorf("skill %s: %w", s, err)
		}
	}

	people := []struct {
		name   string
		role   string
		levels map[string]any
	}{
		{"Ann", "Backend Engineer", map[string]any{"Go": 4, "PostgreSQL": 3, "Docker": 2}},
		{"Ben", "Platform Engineer", map[string]any{"Go": 2, "Docker": 4, "Kubernetes": 3}},
		{"Cleo", "Junior Engineer", map[string]any{"Go": 1}},
	}
	for _, p := range people {
		v, err := uc.AddEmployee(ctx, dept.ID, usecase.AddEmployeeInput{Name: p.name, Role: p.role})
		if err != nil {
			return fmt.Errorf("employee %s: %w", p.name, err)
		}
		emp, ok := findEmployee(v, p.name)
		if !ok {
			return fmt.Errorf("employee %s missing after insert", p.name)
		}
		for skill, level := range p.levels {
			if _, err := uc.SetSkillLevel(ctx, emp.ID, skill, level); err != nil {
				return fmt.Errorf("level %s/%s: %w", p.name, skill, err)
			}
		}
	}
	return nil
}

func findEmployee(v matrix.DepartmentView, name string) (matrix.EmployeeView, bool) {
	for i := len(v.Employees) - 1; i >= 0; i-- {
		if v.Employees[i].Name == name {
			return v.Employees[i], true
		}
	}
	return matrix.EmployeeView{}, false
}

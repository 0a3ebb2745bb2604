package matrix

import (
	"time"

	"github.com/google/uuid"
)

const DefaultTargetLevel = 3

type Department struct {
	ID          uuid.UUID
	Name        string
	TargetLevel int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Skill struct {
	ID           uuid.UUID
	DepartmentID uuid.UUID
	Name         string
	DisplayOrder int
	CreatedAt    time.Time
}

type Employee struct {
	ID           uuid.UUID
	DepartmentID uuid.UUID
	Name         string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type SkillLevel struct {
	EmployeeID uuid.UUID
	SkillID    uuid.UUID
	Value      Level
	UpdatedAt  time.Time
}

// LevelRow is one cell of a department matrix joined to its skill name.
type LevelRow struct {
	EmployeeID uuid.UUID
	SkillName  string
	Value      Level
}

type ActivityRecord struct {
	ID           uuid.UUID
	OccurredAt   time.Time
	Actor        string
	Action       string
	EntityType   string
	EntityID     uuid.UUID
	DepartmentID *uuid.UUID
	Detail       string
}

const (
	EntityDepartment = "department"
	EntityEmployee   = "employee"
	EntitySkill      = "skill"
	EntitySkillLevel = "skill_level"
)

const (
	ActionDepartmentCreate = "department.create"
	ActionDepartmentUpdate = "department.update"
	ActionDepartmentDelete = "department.delete"
	ActionEmployeeCreate   = "employee.create"
	ActionEmployeeUpdate   = "employee.update"
	ActionEmployeeDelete   = "employee.delete"
	ActionSkillCreate      = "skill.create"
	ActionSkillDelete      = "skill.delete"
	ActionSkillLevelSet    = "skill_level.set"
)

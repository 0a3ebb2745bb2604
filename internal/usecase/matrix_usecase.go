package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"skills-matrix/internal/domain/matrix"
	"skills-matrix/internal/pkg/idgen"
	"skills-matrix/internal/pkg/principal"
	"skills-matrix/internal/repository"

	"github.com/google/uuid"
)

type CreateDepartmentInput struct {
	Name        string
	TargetLevel *int
}

type UpdateDepartmentInput struct {
	Name        *string
	TargetLevel *int
}

type AddEmployeeInput struct {
	Name string
	Role string
}

type UpdateEmployeeInput struct {
	Name *string
	Role *string
}

type MatrixUsecase interface {
	ListDepartments(ctx context.Context) ([]matrix.DepartmentView, error)
	GetDepartmentView(ctx context.Context, departmentID uuid.UUID) (matrix.DepartmentView, error)

	CreateDepartment(ctx context.Context, in CreateDepartmentInput) (matrix.DepartmentView, error)
	UpdateDepartment(ctx context.Context, id uuid.UUID, in UpdateDepartmentInput) (matrix.DepartmentView, error)
	DeleteDepartment(ctx context.Context, id uuid.UUID) error

	AddEmployee(ctx context.Context, departmentID uuid.UUID, in AddEmployeeInput) (matrix.DepartmentView, error)
	UpdateEmployee(ctx context.Context, id uuid.UUID, in UpdateEmployeeInput) (matrix.DepartmentView, error)
	DeleteEmployee(ctx context.Context, id uuid.UUID) (matrix.DepartmentView, error)

	AddSkill(ctx context.Context, departmentID uuid.UUID, name string) (matrix.DepartmentView, error)
	RemoveSkill(ctx context.Context, departmentID uuid.UUID, name string) (matrix.DepartmentView, error)
	SetSkillLevel(ctx context.Context, employeeID uuid.UUID, skillName string, level any) (matrix.DepartmentView, error)
}

// ChangeNotifier receives an event after every committed mutation.
type ChangeNotifier interface {
	Notify(ev matrix.ChangeEvent)
}

type Matrix struct {
	repo     repository.MatrixRepository
	notifier ChangeNotifier
	logger   *log.Logger

	ids idgen.Generator
	now func() time.Time
}

func NewMatrixUsecase(repo repository.MatrixRepository, notifier ChangeNotifier, logger *log.Logger) *Matrix {
	return &Matrix{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		ids:      idgen.UUID{},
		now:      time.Now,
	}
}

func (u *Matrix) ListDepartments(ctx context.Context) ([]matrix.DepartmentView, error) {
	ids, err := u.repo.ListDepartmentIDs(ctx)
	if err != nil {
		return nil, storageError(err)
	}

	out := make([]matrix.DepartmentView, 0, len(ids))
	for _, id := range ids {
		v, err := u.GetDepartmentView(ctx, id)
		if err != nil {
			if errors.Is(err, ErrDepartmentNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (u *Matrix) GetDepartmentView(ctx context.Context, departmentID uuid.UUID) (matrix.DepartmentView, error) {
	d, err := u.repo.GetDepartment(ctx, departmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return matrix.DepartmentView{}, ErrDepartmentNotFound
		}
		return matrix.DepartmentView{}, storageError(err)
	}

	skills, err := u.repo.ListSkills(ctx, departmentID)
	if err != nil {
		return matrix.DepartmentView{}, storageError(err)
	}
	employees, err := u.repo.ListEmployees(ctx, departmentID)
	if err != nil {
		return matrix.DepartmentView{}, storageError(err)
	}
	rows, err := u.repo.ListDepartmentLevels(ctx, departmentID)
	if err != nil {
		return matrix.DepartmentView{}, storageError(err)
	}

	return matrix.BuildDepartmentView(d, skills, employees, rows), nil
}

func (u *Matrix) CreateDepartment(ctx context.Context, in CreateDepartmentInput) (matrix.DepartmentView, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return matrix.DepartmentView{}, invalidInput("Department name is required")
	}
	target := matrix.DefaultTargetLevel
	if in.TargetLevel != nil {
		target = *in.TargetLevel
	}

	now := u.now().UTC()
	d := matrix.Department{ID: u.ids.NewID(), Name: name, TargetLevel: target, CreatedAt: now, UpdatedAt: now}

	err := u.mutate(ctx, "create_department", ErrDepartmentNotFound, func(r repository.MatrixRepository) error {
		if err := r.InsertDepartment(ctx, d); err != nil {
			return err
		}
		return u.record(ctx, r, matrix.ActionDepartmentCreate, matrix.EntityDepartment, d.ID, d.ID, name)
	})
	if err != nil {
		return matrix.DepartmentView{}, err
	}

	u.notify(ctx, matrix.EventDepartmentUpdated, d.ID, matrix.ActionDepartmentCreate)
	return u.GetDepartmentView(ctx, d.ID)
}

func (u *Matrix) UpdateDepartment(ctx context.Context, id uuid.UUID, in UpdateDepartmentInput) (matrix.DepartmentView, error) {
	if in.Name == nil && in.TargetLevel == nil {
		return matrix.DepartmentView{}, invalidInput("No fields to update")
	}
	upd := repository.DepartmentUpdate{TargetLevel: in.TargetLevel, UpdatedAt: u.now().UTC()}
	var changed []string
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return matrix.DepartmentView{}, invalidInput("Department name cannot be empty")
		}
		upd.Name = &name
		changed = append(changed, "name")
	}
	if in.TargetLevel != nil {
		changed = append(changed, "targetLevel")
	}

	err := u.mutate(ctx, "update_department", ErrDepartmentNotFound, func(r repository.MatrixRepository) error {
		ok, err := r.DepartmentExists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrDepartmentNotFound
		}
		if err := r.UpdateDepartment(ctx, id, upd); err != nil {
			return err
		}
		return u.record(ctx, r, matrix.ActionDepartmentUpdate, matrix.EntityDepartment, id, id, strings.Join(changed, ","))
	})
	if err != nil {
		return matrix.DepartmentView{}, err
	}

	u.notify(ctx, matrix.EventDepartmentUpdated, id, matrix.ActionDepartmentUpdate)
	return u.GetDepartmentView(ctx, id)
}

func (u *Matrix) DeleteDepartment(ctx context.Context, id uuid.UUID) error {
	err := u.mutate(ctx, "delete_department", ErrDepartmentNotFound, func(r repository.MatrixRepository) error {
		d, err := r.GetDepartment(ctx, id)
		if err != nil {
			return err
		}
		if err := r.DeleteDepartment(ctx, id); err != nil {
			return err
		}
		return u.record(ctx, r, matrix.ActionDepartmentDelete, matrix.EntityDepartment, id, id, d.Name)
	})
	if err != nil {
		return err
	}

	u.notify(ctx, matrix.EventDepartmentDeleted, id, matrix.ActionDepartmentDelete)
	return nil
}

func (u *Matrix) AddEmployee(ctx context.Context, departmentID uuid.UUID, in AddEmployeeInput) (matrix.DepartmentView, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return matrix.DepartmentView{}, invalidInput("Employee name is required")
	}

	now := u.now().UTC()
	e := matrix.Employee{
		ID:           u.ids.NewID(),
		DepartmentID: departmentID,
		Name:         name,
		Role:         strings.TrimSpace(in.Role),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := u.mutate(ctx, "add_employee", ErrDepartmentNotFound, func(r repository.MatrixRepository) error {
		ok, err := r.DepartmentExists(ctx, departmentID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrDepartmentNotFound
		}
		if err := r.InsertEmployee(ctx, e); err != nil {
			return err
		}

		skills, err := r.ListSkills(ctx, departmentID)
		if err != nil {
			return err
		}
		for _, s := range skills {
			cell := matrix.SkillLevel{EmployeeID: e.ID, SkillID: s.ID, Value: matrix.LevelInitial, UpdatedAt: now}
			if err := r.InsertSkillLevel(ctx, cell); err != nil {
				return err
			}
		}
		return u.record(ctx, r, matrix.ActionEmployeeCreate, matrix.EntityEmployee, e.ID, departmentID, name)
	})
	if err != nil {
		return matrix.DepartmentView{}, err
	}

	u.notify(ctx, matrix.EventDepartmentUpdated, departmentID, matrix.ActionEmployeeCreate)
	return u.GetDepartmentView(ctx, departmentID)
}

func (u *Matrix) UpdateEmployee(ctx context.Context, id uuid.UUID, in UpdateEmployeeInput) (matrix.DepartmentView, error) {
	var departmentID uuid.UUID

	err := u.mutate(ctx, "update_employee", ErrEmployeeNotFound, func(r repository.MatrixRepository) error {
		e, err := r.GetEmployee(ctx, id)
		if err != nil {
			return err
		}
		departmentID = e.DepartmentID

		if in.Name == nil && in.Role == nil {
			return invalidInput("No fields to update")
		}
		upd := repository.EmployeeUpdate{UpdatedAt: u.now().UTC()}
		var changed []string
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return invalidInput("Employee name cannot be empty")
			}
			upd.Name = &name
			changed = append(changed, "name")
		}
		if in.Role != nil {
			role := strings.TrimSpace(*in.Role)
			upd.Role = &role
			changed = append(changed, "role")
		}

		if err := r.UpdateEmployee(ctx, id, upd); err != nil {
			return err
		}
		return u.record(ctx, r, matrix.ActionEmployeeUpdate, matrix.EntityEmployee, id, departmentID, strings.Join(changed, ","))
	})
	if err != nil {
		return matrix.DepartmentView{}, err
	}

	u.notify(ctx, matrix.EventDepartmentUpdated, departmentID, matrix.ActionEmployeeUpdate)
	return u.GetDepartmentView(ctx, departmentID)
}

func (u *Matrix) DeleteEmployee(ctx context.Context, id uuid.UUID) (matrix.DepartmentView, error) {
	var departmentID uuid.UUID

	err := u.mutate(ctx, "delete_employee", ErrEmployeeNotFound, func(r repository.MatrixRepository) error {
		e, err := r.GetEmployee(ctx, id)
		if err != nil {
			return err
		}
		departmentID = e.DepartmentID

		if err := r.DeleteEmployee(ctx, id); err != nil {
			return err
		}
		return u.record(ctx, r, matrix.ActionEmployeeDelete, matrix.EntityEmployee, id, departmentID, e.Name)
	})
	if err != nil {
		return matrix.DepartmentView{}, err
	}

	u.notify(ctx, matrix.EventDepartmentUpdated, departmentID, matrix.ActionEmployeeDelete)
	return u.GetDepartmentView(ctx, departmentID)
}

func (u *Matrix) AddSkill(ctx context.Context, departmentID uuid.UUID, name string) (matrix.DepartmentView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return matrix.DepartmentView{}, invalidInput("Skill name is required")
	}

	now := u.now().UTC()
	s := matrix.Skill{ID: u.ids.NewID(), DepartmentID: departmentID, Name: name, CreatedAt: now}

	err := u.mutate(ctx, "add_skill", ErrDepartmentNotFound, func(r repository.MatrixRepository) error {
		ok, err := r.DepartmentExists(ctx, departmentID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrDepartmentNotFound
		}

		s.DisplayOrder, err = r.NextSkillOrder(ctx, departmentID)
		if err != nil {
			return err
		}
		if err := r.InsertSkill(ctx, s); err != nil {
			return err
		}

		employees, err := r.ListEmployees(ctx, departmentID)
		if err != nil {
			return err
		}
		for _, e := range employees {
			cell := matrix.SkillLevel{EmployeeID: e.ID, SkillID: s.ID, Value: matrix.LevelInitial, UpdatedAt: now}
			if err := r.InsertSkillLevel(ctx, cell); err != nil {
				return err
			}
		}
		return u.record(ctx, r, matrix.ActionSkillCreate, matrix.EntitySkill, s.ID, departmentID, name)
	})
	if err != nil {
		return matrix.DepartmentView{}, err
	}

	u.notify(ctx, matrix.EventDepartmentUpdated, departmentID, matrix.ActionSkillCreate)
	return u.GetDepartmentView(ctx, departmentID)
}

func (u *Matrix) RemoveSkill(ctx context.Context, departmentID uuid.UUID, name string) (matrix.DepartmentView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return matrix.DepartmentView{}, invalidInput("Skill name is required")
	}

	var removed int64
	err := u.mutate(ctx, "remove_skill", ErrDepartmentNotFound, func(r repository.MatrixRepository) error {
		ok, err := r.DepartmentExists(ctx, departmentID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrDepartmentNotFound
		}

		// Resolved before deletion so the activity record can name the skill id.
		s, err := r.FindSkillByName(ctx, departmentID, name)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		removed, err = r.DeleteSkillsByName(ctx, departmentID, name)
		if err != nil {
			return err
		}
		return u.record(ctx, r, matrix.ActionSkillDelete, matrix.EntitySkill, s.ID, departmentID, name)
	})
	if err != nil {
		return matrix.DepartmentView{}, err
	}

	if removed > 0 {
		u.notify(ctx, matrix.EventDepartmentUpdated, departmentID, matrix.ActionSkillDelete)
	}
	return u.GetDepartmentView(ctx, departmentID)
}

func (u *Matrix) SetSkillLevel(ctx context.Context, employeeID uuid.UUID, skillName string, level any) (matrix.DepartmentView, error) {
	skillName = strings.TrimSpace(skillName)
	if skillName == "" {
		return matrix.DepartmentView{}, invalidInput("Employee ID, skill name, and level are required")
	}

	var departmentID uuid.UUID
	err := u.mutate(ctx, "set_skill_level", ErrEmployeeNotFound, func(r repository.MatrixRepository) error {
		e, err := r.GetEmployee(ctx, employeeID)
		if err != nil {
			return err
		}
		departmentID = e.DepartmentID

		s, err := r.FindSkillByName(ctx, e.DepartmentID, skillName)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrSkillNotFound
			}
			return err
		}

		v, err := matrix.ParseLevel(level)
		if err != nil {
			return err
		}

		cell := matrix.SkillLevel{EmployeeID: e.ID, SkillID: s.ID, Value: v, UpdatedAt: u.now().UTC()}
		if err := r.UpsertSkillLevel(ctx, cell); err != nil {
			return err
		}
		return u.record(ctx, r, matrix.ActionSkillLevelSet, matrix.EntitySkillLevel, e.ID, e.DepartmentID,
			fmt.Sprintf("%s=%s", skillName, v))
	})
	if err != nil {
		return matrix.DepartmentView{}, err
	}

	u.notify(ctx, matrix.EventDepartmentUpdated, departmentID, matrix.ActionSkillLevelSet)
	return u.GetDepartmentView(ctx, departmentID)
}

// mutate runs fn in one transaction and maps whatever it returned onto the
// usecase error set. notFound is used for repository.ErrNotFound.
func (u *Matrix) mutate(ctx context.Context, op string, notFound error, fn func(r repository.MatrixRepository) error) error {
	err := u.repo.RunInTx(ctx, fn)
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidLevel),
		errors.Is(err, ErrDepartmentNotFound),
		errors.Is(err, ErrEmployeeNotFound),
		errors.Is(err, ErrSkillNotFound):
	case errors.Is(err, repository.ErrNotFound):
		err = notFound
	default:
		err = storageError(err)
		if u.logger != nil {
			u.logger.Printf("[Matrix] op=%s status=error err=%v", op, err)
		}
	}
	return err
}

func (u *Matrix) record(ctx context.Context, r repository.MatrixRepository, action, entityType string, entityID, departmentID uuid.UUID, detail string) error {
	dept := departmentID
	return r.InsertActivity(ctx, matrix.ActivityRecord{
		ID:           u.ids.NewID(),
		OccurredAt:   u.now().UTC(),
		Actor:        principal.Actor(ctx),
		Action:       action,
		EntityType:   entityType,
		EntityID:     entityID,
		DepartmentID: &dept,
		Detail:       detail,
	})
}

func (u *Matrix) notify(ctx context.Context, eventType string, departmentID uuid.UUID, action string) {
	if u.notifier == nil {
		return
	}
	u.notifier.Notify(matrix.ChangeEvent{
		Type:         eventType,
		DepartmentID: departmentID,
		Action:       action,
		Actor:        principal.Actor(ctx),
		Timestamp:    u.now().UTC(),
	})
}

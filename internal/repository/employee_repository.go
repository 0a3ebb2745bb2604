package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"skills-matrix/internal/domain/matrix"

	"github.com/google/uuid"
)

type EmployeeUpdate struct {
	Name      *string
	Role      *string
	UpdatedAt time.Time
}

type EmployeeRepository interface {
	GetEmployee(ctx context.Context, id uuid.UUID) (matrix.Employee, error)
	ListEmployees(ctx context.Context, departmentID uuid.UUID) ([]matrix.Employee, error)
	InsertEmployee(ctx context.Context, e matrix.Employee) error
	UpdateEmployee(ctx context.Context, id uuid.UUID, u EmployeeUpdate) error
	DeleteEmployee(ctx context.Context, id uuid.UUID) error
}

func (r *PostgresMatrixRepository) GetEmployee(ctx context.Context, id uuid.UUID) (matrix.Employee, error) {
	row := r.q.QueryRow(ctx,
		`SELECT id, department_id, name, role, created_at, updated_at FROM employees WHERE id = $1`,
		id,
	)

	var e matrix.Employee
	if err := row.Scan(&e.ID, &e.DepartmentID, &e.Name, &e.Role, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return matrix.Employee{}, notFoundOr(err)
	}
	return e, nil
}

func (r *PostgresMatrixRepository) ListEmployees(ctx context.Context, departmentID uuid.UUID) ([]matrix.Employee, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, department_id, name, role, created_at, updated_at
		 FROM employees
		 WHERE department_id = $1
		 ORDER BY created_at ASC, id ASC`,
		departmentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]matrix.Employee, 0)
	for rows.Next() {
		var e matrix.Employee
		if err := rows.Scan(&e.ID, &e.DepartmentID, &e.Name, &e.Role, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresMatrixRepository) InsertEmployee(ctx context.Context, e matrix.Employee) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO employees (id, department_id, name, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.DepartmentID, e.Name, e.Role, e.CreatedAt, e.UpdatedAt,
	)
	return writeErr(err)
}

func (r *PostgresMatrixRepository) UpdateEmployee(ctx context.Context, id uuid.UUID, u EmployeeUpdate) error {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if u.Name != nil {
		args = append(args, *u.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if u.Role != nil {
		args = append(args, *u.Role)
		sets = append(sets, fmt.Sprintf("role = $%d", len(args)))
	}
	args = append(args, u.UpdatedAt)
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, id)

	n, err := r.q.Exec(ctx,
		fmt.Sprintf(`UPDATE employees SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args)),
		args...,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresMatrixRepository) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	n, err := r.q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

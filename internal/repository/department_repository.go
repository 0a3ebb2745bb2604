package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"skills-matrix/internal/domain/matrix"

	"github.com/google/uuid"
)

type DepartmentUpdate struct {
	Name        *string
	TargetLevel *int
	UpdatedAt   time.Time
}

type DepartmentRepository interface {
	GetDepartment(ctx context.Context, id uuid.UUID) (matrix.Department, error)
	DepartmentExists(ctx context.Context, id uuid.UUID) (bool, error)
	ListDepartmentIDs(ctx context.Context) ([]uuid.UUID, error)
	InsertDepartment(ctx context.Context, d matrix.Department) error
	UpdateDepartment(ctx context.Context, id uuid.UUID, u DepartmentUpdate) error
	DeleteDepartment(ctx context.Context, id uuid.UUID) error
}

func (r *PostgresMatrixRepository) GetDepartment(ctx context.Context, id uuid.UUID) (matrix.Department, error) {
	row := r.q.QueryRow(ctx,
		`SELECT id, name, target_level, created_at, updated_at FROM departments WHERE id = $1`,
		id,
	)

	var d matrix.Department
	if err := row.Scan(&d.ID, &d.Name, &d.TargetLevel, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return matrix.Department{}, notFoundOr(err)
	}
	return d, nil
}

func (r *PostgresMatrixRepository) DepartmentExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	row := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM departments WHERE id = $1)`, id)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresMatrixRepository) ListDepartmentIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.q.Query(ctx, `SELECT id FROM departments ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresMatrixRepository) InsertDepartment(ctx context.Context, d matrix.Department) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO departments (id, name, target_level, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		d.ID, d.Name, d.TargetLevel, d.CreatedAt, d.UpdatedAt,
	)
	return err
}

func (r *PostgresMatrixRepository) UpdateDepartment(ctx context.Context, id uuid.UUID, u DepartmentUpdate) error {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if u.Name != nil {
		args = append(args, *u.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if u.TargetLevel != nil {
		args = append(args, *u.TargetLevel)
		sets = append(sets, fmt.Sprintf("target_level = $%d", len(args)))
	}
	args = append(args, u.UpdatedAt)
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, id)

	n, err := r.q.Exec(ctx,
		fmt.Sprintf(`UPDATE departments SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args)),
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

func (r *PostgresMatrixRepository) DeleteDepartment(ctx context.Context, id uuid.UUID) error {
	n, err := r.q.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

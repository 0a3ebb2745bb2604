package repository

import (
	"context"

	"skills-matrix/internal/domain/matrix"

	"github.com/google/uuid"
)

type SkillRepository interface {
	ListSkills(ctx context.Context, departmentID uuid.UUID) ([]matrix.Skill, error)
	FindSkillByName(ctx context.Context, departmentID uuid.UUID, name string) (matrix.Skill, error)
	NextSkillOrder(ctx context.Context, departmentID uuid.UUID) (int, error)
	InsertSkill(ctx context.Context, s matrix.Skill) error
	DeleteSkillsByName(ctx context.Context, departmentID uuid.UUID, name string) (int64, error)
}

func (r *PostgresMatrixRepository) ListSkills(ctx context.Context, departmentID uuid.UUID) ([]matrix.Skill, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, department_id, name, display_order, created_at
		 FROM skills
		 WHERE department_id = $1
		 ORDER BY display_order ASC, id ASC`,
		departmentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]matrix.Skill, 0)
	for rows.Next() {
		var s matrix.Skill
		if err := rows.Scan(&s.ID, &s.DepartmentID, &s.Name, &s.DisplayOrder, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FindSkillByName returns the first skill with that name in display order.
func (r *PostgresMatrixRepository) FindSkillByName(ctx context.Context, departmentID uuid.UUID, name string) (matrix.Skill, error) {
	row := r.q.QueryRow(ctx,
		`SELECT id, department_id, name, display_order, created_at
		 FROM skills
		 WHERE department_id = $1 AND name = $2
		 ORDER BY display_order ASC
		 LIMIT 1`,
		departmentID, name,
	)

	var s matrix.Skill
	if err := row.Scan(&s.ID, &s.DepartmentID, &s.Name, &s.DisplayOrder, &s.CreatedAt); err != nil {
		return matrix.Skill{}, notFoundOr(err)
	}
	return s, nil
}

func (r *PostgresMatrixRepository) NextSkillOrder(ctx context.Context, departmentID uuid.UUID) (int, error) {
	var next int
	row := r.q.QueryRow(ctx,
		`SELECT COALESCE(MAX(display_order), 0) + 1 FROM skills WHERE department_id = $1`,
		departmentID,
	)
	if err := row.Scan(&next); err != nil {
		return 0, err
	}
	return next, nil
}

func (r *PostgresMatrixRepository) InsertSkill(ctx context.Context, s matrix.Skill) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO skills (id, department_id, name, display_order, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.DepartmentID, s.Name, s.DisplayOrder, s.CreatedAt,
	)
	return writeErr(err)
}

func (r *PostgresMatrixRepository) DeleteSkillsByName(ctx context.Context, departmentID uuid.UUID, name string) (int64, error) {
	return r.q.Exec(ctx, `DELETE FROM skills WHERE department_id = $1 AND name = $2`, departmentID, name)
}

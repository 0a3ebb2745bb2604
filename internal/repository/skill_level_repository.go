package repository

import (
	"context"

	"skills-matrix/internal/domain/matrix"

	"github.com/google/uuid"
)

type SkillLevelRepository interface {
	InsertSkillLevel(ctx context.Context, l matrix.SkillLevel) error
	UpsertSkillLevel(ctx context.Context, l matrix.SkillLevel) error
	ListDepartmentLevels(ctx context.Context, departmentID uuid.UUID) ([]matrix.LevelRow, error)
}

func (r *PostgresMatrixRepository) InsertSkillLevel(ctx context.Context, l matrix.SkillLevel) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO skill_levels (employee_id, skill_id, level_value, updated_at)
		 VALUES ($1, $2, $3, $4)`,
		l.EmployeeID, l.SkillID, int(l.Value), l.UpdatedAt,
	)
	return writeErr(err)
}

func (r *PostgresMatrixRepository) UpsertSkillLevel(ctx context.Context, l matrix.SkillLevel) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO skill_levels (employee_id, skill_id, level_value, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (employee_id, skill_id) DO UPDATE SET
			level_value = EXCLUDED.level_value,
			updated_at = EXCLUDED.updated_at`,
		l.EmployeeID, l.SkillID, int(l.Value), l.UpdatedAt,
	)
	return writeErr(err)
}

func (r *PostgresMatrixRepository) ListDepartmentLevels(ctx context.Context, departmentID uuid.UUID) ([]matrix.LevelRow, error) {
	rows, err := r.q.Query(ctx,
		`SELECT sl.employee_id, s.name, sl.level_value
		 FROM skill_levels sl
		 JOIN skills s ON s.id = sl.skill_id
		 JOIN employees e ON e.id = sl.employee_id
		 WHERE s.department_id = $1
		 ORDER BY e.created_at ASC, e.id ASC, s.display_order ASC`,
		departmentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]matrix.LevelRow, 0)
	for rows.Next() {
		var lr matrix.LevelRow
		var v int
		if err := rows.Scan(&lr.EmployeeID, &lr.SkillName, &v); err != nil {
			return nil, err
		}
		lr.Value = matrix.Level(v)
		out = append(out, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

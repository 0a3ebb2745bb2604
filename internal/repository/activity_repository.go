package repository

import (
	"context"

	"skills-matrix/internal/domain/matrix"

	"github.com/google/uuid"
)

type ActivityRepository interface {
	InsertActivity(ctx context.Context, a matrix.ActivityRecord) error
	ListRecentActivity(ctx context.Context, limit int) ([]matrix.ActivityRecord, error)
}

func (r *PostgresMatrixRepository) InsertActivity(ctx context.Context, a matrix.ActivityRecord) error {
	var dept uuid.NullUUID
	if a.DepartmentID != nil {
		dept = uuid.NullUUID{UUID: *a.DepartmentID, Valid: true}
	}
	_, err := r.q.Exec(ctx,
		`INSERT INTO activity_log (id, occurred_at, actor, action, entity_type, entity_id, department_id, detail)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.OccurredAt, a.Actor, a.Action, a.EntityType, a.EntityID, dept, a.Detail,
	)
	return err
}

func (r *PostgresMatrixRepository) ListRecentActivity(ctx context.Context, limit int) ([]matrix.ActivityRecord, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, occurred_at, actor, action, entity_type, entity_id, department_id, detail
		 FROM activity_log
		 ORDER BY occurred_at DESC, id DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]matrix.ActivityRecord, 0)
	for rows.Next() {
		var a matrix.ActivityRecord
		var dept uuid.NullUUID
		if err := rows.Scan(&a.ID, &a.OccurredAt, &a.Actor, &a.Action, &a.EntityType, &a.EntityID, &dept, &a.Detail); err != nil {
			return nil, err
		}
		if dept.Valid {
			id := dept.UUID
			a.DepartmentID = &id
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"skills-matrix/internal/database"
	"skills-matrix/internal/database/postgres"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// MatrixRepository is the storage contract behind every skills-matrix operation.
// Implementations must make RunInTx all-or-nothing and cascade department and
// employee/skill deletions to their dependent rows.
type MatrixRepository interface {
	DepartmentRepository
	EmployeeRepository
	SkillRepository
	SkillLevelRepository
	ActivityRepository

	RunInTx(ctx context.Context, fn func(repo MatrixRepository) error) error
}

type PostgresMatrixRepository struct {
	db   database.DB
	q    database.Querier
	inTx bool
}

func NewPostgresMatrixRepository(db database.DB) *PostgresMatrixRepository {
	return &PostgresMatrixRepository{db: db, q: db}
}

func (r *PostgresMatrixRepository) RunInTx(ctx context.Context, fn func(repo MatrixRepository) error) error {
	if r.inTx {
		return fn(r)
	}
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		return fn(&PostgresMatrixRepository{db: r.db, q: tx, inTx: true})
	})
}

func notFoundOr(err error) error {
	if errors.Is(err, database.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// writeErr reports a referenced parent that vanished as ErrNotFound and a
// second row for the same key as ErrDuplicate.
func writeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case postgres.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case postgres.IsUniqueViolation(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

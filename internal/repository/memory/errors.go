package memory

import (
	"fmt"

	"skills-matrix/internal/repository"
)

// ConstraintError mirrors the integrity violations a relational store would raise.
type ConstraintError struct {
	Table  string
	Column string
	Kind   string
}

func (e *ConstraintError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s violation on %s", e.Kind, e.Table)
	}
	return fmt.Sprintf("%s violation on %s.%s", e.Kind, e.Table, e.Column)
}

// Unwrap maps the violation onto the repository sentinels the postgres store uses.
func (e *ConstraintError) Unwrap() error {
	switch e.Kind {
	case kindForeignKey:
		return repository.ErrNotFound
	case kindUnique:
		return repository.ErrDuplicate
	}
	return nil
}

const (
	kindForeignKey = "foreign key"
	kindUnique     = "unique"
	kindCheck      = "check"
)

func errForeignKey(table, column string) error {
	return &ConstraintError{Table: table, Column: column, Kind: kindForeignKey}
}

func errDuplicateKey(table string) error {
	return &ConstraintError{Table: table, Kind: kindUnique}
}

func errCheck(table, column string) error {
	return &ConstraintError{Table: table, Column: column, Kind: kindCheck}
}

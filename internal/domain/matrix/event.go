package matrix

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventDepartmentUpdated = "department_updated"
	EventDepartmentDeleted = "department_deleted"
)

// ChangeEvent announces a committed mutation of one department.
type ChangeEvent struct {
	Type         string
	DepartmentID uuid.UUID
	Action       string
	Actor        string
	Timestamp    time.Time
}

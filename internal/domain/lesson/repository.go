package lesson

import "context"

// ImportMode controls how the importer treats an existing (role, day) row.
type ImportMode string

const (
	ImportModeUpsert ImportMode = "upsert"
	ImportModeSkip   ImportMode = "skip"
)

// Repository defines the operations for persisting and retrieving lessons.
type Repository interface {
	GetByRoleAndDay(ctx context.Context, role RoleLevel, dayNumber int) (*Lesson, error)
	ListByRole(ctx context.Context, role RoleLevel) ([]*Lesson, error)
	// Upsert inserts the lesson or overwrites the existing (role, day) row.
	// Reports whether a new row was inserted.
	Upsert(ctx context.Context, l *Lesson) (inserted bool, err error)
	// InsertIfAbsent inserts the lesson unless the (role, day) row exists.
	// Reports whether a new row was inserted.
	InsertIfAbsent(ctx context.Context, l *Lesson) (inserted bool, err error)
}

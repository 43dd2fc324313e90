package contract

import (
	"context"

	"notedeck-be/internal/entity"
	"notedeck-be/internal/repository/specification"

	"github.com/google/uuid"
)

// CursorRepository stores presence rows. There is no Delete: stale rows are
// filtered out by the liveness window on read, not removed.
type CursorRepository interface {
	Create(ctx context.Context, cursor *entity.Cursor) error
	Update(ctx context.Context, cursor *entity.Cursor) error
	FindByNoteAndUser(ctx context.Context, noteId, userId uuid.UUID) (*entity.Cursor, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Cursor, error)
}

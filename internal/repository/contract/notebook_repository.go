package contract

import (
	"context"

	"notedeck-be/internal/entity"
	"notedeck-be/internal/repository/specification"

	"github.com/google/uuid"
)

type NotebookRepository interface {
	Create(ctx context.Context, notebook *entity.Notebook) error
	Update(ctx context.Context, notebook *entity.Notebook) error
	// UpdateStructure persists the folder map conditionally: the write only
	// lands when the stored version still equals baseVersion. Returns false
	// when the base was stale.
	UpdateStructure(ctx context.Context, notebook *entity.Notebook, baseVersion int64) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Notebook, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Notebook, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

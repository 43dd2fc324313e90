package contract

import (
	"context"

	"notedeck-be/internal/entity"
	"notedeck-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DrawingRepository interface {
	Create(ctx context.Context, drawing *entity.Drawing) error
	Update(ctx context.Context, drawing *entity.Drawing) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Drawing, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Drawing, error)
}

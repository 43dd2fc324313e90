package contract

import (
	"context"

	"notedeck-be/internal/entity"
	"notedeck-be/internal/repository/specification"

	"github.com/google/uuid"
)

type TranscriptionRepository interface {
	Create(ctx context.Context, transcription *entity.Transcription) error
	Update(ctx context.Context, transcription *entity.Transcription) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Transcription, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Transcription, error)
}

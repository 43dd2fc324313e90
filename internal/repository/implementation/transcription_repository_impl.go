package implementation

import (
	"context"
	"errors"

	"notedeck-be/internal/entity"
	"notedeck-be/internal/mapper"
	"notedeck-be/internal/model"
	"notedeck-be/internal/repository/contract"
	"notedeck-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TranscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TranscriptionMapper
}

func NewTranscriptionRepository(db *gorm.DB) contract.TranscriptionRepository {
	return &TranscriptionRepositoryImpl{
		db:     db,
		mapper: mapper.NewTranscriptionMapper(),
	}
}

func (r *TranscriptionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TranscriptionRepositoryImpl) Create(ctx context.Context, transcription *entity.Transcription) error {
	m := r.mapper.ToModel(transcription)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*transcription = *r.mapper.ToEntity(m)
	return nil
}

func (r *TranscriptionRepositoryImpl) Update(ctx context.Context, transcription *entity.Transcription) error {
	m := r.mapper.ToModel(transcription)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*transcription = *r.mapper.ToEntity(m)
	return nil
}

func (r *TranscriptionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Transcription{}, id).Error
}

func (r *TranscriptionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Transcription, error) {
	var m model.Transcription
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TranscriptionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Transcription, error) {
	var models []*model.Transcription
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

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

type CursorRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CursorMapper
}

func NewCursorRepository(db *gorm.DB) contract.CursorRepository {
	return &CursorRepositoryImpl{
		db:     db,
		mapper: mapper.NewCursorMapper(),
	}
}

func (r *CursorRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CursorRepositoryImpl) Create(ctx context.Context, cursor *entity.Cursor) error {
	m := r.mapper.ToModel(cursor)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*cursor = *r.mapper.ToEntity(m)
	return nil
}

func (r *CursorRepositoryImpl) Update(ctx context.Context, cursor *entity.Cursor) error {
	m := r.mapper.ToModel(cursor)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*cursor = *r.mapper.ToEntity(m)
	return nil
}

func (r *CursorRepositoryImpl) FindByNoteAndUser(ctx context.Context, noteId, userId uuid.UUID) (*entity.Cursor, error) {
	var m model.Cursor
	err := r.db.WithContext(ctx).
		Where("note_id = ? AND user_id = ?", noteId, userId).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CursorRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Cursor, error) {
	var models []*model.Cursor
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

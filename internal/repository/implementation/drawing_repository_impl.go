package implementation

import (
	"context"
	"errors"

	"notedeck-be/internal/entity"
	"notedeck-be/internal/mapper"
	"notedeck-be/internal/model"
	"notedeck-be/internal/repository/contract"
	"notedeck-be/internal/repository/scope"
	"notedeck-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DrawingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DrawingMapper
}

func NewDrawingRepository(db *gorm.DB) contract.DrawingRepository {
	return &DrawingRepositoryImpl{
		db:     db,
		mapper: mapper.NewDrawingMapper(),
	}
}

func (r *DrawingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DrawingRepositoryImpl) Create(ctx context.Context, drawing *entity.Drawing) error {
	m := r.mapper.ToModel(drawing)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*drawing = *r.mapper.ToEntity(m)
	return nil
}

func (r *DrawingRepositoryImpl) Update(ctx context.Context, drawing *entity.Drawing) error {
	m := r.mapper.ToModel(drawing)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*drawing = *r.mapper.ToEntity(m)
	return nil
}

func (r *DrawingRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Drawing{}, id).Error
}

func (r *DrawingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Drawing, error) {
	var m model.Drawing
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DrawingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Drawing, error) {
	var models []*model.Drawing
	query := r.applySpecifications(r.db.WithContext(ctx).Scopes(scope.OrderByCreatedAsc), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

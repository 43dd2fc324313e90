package mapper

import (
	"time"

	"notedeck-be/internal/entity"
	"notedeck-be/internal/model"

	"gorm.io/gorm"
)

type DrawingMapper struct{}

func NewDrawingMapper() *DrawingMapper {
	return &DrawingMapper{}
}

func (m *DrawingMapper) ToEntity(d *model.Drawing) *entity.Drawing {
	if d == nil {
		return nil
	}

	var deletedAt *time.Time
	if d.DeletedAt.Valid {
		t := d.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	return &entity.Drawing{
		Id:        d.Id,
		NoteId:    d.NoteId,
		UserId:    d.UserId,
		Data:      d.Data,
		CreatedAt: d.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: d.DeletedAt.Valid,
	}
}

func (m *DrawingMapper) ToModel(d *entity.Drawing) *model.Drawing {
	if d == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if d.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *d.DeletedAt, Valid: true}
	} else if d.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	return &model.Drawing{
		Id:        d.Id,
		NoteId:    d.NoteId,
		UserId:    d.UserId,
		Data:      d.Data,
		CreatedAt: d.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *DrawingMapper) ToEntities(drawings []*model.Drawing) []*entity.Drawing {
	entities := make([]*entity.Drawing, len(drawings))
	for i, d := range drawings {
		entities[i] = m.ToEntity(d)
	}
	return entities
}

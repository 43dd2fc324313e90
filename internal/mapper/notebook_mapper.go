package mapper

import (
	"encoding/json"
	"time"

	"notedeck-be/internal/entity"
	"notedeck-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotebookMapper struct{}

func NewNotebookMapper() *NotebookMapper {
	return &NotebookMapper{}
}

func (m *NotebookMapper) ToEntity(n *model.Notebook) *entity.Notebook {
	if n == nil {
		return nil
	}

	var deletedAt *time.Time
	if n.DeletedAt.Valid {
		t := n.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !n.UpdatedAt.IsZero() {
		t := n.UpdatedAt
		updatedAt = &t
	}

	structure := entity.NewNotebookStructure()
	if len(n.Structure) > 0 {
		// A malformed blob falls back to an empty folder map; the shape is
		// validated at the deserialization boundary, not deeper down.
		_ = json.Unmarshal(n.Structure, &structure)
		if structure.Folders == nil {
			structure.Folders = map[string]entity.Folder{}
		}
	}

	return &entity.Notebook{
		Id:          n.Id,
		Title:       n.Title,
		Description: n.Description,
		UserId:      n.UserId,
		Structure:   structure,
		Version:     n.Version,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   n.DeletedAt.Valid,
	}
}

func (m *NotebookMapper) ToModel(n *entity.Notebook) *model.Notebook {
	if n == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if n.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *n.DeletedAt, Valid: true}
	} else if n.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if n.UpdatedAt != nil {
		updatedAt = *n.UpdatedAt
	}

	structureJson, _ := json.Marshal(n.Structure)

	return &model.Notebook{
		Id:          n.Id,
		Title:       n.Title,
		Description: n.Description,
		UserId:      n.UserId,
		Structure:   datatypes.JSON(structureJson),
		Version:     n.Version,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}

func (m *NotebookMapper) ToEntities(notebooks []*model.Notebook) []*entity.Notebook {
	entities := make([]*entity.Notebook, len(notebooks))
	for i, n := range notebooks {
		entities[i] = m.ToEntity(n)
	}
	return entities
}

package mapper

import (
	"encoding/json"

	"notedeck-be/internal/entity"
	"notedeck-be/internal/model"

	"gorm.io/datatypes"
)

type CursorMapper struct{}

func NewCursorMapper() *CursorMapper {
	return &CursorMapper{}
}

func (m *CursorMapper) ToEntity(c *model.Cursor) *entity.Cursor {
	if c == nil {
		return nil
	}

	var position entity.CursorPosition
	if len(c.Position) > 0 {
		_ = json.Unmarshal(c.Position, &position)
	}

	return &entity.Cursor{
		Id:        c.Id,
		NoteId:    c.NoteId,
		UserId:    c.UserId,
		UserName:  c.UserName,
		Position:  position,
		UpdatedAt: c.UpdatedAt,
	}
}

func (m *CursorMapper) ToModel(c *entity.Cursor) *model.Cursor {
	if c == nil {
		return nil
	}

	positionJson, _ := json.Marshal(c.Position)

	return &model.Cursor{
		Id:        c.Id,
		NoteId:    c.NoteId,
		UserId:    c.UserId,
		UserName:  c.UserName,
		Position:  datatypes.JSON(positionJson),
		UpdatedAt: c.UpdatedAt,
	}
}

func (m *CursorMapper) ToEntities(cursors []*model.Cursor) []*entity.Cursor {
	entities := make([]*entity.Cursor, len(cursors))
	for i, c := range cursors {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

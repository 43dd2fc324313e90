package mapper

import (
	"encoding/json"
	"time"

	"notedeck-be/internal/entity"
	"notedeck-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ThreadMapper struct{}

func NewThreadMapper() *ThreadMapper {
	return &ThreadMapper{}
}

func (m *ThreadMapper) ToEntity(t *model.Thread) *entity.Thread {
	if t == nil {
		return nil
	}

	var deletedAt *time.Time
	if t.DeletedAt.Valid {
		dt := t.DeletedAt.Time
		deletedAt = &dt
	}

	var updatedAt *time.Time
	if !t.UpdatedAt.IsZero() {
		ut := t.UpdatedAt
		updatedAt = &ut
	}

	messages := make([]entity.ThreadMessage, 0)
	if len(t.Messages) > 0 {
		_ = json.Unmarshal(t.Messages, &messages)
	}

	return &entity.Thread{
		Id:             t.Id,
		NoteId:         t.NoteId,
		UserId:         t.UserId,
		SelectionText:  t.SelectionText,
		SelectionStart: t.SelectionStart,
		SelectionEnd:   t.SelectionEnd,
		Messages:       messages,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
		IsDeleted:      t.DeletedAt.Valid,
	}
}

func (m *ThreadMapper) ToModel(t *entity.Thread) *model.Thread {
	if t == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if t.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *t.DeletedAt, Valid: true}
	} else if t.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if t.UpdatedAt != nil {
		updatedAt = *t.UpdatedAt
	}

	messages := t.Messages
	if messages == nil {
		messages = []entity.ThreadMessage{}
	}
	messagesJson, _ := json.Marshal(messages)

	return &model.Thread{
		Id:             t.Id,
		NoteId:         t.NoteId,
		UserId:         t.UserId,
		SelectionText:  t.SelectionText,
		SelectionStart: t.SelectionStart,
		SelectionEnd:   t.SelectionEnd,
		Messages:       datatypes.JSON(messagesJson),
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
	}
}

func (m *ThreadMapper) ToEntities(threads []*model.Thread) []*entity.Thread {
	entities := make([]*entity.Thread, len(threads))
	for i, t := range threads {
		entities[i] = m.ToEntity(t)
	}
	return entities
}

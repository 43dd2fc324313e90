package mapper

import (
	"time"

	"notedeck-be/internal/entity"
	"notedeck-be/internal/model"

	"gorm.io/gorm"
)

type TranscriptionMapper struct{}

func NewTranscriptionMapper() *TranscriptionMapper {
	return &TranscriptionMapper{}
}

func (m *TranscriptionMapper) ToEntity(t *model.Transcription) *entity.Transcription {
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

	return &entity.Transcription{
		Id:         t.Id,
		SessionId:  t.SessionId,
		NoteId:     t.NoteId,
		UserId:     t.UserId,
		ProviderId: t.ProviderId,
		Transcript: t.Transcript,
		Status:     t.Status,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
		IsDeleted:  t.DeletedAt.Valid,
	}
}

func (m *TranscriptionMapper) ToModel(t *entity.Transcription) *model.Transcription {
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

	return &model.Transcription{
		Id:         t.Id,
		SessionId:  t.SessionId,
		NoteId:     t.NoteId,
		UserId:     t.UserId,
		ProviderId: t.ProviderId,
		Transcript: t.Transcript,
		Status:     t.Status,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
	}
}

func (m *TranscriptionMapper) ToEntities(transcriptions []*model.Transcription) []*entity.Transcription {
	entities := make([]*entity.Transcription, len(transcriptions))
	for i, t := range transcriptions {
		entities[i] = m.ToEntity(t)
	}
	return entities
}

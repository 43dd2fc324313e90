package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateThreadRequest struct {
	NoteId         uuid.UUID `json:"note_id" validate:"required"`
	SelectionStart int       `json:"selection_start" validate:"min=0"`
	SelectionEnd   int       `json:"selection_end" validate:"min=0"`
}

type CreateThreadResponse struct {
	Id            uuid.UUID `json:"id"`
	SelectionText string    `json:"selection_text"`
	Content       string    `json:"content"`
}

type ThreadMessageDTO struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type ShowThreadResponse struct {
	Id             uuid.UUID          `json:"id"`
	NoteId         uuid.UUID          `json:"note_id"`
	SelectionText  string             `json:"selection_text"`
	SelectionStart int                `json:"selection_start"`
	SelectionEnd   int                `json:"selection_end"`
	Messages       []ThreadMessageDTO `json:"messages"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      *time.Time         `json:"updated_at"`
}

type SendThreadMessageRequest struct {
	Id      uuid.UUID
	Content string `json:"content" validate:"required"`
}

type SendThreadMessageResponse struct {
	Sent  ThreadMessageDTO `json:"sent"`
	Reply ThreadMessageDTO `json:"reply"`
}

// DeleteThreadResponse returns the note content with the thread mark
// stripped, so the caller can swap in the cleaned document.
type DeleteThreadResponse struct {
	Id      uuid.UUID `json:"id"`
	Content string    `json:"content"`
}

package dto

import (
	"time"

	"github.com/google/uuid"
)

type StartTranscriptionRequest struct {
	AudioUrl  string     `json:"audioUrl" validate:"required,url"`
	SessionId string     `json:"sessionId" validate:"required"`
	NoteId    *uuid.UUID `json:"noteId"`
}

type StartTranscriptionResponse struct {
	Id     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

type ShowTranscriptionResponse struct {
	Id         uuid.UUID  `json:"id"`
	SessionId  string     `json:"sessionId"`
	NoteId     *uuid.UUID `json:"noteId"`
	Status     string     `json:"status"`
	Transcript string     `json:"transcript"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

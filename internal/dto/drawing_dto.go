package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateDrawingRequest struct {
	NoteId *uuid.UUID `json:"note_id"`
	Data   string     `json:"data" validate:"required"`
}

type CreateDrawingResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowDrawingResponse struct {
	Id        uuid.UUID  `json:"id"`
	NoteId    *uuid.UUID `json:"note_id"`
	Data      string     `json:"data"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type UpdateDrawingRequest struct {
	Id   uuid.UUID
	Data string `json:"data" validate:"required"`
}

type UpdateDrawingResponse struct {
	Id uuid.UUID `json:"id"`
}

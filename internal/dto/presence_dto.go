package dto

import (
	"time"

	"github.com/google/uuid"
)

// CursorPositionDTO is either a document selection {from,to} or free
// coordinates {x,y}, depending on the surface the cursor lives on.
type CursorPositionDTO struct {
	From *int     `json:"from,omitempty"`
	To   *int     `json:"to,omitempty"`
	X    *float64 `json:"x,omitempty"`
	Y    *float64 `json:"y,omitempty"`
}

type UpdateCursorRequest struct {
	NoteId   uuid.UUID         `json:"note_id" validate:"required"`
	UserName string            `json:"user_name" validate:"required"`
	Position CursorPositionDTO `json:"position"`
}

type UpdateCursorResponse struct {
	Throttled bool `json:"throttled"`
}

type CursorResponse struct {
	UserId    uuid.UUID         `json:"user_id"`
	UserName  string            `json:"user_name"`
	Position  CursorPositionDTO `json:"position"`
	UpdatedAt time.Time         `json:"updated_at"`
}

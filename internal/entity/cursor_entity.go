package entity

import (
	"time"

	"github.com/google/uuid"
)

// Cursor is a presence record keyed by (note, user). Rows are overwritten in
// place on every update and never deleted; staleness is applied at read time.
type Cursor struct {
	Id        uuid.UUID
	NoteId    uuid.UUID
	UserId    uuid.UUID
	UserName  string
	Position  CursorPosition
	UpdatedAt time.Time
}

// CursorPosition carries either document offsets (text selection) or screen
// coordinates (whiteboard). Unused fields stay nil.
type CursorPosition struct {
	From *int     `json:"from,omitempty"`
	To   *int     `json:"to,omitempty"`
	X    *float64 `json:"x,omitempty"`
	Y    *float64 `json:"y,omitempty"`
}

// IsLive reports whether the record is inside the liveness window at `now`.
func (c *Cursor) IsLive(now time.Time, window time.Duration) bool {
	return now.Sub(c.UpdatedAt) < window
}

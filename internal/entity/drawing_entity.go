package entity

import (
	"time"

	"github.com/google/uuid"
)

// Drawing holds an opaque whiteboard snapshot. A drawing may be embedded in a
// note's content tree by id and is also reachable standalone, e.g. from a
// second device via a shared link.
type Drawing struct {
	Id        uuid.UUID
	NoteId    *uuid.UUID
	UserId    uuid.UUID
	Data      string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Cursor has no soft delete: stale rows are filtered at read time by the
// liveness window, never removed by an explicit disconnect event.
type Cursor struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NoteId    uuid.UUID      `gorm:"type:uuid;not null;index:idx_cursors_note_user,unique"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index:idx_cursors_note_user,unique"`
	UserName  string         `gorm:"type:varchar(255)"`
	Position  datatypes.JSON `gorm:"type:jsonb"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (Cursor) TableName() string {
	return "cursors"
}

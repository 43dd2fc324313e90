package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	ThreadRoleUser      = "user"
	ThreadRoleAssistant = "assistant"
)

// Thread is a discussion anchored to a text selection inside a note. The
// selection snapshot is taken at creation time; the live anchor is the
// thread mark inside the note content.
type Thread struct {
	Id             uuid.UUID
	NoteId         uuid.UUID
	UserId         uuid.UUID
	SelectionText  string
	SelectionStart int
	SelectionEnd   int
	Messages       []ThreadMessage
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}

type ThreadMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

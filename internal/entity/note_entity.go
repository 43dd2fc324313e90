package entity

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	Id         uuid.UUID
	Title      string
	Content    string // rich-text document tree, JSON stringified
	NotebookId uuid.UUID
	UserId     uuid.UUID
	SharedWith []string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}

// IsSharedWith reports whether the note has been shared with the given email.
func (n *Note) IsSharedWith(email string) bool {
	for _, e := range n.SharedWith {
		if e == email {
			return true
		}
	}
	return false
}

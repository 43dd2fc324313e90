package entity

import (
	"time"

	"github.com/google/uuid"
)

type Notebook struct {
	Id          uuid.UUID
	Title       string
	Description string
	UserId      uuid.UUID
	Structure   NotebookStructure
	// Version increments on every structural write; conditional updates
	// reject writes whose base version is stale.
	Version   int64
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

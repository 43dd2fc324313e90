package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByNotebookID struct {
	NotebookID uuid.UUID
}

func (s ByNotebookID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("notebook_id = ?", s.NotebookID)
}

// SharedWithEmail matches notes whose shared_with JSON array contains the
// email.
type SharedWithEmail struct {
	Email string
}

func (s SharedWithEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("shared_with @> ?", `["`+s.Email+`"]`)
}

package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateNoteRequest struct {
	Title      string    `json:"title" validate:"required"`
	Content    string    `json:"content"`
	NotebookId uuid.UUID `json:"notebook_id" validate:"required"`
	FolderId   string    `json:"folder_id"`
}

type CreateNoteResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowNoteResponse struct {
	Id         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	NotebookId uuid.UUID  `json:"notebook_id"`
	FolderId   string     `json:"folder_id,omitempty"`
	SharedWith []string   `json:"shared_with"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

type GetAllNotesResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// GetSharedNotesResponse lists notes other users shared with the caller.
type GetSharedNotesResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	OwnerId   uuid.UUID  `json:"owner_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type UpdateNoteRequest struct {
	Id    uuid.UUID
	Title string `json:"title" validate:"required"`
}

type UpdateNoteResponse struct {
	Id uuid.UUID `json:"id"`
}

// UpdateNoteContentRequest carries a full rich-text document. Writes go
// through the per-note sync buffer unless Immediate is set.
type UpdateNoteContentRequest struct {
	Id        uuid.UUID
	Content   string `json:"content" validate:"required"`
	Immediate bool   `json:"immediate"`
}

type UpdateNoteContentResponse struct {
	Id        uuid.UUID `json:"id"`
	Buffered  bool      `json:"buffered"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MergeNoteContentRequest reconciles a session's local document against the
// stored one after a remote change notification.
type MergeNoteContentRequest struct {
	Id      uuid.UUID
	Content string `json:"content" validate:"required"`
	From    int    `json:"from"`
	To      int    `json:"to"`
}

type MergeNoteContentResponse struct {
	Content    string `json:"content"`
	Changed    bool   `json:"changed"`
	CursorKept bool   `json:"cursor_kept"`
	From       int    `json:"from"`
	To         int    `json:"to"`
}

type ShareNoteRequest struct {
	Id    uuid.UUID
	Email string `json:"email" validate:"required,email"`
}

type ShareNoteResponse struct {
	Id         uuid.UUID `json:"id"`
	SharedWith []string  `json:"shared_with"`
}

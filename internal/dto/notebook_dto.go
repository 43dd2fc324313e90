package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateNotebookRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

type CreateNotebookResponse struct {
	Id uuid.UUID `json:"id"`
}

// FolderDTO mirrors one entry of the notebook structure map.
type FolderDTO struct {
	Title string      `json:"title"`
	Notes []uuid.UUID `json:"notes"`
}

type NotebookStructureDTO struct {
	Folders map[string]FolderDTO `json:"folders"`
}

type ShowNotebookResponse struct {
	Id          uuid.UUID            `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Structure   NotebookStructureDTO `json:"structure"`
	Version     int64                `json:"version"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   *time.Time           `json:"updated_at"`
}

type GetAllNotebooksResponse struct {
	Id          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

type UpdateNotebookRequest struct {
	Id          uuid.UUID
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

type UpdateNotebookResponse struct {
	Id uuid.UUID `json:"id"`
}

type CreateFolderRequest struct {
	NotebookId uuid.UUID
	Title      string `json:"title" validate:"required"`
}

type CreateFolderResponse struct {
	FolderId  string               `json:"folder_id"`
	Structure NotebookStructureDTO `json:"structure"`
	Version   int64                `json:"version"`
}

type UpdateFolderRequest struct {
	NotebookId uuid.UUID
	FolderId   string
	Title      string `json:"title" validate:"required"`
}

type AddNoteToFolderRequest struct {
	NotebookId uuid.UUID
	FolderId   string
	NoteId     uuid.UUID `json:"note_id" validate:"required"`
}

// StructureResponse is shared by the structural mutations that return the
// whole updated folder map.
type StructureResponse struct {
	Structure NotebookStructureDTO `json:"structure"`
	Version   int64                `json:"version"`
}

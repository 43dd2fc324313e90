package unitofwork

import (
	"context"

	"notedeck-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	NotebookRepository() contract.NotebookRepository
	NoteRepository() contract.NoteRepository
	ThreadRepository() contract.ThreadRepository
	DrawingRepository() contract.DrawingRepository
	CursorRepository() contract.CursorRepository
	TranscriptionRepository() contract.TranscriptionRepository
}

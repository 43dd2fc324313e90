package service

import (
	"context"
	"sync"

	"notedeck-be/internal/dto"
	"notedeck-be/internal/entity"
	"notedeck-be/internal/repository/contract"
	"notedeck-be/internal/repository/specification"
	"notedeck-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// In-memory doubles for the repository layer. Unused contract methods are
// inherited from the embedded nil interface and panic if reached.

type fakeRepoFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeRepoFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeUnitOfWork struct {
	notebooks *fakeNotebookRepo
	notes     *fakeNoteRepo
	cursors   *fakeCursorRepo
	threads   *fakeThreadRepo

	begun     int
	committed int
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { u.begun++; return nil }
func (u *fakeUnitOfWork) Commit() error                   { u.committed++; return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) NotebookRepository() contract.NotebookRepository { return u.notebooks }
func (u *fakeUnitOfWork) NoteRepository() contract.NoteRepository         { return u.notes }
func (u *fakeUnitOfWork) ThreadRepository() contract.ThreadRepository     { return u.threads }
func (u *fakeUnitOfWork) DrawingRepository() contract.DrawingRepository   { return nil }
func (u *fakeUnitOfWork) CursorRepository() contract.CursorRepository     { return u.cursors }
func (u *fakeUnitOfWork) TranscriptionRepository() contract.TranscriptionRepository {
	return nil
}

// fakeNotebookRepo holds a single notebook and mimics the conditional
// version write. staleWrites fails that many conditional updates while
// bumping the stored version, as a concurrent writer would.
type fakeNotebookRepo struct {
	contract.NotebookRepository

	mu                   sync.Mutex
	stored               *entity.Notebook
	staleWrites          int
	updateStructureCalls int
}

func (r *fakeNotebookRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Notebook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stored == nil {
		return nil, nil
	}
	nb := *r.stored
	return &nb, nil
}

func (r *fakeNotebookRepo) UpdateStructure(ctx context.Context, notebook *entity.Notebook, baseVersion int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateStructureCalls++

	if r.staleWrites > 0 {
		r.staleWrites--
		r.stored.Version++
		return false, nil
	}
	if baseVersion != r.stored.Version {
		return false, nil
	}
	r.stored.Structure = notebook.Structure
	r.stored.Version = baseVersion + 1
	notebook.Version = baseVersion + 1
	return true, nil
}

type fakeNoteRepo struct {
	contract.NoteRepository

	mu      sync.Mutex
	notes   map[uuid.UUID]*entity.Note
	deleted []uuid.UUID
}

func newFakeNoteRepo(notes ...*entity.Note) *fakeNoteRepo {
	r := &fakeNoteRepo{notes: make(map[uuid.UUID]*entity.Note)}
	for _, n := range notes {
		copied := *n
		r.notes[n.Id] = &copied
	}
	return r
}

func noteMatches(note *entity.Note, specs []specification.Specification) bool {
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByID:
			if note.Id != spec.ID {
				return false
			}
		case specification.UserOwnedBy:
			if note.UserId != spec.UserID {
				return false
			}
		case specification.ByNotebookID:
			if note.NotebookId != spec.NotebookID {
				return false
			}
		case specification.SharedWithEmail:
			if !note.IsSharedWith(spec.Email) {
				return false
			}
		}
	}
	return true
}

func (r *fakeNoteRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, note := range r.notes {
		if noteMatches(note, specs) {
			copied := *note
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeNoteRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*entity.Note, 0)
	for _, note := range r.notes {
		if noteMatches(note, specs) {
			copied := *note
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeNoteRepo) Update(ctx context.Context, note *entity.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *note
	r.notes[note.Id] = &copied
	return nil
}

func (r *fakeNoteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.notes, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeThreadRepo struct {
	contract.ThreadRepository

	mu      sync.Mutex
	threads map[uuid.UUID]*entity.Thread
	deleted []uuid.UUID
}

func newFakeThreadRepo(threads ...*entity.Thread) *fakeThreadRepo {
	r := &fakeThreadRepo{threads: make(map[uuid.UUID]*entity.Thread)}
	for _, th := range threads {
		copied := *th
		r.threads[th.Id] = &copied
	}
	return r
}

func (r *fakeThreadRepo) Create(ctx context.Context, thread *entity.Thread) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *thread
	r.threads[thread.Id] = &copied
	return nil
}

func (r *fakeThreadRepo) Update(ctx context.Context, thread *entity.Thread) error {
	return r.Create(ctx, thread)
}

func (r *fakeThreadRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.threads, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeThreadRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Thread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range specs {
		if byID, ok := s.(specification.ByID); ok {
			thread, found := r.threads[byID.ID]
			if !found {
				return nil, nil
			}
			copied := *thread
			return &copied, nil
		}
	}
	return nil, nil
}

type fakeCursorRepo struct {
	mu      sync.Mutex
	cursors map[string]*entity.Cursor
	writes  int
}

func newFakeCursorRepo() *fakeCursorRepo {
	return &fakeCursorRepo{cursors: make(map[string]*entity.Cursor)}
}

func cursorKey(noteId, userId uuid.UUID) string {
	return noteId.String() + ":" + userId.String()
}

func (r *fakeCursorRepo) Create(ctx context.Context, cursor *entity.Cursor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *cursor
	r.cursors[cursorKey(cursor.NoteId, cursor.UserId)] = &copied
	r.writes++
	return nil
}

func (r *fakeCursorRepo) Update(ctx context.Context, cursor *entity.Cursor) error {
	return r.Create(ctx, cursor)
}

func (r *fakeCursorRepo) FindByNoteAndUser(ctx context.Context, noteId, userId uuid.UUID) (*entity.Cursor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cursor, ok := r.cursors[cursorKey(noteId, userId)]
	if !ok {
		return nil, nil
	}
	copied := *cursor
	return &copied, nil
}

func (r *fakeCursorRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Cursor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*entity.Cursor, 0, len(r.cursors))
	for _, cursor := range r.cursors {
		copied := *cursor
		result = append(result, &copied)
	}
	return result, nil
}

type fakePublisher struct {
	mu            sync.Mutex
	invalidations []dto.InvalidationMessage
}

func (p *fakePublisher) Publish(ctx context.Context, payload []byte) error { return nil }

func (p *fakePublisher) PublishInvalidation(ctx context.Context, msg dto.InvalidationMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.invalidations = append(p.invalidations, msg)
	return nil
}

func (p *fakePublisher) published() []dto.InvalidationMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]dto.InvalidationMessage, len(p.invalidations))
	copy(out, p.invalidations)
	return out
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}

func (nopLogger) Sync() error { return nil }

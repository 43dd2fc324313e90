package service

import (
	"context"
	"sync"
	"time"

	"notedeck-be/internal/dto"
	"notedeck-be/internal/repository/specification"
	"notedeck-be/internal/repository/unitofwork"
	"notedeck-be/pkg/docsync"

	"github.com/google/uuid"
)

// ISyncManager owns one write buffer per open note. Editor saves coalesce
// inside the debounce window; a flush persists the last snapshot and
// publishes the invalidation that makes other sessions refetch.
type ISyncManager interface {
	// Submit buffers a content snapshot for a debounced write.
	Submit(noteId uuid.UUID, content string)
	// Amend mutates the note's latest snapshot: the buffered one when an
	// edit is still pending, the stored fallback otherwise. The result
	// becomes the new pending snapshot.
	Amend(noteId uuid.UUID, stored string, mutate func(content string) (string, error)) (string, error)
	// Flush forces a pending snapshot to storage immediately.
	Flush(noteId uuid.UUID) error
	// Cancel drops pending state for a note, e.g. when the last session
	// closes without saving.
	Cancel(noteId uuid.UUID)
	// Dirty reports whether the note's last flush failed.
	Dirty(noteId uuid.UUID) bool
}

type syncManager struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	window           time.Duration

	mu      sync.Mutex
	buffers map[uuid.UUID]*docsync.Buffer
}

func NewSyncManager(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	window time.Duration,
) ISyncManager {
	if window <= 0 {
		window = docsync.DefaultWindow
	}
	return &syncManager{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		window:           window,
		buffers:          make(map[uuid.UUID]*docsync.Buffer),
	}
}

func (m *syncManager) bufferFor(noteId uuid.UUID) *docsync.Buffer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if buf, ok := m.buffers[noteId]; ok {
		return buf
	}
	buf := docsync.NewBuffer(m.persistFunc(noteId), docsync.WithWindow(m.window))
	m.buffers[noteId] = buf
	return buf
}

func (m *syncManager) persistFunc(noteId uuid.UUID) docsync.PersistFunc {
	return func(ctx context.Context, content string) error {
		uow := m.uowFactory.NewUnitOfWork(ctx)

		note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: noteId})
		if err != nil {
			return err
		}
		if note == nil {
			// Deleted mid-session; nothing left to write.
			return nil
		}

		now := time.Now()
		note.Content = content
		note.UpdatedAt = &now
		if err := uow.NoteRepository().Update(ctx, note); err != nil {
			return err
		}

		id := noteId
		return m.publisherService.PublishInvalidation(ctx, dto.InvalidationMessage{
			Kind:   dto.InvalidationNoteUpdated,
			NoteId: &id,
		})
	}
}

func (m *syncManager) Submit(noteId uuid.UUID, content string) {
	m.bufferFor(noteId).Submit(content)
}

func (m *syncManager) Amend(noteId uuid.UUID, stored string, mutate func(content string) (string, error)) (string, error) {
	return m.bufferFor(noteId).Amend(stored, mutate)
}

func (m *syncManager) Flush(noteId uuid.UUID) error {
	m.mu.Lock()
	buf, ok := m.buffers[noteId]
	m.mu.Unlock()
	if !ok {
		return nil
	}
	return buf.Flush()
}

func (m *syncManager) Cancel(noteId uuid.UUID) {
	m.mu.Lock()
	buf, ok := m.buffers[noteId]
	if ok {
		delete(m.buffers, noteId)
	}
	m.mu.Unlock()
	if ok {
		buf.Cancel()
	}
}

func (m *syncManager) Dirty(noteId uuid.UUID) bool {
	m.mu.Lock()
	buf, ok := m.buffers[noteId]
	m.mu.Unlock()
	if !ok {
		return false
	}
	return buf.Dirty()
}

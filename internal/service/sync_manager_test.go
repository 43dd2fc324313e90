package service

import (
	"testing"
	"time"

	"notedeck-be/internal/dto"
	"notedeck-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSyncManagerFlushPersistsAndInvalidates(t *testing.T) {
	note := &entity.Note{Id: uuid.New(), Title: "Draft", Content: `{"type":"doc"}`}
	noteRepo := newFakeNoteRepo(note)
	pub := &fakePublisher{}
	mgr := NewSyncManager(
		&fakeRepoFactory{uow: &fakeUnitOfWork{notes: noteRepo}},
		pub,
		time.Hour, // window long enough that only Flush triggers the write
	)

	updated := `{"type":"doc","content":[{"type":"paragraph"}]}`
	mgr.Submit(note.Id, `{"type":"doc","content":[]}`)
	mgr.Submit(note.Id, updated)
	assert.NoError(t, mgr.Flush(note.Id))

	stored := noteRepo.notes[note.Id]
	assert.Equal(t, updated, stored.Content)
	assert.NotNil(t, stored.UpdatedAt)

	published := pub.published()
	if assert.Len(t, published, 1) {
		assert.Equal(t, dto.InvalidationNoteUpdated, published[0].Kind)
		assert.Equal(t, note.Id, *published[0].NoteId)
	}
}

func TestSyncManagerFlushForDeletedNoteIsSilent(t *testing.T) {
	pub := &fakePublisher{}
	mgr := NewSyncManager(
		&fakeRepoFactory{uow: &fakeUnitOfWork{notes: newFakeNoteRepo()}},
		pub,
		time.Hour,
	)

	id := uuid.New()
	mgr.Submit(id, `{"type":"doc"}`)

	assert.NoError(t, mgr.Flush(id))
	assert.Empty(t, pub.published())
}

func TestSyncManagerCancelDropsPending(t *testing.T) {
	note := &entity.Note{Id: uuid.New(), Content: "original"}
	noteRepo := newFakeNoteRepo(note)
	mgr := NewSyncManager(
		&fakeRepoFactory{uow: &fakeUnitOfWork{notes: noteRepo}},
		&fakePublisher{},
		time.Hour,
	)

	mgr.Submit(note.Id, "buffered")
	mgr.Cancel(note.Id)
	assert.NoError(t, mgr.Flush(note.Id))

	assert.Equal(t, "original", noteRepo.notes[note.Id].Content)
	assert.False(t, mgr.Dirty(note.Id))
}

func TestSyncManagerFlushWithoutSubmitIsNoop(t *testing.T) {
	mgr := NewSyncManager(
		&fakeRepoFactory{uow: &fakeUnitOfWork{notes: newFakeNoteRepo()}},
		&fakePublisher{},
		time.Hour,
	)

	assert.NoError(t, mgr.Flush(uuid.New()))
}

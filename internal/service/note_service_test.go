package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"notedeck-be/internal/apperror"
	"notedeck-be/internal/dto"
	"notedeck-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const noteTestDoc = `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"Hello world"}]}]}`

type fakeMailer struct {
	mu    sync.Mutex
	sent  int
	toLog []string
}

func (m *fakeMailer) SendShareInvite(toEmail, ownerName, noteTitle, noteId string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent++
	m.toLog = append(m.toLog, toEmail)
	return nil
}

type noteTestEnv struct {
	svc      INoteService
	noteRepo *fakeNoteRepo
	nbRepo   *fakeNotebookRepo
	mailer   *fakeMailer
}

func newNoteTestEnv(notebook *entity.Notebook, notes ...*entity.Note) *noteTestEnv {
	noteRepo := newFakeNoteRepo(notes...)
	nbRepo := &fakeNotebookRepo{stored: notebook}
	factory := &fakeRepoFactory{uow: &fakeUnitOfWork{notebooks: nbRepo, notes: noteRepo}}
	pub := &fakePublisher{}
	syncManager := NewSyncManager(factory, pub, time.Hour)
	notebookService := NewNotebookService(factory, pub)
	mail := &fakeMailer{}
	svc := NewNoteService(factory, notebookService, syncManager, mail, nil, nopLogger{})
	return &noteTestEnv{svc: svc, noteRepo: noteRepo, nbRepo: nbRepo, mailer: mail}
}

func TestUpdateContentBuffersUntilFlushed(t *testing.T) {
	userId := uuid.New()
	notebook := newTestNotebook(userId)
	note := &entity.Note{Id: uuid.New(), UserId: userId, NotebookId: notebook.Id, Content: noteTestDoc}
	env := newNoteTestEnv(notebook, note)

	updated := `{"type":"doc","content":[]}`
	res, err := env.svc.UpdateContent(context.Background(), userId, &dto.UpdateNoteContentRequest{
		Id:      note.Id,
		Content: updated,
	})

	assert.NoError(t, err)
	assert.True(t, res.Buffered)
	// Nothing hits storage until the window closes or a flush forces it.
	assert.Equal(t, noteTestDoc, env.noteRepo.notes[note.Id].Content)

	immediate, err := env.svc.UpdateContent(context.Background(), userId, &dto.UpdateNoteContentRequest{
		Id:        note.Id,
		Content:   updated,
		Immediate: true,
	})

	assert.NoError(t, err)
	assert.False(t, immediate.Buffered)
	assert.Equal(t, updated, env.noteRepo.notes[note.Id].Content)
}

func TestUpdateContentRejectsInvalidDocument(t *testing.T) {
	userId := uuid.New()
	notebook := newTestNotebook(userId)
	note := &entity.Note{Id: uuid.New(), UserId: userId, NotebookId: notebook.Id, Content: noteTestDoc}
	env := newNoteTestEnv(notebook, note)

	_, err := env.svc.UpdateContent(context.Background(), userId, &dto.UpdateNoteContentRequest{
		Id:      note.Id,
		Content: "not a document",
	})

	appErr, ok := apperror.As(err)
	assert.True(t, ok)
	assert.Equal(t, 400, appErr.Code)
}

func TestShareIsIdempotent(t *testing.T) {
	userId := uuid.New()
	notebook := newTestNotebook(userId)
	note := &entity.Note{
		Id: uuid.New(), UserId: userId, NotebookId: notebook.Id,
		Title: "Plans", SharedWith: []string{},
	}
	env := newNoteTestEnv(notebook, note)

	first, err := env.svc.Share(context.Background(), userId, &dto.ShareNoteRequest{
		Id: note.Id, Email: "friend@example.com",
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"friend@example.com"}, first.SharedWith)

	second, err := env.svc.Share(context.Background(), userId, &dto.ShareNoteRequest{
		Id: note.Id, Email: "friend@example.com",
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"friend@example.com"}, second.SharedWith)

	// Only the first share mails an invite.
	assert.Equal(t, 1, env.mailer.sent)
}

func TestDeleteNoteDetachesFromFolder(t *testing.T) {
	userId := uuid.New()
	notebook := newTestNotebook(userId)
	note := &entity.Note{Id: uuid.New(), UserId: userId, NotebookId: notebook.Id}

	structure, folderId := notebook.Structure.AddFolder("Inbox")
	structure, _ = structure.AddNote(folderId, note.Id)
	notebook.Structure = structure

	env := newNoteTestEnv(notebook, note)

	err := env.svc.Delete(context.Background(), userId, note.Id)

	assert.NoError(t, err)
	assert.Contains(t, env.noteRepo.deleted, note.Id)
	assert.Empty(t, env.nbRepo.stored.Structure.Folders[folderId].Notes)
}

func TestMergeContentRestoresCursorWhenPossible(t *testing.T) {
	userId := uuid.New()
	notebook := newTestNotebook(userId)
	note := &entity.Note{Id: uuid.New(), UserId: userId, NotebookId: notebook.Id, Content: noteTestDoc}
	env := newNoteTestEnv(notebook, note)

	local := `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"draft"}]}]}`
	res, err := env.svc.MergeContent(context.Background(), userId, &dto.MergeNoteContentRequest{
		Id:      note.Id,
		Content: local,
		From:    2,
		To:      4,
	})

	assert.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, noteTestDoc, res.Content)
	assert.True(t, res.CursorKept)
	assert.Equal(t, 2, res.From)
	assert.Equal(t, 4, res.To)
}

func TestShowUnknownNote(t *testing.T) {
	userId := uuid.New()
	notebook := newTestNotebook(userId)
	env := newNoteTestEnv(notebook)

	_, err := env.svc.Show(context.Background(), userId, "", uuid.New())

	assert.ErrorIs(t, err, apperror.ErrNoteNotFound)
}

func TestShowSharedNoteVisibleToRecipient(t *testing.T) {
	ownerId := uuid.New()
	notebook := newTestNotebook(ownerId)
	note := &entity.Note{
		Id: uuid.New(), UserId: ownerId, NotebookId: notebook.Id,
		Title: "Plans", Content: noteTestDoc,
		SharedWith: []string{"friend@example.com"},
	}
	env := newNoteTestEnv(notebook, note)

	viewerId := uuid.New()
	res, err := env.svc.Show(context.Background(), viewerId, "friend@example.com", note.Id)

	assert.NoError(t, err)
	assert.Equal(t, noteTestDoc, res.Content)
	// Folder placement stays the owner's view.
	assert.Empty(t, res.FolderId)

	// Anyone not invited sees the same not-found as a missing note.
	_, err = env.svc.Show(context.Background(), viewerId, "stranger@example.com", note.Id)
	assert.ErrorIs(t, err, apperror.ErrNoteNotFound)
}

func TestListSharedReturnsInvitedNotes(t *testing.T) {
	ownerId := uuid.New()
	notebook := newTestNotebook(ownerId)
	shared := &entity.Note{
		Id: uuid.New(), UserId: ownerId, NotebookId: notebook.Id,
		Title: "Roadmap", SharedWith: []string{"friend@example.com"},
	}
	private := &entity.Note{
		Id: uuid.New(), UserId: ownerId, NotebookId: notebook.Id,
		Title: "Diary", SharedWith: []string{},
	}
	env := newNoteTestEnv(notebook, shared, private)

	res, err := env.svc.ListShared(context.Background(), "friend@example.com")

	assert.NoError(t, err)
	if assert.Len(t, res, 1) {
		assert.Equal(t, shared.Id, res[0].Id)
		assert.Equal(t, ownerId, res[0].OwnerId)
	}

	// No email claim matches nothing.
	none, err := env.svc.ListShared(context.Background(), "")
	assert.NoError(t, err)
	assert.Empty(t, none)
}

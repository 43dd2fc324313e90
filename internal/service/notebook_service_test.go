package service

import (
	"context"
	"testing"
	"time"

	"notedeck-be/internal/apperror"
	"notedeck-be/internal/dto"
	"notedeck-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestNotebook(userId uuid.UUID) *entity.Notebook {
	return &entity.Notebook{
		Id:        uuid.New(),
		Title:     "Research",
		UserId:    userId,
		Structure: entity.NewNotebookStructure(),
		CreatedAt: time.Now(),
	}
}

func TestAddFolderPersistsAndPublishes(t *testing.T) {
	userId := uuid.New()
	notebook := newTestNotebook(userId)
	repo := &fakeNotebookRepo{stored: notebook}
	pub := &fakePublisher{}
	svc := NewNotebookService(
		&fakeRepoFactory{uow: &fakeUnitOfWork{notebooks: repo}},
		pub,
	)

	res, err := svc.AddFolder(context.Background(), userId, &dto.CreateFolderRequest{
		NotebookId: notebook.Id,
		Title:      "Papers",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, res.FolderId)
	assert.Equal(t, int64(1), res.Version)
	assert.Equal(t, "Papers", repo.stored.Structure.Folders[res.FolderId].Title)

	published := pub.published()
	if assert.Len(t, published, 1) {
		assert.Equal(t, dto.InvalidationStructureUpdated, published[0].Kind)
		assert.Equal(t, notebook.Id, *published[0].NotebookId)
	}
}

func TestStructureWriteRetriesAfterConcurrentWrite(t *testing.T) {
	userId := uuid.New()
	notebook := newTestNotebook(userId)
	repo := &fakeNotebookRepo{stored: notebook, staleWrites: 1}
	svc := NewNotebookService(
		&fakeRepoFactory{uow: &fakeUnitOfWork{notebooks: repo}},
		&fakePublisher{},
	)

	res, err := svc.AddFolder(context.Background(), userId, &dto.CreateFolderRequest{
		NotebookId: notebook.Id,
		Title:      "Papers",
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, repo.updateStructureCalls)
	// One lost race plus the winning write
	assert.Equal(t, int64(2), res.Version)
}

func TestStructureWriteGivesUpAfterRepeatedConflicts(t *testing.T) {
	userId := uuid.New()
	notebook := newTestNotebook(userId)
	repo := &fakeNotebookRepo{stored: notebook, staleWrites: 10}
	svc := NewNotebookService(
		&fakeRepoFactory{uow: &fakeUnitOfWork{notebooks: repo}},
		&fakePublisher{},
	)

	_, err := svc.AddFolder(context.Background(), userId, &dto.CreateFolderRequest{
		NotebookId: notebook.Id,
		Title:      "Papers",
	})

	assert.ErrorIs(t, err, apperror.ErrStaleStructure)
	assert.Equal(t, structureAttempts, repo.updateStructureCalls)
}

func TestAddNoteToFolderMovesBetweenFolders(t *testing.T) {
	userId := uuid.New()
	notebook := newTestNotebook(userId)
	noteId := uuid.New()

	structure, folderA := notebook.Structure.AddFolder("A")
	structure, folderB := structure.AddFolder("B")
	structure, _ = structure.AddNote(folderA, noteId)
	notebook.Structure = structure

	note := &entity.Note{Id: noteId, NotebookId: notebook.Id, UserId: userId}
	repo := &fakeNotebookRepo{stored: notebook}
	svc := NewNotebookService(
		&fakeRepoFactory{uow: &fakeUnitOfWork{notebooks: repo, notes: newFakeNoteRepo(note)}},
		&fakePublisher{},
	)

	res, err := svc.AddNoteToFolder(context.Background(), userId, &dto.AddNoteToFolderRequest{
		NotebookId: notebook.Id,
		FolderId:   folderB,
		NoteId:     noteId,
	})

	assert.NoError(t, err)
	assert.Empty(t, res.Structure.Folders[folderA].Notes)
	assert.Equal(t, []uuid.UUID{noteId}, res.Structure.Folders[folderB].Notes)
}

func TestAddNoteToFolderRejectsUnknownNote(t *testing.T) {
	userId := uuid.New()
	notebook := newTestNotebook(userId)
	structure, folderId := notebook.Structure.AddFolder("A")
	notebook.Structure = structure

	svc := NewNotebookService(
		&fakeRepoFactory{uow: &fakeUnitOfWork{
			notebooks: &fakeNotebookRepo{stored: notebook},
			notes:     newFakeNoteRepo(),
		}},
		&fakePublisher{},
	)

	_, err := svc.AddNoteToFolder(context.Background(), userId, &dto.AddNoteToFolderRequest{
		NotebookId: notebook.Id,
		FolderId:   folderId,
		NoteId:     uuid.New(),
	})

	assert.ErrorIs(t, err, apperror.ErrNoteNotFound)
}

func TestUpdateFolderMissing(t *testing.T) {
	userId := uuid.New()
	notebook := newTestNotebook(userId)
	svc := NewNotebookService(
		&fakeRepoFactory{uow: &fakeUnitOfWork{notebooks: &fakeNotebookRepo{stored: notebook}}},
		&fakePublisher{},
	)

	_, err := svc.UpdateFolder(context.Background(), userId, &dto.UpdateFolderRequest{
		NotebookId: notebook.Id,
		FolderId:   "missing",
		Title:      "X",
	})

	assert.ErrorIs(t, err, apperror.ErrFolderNotFound)
}

func TestDeleteFolderCascadesNotes(t *testing.T) {
	userId := uuid.New()
	notebook := newTestNotebook(userId)
	noteA := &entity.Note{Id: uuid.New(), NotebookId: notebook.Id, UserId: userId}
	noteB := &entity.Note{Id: uuid.New(), NotebookId: notebook.Id, UserId: userId}

	structure, folderId := notebook.Structure.AddFolder("Doomed")
	structure, _ = structure.AddNote(folderId, noteA.Id)
	structure, _ = structure.AddNote(folderId, noteB.Id)
	notebook.Structure = structure

	noteRepo := newFakeNoteRepo(noteA, noteB)
	uow := &fakeUnitOfWork{
		notebooks: &fakeNotebookRepo{stored: notebook},
		notes:     noteRepo,
	}
	svc := NewNotebookService(&fakeRepoFactory{uow: uow}, &fakePublisher{})

	res, err := svc.DeleteFolder(context.Background(), userId, notebook.Id, folderId)

	assert.NoError(t, err)
	assert.NotContains(t, res.Structure.Folders, folderId)
	assert.ElementsMatch(t, []uuid.UUID{noteA.Id, noteB.Id}, noteRepo.deleted)

	// The cascade runs inside one transaction.
	assert.Equal(t, 1, uow.begun)
	assert.Equal(t, 1, uow.committed)
}

func TestShowNotFound(t *testing.T) {
	svc := NewNotebookService(
		&fakeRepoFactory{uow: &fakeUnitOfWork{notebooks: &fakeNotebookRepo{}}},
		&fakePublisher{},
	)

	_, err := svc.Show(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, apperror.ErrNotebookNotFound)
}

func TestDetachNoteIsNoopWhenUnfiled(t *testing.T) {
	userId := uuid.New()
	notebook := newTestNotebook(userId)
	repo := &fakeNotebookRepo{stored: notebook}
	svc := NewNotebookService(
		&fakeRepoFactory{uow: &fakeUnitOfWork{notebooks: repo}},
		&fakePublisher{},
	)

	err := svc.DetachNote(context.Background(), userId, notebook.Id, uuid.New())

	assert.NoError(t, err)
	assert.Equal(t, int64(1), repo.stored.Version)
}

package service

import (
	"context"
	"sync"
	"time"

	"notedeck-be/internal/apperror"
	"notedeck-be/internal/dto"
	"notedeck-be/internal/entity"
	"notedeck-be/internal/repository/specification"
	"notedeck-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// structureAttempts bounds the optimistic retry loop for structural writes.
// With the per-notebook lock below, retries only happen when another instance
// wrote between our read and our conditional update.
const structureAttempts = 3

type INotebookService interface {
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllNotebooksResponse, error)
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNotebookRequest) (*dto.CreateNotebookResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowNotebookResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNotebookRequest) (*dto.UpdateNotebookResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error

	AddFolder(ctx context.Context, userId uuid.UUID, req *dto.CreateFolderRequest) (*dto.CreateFolderResponse, error)
	UpdateFolder(ctx context.Context, userId uuid.UUID, req *dto.UpdateFolderRequest) (*dto.StructureResponse, error)
	DeleteFolder(ctx context.Context, userId uuid.UUID, notebookId uuid.UUID, folderId string) (*dto.StructureResponse, error)
	AddNoteToFolder(ctx context.Context, userId uuid.UUID, req *dto.AddNoteToFolderRequest) (*dto.StructureResponse, error)

	// DetachNote drops a note id from whichever folder lists it. Used by the
	// note delete path; a no-op when the note was never filed.
	DetachNote(ctx context.Context, userId uuid.UUID, notebookId, noteId uuid.UUID) error
}

// notebookLocks serializes structural writes per notebook id. The folder map
// is one aggregate; two concurrent read-modify-write cycles on the same
// notebook must queue, not interleave.
type notebookLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newNotebookLocks() *notebookLocks {
	return &notebookLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *notebookLocks) forNotebook(id uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[id] = lock
	}
	return lock
}

type notebookService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	locks            *notebookLocks
}

func NewNotebookService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
) INotebookService {
	return &notebookService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		locks:            newNotebookLocks(),
	}
}

func (c *notebookService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllNotebooksResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notebooks, err := uow.NotebookRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.GetAllNotebooksResponse, 0, len(notebooks))
	for _, notebook := range notebooks {
		result = append(result, &dto.GetAllNotebooksResponse{
			Id:          notebook.Id,
			Title:       notebook.Title,
			Description: notebook.Description,
			CreatedAt:   notebook.CreatedAt,
			UpdatedAt:   notebook.UpdatedAt,
		})
	}
	return result, nil
}

func (c *notebookService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNotebookRequest) (*dto.CreateNotebookResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	notebook := entity.Notebook{
		Id:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		UserId:      userId,
		Structure:   entity.NewNotebookStructure(),
		CreatedAt:   time.Now(),
	}

	if err := uow.NotebookRepository().Create(ctx, &notebook); err != nil {
		return nil, err
	}

	return &dto.CreateNotebookResponse{
		Id: notebook.Id,
	}, nil
}

func (c *notebookService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowNotebookResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if notebook == nil {
		return nil, apperror.ErrNotebookNotFound
	}

	return &dto.ShowNotebookResponse{
		Id:          notebook.Id,
		Title:       notebook.Title,
		Description: notebook.Description,
		Structure:   mapStructure(notebook.Structure),
		Version:     notebook.Version,
		CreatedAt:   notebook.CreatedAt,
		UpdatedAt:   notebook.UpdatedAt,
	}, nil
}

func (c *notebookService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNotebookRequest) (*dto.UpdateNotebookResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if notebook == nil {
		return nil, apperror.ErrNotebookNotFound
	}

	now := time.Now()
	notebook.Title = req.Title
	notebook.Description = req.Description
	notebook.UpdatedAt = &now

	if err := uow.NotebookRepository().Update(ctx, notebook); err != nil {
		return nil, err
	}

	return &dto.UpdateNotebookResponse{
		Id: notebook.Id,
	}, nil
}

func (c *notebookService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if notebook == nil {
		return apperror.ErrNotebookNotFound
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.NoteRepository().DeleteAllByNotebookId(ctx, id); err != nil {
		return err
	}

	if err := uow.NotebookRepository().Delete(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}

// mutateStructure runs one structural read-modify-write cycle under the
// notebook's writer lock. The mutate callback receives a fresh snapshot and
// returns the next structure; the conditional update retries on a stale base.
func (c *notebookService) mutateStructure(
	ctx context.Context,
	userId uuid.UUID,
	notebookId uuid.UUID,
	mutate func(entity.NotebookStructure) (entity.NotebookStructure, error),
) (*entity.Notebook, error) {
	lock := c.locks.forNotebook(notebookId)
	lock.Lock()
	defer lock.Unlock()

	uow := c.uowFactory.NewUnitOfWork(ctx)

	for attempt := 0; attempt < structureAttempts; attempt++ {
		notebook, err := uow.NotebookRepository().FindOne(ctx,
			specification.ByID{ID: notebookId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if notebook == nil {
			return nil, apperror.ErrNotebookNotFound
		}

		next, err := mutate(notebook.Structure)
		if err != nil {
			return nil, err
		}
		notebook.Structure = next

		ok, err := uow.NotebookRepository().UpdateStructure(ctx, notebook, notebook.Version)
		if err != nil {
			return nil, err
		}
		if ok {
			nbId := notebook.Id
			_ = c.publisherService.PublishInvalidation(ctx, dto.InvalidationMessage{
				Kind:       dto.InvalidationStructureUpdated,
				NotebookId: &nbId,
			})
			return notebook, nil
		}
		// Another writer won the version race; reread and reapply.
	}

	return nil, apperror.ErrStaleStructure
}

func (c *notebookService) AddFolder(ctx context.Context, userId uuid.UUID, req *dto.CreateFolderRequest) (*dto.CreateFolderResponse, error) {
	var folderId string
	notebook, err := c.mutateStructure(ctx, userId, req.NotebookId, func(s entity.NotebookStructure) (entity.NotebookStructure, error) {
		next, id := s.AddFolder(req.Title)
		folderId = id
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.CreateFolderResponse{
		FolderId:  folderId,
		Structure: mapStructure(notebook.Structure),
		Version:   notebook.Version,
	}, nil
}

func (c *notebookService) UpdateFolder(ctx context.Context, userId uuid.UUID, req *dto.UpdateFolderRequest) (*dto.StructureResponse, error) {
	notebook, err := c.mutateStructure(ctx, userId, req.NotebookId, func(s entity.NotebookStructure) (entity.NotebookStructure, error) {
		next, ok := s.RenameFolder(req.FolderId, req.Title)
		if !ok {
			return s, apperror.ErrFolderNotFound
		}
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.StructureResponse{
		Structure: mapStructure(notebook.Structure),
		Version:   notebook.Version,
	}, nil
}

func (c *notebookService) DeleteFolder(ctx context.Context, userId uuid.UUID, notebookId uuid.UUID, folderId string) (*dto.StructureResponse, error) {
	var orphanedNotes []uuid.UUID
	notebook, err := c.mutateStructure(ctx, userId, notebookId, func(s entity.NotebookStructure) (entity.NotebookStructure, error) {
		next, notes, ok := s.DeleteFolder(folderId)
		if !ok {
			return s, apperror.ErrFolderNotFound
		}
		orphanedNotes = notes
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	// Deleting a folder deletes the notes it contained, all or nothing.
	if len(orphanedNotes) > 0 {
		uow := c.uowFactory.NewUnitOfWork(ctx)
		if err := uow.Begin(ctx); err != nil {
			return nil, err
		}
		defer uow.Rollback()

		for _, noteId := range orphanedNotes {
			if err := uow.NoteRepository().Delete(ctx, noteId); err != nil {
				return nil, err
			}
		}
		if err := uow.Commit(); err != nil {
			return nil, err
		}
	}

	return &dto.StructureResponse{
		Structure: mapStructure(notebook.Structure),
		Version:   notebook.Version,
	}, nil
}

func (c *notebookService) AddNoteToFolder(ctx context.Context, userId uuid.UUID, req *dto.AddNoteToFolderRequest) (*dto.StructureResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	// The listed note must exist and belong to this notebook.
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: req.NoteId},
		specification.ByNotebookID{NotebookID: req.NotebookId},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apperror.ErrNoteNotFound
	}

	notebook, err := c.mutateStructure(ctx, userId, req.NotebookId, func(s entity.NotebookStructure) (entity.NotebookStructure, error) {
		// A note lives in at most one folder; drop any previous listing first.
		next := s
		if moved, ok := next.RemoveNote(req.NoteId); ok {
			next = moved
		}
		added, ok := next.AddNote(req.FolderId, req.NoteId)
		if !ok {
			return s, apperror.ErrFolderNotFound
		}
		return added, nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.StructureResponse{
		Structure: mapStructure(notebook.Structure),
		Version:   notebook.Version,
	}, nil
}

func (c *notebookService) DetachNote(ctx context.Context, userId uuid.UUID, notebookId, noteId uuid.UUID) error {
	_, err := c.mutateStructure(ctx, userId, notebookId, func(s entity.NotebookStructure) (entity.NotebookStructure, error) {
		next, ok := s.RemoveNote(noteId)
		if !ok {
			return s, nil
		}
		return next, nil
	})
	return err
}

func mapStructure(s entity.NotebookStructure) dto.NotebookStructureDTO {
	folders := make(map[string]dto.FolderDTO, len(s.Folders))
	for id, folder := range s.Folders {
		notes := folder.Notes
		if notes == nil {
			notes = []uuid.UUID{}
		}
		folders[id] = dto.FolderDTO{
			Title: folder.Title,
			Notes: notes,
		}
	}
	return dto.NotebookStructureDTO{Folders: folders}
}

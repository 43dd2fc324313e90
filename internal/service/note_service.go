package service

import (
	"context"
	"time"

	"notedeck-be/internal/apperror"
	"notedeck-be/internal/dto"
	"notedeck-be/internal/entity"
	"notedeck-be/internal/pkg/logger"
	"notedeck-be/internal/pkg/mailer"
	"notedeck-be/internal/repository/specification"
	"notedeck-be/internal/repository/unitofwork"
	"notedeck-be/pkg/docsync"
	"notedeck-be/pkg/events"
	pktNats "notedeck-be/pkg/nats"
	"notedeck-be/pkg/richtext"

	"github.com/google/uuid"
)

type INoteService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.CreateNoteResponse, error)
	Show(ctx context.Context, userId uuid.UUID, email string, id uuid.UUID) (*dto.ShowNoteResponse, error)
	List(ctx context.Context, userId uuid.UUID, notebookId uuid.UUID) ([]*dto.GetAllNotesResponse, error)
	ListShared(ctx context.Context, email string) ([]*dto.GetSharedNotesResponse, error)
	UpdateTitle(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.UpdateNoteResponse, error)
	UpdateContent(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteContentRequest) (*dto.UpdateNoteContentResponse, error)
	MergeContent(ctx context.Context, userId uuid.UUID, req *dto.MergeNoteContentRequest) (*dto.MergeNoteContentResponse, error)
	Share(ctx context.Context, userId uuid.UUID, req *dto.ShareNoteRequest) (*dto.ShareNoteResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	CancelSync(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type noteService struct {
	uowFactory      unitofwork.RepositoryFactory
	notebookService INotebookService
	syncManager     ISyncManager
	emailService    mailer.IEmailService
	eventPublisher  *pktNats.Publisher
	logger          logger.ILogger
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	notebookService INotebookService,
	syncManager ISyncManager,
	emailService mailer.IEmailService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) INoteService {
	return &noteService{
		uowFactory:      uowFactory,
		notebookService: notebookService,
		syncManager:     syncManager,
		emailService:    emailService,
		eventPublisher:  eventPublisher,
		logger:          log,
	}
}

func (c *noteService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.CreateNoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: req.NotebookId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if notebook == nil {
		return nil, apperror.ErrNotebookNotFound
	}

	if req.Content != "" {
		if _, err := richtext.Parse(req.Content); err != nil {
			return nil, apperror.Validation("Invalid note content")
		}
	}

	note := entity.Note{
		Id:         uuid.New(),
		Title:      req.Title,
		Content:    req.Content,
		NotebookId: req.NotebookId,
		UserId:     userId,
		SharedWith: []string{},
		CreatedAt:  time.Now(),
	}

	if err := uow.NoteRepository().Create(ctx, &note); err != nil {
		return nil, err
	}

	if req.FolderId != "" {
		_, err := c.notebookService.AddNoteToFolder(ctx, userId, &dto.AddNoteToFolderRequest{
			NotebookId: req.NotebookId,
			FolderId:   req.FolderId,
			NoteId:     note.Id,
		})
		if err != nil {
			return nil, err
		}
	}

	return &dto.CreateNoteResponse{
		Id: note.Id,
	}, nil
}

func (c *noteService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID) (*entity.Note, error) {
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apperror.ErrNoteNotFound
	}
	return note, nil
}

// Show serves the owner and anyone the note was shared with; everyone else
// gets the same not-found as a missing note.
func (c *noteService) Show(ctx context.Context, userId uuid.UUID, email string, id uuid.UUID) (*dto.ShowNoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if note == nil || (note.UserId != userId && !note.IsSharedWith(email)) {
		return nil, apperror.ErrNoteNotFound
	}

	res := &dto.ShowNoteResponse{
		Id:         note.Id,
		Title:      note.Title,
		Content:    note.Content,
		NotebookId: note.NotebookId,
		SharedWith: note.SharedWith,
		CreatedAt:  note.CreatedAt,
		UpdatedAt:  note.UpdatedAt,
	}

	// Folder placement is the owner's organization; recipients only see the
	// document itself.
	if note.UserId == userId {
		notebook, err := uow.NotebookRepository().FindOne(ctx, specification.ByID{ID: note.NotebookId})
		if err != nil {
			return nil, err
		}
		if notebook != nil {
			if folderId, ok := notebook.Structure.FolderOf(note.Id); ok {
				res.FolderId = folderId
			}
		}
	}

	return res, nil
}

// ListShared lists the notes other users invited this email address to.
func (c *noteService) ListShared(ctx context.Context, email string) ([]*dto.GetSharedNotesResponse, error) {
	if email == "" {
		return []*dto.GetSharedNotesResponse{}, nil
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)

	notes, err := uow.NoteRepository().FindAll(ctx, specification.SharedWithEmail{Email: email})
	if err != nil {
		return nil, err
	}

	result := make([]*dto.GetSharedNotesResponse, 0, len(notes))
	for _, note := range notes {
		result = append(result, &dto.GetSharedNotesResponse{
			Id:        note.Id,
			Title:     note.Title,
			OwnerId:   note.UserId,
			CreatedAt: note.CreatedAt,
			UpdatedAt: note.UpdatedAt,
		})
	}
	return result, nil
}

func (c *noteService) List(ctx context.Context, userId uuid.UUID, notebookId uuid.UUID) ([]*dto.GetAllNotesResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.ByNotebookID{NotebookID: notebookId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.GetAllNotesResponse, 0, len(notes))
	for _, note := range notes {
		result = append(result, &dto.GetAllNotesResponse{
			Id:        note.Id,
			Title:     note.Title,
			CreatedAt: note.CreatedAt,
			UpdatedAt: note.UpdatedAt,
		})
	}
	return result, nil
}

func (c *noteService) UpdateTitle(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.UpdateNoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, err := c.findOwned(ctx, uow, userId, req.Id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	note.Title = req.Title
	note.UpdatedAt = &now

	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, err
	}

	return &dto.UpdateNoteResponse{Id: note.Id}, nil
}

// UpdateContent routes document saves through the per-note write buffer.
// Rapid keystrokes coalesce; only the snapshot standing when the debounce
// window closes is persisted. Immediate requests flush right away.
func (c *noteService) UpdateContent(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteContentRequest) (*dto.UpdateNoteContentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, err := c.findOwned(ctx, uow, userId, req.Id)
	if err != nil {
		return nil, err
	}

	if _, err := richtext.Parse(req.Content); err != nil {
		return nil, apperror.Validation("Invalid note content")
	}

	c.syncManager.Submit(note.Id, req.Content)
	buffered := true
	if req.Immediate {
		if err := c.syncManager.Flush(note.Id); err != nil {
			return nil, err
		}
		buffered = false
	}

	return &dto.UpdateNoteContentResponse{
		Id:        note.Id,
		Buffered:  buffered,
		UpdatedAt: time.Now(),
	}, nil
}

// MergeContent reconciles a session's local tree with the stored one after a
// change notification. The stored tree wins wholesale; the caller's cursor is
// restored only when it still fits the new document.
func (c *noteService) MergeContent(ctx context.Context, userId uuid.UUID, req *dto.MergeNoteContentRequest) (*dto.MergeNoteContentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, err := c.findOwned(ctx, uow, userId, req.Id)
	if err != nil {
		return nil, err
	}

	result, err := docsync.Merge(req.Content, note.Content, docsync.Selection{From: req.From, To: req.To})
	if err != nil {
		return nil, apperror.Validation("Invalid note content")
	}

	return &dto.MergeNoteContentResponse{
		Content:    result.Content,
		Changed:    result.Changed,
		CursorKept: result.CursorKept,
		From:       result.Selection.From,
		To:         result.Selection.To,
	}, nil
}

func (c *noteService) Share(ctx context.Context, userId uuid.UUID, req *dto.ShareNoteRequest) (*dto.ShareNoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, err := c.findOwned(ctx, uow, userId, req.Id)
	if err != nil {
		return nil, err
	}

	// Sharing twice with the same address is a no-op.
	if !note.IsSharedWith(req.Email) {
		now := time.Now()
		note.SharedWith = append(note.SharedWith, req.Email)
		note.UpdatedAt = &now
		if err := uow.NoteRepository().Update(ctx, note); err != nil {
			return nil, err
		}

		if err := c.emailService.SendShareInvite(req.Email, "A collaborator", note.Title, note.Id.String()); err != nil {
			c.logger.Warn("NoteService", "Failed to send share invite", map[string]interface{}{
				"note_id": note.Id,
				"email":   req.Email,
				"error":   err.Error(),
			})
		}

		if c.eventPublisher != nil {
			if err := c.eventPublisher.Publish(ctx, events.NewNoteShared(note.Id, userId, req.Email)); err != nil {
				c.logger.Warn("NoteService", "Failed to publish share event", map[string]interface{}{
					"note_id": note.Id,
					"error":   err.Error(),
				})
			}
		}
	}

	return &dto.ShareNoteResponse{
		Id:         note.Id,
		SharedWith: note.SharedWith,
	}, nil
}

func (c *noteService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, err := c.findOwned(ctx, uow, userId, id)
	if err != nil {
		return err
	}

	// Unfile before deleting so the structure never lists a dead id.
	if err := c.notebookService.DetachNote(ctx, userId, note.NotebookId, note.Id); err != nil {
		return err
	}

	c.syncManager.Cancel(note.Id)

	return uow.NoteRepository().Delete(ctx, id)
}

// CancelSync drops any buffered content for the note. Called when the last
// editor session unmounts without wanting its pending edits saved.
func (c *noteService) CancelSync(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, err := c.findOwned(ctx, uow, userId, id)
	if err != nil {
		return err
	}

	c.syncManager.Cancel(note.Id)
	return nil
}

package service

import (
	"context"
	"time"

	"notedeck-be/internal/apperror"
	"notedeck-be/internal/dto"
	"notedeck-be/internal/entity"
	"notedeck-be/internal/pkg/logger"
	"notedeck-be/internal/repository/specification"
	"notedeck-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IDrawingService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDrawingRequest) (*dto.CreateDrawingResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowDrawingResponse, error)
	ListByNote(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) ([]*dto.ShowDrawingResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateDrawingRequest) (*dto.UpdateDrawingResponse, error)
}

type drawingService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewDrawingService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	log logger.ILogger,
) IDrawingService {
	return &drawingService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		logger:           log,
	}
}

// Create stores a whiteboard snapshot. When NoteId is set the owning note is
// checked, so a drawing cannot be attached to someone else's note.
func (c *drawingService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDrawingRequest) (*dto.CreateDrawingResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	if req.NoteId != nil {
		note, err := uow.NoteRepository().FindOne(ctx,
			specification.ByID{ID: *req.NoteId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if note == nil {
			return nil, apperror.ErrNoteNotFound
		}
	}

	drawing := entity.Drawing{
		Id:        uuid.New(),
		NoteId:    req.NoteId,
		UserId:    userId,
		Data:      req.Data,
		CreatedAt: time.Now(),
	}
	if err := uow.DrawingRepository().Create(ctx, &drawing); err != nil {
		return nil, err
	}

	c.publishDrawingUpdate(ctx, &drawing)

	return &dto.CreateDrawingResponse{Id: drawing.Id}, nil
}

// Show fetches by id alone, without an ownership filter. Drawings are opened
// via shared links from secondary devices, so possession of the id grants
// read access.
func (c *drawingService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowDrawingResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	drawing, err := uow.DrawingRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if drawing == nil {
		return nil, apperror.ErrDrawingNotFound
	}
	return mapDrawing(drawing), nil
}

func (c *drawingService) ListByNote(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) ([]*dto.ShowDrawingResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	drawings, err := uow.DrawingRepository().FindAll(ctx,
		specification.ByNoteID{NoteID: noteId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ShowDrawingResponse, 0, len(drawings))
	for _, drawing := range drawings {
		result = append(result, mapDrawing(drawing))
	}
	return result, nil
}

// Update replaces the snapshot wholesale. Strokes are not merged; the last
// writer wins, same as note content.
func (c *drawingService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateDrawingRequest) (*dto.UpdateDrawingResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	drawing, err := uow.DrawingRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if drawing == nil {
		return nil, apperror.ErrDrawingNotFound
	}

	now := time.Now()
	drawing.Data = req.Data
	drawing.UpdatedAt = &now
	if err := uow.DrawingRepository().Update(ctx, drawing); err != nil {
		return nil, err
	}

	c.publishDrawingUpdate(ctx, drawing)

	return &dto.UpdateDrawingResponse{Id: drawing.Id}, nil
}

func (c *drawingService) publishDrawingUpdate(ctx context.Context, drawing *entity.Drawing) {
	if drawing.NoteId == nil {
		return
	}
	noteId := *drawing.NoteId
	err := c.publisherService.PublishInvalidation(ctx, dto.InvalidationMessage{
		Kind:   dto.InvalidationDrawingUpdated,
		NoteId: &noteId,
	})
	if err != nil {
		c.logger.Warn("DrawingService", "Failed to publish drawing invalidation", map[string]interface{}{
			"drawing_id": drawing.Id,
			"error":      err.Error(),
		})
	}
}

func mapDrawing(drawing *entity.Drawing) *dto.ShowDrawingResponse {
	return &dto.ShowDrawingResponse{
		Id:        drawing.Id,
		NoteId:    drawing.NoteId,
		Data:      drawing.Data,
		CreatedAt: drawing.CreatedAt,
		UpdatedAt: drawing.UpdatedAt,
	}
}

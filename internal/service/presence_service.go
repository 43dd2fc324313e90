package service

import (
	"context"
	"fmt"
	"time"

	"notedeck-be/internal/dto"
	"notedeck-be/internal/entity"
	"notedeck-be/internal/pkg/logger"
	"notedeck-be/internal/repository/memory"
	"notedeck-be/internal/repository/specification"
	"notedeck-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const (
	// CursorThrottleWindow caps how often a single user's cursor writes for
	// one note reach storage.
	CursorThrottleWindow = 100 * time.Millisecond
	// CursorLivenessWindow is how long a cursor row counts as present after
	// its last update. Stale rows are filtered on read, never deleted.
	CursorLivenessWindow = 10 * time.Second
)

type IPresenceService interface {
	UpdateCursor(ctx context.Context, userId uuid.UUID, req *dto.UpdateCursorRequest) (*dto.UpdateCursorResponse, error)
	ListCursors(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) ([]*dto.CursorResponse, error)
}

type presenceService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	throttle         *memory.ThrottleGate
	logger           logger.ILogger
}

func NewPresenceService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	log logger.ILogger,
) IPresenceService {
	return &presenceService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		throttle:         memory.NewThrottleGate(CursorThrottleWindow),
		logger:           log,
	}
}

// UpdateCursor upserts the caller's presence row for the note. Updates inside
// the throttle window are acknowledged but dropped; cursor moves are too
// frequent to store each one.
func (c *presenceService) UpdateCursor(ctx context.Context, userId uuid.UUID, req *dto.UpdateCursorRequest) (*dto.UpdateCursorResponse, error) {
	key := fmt.Sprintf("%s:%s", req.NoteId, userId)
	if !c.throttle.Allow(key) {
		return &dto.UpdateCursorResponse{Throttled: true}, nil
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)

	position := entity.CursorPosition{
		From: req.Position.From,
		To:   req.Position.To,
		X:    req.Position.X,
		Y:    req.Position.Y,
	}

	cursor, err := uow.CursorRepository().FindByNoteAndUser(ctx, req.NoteId, userId)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if cursor == nil {
		cursor = &entity.Cursor{
			Id:        uuid.New(),
			NoteId:    req.NoteId,
			UserId:    userId,
			UserName:  req.UserName,
			Position:  position,
			UpdatedAt: now,
		}
		if err := uow.CursorRepository().Create(ctx, cursor); err != nil {
			return nil, err
		}
	} else {
		cursor.UserName = req.UserName
		cursor.Position = position
		cursor.UpdatedAt = now
		if err := uow.CursorRepository().Update(ctx, cursor); err != nil {
			return nil, err
		}
	}

	noteId, uid := req.NoteId, userId
	err = c.publisherService.PublishInvalidation(ctx, dto.InvalidationMessage{
		Kind:   dto.InvalidationCursorUpdated,
		NoteId: &noteId,
		UserId: &uid,
	})
	if err != nil {
		c.logger.Warn("PresenceService", "Failed to publish cursor invalidation", map[string]interface{}{
			"note_id": req.NoteId,
			"error":   err.Error(),
		})
	}

	return &dto.UpdateCursorResponse{Throttled: false}, nil
}

// ListCursors returns the live cursors on a note, excluding the caller's own.
func (c *presenceService) ListCursors(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) ([]*dto.CursorResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	now := time.Now()
	cursors, err := uow.CursorRepository().FindAll(ctx,
		specification.ByNoteID{NoteID: noteId},
		specification.UpdatedSince{Since: now.Add(-CursorLivenessWindow)},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.CursorResponse, 0, len(cursors))
	for _, cursor := range cursors {
		if cursor.UserId == userId || !cursor.IsLive(now, CursorLivenessWindow) {
			continue
		}
		result = append(result, &dto.CursorResponse{
			UserId:   cursor.UserId,
			UserName: cursor.UserName,
			Position: dto.CursorPositionDTO{
				From: cursor.Position.From,
				To:   cursor.Position.To,
				X:    cursor.Position.X,
				Y:    cursor.Position.Y,
			},
			UpdatedAt: cursor.UpdatedAt,
		})
	}
	return result, nil
}

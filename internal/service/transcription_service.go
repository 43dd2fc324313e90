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
	"notedeck-be/pkg/events"
	pktNats "notedeck-be/pkg/nats"
	"notedeck-be/pkg/transcription"

	"github.com/google/uuid"
)

type ITranscriptionService interface {
	Start(ctx context.Context, userId uuid.UUID, req *dto.StartTranscriptionRequest) (*dto.StartTranscriptionResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowTranscriptionResponse, error)
	ShowBySession(ctx context.Context, userId uuid.UUID, sessionId string) (*dto.ShowTranscriptionResponse, error)
	Refresh(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowTranscriptionResponse, error)
}

type transcriptionService struct {
	uowFactory     unitofwork.RepositoryFactory
	provider       transcription.Provider
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewTranscriptionService(
	uowFactory unitofwork.RepositoryFactory,
	provider transcription.Provider,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) ITranscriptionService {
	return &transcriptionService{
		uowFactory:     uowFactory,
		provider:       provider,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

// Start submits the audio URL to the provider and records the job in the
// processing state. The transcript arrives later via Refresh polls.
func (c *transcriptionService) Start(ctx context.Context, userId uuid.UUID, req *dto.StartTranscriptionRequest) (*dto.StartTranscriptionResponse, error) {
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

	job, err := c.provider.Submit(ctx, req.AudioUrl)
	if err != nil {
		c.logger.Error("TranscriptionService", "Provider submit failed", map[string]interface{}{
			"session_id": req.SessionId,
			"error":      err.Error(),
		})
		return nil, apperror.ProviderFailure("Transcription provider is unavailable")
	}

	record := entity.Transcription{
		Id:         uuid.New(),
		SessionId:  req.SessionId,
		NoteId:     req.NoteId,
		UserId:     userId,
		ProviderId: job.Id,
		Status:     entity.TranscriptionStatusProcessing,
		CreatedAt:  time.Now(),
	}
	if err := uow.TranscriptionRepository().Create(ctx, &record); err != nil {
		return nil, err
	}

	return &dto.StartTranscriptionResponse{
		Id:     record.Id,
		Status: record.Status,
	}, nil
}

func (c *transcriptionService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID) (*entity.Transcription, error) {
	record, err := uow.TranscriptionRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperror.ErrTranscriptionNotFound
	}
	return record, nil
}

func (c *transcriptionService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowTranscriptionResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	record, err := c.findOwned(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}
	return mapTranscription(record), nil
}

func (c *transcriptionService) ShowBySession(ctx context.Context, userId uuid.UUID, sessionId string) (*dto.ShowTranscriptionResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	record, err := uow.TranscriptionRepository().FindOne(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperror.ErrTranscriptionNotFound
	}
	return mapTranscription(record), nil
}

// Refresh polls the provider and folds the result into the stored record.
// Completed and errored records are returned as-is without hitting the
// provider again.
func (c *transcriptionService) Refresh(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowTranscriptionResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	record, err := c.findOwned(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}
	if record.Status != entity.TranscriptionStatusProcessing {
		return mapTranscription(record), nil
	}

	job, err := c.provider.Poll(ctx, record.ProviderId)
	if err != nil {
		c.logger.Error("TranscriptionService", "Provider poll failed", map[string]interface{}{
			"transcription_id": record.Id,
			"provider_id":      record.ProviderId,
			"error":            err.Error(),
		})
		return nil, apperror.ProviderFailure("Transcription provider is unavailable")
	}

	if job.Status.Done() {
		now := time.Now()
		record.UpdatedAt = &now
		switch job.Status {
		case transcription.StatusCompleted:
			record.Status = entity.TranscriptionStatusCompleted
			record.Transcript = job.Text
		case transcription.StatusError:
			record.Status = entity.TranscriptionStatusError
			record.Transcript = job.Error
		}
		if err := uow.TranscriptionRepository().Update(ctx, record); err != nil {
			return nil, err
		}

		if c.eventPublisher != nil {
			event := events.NewTranscriptionCompleted(record.Id, record.UserId, record.SessionId, record.Status)
			if err := c.eventPublisher.Publish(ctx, event); err != nil {
				c.logger.Warn("TranscriptionService", "Failed to publish completion event", map[string]interface{}{
					"transcription_id": record.Id,
					"error":            err.Error(),
				})
			}
		}
	}

	return mapTranscription(record), nil
}

func mapTranscription(record *entity.Transcription) *dto.ShowTranscriptionResponse {
	return &dto.ShowTranscriptionResponse{
		Id:         record.Id,
		SessionId:  record.SessionId,
		NoteId:     record.NoteId,
		Status:     record.Status,
		Transcript: record.Transcript,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}
}

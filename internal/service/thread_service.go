package service

import (
	"context"
	"fmt"
	"time"

	"notedeck-be/internal/apperror"
	"notedeck-be/internal/dto"
	"notedeck-be/internal/entity"
	"notedeck-be/internal/pkg/logger"
	"notedeck-be/internal/repository/specification"
	"notedeck-be/internal/repository/unitofwork"
	"notedeck-be/pkg/llm"
	"notedeck-be/pkg/richtext"

	"github.com/google/uuid"
)

const threadSystemPrompt = "You are a writing assistant discussing a passage the user " +
	"selected inside their note. Ground your answers in the selected text and the " +
	"surrounding document when they are relevant. If the provided context does not " +
	"cover the question, answer from general knowledge instead of refusing."

type IThreadService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateThreadRequest) (*dto.CreateThreadResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowThreadResponse, error)
	ListByNote(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) ([]*dto.ShowThreadResponse, error)
	SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendThreadMessageRequest) (*dto.SendThreadMessageResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DeleteThreadResponse, error)
}

type threadService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	syncManager      ISyncManager
	llmProvider      llm.LLMProvider
	logger           logger.ILogger
}

func NewThreadService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	syncManager ISyncManager,
	llmProvider llm.LLMProvider,
	log logger.ILogger,
) IThreadService {
	return &threadService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		syncManager:      syncManager,
		llmProvider:      llmProvider,
		logger:           log,
	}
}

// Create anchors a new discussion to the [SelectionStart, SelectionEnd) range
// of the note. The selected text is snapshotted onto the thread and a
// removable mark carrying the thread id is written into the note content, so
// the anchor survives later edits around it.
func (c *threadService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateThreadRequest) (*dto.CreateThreadResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: req.NoteId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apperror.ErrNoteNotFound
	}

	// Stamp against the note's latest snapshot. An edit may still sit in the
	// sync buffer; reading only the stored row would compute offsets on a
	// stale tree and the forced flush below would wipe those keystrokes.
	threadId := uuid.New()
	var selectionText string
	content, err := c.syncManager.Amend(note.Id, note.Content, func(current string) (string, error) {
		doc, err := richtext.Parse(current)
		if err != nil {
			return "", apperror.Validation("Note content is not a valid document")
		}
		if req.SelectionEnd <= req.SelectionStart || !richtext.InBounds(doc, req.SelectionStart, req.SelectionEnd) {
			return "", apperror.Validation("Selection is out of document bounds")
		}
		selectionText = richtext.ExtractText(doc, req.SelectionStart, req.SelectionEnd)
		marked, err := richtext.ApplyThreadMark(doc, req.SelectionStart, req.SelectionEnd, threadId.String())
		if err != nil {
			return "", apperror.Validation("Selection is out of document bounds")
		}
		return marked.String()
	})
	if err != nil {
		return nil, err
	}

	thread := entity.Thread{
		Id:             threadId,
		NoteId:         note.Id,
		UserId:         userId,
		SelectionText:  selectionText,
		SelectionStart: req.SelectionStart,
		SelectionEnd:   req.SelectionEnd,
		Messages:       []entity.ThreadMessage{},
		CreatedAt:      time.Now(),
	}
	if err := uow.ThreadRepository().Create(ctx, &thread); err != nil {
		// Strip the stamped mark so the buffer never flushes an anchor
		// without a thread behind it.
		c.syncManager.Amend(note.Id, content, func(current string) (string, error) {
			doc, parseErr := richtext.Parse(current)
			if parseErr != nil {
				return current, nil
			}
			return richtext.RemoveThreadMark(doc, threadId.String()).String()
		})
		return nil, err
	}

	// The mark must be durable before anyone else reads the note, so this
	// write bypasses the debounce window.
	if err := c.syncManager.Flush(note.Id); err != nil {
		return nil, err
	}

	c.publishThreadUpdate(ctx, note.Id, thread.Id)

	return &dto.CreateThreadResponse{
		Id:            thread.Id,
		SelectionText: thread.SelectionText,
		Content:       content,
	}, nil
}

func (c *threadService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID) (*entity.Thread, error) {
	thread, err := uow.ThreadRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, apperror.ErrThreadNotFound
	}
	return thread, nil
}

func (c *threadService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowThreadResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	thread, err := c.findOwned(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}
	return mapThread(thread), nil
}

func (c *threadService) ListByNote(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) ([]*dto.ShowThreadResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	threads, err := uow.ThreadRepository().FindAll(ctx,
		specification.ByNoteID{NoteID: noteId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ShowThreadResponse, 0, len(threads))
	for _, thread := range threads {
		result = append(result, mapThread(thread))
	}
	return result, nil
}

// SendMessage appends the user's message, asks the model for a reply and
// appends that too. The user message is persisted before the model call, so a
// provider failure leaves the question in the transcript rather than losing
// it; the caller may simply retry.
func (c *threadService) SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendThreadMessageRequest) (*dto.SendThreadMessageResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	thread, err := c.findOwned(ctx, uow, userId, req.Id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	userMessage := entity.ThreadMessage{
		Role:      entity.ThreadRoleUser,
		Content:   req.Content,
		Timestamp: now,
	}
	thread.Messages = append(thread.Messages, userMessage)
	thread.UpdatedAt = &now
	if err := uow.ThreadRepository().Update(ctx, thread); err != nil {
		return nil, err
	}

	history := make([]llm.Message, 0, len(thread.Messages)+1)
	history = append(history, llm.Message{
		Role:    "system",
		Content: fmt.Sprintf("%s\n\nSelected text:\n%s", threadSystemPrompt, thread.SelectionText),
	})
	for _, msg := range thread.Messages {
		history = append(history, llm.Message{Role: msg.Role, Content: msg.Content})
	}

	reply, err := c.llmProvider.Chat(ctx, history)
	if err != nil {
		c.logger.Error("ThreadService", "LLM reply failed", map[string]interface{}{
			"thread_id": thread.Id,
			"error":     err.Error(),
		})
		return nil, apperror.ProviderFailure("Assistant is unavailable right now")
	}

	replyAt := time.Now()
	assistantMessage := entity.ThreadMessage{
		Role:      entity.ThreadRoleAssistant,
		Content:   reply,
		Timestamp: replyAt,
	}
	thread.Messages = append(thread.Messages, assistantMessage)
	thread.UpdatedAt = &replyAt
	if err := uow.ThreadRepository().Update(ctx, thread); err != nil {
		return nil, err
	}

	c.publishThreadUpdate(ctx, thread.NoteId, thread.Id)

	return &dto.SendThreadMessageResponse{
		Sent:  mapThreadMessage(userMessage),
		Reply: mapThreadMessage(assistantMessage),
	}, nil
}

// Delete removes the thread and strips its mark from the note content. The
// cleaned document is returned and persisted immediately so no orphaned mark
// survives the thread.
func (c *threadService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DeleteThreadResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	thread, err := c.findOwned(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: thread.NoteId})
	if err != nil {
		return nil, err
	}

	content := ""
	if note != nil {
		// Strip from the latest snapshot so a buffered edit is cleaned in
		// place instead of being overwritten by the stored copy.
		content, err = c.syncManager.Amend(note.Id, note.Content, func(current string) (string, error) {
			doc, parseErr := richtext.Parse(current)
			if parseErr != nil {
				return current, nil
			}
			return richtext.RemoveThreadMark(doc, thread.Id.String()).String()
		})
		if err != nil {
			return nil, err
		}
		if err := c.syncManager.Flush(note.Id); err != nil {
			return nil, err
		}
	}

	if err := uow.ThreadRepository().Delete(ctx, id); err != nil {
		return nil, err
	}

	c.publishThreadUpdate(ctx, thread.NoteId, thread.Id)

	return &dto.DeleteThreadResponse{
		Id:      thread.Id,
		Content: content,
	}, nil
}

func (c *threadService) publishThreadUpdate(ctx context.Context, noteId, threadId uuid.UUID) {
	nid, tid := noteId, threadId
	err := c.publisherService.PublishInvalidation(ctx, dto.InvalidationMessage{
		Kind:     dto.InvalidationThreadUpdated,
		NoteId:   &nid,
		ThreadId: &tid,
	})
	if err != nil {
		c.logger.Warn("ThreadService", "Failed to publish thread invalidation", map[string]interface{}{
			"thread_id": threadId,
			"error":     err.Error(),
		})
	}
}

func mapThread(thread *entity.Thread) *dto.ShowThreadResponse {
	messages := make([]dto.ThreadMessageDTO, 0, len(thread.Messages))
	for _, msg := range thread.Messages {
		messages = append(messages, mapThreadMessage(msg))
	}
	return &dto.ShowThreadResponse{
		Id:             thread.Id,
		NoteId:         thread.NoteId,
		SelectionText:  thread.SelectionText,
		SelectionStart: thread.SelectionStart,
		SelectionEnd:   thread.SelectionEnd,
		Messages:       messages,
		CreatedAt:      thread.CreatedAt,
		UpdatedAt:      thread.UpdatedAt,
	}
}

func mapThreadMessage(msg entity.ThreadMessage) dto.ThreadMessageDTO {
	return dto.ThreadMessageDTO{
		Role:      msg.Role,
		Content:   msg.Content,
		Timestamp: msg.Timestamp,
	}
}

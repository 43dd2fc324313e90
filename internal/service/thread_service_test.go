package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"notedeck-be/internal/apperror"
	"notedeck-be/internal/dto"
	"notedeck-be/internal/entity"
	"notedeck-be/pkg/llm"
	"notedeck-be/pkg/richtext"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const threadTestDoc = `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"Hello world"}]}]}`

type fakeLLM struct {
	reply string
	err   error
	calls int
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}})
}

func newThreadTestEnv(note *entity.Note, threads *fakeThreadRepo, provider llm.LLMProvider) (IThreadService, *fakeNoteRepo, *fakePublisher, ISyncManager) {
	noteRepo := newFakeNoteRepo(note)
	uow := &fakeUnitOfWork{notes: noteRepo, threads: threads}
	factory := &fakeRepoFactory{uow: uow}
	pub := &fakePublisher{}
	syncManager := NewSyncManager(factory, pub, time.Hour)
	svc := NewThreadService(factory, pub, syncManager, provider, nopLogger{})
	return svc, noteRepo, pub, syncManager
}

func TestCreateThreadAnchorsSelection(t *testing.T) {
	userId := uuid.New()
	note := &entity.Note{Id: uuid.New(), UserId: userId, Content: threadTestDoc}
	threads := newFakeThreadRepo()
	svc, noteRepo, pub, _ := newThreadTestEnv(note, threads, &fakeLLM{})

	res, err := svc.Create(context.Background(), userId, &dto.CreateThreadRequest{
		NoteId:         note.Id,
		SelectionStart: 1,
		SelectionEnd:   6,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Hello", res.SelectionText)

	// The mark with the thread id is persisted into the note content.
	stored := noteRepo.notes[note.Id]
	doc, parseErr := richtext.Parse(stored.Content)
	assert.NoError(t, parseErr)
	ranges := richtext.ThreadMarkRanges(doc, res.Id.String())
	if assert.Len(t, ranges, 1) {
		assert.Equal(t, 1, ranges[0].From)
		assert.Equal(t, 6, ranges[0].To)
	}

	kinds := make([]string, 0)
	for _, msg := range pub.published() {
		kinds = append(kinds, msg.Kind)
	}
	assert.Contains(t, kinds, dto.InvalidationNoteUpdated)
	assert.Contains(t, kinds, dto.InvalidationThreadUpdated)
}

func TestCreateThreadKeepsBufferedEdits(t *testing.T) {
	userId := uuid.New()
	note := &entity.Note{Id: uuid.New(), UserId: userId, Content: threadTestDoc}
	threads := newFakeThreadRepo()
	svc, noteRepo, _, syncManager := newThreadTestEnv(note, threads, &fakeLLM{})

	// An edit is still sitting in the debounce window when the thread is
	// created. The forced flush must carry it, not the stored row.
	edited := `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"Howdy world"}]}]}`
	syncManager.Submit(note.Id, edited)

	res, err := svc.Create(context.Background(), userId, &dto.CreateThreadRequest{
		NoteId:         note.Id,
		SelectionStart: 1,
		SelectionEnd:   6,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Howdy", res.SelectionText)

	stored := noteRepo.notes[note.Id]
	assert.Contains(t, stored.Content, "Howdy world")

	doc, parseErr := richtext.Parse(stored.Content)
	assert.NoError(t, parseErr)
	ranges := richtext.ThreadMarkRanges(doc, res.Id.String())
	if assert.Len(t, ranges, 1) {
		assert.Equal(t, 1, ranges[0].From)
		assert.Equal(t, 6, ranges[0].To)
	}
}

func TestCreateThreadRejectsOutOfBoundsSelection(t *testing.T) {
	userId := uuid.New()
	note := &entity.Note{Id: uuid.New(), UserId: userId, Content: threadTestDoc}
	svc, _, _, _ := newThreadTestEnv(note, newFakeThreadRepo(), &fakeLLM{})

	_, err := svc.Create(context.Background(), userId, &dto.CreateThreadRequest{
		NoteId:         note.Id,
		SelectionStart: 5,
		SelectionEnd:   99,
	})

	appErr, ok := apperror.As(err)
	assert.True(t, ok)
	assert.Equal(t, 400, appErr.Code)
}

func TestSendMessageAppendsBothSides(t *testing.T) {
	userId := uuid.New()
	note := &entity.Note{Id: uuid.New(), UserId: userId, Content: threadTestDoc}
	thread := &entity.Thread{
		Id:            uuid.New(),
		NoteId:        note.Id,
		UserId:        userId,
		SelectionText: "Hello",
		Messages:      []entity.ThreadMessage{},
		CreatedAt:     time.Now(),
	}
	threads := newFakeThreadRepo(thread)
	provider := &fakeLLM{reply: "Hi there"}
	svc, _, _, _ := newThreadTestEnv(note, threads, provider)

	res, err := svc.SendMessage(context.Background(), userId, &dto.SendThreadMessageRequest{
		Id:      thread.Id,
		Content: "What does this mean?",
	})

	assert.NoError(t, err)
	assert.Equal(t, entity.ThreadRoleUser, res.Sent.Role)
	assert.Equal(t, "Hi there", res.Reply.Content)

	stored := threads.threads[thread.Id]
	if assert.Len(t, stored.Messages, 2) {
		assert.Equal(t, entity.ThreadRoleUser, stored.Messages[0].Role)
		assert.Equal(t, entity.ThreadRoleAssistant, stored.Messages[1].Role)
	}
}

func TestSendMessageKeepsQuestionOnProviderFailure(t *testing.T) {
	userId := uuid.New()
	note := &entity.Note{Id: uuid.New(), UserId: userId, Content: threadTestDoc}
	thread := &entity.Thread{
		Id:       uuid.New(),
		NoteId:   note.Id,
		UserId:   userId,
		Messages: []entity.ThreadMessage{},
	}
	threads := newFakeThreadRepo(thread)
	svc, _, _, _ := newThreadTestEnv(note, threads, &fakeLLM{err: errors.New("model offline")})

	_, err := svc.SendMessage(context.Background(), userId, &dto.SendThreadMessageRequest{
		Id:      thread.Id,
		Content: "Still there?",
	})

	assert.Error(t, err)

	// The user's message survives so a retry does not lose it.
	stored := threads.threads[thread.Id]
	if assert.Len(t, stored.Messages, 1) {
		assert.Equal(t, entity.ThreadRoleUser, stored.Messages[0].Role)
		assert.Equal(t, "Still there?", stored.Messages[0].Content)
	}
}

func TestDeleteThreadStripsMark(t *testing.T) {
	userId := uuid.New()
	threadId := uuid.New()

	doc, err := richtext.Parse(threadTestDoc)
	assert.NoError(t, err)
	marked, err := richtext.ApplyThreadMark(doc, 1, 6, threadId.String())
	assert.NoError(t, err)
	content, err := marked.String()
	assert.NoError(t, err)

	note := &entity.Note{Id: uuid.New(), UserId: userId, Content: content}
	thread := &entity.Thread{Id: threadId, NoteId: note.Id, UserId: userId}
	threads := newFakeThreadRepo(thread)
	svc, noteRepo, _, _ := newThreadTestEnv(note, threads, &fakeLLM{})

	res, err := svc.Delete(context.Background(), userId, threadId)

	assert.NoError(t, err)
	assert.Contains(t, threads.deleted, threadId)

	cleaned, err := richtext.Parse(res.Content)
	assert.NoError(t, err)
	assert.Empty(t, richtext.ThreadMarkRanges(cleaned, threadId.String()))

	stored, err := richtext.Parse(noteRepo.notes[note.Id].Content)
	assert.NoError(t, err)
	assert.Empty(t, richtext.ThreadMarkRanges(stored, threadId.String()))
}

func TestDeleteThreadKeepsBufferedEdits(t *testing.T) {
	userId := uuid.New()
	threadId := uuid.New()

	doc, err := richtext.Parse(threadTestDoc)
	assert.NoError(t, err)
	marked, err := richtext.ApplyThreadMark(doc, 1, 6, threadId.String())
	assert.NoError(t, err)
	storedContent, err := marked.String()
	assert.NoError(t, err)

	note := &entity.Note{Id: uuid.New(), UserId: userId, Content: storedContent}
	thread := &entity.Thread{Id: threadId, NoteId: note.Id, UserId: userId}
	threads := newFakeThreadRepo(thread)
	svc, noteRepo, _, syncManager := newThreadTestEnv(note, threads, &fakeLLM{})

	editedDoc, err := richtext.Parse(`{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"Howdy world"}]}]}`)
	assert.NoError(t, err)
	editedMarked, err := richtext.ApplyThreadMark(editedDoc, 1, 6, threadId.String())
	assert.NoError(t, err)
	buffered, err := editedMarked.String()
	assert.NoError(t, err)
	syncManager.Submit(note.Id, buffered)

	_, err = svc.Delete(context.Background(), userId, threadId)
	assert.NoError(t, err)

	// The buffered edit survives the strip; only the mark is gone.
	assert.Contains(t, noteRepo.notes[note.Id].Content, "Howdy world")
	stored, err := richtext.Parse(noteRepo.notes[note.Id].Content)
	assert.NoError(t, err)
	assert.Empty(t, richtext.ThreadMarkRanges(stored, threadId.String()))
}

func TestSendMessageUnknownThread(t *testing.T) {
	userId := uuid.New()
	note := &entity.Note{Id: uuid.New(), UserId: userId, Content: threadTestDoc}
	svc, _, _, _ := newThreadTestEnv(note, newFakeThreadRepo(), &fakeLLM{})

	_, err := svc.SendMessage(context.Background(), userId, &dto.SendThreadMessageRequest{
		Id:      uuid.New(),
		Content: "hello?",
	})

	assert.ErrorIs(t, err, apperror.ErrThreadNotFound)
}

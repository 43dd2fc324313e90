package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeTranscriptionCompleted = "TRANSCRIPTION_COMPLETED"
	TypeNoteShared             = "NOTE_SHARED"
)

// NewTranscriptionCompleted fires when a provider poll finds the transcript
// finished (or failed). Consumers deliver it to the owning user's sessions.
func NewTranscriptionCompleted(transcriptionId, userId uuid.UUID, sessionId, status string) Event {
	return BaseEvent{
		Type: TypeTranscriptionCompleted,
		Data: map[string]interface{}{
			"transcription_id": transcriptionId.String(),
			"user_id":          userId.String(),
			"session_id":       sessionId,
			"status":           status,
		},
		OccurredAt: time.Now(),
	}
}

// NewNoteShared fires after a share invite is recorded and mailed.
func NewNoteShared(noteId, ownerId uuid.UUID, email string) Event {
	return BaseEvent{
		Type: TypeNoteShared,
		Data: map[string]interface{}{
			"note_id":  noteId.String(),
			"owner_id": ownerId.String(),
			"email":    email,
		},
		OccurredAt: time.Now(),
	}
}

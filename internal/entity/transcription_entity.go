package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	TranscriptionStatusProcessing = "processing"
	TranscriptionStatusCompleted  = "completed"
	TranscriptionStatusError      = "error"
)

type Transcription struct {
	Id         uuid.UUID
	SessionId  string
	NoteId     *uuid.UUID
	UserId     uuid.UUID
	ProviderId string // id assigned by the transcription provider
	Transcript string
	Status     string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}

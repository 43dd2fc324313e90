package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Transcription struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId  string         `gorm:"type:varchar(255);not null;index"`
	NoteId     *uuid.UUID     `gorm:"type:uuid;index"`
	UserId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	ProviderId string         `gorm:"type:varchar(255)"`
	Transcript string         `gorm:"type:text"`
	Status     string         `gorm:"type:varchar(32);not null"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (Transcription) TableName() string {
	return "transcriptions"
}

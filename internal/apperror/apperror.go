package apperror

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// AppError couples a user-facing message with the HTTP status the error
// middleware should translate it to. Service code returns these directly;
// anything else surfaces as a 500.
type AppError struct {
	Code    int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NotFound(message string) *AppError {
	return &AppError{Code: fiber.StatusNotFound, Message: message}
}

func Validation(message string) *AppError {
	return &AppError{Code: fiber.StatusBadRequest, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Code: fiber.StatusConflict, Message: message}
}

// ProviderFailure marks an upstream AI/transcription provider error.
func ProviderFailure(message string) *AppError {
	return &AppError{Code: fiber.StatusBadGateway, Message: message}
}

var (
	ErrNotebookNotFound      = NotFound("Notebook not found")
	ErrFolderNotFound        = NotFound("Folder not found")
	ErrNoteNotFound          = NotFound("Note not found")
	ErrThreadNotFound        = NotFound("Thread not found")
	ErrDrawingNotFound       = NotFound("Drawing not found")
	ErrTranscriptionNotFound = NotFound("Transcription not found")

	// ErrStaleStructure is returned when a structural write's base version no
	// longer matches the stored notebook; the caller retries on a fresh read.
	ErrStaleStructure = Conflict("Notebook structure was modified concurrently")
)

// As unwraps an error into an *AppError if possible.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

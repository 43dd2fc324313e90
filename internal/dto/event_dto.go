package dto

import "github.com/google/uuid"

const (
	InvalidationNoteUpdated      = "note.updated"
	InvalidationStructureUpdated = "notebook.structure.updated"
	InvalidationThreadUpdated    = "thread.updated"
	InvalidationCursorUpdated    = "cursor.updated"
	InvalidationDrawingUpdated   = "drawing.updated"
)

// InvalidationMessage travels over the in-process bus after a successful
// mutation; the consumer fans it out to websocket rooms so editors refetch.
type InvalidationMessage struct {
	Kind       string     `json:"kind"`
	NotebookId *uuid.UUID `json:"notebook_id,omitempty"`
	NoteId     *uuid.UUID `json:"note_id,omitempty"`
	ThreadId   *uuid.UUID `json:"thread_id,omitempty"`
	UserId     *uuid.UUID `json:"user_id,omitempty"`
}

package entity

import (
	"github.com/google/uuid"
)

// NotebookStructure is the embedded folder map of a notebook. Folders are not
// standalone records; the whole map is read, rewritten and persisted as one
// aggregate, so callers must route mutations through the per-notebook writer
// queue in the service layer.
type NotebookStructure struct {
	Folders map[string]Folder `json:"folders"`
}

// Folder groups an ordered list of note ids under a title.
type Folder struct {
	Title string      `json:"title"`
	Notes []uuid.UUID `json:"notes"`
}

func NewNotebookStructure() NotebookStructure {
	return NotebookStructure{Folders: map[string]Folder{}}
}

// clone shallow-copies the folder map so a mutation never aliases the base
// snapshot it was computed from.
func (s NotebookStructure) clone() NotebookStructure {
	folders := make(map[string]Folder, len(s.Folders))
	for id, f := range s.Folders {
		folders[id] = f
	}
	return NotebookStructure{Folders: folders}
}

// AddFolder inserts an empty folder under a fresh id and returns the id
// together with the new structure.
func (s NotebookStructure) AddFolder(title string) (NotebookStructure, string) {
	next := s.clone()
	folderId := uuid.NewString()
	next.Folders[folderId] = Folder{Title: title, Notes: []uuid.UUID{}}
	return next, folderId
}

// AddNote appends a note id to the folder's note list. The append is
// unconditional; uniqueness across folders is the caller's invariant.
func (s NotebookStructure) AddNote(folderId string, noteId uuid.UUID) (NotebookStructure, bool) {
	folder, ok := s.Folders[folderId]
	if !ok {
		return s, false
	}
	next := s.clone()
	notes := make([]uuid.UUID, 0, len(folder.Notes)+1)
	notes = append(notes, folder.Notes...)
	notes = append(notes, noteId)
	next.Folders[folderId] = Folder{Title: folder.Title, Notes: notes}
	return next, true
}

// RenameFolder replaces the folder's title in place.
func (s NotebookStructure) RenameFolder(folderId, title string) (NotebookStructure, bool) {
	folder, ok := s.Folders[folderId]
	if !ok {
		return s, false
	}
	next := s.clone()
	next.Folders[folderId] = Folder{Title: title, Notes: folder.Notes}
	return next, true
}

// DeleteFolder removes the folder key and returns the note ids it contained
// so the caller can cascade-delete the note entities.
func (s NotebookStructure) DeleteFolder(folderId string) (NotebookStructure, []uuid.UUID, bool) {
	folder, ok := s.Folders[folderId]
	if !ok {
		return s, nil, false
	}
	next := s.clone()
	delete(next.Folders, folderId)
	return next, folder.Notes, true
}

// RemoveNote drops a note id from the first folder that lists it. A note
// belongs to at most one folder, so the scan stops on the first match.
func (s NotebookStructure) RemoveNote(noteId uuid.UUID) (NotebookStructure, bool) {
	for folderId, folder := range s.Folders {
		idx := -1
		for i, id := range folder.Notes {
			if id == noteId {
				idx = i
				break
			}
		}
		if idx < 0 {
			continue
		}
		next := s.clone()
		notes := make([]uuid.UUID, 0, len(folder.Notes)-1)
		notes = append(notes, folder.Notes[:idx]...)
		notes = append(notes, folder.Notes[idx+1:]...)
		next.Folders[folderId] = Folder{Title: folder.Title, Notes: notes}
		return next, true
	}
	return s, false
}

// FolderOf returns the id of the folder listing the note, if any.
func (s NotebookStructure) FolderOf(noteId uuid.UUID) (string, bool) {
	for folderId, folder := range s.Folders {
		for _, id := range folder.Notes {
			if id == noteId {
				return folderId, true
			}
		}
	}
	return "", false
}

package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestAddFolder(t *testing.T) {
	base := NewNotebookStructure()

	next, folderId := base.AddFolder("Research")

	if folderId == "" {
		t.Fatal("expected a generated folder id")
	}
	folder, ok := next.Folders[folderId]
	if !ok {
		t.Fatal("new folder missing from structure")
	}
	if folder.Title != "Research" {
		t.Errorf("title = %q, want %q", folder.Title, "Research")
	}
	if folder.Notes == nil || len(folder.Notes) != 0 {
		t.Errorf("new folder should start with an empty note list, got %v", folder.Notes)
	}
	if len(base.Folders) != 0 {
		t.Error("base structure was mutated")
	}
}

func TestAddNote(t *testing.T) {
	base, folderId := NewNotebookStructure().AddFolder("Research")
	noteId := uuid.New()

	next, ok := base.AddNote(folderId, noteId)
	if !ok {
		t.Fatal("AddNote failed for existing folder")
	}
	if got := next.Folders[folderId].Notes; len(got) != 1 || got[0] != noteId {
		t.Errorf("notes = %v, want [%s]", got, noteId)
	}
	if len(base.Folders[folderId].Notes) != 0 {
		t.Error("base folder was mutated")
	}

	if _, ok := base.AddNote("missing", noteId); ok {
		t.Error("AddNote succeeded for missing folder")
	}
}

func TestRenameFolder(t *testing.T) {
	base, folderId := NewNotebookStructure().AddFolder("Old")
	withNote, _ := base.AddNote(folderId, uuid.New())

	next, ok := withNote.RenameFolder(folderId, "New")
	if !ok {
		t.Fatal("RenameFolder failed for existing folder")
	}
	if next.Folders[folderId].Title != "New" {
		t.Errorf("title = %q, want %q", next.Folders[folderId].Title, "New")
	}
	if len(next.Folders[folderId].Notes) != 1 {
		t.Error("rename dropped the folder's notes")
	}

	if _, ok := withNote.RenameFolder("missing", "X"); ok {
		t.Error("RenameFolder succeeded for missing folder")
	}
}

func TestDeleteFolderReturnsOrphans(t *testing.T) {
	base, folderId := NewNotebookStructure().AddFolder("Research")
	noteA, noteB := uuid.New(), uuid.New()
	base, _ = base.AddNote(folderId, noteA)
	base, _ = base.AddNote(folderId, noteB)

	next, orphans, ok := base.DeleteFolder(folderId)
	if !ok {
		t.Fatal("DeleteFolder failed for existing folder")
	}
	if _, exists := next.Folders[folderId]; exists {
		t.Error("folder still present after delete")
	}
	if len(orphans) != 2 || orphans[0] != noteA || orphans[1] != noteB {
		t.Errorf("orphans = %v, want [%s %s]", orphans, noteA, noteB)
	}

	if _, _, ok := base.DeleteFolder("missing"); ok {
		t.Error("DeleteFolder succeeded for missing folder")
	}
}

func TestRemoveNote(t *testing.T) {
	base, folderId := NewNotebookStructure().AddFolder("Research")
	noteA, noteB := uuid.New(), uuid.New()
	base, _ = base.AddNote(folderId, noteA)
	base, _ = base.AddNote(folderId, noteB)

	next, ok := base.RemoveNote(noteA)
	if !ok {
		t.Fatal("RemoveNote failed for filed note")
	}
	if got := next.Folders[folderId].Notes; len(got) != 1 || got[0] != noteB {
		t.Errorf("notes = %v, want [%s]", got, noteB)
	}

	if _, ok := next.RemoveNote(noteA); ok {
		t.Error("RemoveNote succeeded for a note no longer filed")
	}
}

func TestFolderOf(t *testing.T) {
	base, _ := NewNotebookStructure().AddFolder("A")
	base, folderB := base.AddFolder("B")
	noteId := uuid.New()
	base, _ = base.AddNote(folderB, noteId)

	got, ok := base.FolderOf(noteId)
	if !ok || got != folderB {
		t.Errorf("FolderOf = %q (%v), want %q", got, ok, folderB)
	}

	if _, ok := base.FolderOf(uuid.New()); ok {
		t.Error("FolderOf found a folder for an unfiled note")
	}
}

func TestCursorIsLive(t *testing.T) {
	now := time.Now()
	window := 10 * time.Second

	tests := []struct {
		name      string
		updatedAt time.Time
		want      bool
	}{
		{"just updated", now, true},
		{"inside window", now.Add(-9 * time.Second), true},
		{"exactly at window", now.Add(-window), false},
		{"stale", now.Add(-time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Cursor{UpdatedAt: tt.updatedAt}
			if got := c.IsLive(now, window); got != tt.want {
				t.Errorf("IsLive = %v, want %v", got, tt.want)
			}
		})
	}
}

package docsync

import (
	"testing"
)

const localDoc = `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"Hello world"}]}]}`

// Same tree with different key order; must compare as equal.
const localDocReordered = `{"content":[{"content":[{"text":"Hello world","type":"text"}],"type":"paragraph"}],"type":"doc"}`

const remoteDoc = `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"Hi"}]}]}`

func TestMergeIdenticalTreesIsNoop(t *testing.T) {
	sel := Selection{From: 2, To: 5}

	res, err := Merge(localDoc, localDocReordered, sel)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if res.Changed {
		t.Error("identical trees reported as changed")
	}
	if !res.CursorKept || res.Selection != sel {
		t.Errorf("selection = %+v, want %+v kept", res.Selection, sel)
	}
	if res.Content != localDoc {
		t.Error("local content should be kept verbatim when unchanged")
	}
}

func TestMergeRemoteWinsWholesale(t *testing.T) {
	res, err := Merge(localDoc, remoteDoc, Selection{From: 1, To: 3})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if !res.Changed {
		t.Error("differing trees reported as unchanged")
	}
	if res.Content != remoteDoc {
		t.Error("remote snapshot should replace the local content")
	}
	// remote doc length is 4; [1,3) still fits
	if !res.CursorKept {
		t.Error("cursor inside the new bounds should be restored")
	}
}

func TestMergeDropsOutOfBoundsCursor(t *testing.T) {
	res, err := Merge(localDoc, remoteDoc, Selection{From: 8, To: 11})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if res.CursorKept {
		t.Error("cursor past the new document end should not be restored")
	}
	if res.Selection != (Selection{}) {
		t.Errorf("selection = %+v, want zero value", res.Selection)
	}
}

func TestMergeRejectsInvalidDocuments(t *testing.T) {
	if _, err := Merge("not json", remoteDoc, Selection{}); err == nil {
		t.Error("expected error for invalid local document")
	}
	if _, err := Merge(localDoc, "not json", Selection{}); err == nil {
		t.Error("expected error for invalid remote document")
	}
}

package docsync

import (
	"reflect"

	"notedeck-be/pkg/richtext"
)

// Selection is the local cursor range at merge time.
type Selection struct {
	From int
	To   int
}

// MergeResult describes the outcome of reconciling a remote snapshot into a
// local editor session.
type MergeResult struct {
	// Content is the document the session should hold after the merge.
	Content string
	// Changed is false when the remote snapshot deep-equals the local tree
	// and no replace happened.
	Changed bool
	// CursorKept is true when the previous selection still fits the new
	// document and was restored. When false the selection is wherever the
	// replace left it; no clamping is attempted.
	CursorKept bool
	Selection  Selection
}

// Merge reconciles a remote note snapshot against the locally held content.
// Content-level last-write-wins: the remote tree replaces the local one
// wholesale when they differ; only the cursor is carried over, and only when
// its offsets remain within the new document's bounds.
func Merge(local, remote string, sel Selection) (MergeResult, error) {
	localDoc, err := richtext.Parse(local)
	if err != nil {
		return MergeResult{}, err
	}
	remoteDoc, err := richtext.Parse(remote)
	if err != nil {
		return MergeResult{}, err
	}

	if reflect.DeepEqual(localDoc, remoteDoc) {
		return MergeResult{Content: local, Changed: false, CursorKept: true, Selection: sel}, nil
	}

	res := MergeResult{Content: remote, Changed: true}
	if richtext.InBounds(remoteDoc, sel.From, sel.To) {
		res.CursorKept = true
		res.Selection = sel
	}
	return res, nil
}

package richtext

import (
	"strings"
)

// Offset semantics follow the editor's own counting: a text node occupies one
// position per rune, a leaf block occupies a single position, and every other
// element occupies its content plus one position for the open and one for the
// close token. The root "doc" node itself does not count.

var leafTypes = map[string]bool{
	"horizontalRule": true,
	"hardBreak":      true,
	"image":          true,
	"drawing":        true,
}

// Size returns the number of positions the node occupies.
func (n *Node) Size() int {
	if n.IsText() {
		return len([]rune(n.Text))
	}
	if leafTypes[n.Type] {
		return 1
	}
	return 2 + n.contentSize()
}

func (n *Node) contentSize() int {
	size := 0
	for _, c := range n.Content {
		size += c.Size()
	}
	return size
}

// Length returns the total document size in positions. Cursor offsets beyond
// this bound are out of the document.
func Length(doc *Node) int {
	return doc.contentSize()
}

// nodesBetween calls f for every node overlapping [from, to), parents before
// children, with the node's start position. Child traversal is skipped when f
// returns false.
func nodesBetween(doc *Node, from, to int, f func(n *Node, pos int) bool) {
	walkContent(doc.Content, 0, from, to, f)
}

func walkContent(content []*Node, pos, from, to int, f func(n *Node, pos int) bool) {
	cur := pos
	for _, child := range content {
		size := child.Size()
		if cur < to && cur+size > from {
			if f(child, cur) && !child.IsText() {
				walkContent(child.Content, cur+1, from, to, f)
			}
		}
		cur += size
	}
}

// ExtractText returns the document text between two offsets, joining block
// boundaries with a single space. Used to snapshot the anchored selection
// when a thread is created.
func ExtractText(doc *Node, from, to int) string {
	var sb strings.Builder
	separated := true

	nodesBetween(doc, from, to, func(n *Node, pos int) bool {
		if n.IsText() {
			runes := []rune(n.Text)
			start := max(from, pos) - pos
			end := min(to, pos+len(runes)) - pos
			if start < end {
				sb.WriteString(string(runes[start:end]))
				separated = false
			}
			return false
		}
		if n.IsBlock() && !separated && sb.Len() > 0 {
			sb.WriteString(" ")
			separated = true
		}
		return true
	})

	return sb.String()
}

// InBounds reports whether a cursor range still fits the document. Used by
// the sync engine when restoring the selection after a remote replace.
func InBounds(doc *Node, from, to int) bool {
	if from < 0 || to < from {
		return false
	}
	return to <= Length(doc)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

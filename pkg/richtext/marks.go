package richtext

import (
	"fmt"
)

// Range is a [From, To) span of document positions.
type Range struct {
	From int
	To   int
}

// ApplyThreadMark stamps a thread mark over exactly [from, to), splitting
// text nodes at the range boundaries. The input tree is not modified.
func ApplyThreadMark(doc *Node, from, to int, threadId string) (*Node, error) {
	if from < 0 || to <= from {
		return nil, fmt.Errorf("invalid mark range [%d, %d)", from, to)
	}
	if to > Length(doc) {
		return nil, fmt.Errorf("mark range [%d, %d) exceeds document length %d", from, to, Length(doc))
	}

	mark := Mark{
		Type:  MarkTypeThread,
		Attrs: map[string]interface{}{threadIdAttr: threadId},
	}

	out := doc.clone()
	out.Content = markContent(doc.Content, 0, from, to, mark)
	return out, nil
}

func markContent(content []*Node, pos, from, to int, mark Mark) []*Node {
	result := make([]*Node, 0, len(content))
	cur := pos
	for _, child := range content {
		size := child.Size()
		if cur >= to || cur+size <= from {
			result = append(result, child)
			cur += size
			continue
		}

		if child.IsText() {
			result = append(result, markTextNode(child, cur, from, to, mark)...)
		} else {
			next := child.clone()
			next.Content = markContent(child.Content, cur+1, from, to, mark)
			result = append(result, next)
		}
		cur += size
	}
	return result
}

// markTextNode splits a text node into up to three segments, stamping the
// mark on the part inside [from, to).
func markTextNode(n *Node, pos, from, to int, mark Mark) []*Node {
	runes := []rune(n.Text)
	lo := max(from, pos) - pos
	hi := min(to, pos+len(runes)) - pos

	segment := func(text string, marked bool) *Node {
		seg := n.clone()
		seg.Text = text
		if marked {
			if id, ok := seg.ThreadId(); !ok || id != mark.Attrs[threadIdAttr] {
				marks := make([]Mark, 0, len(n.Marks)+1)
				marks = append(marks, n.Marks...)
				marks = append(marks, mark)
				seg.Marks = marks
			}
		}
		return seg
	}

	out := make([]*Node, 0, 3)
	if lo > 0 {
		out = append(out, segment(string(runes[:lo]), false))
	}
	out = append(out, segment(string(runes[lo:hi]), true))
	if hi < len(runes) {
		out = append(out, segment(string(runes[hi:]), false))
	}
	return out
}

// RemoveThreadMark strips every mark carrying the given thread id. The whole
// tree is scanned node by node; there is no index from thread id to range.
func RemoveThreadMark(doc *Node, threadId string) *Node {
	out := doc.clone()
	out.Content = unmarkContent(doc.Content, threadId)
	out.Marks = stripThreadMark(doc.Marks, threadId)
	return out
}

func unmarkContent(content []*Node, threadId string) []*Node {
	result := make([]*Node, 0, len(content))
	for _, child := range content {
		next := child.clone()
		next.Marks = stripThreadMark(child.Marks, threadId)
		next.Content = unmarkContent(child.Content, threadId)
		result = append(result, next)
	}
	return result
}

func stripThreadMark(marks []Mark, threadId string) []Mark {
	if len(marks) == 0 {
		return nil
	}
	kept := make([]Mark, 0, len(marks))
	for _, m := range marks {
		if m.Type == MarkTypeThread {
			if id, ok := m.Attrs[threadIdAttr].(string); ok && id == threadId {
				continue
			}
		}
		kept = append(kept, m)
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

// ThreadMarkRanges returns the spans currently carrying the thread's mark,
// contiguous spans merged, in document order.
func ThreadMarkRanges(doc *Node, threadId string) []Range {
	var ranges []Range
	nodesBetween(doc, 0, Length(doc), func(n *Node, pos int) bool {
		if !n.IsText() {
			return true
		}
		id, ok := n.ThreadId()
		if !ok || id != threadId {
			return false
		}
		end := pos + n.Size()
		if len(ranges) > 0 && ranges[len(ranges)-1].To == pos {
			ranges[len(ranges)-1].To = end
		} else {
			ranges = append(ranges, Range{From: pos, To: end})
		}
		return false
	})
	return ranges
}

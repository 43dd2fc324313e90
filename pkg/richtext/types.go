package richtext

import (
	"encoding/json"
	"fmt"
)

// Node is a node in the editor's document tree (TipTap/ProseMirror JSON).
// Attrs is kept as a raw map so unknown editor attributes survive a rewrite.
type Node struct {
	Type    string                 `json:"type"`
	Attrs   map[string]interface{} `json:"attrs,omitempty"`
	Content []*Node                `json:"content,omitempty"`
	Marks   []Mark                 `json:"marks,omitempty"`
	Text    string                 `json:"text,omitempty"`
}

// Mark is a text-range-scoped attribute, e.g. bold or a thread anchor.
type Mark struct {
	Type  string                 `json:"type"`
	Attrs map[string]interface{} `json:"attrs,omitempty"`
}

// MarkTypeThread anchors a discussion thread; its attrs carry the thread id.
const MarkTypeThread = "thread"

const threadIdAttr = "threadId"

// Parse decodes a JSON document tree. The root is expected to be a "doc"
// node but any element node is accepted.
func Parse(content string) (*Node, error) {
	var doc Node
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("parse document tree: %w", err)
	}
	return &doc, nil
}

// String serializes the tree back to compact JSON.
func (n *Node) String() (string, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return "", fmt.Errorf("serialize document tree: %w", err)
	}
	return string(data), nil
}

// IsText reports whether the node is a text leaf.
func (n *Node) IsText() bool {
	return n.Type == "text"
}

// IsBlock reports whether the node opens a block context. Everything that is
// not a text leaf or a hard break counts as a block for separator purposes.
func (n *Node) IsBlock() bool {
	return !n.IsText() && n.Type != "hardBreak"
}

// HasMark reports whether the node carries a mark of the given type.
func (n *Node) HasMark(markType string) bool {
	for _, m := range n.Marks {
		if m.Type == markType {
			return true
		}
	}
	return false
}

// ThreadId extracts the thread id of a thread mark on this node, if any.
func (n *Node) ThreadId() (string, bool) {
	for _, m := range n.Marks {
		if m.Type != MarkTypeThread {
			continue
		}
		if id, ok := m.Attrs[threadIdAttr].(string); ok {
			return id, true
		}
	}
	return "", false
}

// clone copies the node without content; marks and attrs are shared, which is
// safe because rewrites always build fresh mark slices.
func (n *Node) clone() *Node {
	c := *n
	c.Content = nil
	return &c
}

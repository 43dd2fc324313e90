package richtext

import (
	"strings"
	"testing"
)

const singleParagraph = `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"Hello world"}]}]}`

const twoParagraphs = `{"type":"doc","content":[` +
	`{"type":"paragraph","content":[{"type":"text","text":"Hello"}]},` +
	`{"type":"paragraph","content":[{"type":"text","text":"world"}]}]}`

func mustParse(t *testing.T, content string) *Node {
	t.Helper()
	doc, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return doc
}

func TestLength(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{
			name:    "empty doc",
			content: `{"type":"doc"}`,
			want:    0,
		},
		{
			// paragraph open + 11 runes + paragraph close
			name:    "single paragraph",
			content: singleParagraph,
			want:    13,
		},
		{
			name:    "two paragraphs",
			content: twoParagraphs,
			want:    14,
		},
		{
			// horizontalRule is a leaf occupying one position
			name:    "leaf block",
			content: `{"type":"doc","content":[{"type":"horizontalRule"}]}`,
			want:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, tt.content)
			if got := Length(doc); got != tt.want {
				t.Errorf("Length() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		from, to int
		want     string
	}{
		{
			name:    "full text of one paragraph",
			content: singleParagraph,
			from:    1, to: 12,
			want: "Hello world",
		},
		{
			name:    "partial word",
			content: singleParagraph,
			from:    1, to: 6,
			want: "Hello",
		},
		{
			name:    "across blocks joins with space",
			content: twoParagraphs,
			from:    0, to: 14,
			want: "Hello world",
		},
		{
			name:    "range past text end is clipped",
			content: singleParagraph,
			from:    7, to: 13,
			want: "world",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, tt.content)
			if got := ExtractText(doc, tt.from, tt.to); got != tt.want {
				t.Errorf("ExtractText(%d, %d) = %q, want %q", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestInBounds(t *testing.T) {
	doc := mustParse(t, singleParagraph)

	tests := []struct {
		name     string
		from, to int
		want     bool
	}{
		{"inside", 1, 6, true},
		{"whole document", 0, 13, true},
		{"collapsed cursor at end", 13, 13, true},
		{"past end", 5, 14, false},
		{"negative", -1, 3, false},
		{"inverted", 6, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InBounds(doc, tt.from, tt.to); got != tt.want {
				t.Errorf("InBounds(%d, %d) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestApplyThreadMark(t *testing.T) {
	doc := mustParse(t, singleParagraph)

	marked, err := ApplyThreadMark(doc, 1, 6, "t1")
	if err != nil {
		t.Fatalf("ApplyThreadMark failed: %v", err)
	}

	ranges := ThreadMarkRanges(marked, "t1")
	if len(ranges) != 1 || ranges[0].From != 1 || ranges[0].To != 6 {
		t.Fatalf("ThreadMarkRanges = %v, want [{1 6}]", ranges)
	}

	// Marking must not disturb the text.
	if got := ExtractText(marked, 1, 12); got != "Hello world" {
		t.Errorf("text after marking = %q, want %q", got, "Hello world")
	}

	// The original tree stays untouched.
	if got := ThreadMarkRanges(doc, "t1"); len(got) != 0 {
		t.Errorf("original document gained mark ranges: %v", got)
	}
}

func TestApplyThreadMarkRejectsBadRange(t *testing.T) {
	doc := mustParse(t, singleParagraph)

	if _, err := ApplyThreadMark(doc, 6, 6, "t1"); err == nil {
		t.Error("expected error for empty range")
	}
	if _, err := ApplyThreadMark(doc, 1, 99, "t1"); err == nil {
		t.Error("expected error for range past document end")
	}
}

func TestApplyThreadMarkSplitsTextNode(t *testing.T) {
	doc := mustParse(t, singleParagraph)

	marked, err := ApplyThreadMark(doc, 3, 8, "t1")
	if err != nil {
		t.Fatalf("ApplyThreadMark failed: %v", err)
	}

	para := marked.Content[0]
	if len(para.Content) != 3 {
		t.Fatalf("expected 3 text segments, got %d", len(para.Content))
	}
	var joined strings.Builder
	for _, seg := range para.Content {
		joined.WriteString(seg.Text)
	}
	if joined.String() != "Hello world" {
		t.Errorf("segments join to %q, want %q", joined.String(), "Hello world")
	}
	if _, ok := para.Content[0].ThreadId(); ok {
		t.Error("leading segment should not carry the mark")
	}
	if id, ok := para.Content[1].ThreadId(); !ok || id != "t1" {
		t.Error("middle segment should carry the mark")
	}
}

func TestRemoveThreadMark(t *testing.T) {
	doc := mustParse(t, singleParagraph)

	marked, err := ApplyThreadMark(doc, 1, 6, "t1")
	if err != nil {
		t.Fatalf("ApplyThreadMark failed: %v", err)
	}

	cleaned := RemoveThreadMark(marked, "t1")
	if got := ThreadMarkRanges(cleaned, "t1"); len(got) != 0 {
		t.Errorf("mark still present after removal: %v", got)
	}
	if got := ExtractText(cleaned, 1, 12); got != "Hello world" {
		t.Errorf("text after removal = %q, want %q", got, "Hello world")
	}
}

func TestRemoveThreadMarkKeepsOtherThreads(t *testing.T) {
	doc := mustParse(t, singleParagraph)

	marked, err := ApplyThreadMark(doc, 1, 6, "t1")
	if err != nil {
		t.Fatalf("ApplyThreadMark t1 failed: %v", err)
	}
	marked, err = ApplyThreadMark(marked, 7, 12, "t2")
	if err != nil {
		t.Fatalf("ApplyThreadMark t2 failed: %v", err)
	}

	cleaned := RemoveThreadMark(marked, "t1")
	if got := ThreadMarkRanges(cleaned, "t1"); len(got) != 0 {
		t.Errorf("t1 still present: %v", got)
	}
	ranges := ThreadMarkRanges(cleaned, "t2")
	if len(ranges) != 1 || ranges[0].From != 7 || ranges[0].To != 12 {
		t.Errorf("t2 ranges = %v, want [{7 12}]", ranges)
	}
}

func TestRoundTripSerialization(t *testing.T) {
	doc := mustParse(t, singleParagraph)
	marked, err := ApplyThreadMark(doc, 1, 6, "t1")
	if err != nil {
		t.Fatalf("ApplyThreadMark failed: %v", err)
	}

	serialized, err := marked.String()
	if err != nil {
		t.Fatalf("String failed: %v", err)
	}
	reparsed := mustParse(t, serialized)

	ranges := ThreadMarkRanges(reparsed, "t1")
	if len(ranges) != 1 || ranges[0].From != 1 || ranges[0].To != 6 {
		t.Errorf("ranges after round trip = %v, want [{1 6}]", ranges)
	}
}

// Package editor converts between stored HTML and the block editor document
// and keeps an editor instance in sync with the record it edits.
package editor

const (
	TypeDoc         = "doc"
	TypeParagraph   = "paragraph"
	TypeHeading     = "heading"
	TypeBulletList  = "bulletList"
	TypeOrderedList = "orderedList"
	TypeListItem    = "listItem"
	TypeBlockquote  = "blockquote"
	TypeImage       = "image"
	TypeHardBreak   = "hardBreak"
	TypeText        = "text"
)

const (
	MarkBold      = "bold"
	MarkItalic    = "italic"
	MarkUnderline = "underline"
	MarkLink      = "link"
)

// Node is one node of the editor document, encoded the way the block editor
// exchanges JSON.
type Node struct {
	Type    string         `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []Node         `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
}

type Mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// EmptyDoc is the template of an editor without content.
func EmptyDoc() Node {
	return Node{Type: TypeDoc, Content: []Node{{Type: TypeParagraph}}}
}

func Doc(blocks ...Node) Node {
	return Node{Type: TypeDoc, Content: blocks}
}

func Paragraph(text string) Node {
	p := Node{Type: TypeParagraph}
	if text != "" {
		p.Content = []Node{{Type: TypeText, Text: text}}
	}
	return p
}

func Image(src, alt string) Node {
	attrs := map[string]any{"src": src}
	if alt != "" {
		attrs["alt"] = alt
	}
	return Node{Type: TypeImage, Attrs: attrs}
}

// IsEmpty reports whether the document holds no text and no images.
func (n Node) IsEmpty() bool {
	if n.Type == TypeText {
		return n.Text == ""
	}
	if n.Type == TypeImage {
		return false
	}
	for _, c := range n.Content {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

func (n Node) attr(key string) string {
	if v, ok := n.Attrs[key].(string); ok {
		return v
	}
	return ""
}

// level reads the heading level, which is a float64 after a JSON round trip.
func (n Node) level() int {
	switch v := n.Attrs["level"].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 1
}

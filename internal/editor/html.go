package editor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ConversionError means stored HTML could not be turned into a document
// without guessing at its structure.
type ConversionError struct {
	Reason string
}

func (e *ConversionError) Error() string {
	return "convert html: " + e.Reason
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true, "img": true,
	"input": true, "link": true, "meta": true, "source": true, "track": true, "wbr": true,
}

var plainText = bluemonday.StrictPolicy().AddSpaceWhenStrippingTag(true)

// ParseHTML converts HTML into a document. Markup with stray, mismatched or
// unclosed tags is rejected with a *ConversionError.
func ParseHTML(s string) (Node, error) {
	if strings.TrimSpace(s) == "" {
		return EmptyDoc(), nil
	}

	if err := checkBalanced(s); err != nil {
		return Node{}, err
	}

	d, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return Node{}, &ConversionError{Reason: err.Error()}
	}

	body := d.Find("body")
	if body.Length() == 0 {
		return EmptyDoc(), nil
	}

	doc := Doc(blocks(body.Nodes[0])...)
	if len(doc.Content) == 0 {
		return EmptyDoc(), nil
	}
	return doc, nil
}

// FromHTML is ParseHTML that never fails: malformed markup is reduced to its
// text, one paragraph per line. degraded reports that this happened.
func FromHTML(s string) (doc Node, degraded bool) {
	doc, err := ParseHTML(s)
	if err == nil {
		return doc, false
	}

	text := html.UnescapeString(plainText.Sanitize(s))
	var paragraphs []Node
	for _, line := range strings.Split(text, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			paragraphs = append(paragraphs, Paragraph(line))
		}
	}
	if len(paragraphs) == 0 {
		return EmptyDoc(), true
	}
	return Doc(paragraphs...), true
}

func checkBalanced(s string) error {
	z := html.NewTokenizer(strings.NewReader(s))
	var open []string

	for {
		switch z.Next() {
		case html.ErrorToken:
			if !errors.Is(z.Err(), io.EOF) {
				return &ConversionError{Reason: z.Err().Error()}
			}
			if len(open) > 0 {
				return &ConversionError{Reason: fmt.Sprintf("unclosed <%s>", open[len(open)-1])}
			}
			return nil
		case html.StartTagToken:
			name, _ := z.TagName()
			if !voidElements[string(name)] {
				open = append(open, string(name))
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if voidElements[tag] {
				continue
			}
			if len(open) == 0 || open[len(open)-1] != tag {
				return &ConversionError{Reason: fmt.Sprintf("unexpected </%s>", tag)}
			}
			open = open[:len(open)-1]
		}
	}
}

// blocks converts the children of n. Loose inline content is gathered into
// paragraphs.
func blocks(n *html.Node) []Node {
	var (
		out    []Node
		inline []Node
	)
	flush := func() {
		if !blank(inline) {
			out = append(out, Node{Type: TypeParagraph, Content: trimInline(inline)})
		}
		inline = nil
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			inline = append(inline, inlines(c, nil)...)
			continue
		}

		switch c.DataAtom {
		case atom.P:
			flush()
			out = append(out, Node{Type: TypeParagraph, Content: trimInline(inlines(c, nil))})
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			flush()
			level, _ := strconv.Atoi(c.Data[1:])
			out = append(out, Node{
				Type:    TypeHeading,
				Attrs:   map[string]any{"level": level},
				Content: trimInline(inlines(c, nil)),
			})
		case atom.Ul, atom.Ol:
			flush()
			list := Node{Type: TypeBulletList}
			if c.DataAtom == atom.Ol {
				list.Type = TypeOrderedList
			}
			for li := c.FirstChild; li != nil; li = li.NextSibling {
				if li.DataAtom == atom.Li {
					list.Content = append(list.Content, Node{Type: TypeListItem, Content: blocks(li)})
				}
			}
			out = append(out, list)
		case atom.Blockquote:
			flush()
			out = append(out, Node{Type: TypeBlockquote, Content: blocks(c)})
		case atom.Img:
			flush()
			out = append(out, imageNode(c))
		case atom.Div, atom.Section, atom.Article, atom.Figure, atom.Main:
			flush()
			out = append(out, blocks(c)...)
		default:
			inline = append(inline, inlines(c, nil)...)
		}
	}
	flush()

	return out
}

func inlines(n *html.Node, marks []Mark) []Node {
	switch n.Type {
	case html.TextNode:
		if n.Data == "" {
			return nil
		}
		return []Node{{Type: TypeText, Text: n.Data, Marks: marks}}
	case html.ElementNode:
	default:
		return nil
	}

	switch n.DataAtom {
	case atom.Br:
		return []Node{{Type: TypeHardBreak}}
	case atom.Img:
		return []Node{imageNode(n)}
	case atom.Strong, atom.B:
		marks = withMark(marks, Mark{Type: MarkBold})
	case atom.Em, atom.I:
		marks = withMark(marks, Mark{Type: MarkItalic})
	case atom.U:
		marks = withMark(marks, Mark{Type: MarkUnderline})
	case atom.A:
		marks = withMark(marks, Mark{Type: MarkLink, Attrs: map[string]any{"href": attr(n, "href")}})
	case atom.Script, atom.Style:
		return nil
	}

	var out []Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, inlines(c, marks)...)
	}
	return out
}

func withMark(marks []Mark, m Mark) []Mark {
	out := make([]Mark, 0, len(marks)+1)
	return append(append(out, marks...), m)
}

func imageNode(n *html.Node) Node {
	img := Image(attr(n, "src"), attr(n, "alt"))
	if title := attr(n, "title"); title != "" {
		img.Attrs["title"] = title
	}
	return img
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func blank(nodes []Node) bool {
	for _, n := range nodes {
		if n.Type != TypeText || strings.TrimSpace(n.Text) != "" {
			return false
		}
	}
	return true
}

// trimInline drops leading and trailing whitespace-only text nodes.
func trimInline(nodes []Node) []Node {
	for len(nodes) > 0 && nodes[0].Type == TypeText && strings.TrimSpace(nodes[0].Text) == "" {
		nodes = nodes[1:]
	}
	for len(nodes) > 0 && nodes[len(nodes)-1].Type == TypeText && strings.TrimSpace(nodes[len(nodes)-1].Text) == "" {
		nodes = nodes[:len(nodes)-1]
	}
	return nodes
}

// RenderHTML serializes a document back to HTML.
func RenderHTML(doc Node) string {
	var buf bytes.Buffer
	for _, n := range render(doc) {
		// rendering an in-memory tree into a buffer does not fail
		_ = html.Render(&buf, n)
	}
	return buf.String()
}

func render(n Node) []*html.Node {
	var el *html.Node
	switch n.Type {
	case TypeDoc:
		return renderChildren(n)
	case TypeText:
		return []*html.Node{wrapMarks(&html.Node{Type: html.TextNode, Data: n.Text}, n.Marks)}
	case TypeParagraph:
		el = element(atom.P)
	case TypeHeading:
		level := min(max(n.level(), 1), 6)
		el = element(atom.Lookup([]byte("h" + strconv.Itoa(level))))
	case TypeBulletList:
		el = element(atom.Ul)
	case TypeOrderedList:
		el = element(atom.Ol)
	case TypeListItem:
		el = element(atom.Li)
	case TypeBlockquote:
		el = element(atom.Blockquote)
	case TypeHardBreak:
		return []*html.Node{element(atom.Br)}
	case TypeImage:
		el = element(atom.Img)
		for _, key := range []string{"src", "alt", "title"} {
			if v := n.attr(key); v != "" {
				el.Attr = append(el.Attr, html.Attribute{Key: key, Val: v})
			}
		}
		return []*html.Node{el}
	default:
		return renderChildren(n)
	}

	for _, c := range renderChildren(n) {
		el.AppendChild(c)
	}
	return []*html.Node{el}
}

func renderChildren(n Node) []*html.Node {
	var out []*html.Node
	for _, c := range n.Content {
		out = append(out, render(c)...)
	}
	return out
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

// wrapMarks nests the text in one element per mark, the first mark outermost.
func wrapMarks(text *html.Node, marks []Mark) *html.Node {
	inner := text
	for i := len(marks) - 1; i >= 0; i-- {
		var el *html.Node
		switch marks[i].Type {
		case MarkBold:
			el = element(atom.Strong)
		case MarkItalic:
			el = element(atom.Em)
		case MarkUnderline:
			el = element(atom.U)
		case MarkLink:
			el = element(atom.A)
			if href, ok := marks[i].Attrs["href"].(string); ok {
				el.Attr = []html.Attribute{{Key: "href", Val: href}}
			}
		default:
			continue
		}
		el.AppendChild(inner)
		inner = el
	}
	return inner
}

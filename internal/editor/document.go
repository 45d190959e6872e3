package editor

import (
	"encoding/json"
	"sync"
)

// Editor is what Sync needs from a rich-text editor instance.
type Editor interface {
	HTML() string
	JSON() ([]byte, error)
	// InsertContent appends blocks, or the blocks of a doc node. It does not
	// count as a user edit.
	InsertContent(n Node)
	ClearContent()
	// OnUpdate registers fn to run after every user edit.
	OnUpdate(fn func())
}

// Document is an in-process Editor holding the document tree.
type Document struct {
	mu        sync.Mutex
	doc       Node
	listeners []func()
}

func NewDocument() *Document {
	return &Document{doc: Doc()}
}

func (d *Document) HTML() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return RenderHTML(d.doc)
}

func (d *Document) JSON() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return json.Marshal(d.doc)
}

func (d *Document) Node() Node {
	d.mu.Lock()
	defer d.mu.Unlock()

	return clone(d.doc)
}

func (d *Document) InsertContent(n Node) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if n.Type == TypeDoc {
		d.doc.Content = append(d.doc.Content, clone(n).Content...)
		return
	}
	d.doc.Content = append(d.doc.Content, clone(n))
}

func (d *Document) ClearContent() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.doc = Doc()
}

func (d *Document) OnUpdate(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.listeners = append(d.listeners, fn)
}

// Edit applies a user edit and notifies the update listeners.
func (d *Document) Edit(fn func(doc *Node)) {
	d.mu.Lock()
	fn(&d.doc)
	listeners := append([]func(){}, d.listeners...)
	d.mu.Unlock()

	for _, l := range listeners {
		l()
	}
}

func clone(n Node) Node {
	out := n
	if n.Attrs != nil {
		out.Attrs = make(map[string]any, len(n.Attrs))
		for k, v := range n.Attrs {
			out.Attrs[k] = v
		}
	}
	if n.Marks != nil {
		out.Marks = make([]Mark, len(n.Marks))
		copy(out.Marks, n.Marks)
	}
	if n.Content != nil {
		out.Content = make([]Node, len(n.Content))
		for i, c := range n.Content {
			out.Content[i] = clone(c)
		}
	}
	return out
}

package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/daniilsolovey/tourism-portal/internal/asset"
	"github.com/daniilsolovey/tourism-portal/internal/debounce"
	"github.com/daniilsolovey/tourism-portal/internal/kvstore"
	"github.com/daniilsolovey/tourism-portal/internal/notice"
)

type State int

const (
	Uninitialized State = iota
	AwaitingEditorReady
	Synced
	Dirty
	Unmounted
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case AwaitingEditorReady:
		return "awaiting-editor-ready"
	case Synced:
		return "synced"
	case Dirty:
		return "dirty"
	case Unmounted:
		return "unmounted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

const DefaultDelay = 500 * time.Millisecond

var (
	ErrNotReady      = errors.New("editor is not ready")
	ErrUnmounted     = errors.New("editor is unmounted")
	ErrAttached      = errors.New("editor already attached")
	ErrDuplicateArea = errors.New("content area is already bound")
)

// AssetStore uploads images and returns their public path.
type AssetStore interface {
	Upload(ctx context.Context, f asset.File) (string, error)
}

type Options struct {
	// Area names the logical field; it keys the auto-saved draft.
	Area   string
	Store  kvstore.Store
	Assets AssetStore
	// AssetBaseURL prefixes uploaded paths so the inserted image is publicly
	// fetchable. Absolute paths are kept as they are.
	AssetBaseURL string
	// OnChange receives the editor HTML once edits have settled.
	OnChange func(html string)
	Delay    time.Duration
	Notifier notice.Notifier
	Logger   *slog.Logger
}

// seed remembers which record the editor content came from and whether that
// record had a value at the time.
type seed struct {
	record string
	loaded bool
}

// Sync connects the owner's value of one content field with an editor
// instance that becomes ready asynchronously.
type Sync struct {
	opts        Options
	key         string
	log         *slog.Logger
	propagation *debounce.Debouncer
	// applying is set while Sync itself changes the editor content, so the
	// editor's update events are not taken for user edits.
	applying atomic.Bool

	mu        sync.Mutex
	state     State
	editor    Editor
	record    string
	pending   *string
	persisted *string
	seeded    seed
	edits     uint64
}

func NewSync(opts Options) (*Sync, error) {
	if opts.Area == "" {
		return nil, errors.New("content area name is required")
	}
	if opts.Store == nil {
		return nil, errors.New("draft store is required")
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Notifier == nil {
		opts.Notifier = notice.NewLogger(opts.Logger)
	}

	s := &Sync{
		opts: opts,
		key:  kvstore.DraftKey(opts.Area),
		log:  opts.Logger.With("area", opts.Area),
	}
	s.propagation = debounce.New(opts.Delay, s.propagate)

	return s, nil
}

func (s *Sync) Area() string {
	return s.opts.Area
}

func (s *Sync) Status() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Value is the last HTML the owner passed in or received from OnChange.
func (s *Sync) Value() *string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return copyString(s.persisted)
}

// RequestEditor marks that an editor instance is being created.
func (s *Sync) RequestEditor() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Unmounted:
		return ErrUnmounted
	case Uninitialized:
		s.state = AwaitingEditorReady
	}
	return nil
}

// SetValue passes the owner's value of record. Before the editor is ready
// the value is buffered. Afterwards the editor is seeded once per record: a
// different record reseeds, and a record first seen without a value is
// seeded when its value arrives. Other calls leave the editor alone.
func (s *Sync) SetValue(record string, value *string) error {
	s.mu.Lock()
	switch s.state {
	case Unmounted:
		s.mu.Unlock()
		return ErrUnmounted
	case Uninitialized, AwaitingEditorReady:
		s.record = record
		s.pending = copyString(value)
		s.persisted = copyString(value)
		s.mu.Unlock()
		return nil
	}

	s.record = record
	s.persisted = copyString(value)
	if record == s.seeded.record && (s.seeded.loaded || value == nil) {
		s.mu.Unlock()
		return nil
	}

	s.propagation.Cancel()
	degraded := s.seedLocked(record, value, value != nil)
	s.mu.Unlock()

	s.reportDegraded(degraded)
	return nil
}

// EditorReady attaches the created editor and fills it with the buffered
// value, else the auto-saved draft, else the empty template.
func (s *Sync) EditorReady(ctx context.Context, ed Editor) error {
	draft, hasDraft, err := s.opts.Store.Get(ctx, s.key)
	if err != nil {
		s.log.Warn("failed to read draft", "error", err)
		hasDraft = false
	}

	s.mu.Lock()
	switch s.state {
	case Unmounted:
		s.mu.Unlock()
		return ErrUnmounted
	case Synced, Dirty:
		s.mu.Unlock()
		return ErrAttached
	}

	s.editor = ed
	ed.OnUpdate(s.handleUpdate)

	var degraded bool
	switch {
	case s.pending != nil:
		degraded = s.seedLocked(s.record, s.pending, true)
	case hasDraft:
		s.log.Debug("restoring draft")
		degraded = s.seedLocked(s.record, &draft, false)
	default:
		degraded = s.seedLocked(s.record, nil, false)
	}
	s.pending = nil
	s.mu.Unlock()

	s.reportDegraded(degraded)
	return nil
}

func (s *Sync) seedLocked(record string, value *string, loaded bool) bool {
	doc, degraded := EmptyDoc(), false
	if value != nil {
		doc, degraded = FromHTML(*value)
	}

	s.applying.Store(true)
	s.editor.ClearContent()
	s.editor.InsertContent(doc)
	s.applying.Store(false)

	s.seeded = seed{record: record, loaded: loaded}
	s.state = Synced
	return degraded
}

func (s *Sync) reportDegraded(degraded bool) {
	if !degraded {
		return
	}
	s.log.Warn("stored content is malformed html, loaded as plain text")
	s.opts.Notifier.Notify(notice.Notice{
		Level:   notice.Info,
		Message: "The content could not be loaded exactly and was converted to plain text.",
	})
}

func (s *Sync) handleUpdate() {
	if s.applying.Load() {
		return
	}

	s.mu.Lock()
	if s.state != Synced && s.state != Dirty {
		s.mu.Unlock()
		return
	}
	s.state = Dirty
	s.edits++
	s.mu.Unlock()

	s.propagation.Trigger()
}

func (s *Sync) propagate() {
	s.mu.Lock()
	if s.state != Dirty {
		s.mu.Unlock()
		return
	}
	html := s.editor.HTML()
	edits := s.edits
	s.mu.Unlock()

	if s.opts.OnChange != nil {
		s.opts.OnChange(html)
	}
	if err := s.opts.Store.Set(context.Background(), s.key, html); err != nil {
		s.log.Error("failed to save draft", "error", err)
		s.opts.Notifier.Notify(notice.Notice{Level: notice.Error, Message: "The draft could not be saved.", Err: err})
	}

	s.mu.Lock()
	s.persisted = &html
	if s.state == Dirty && s.edits == edits {
		s.state = Synced
	}
	s.mu.Unlock()
}

// Flush propagates pending edits now instead of after the delay.
func (s *Sync) Flush() {
	s.propagation.Flush()
}

// ClearDraft drops the auto-saved draft, typically after a successful save.
func (s *Sync) ClearDraft(ctx context.Context) error {
	if err := s.opts.Store.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

// InsertImage uploads f and inserts it into the document under its public
// URL, which is also returned. Files failing the
// local checks never reach the asset store, and a failed upload leaves the
// document untouched.
func (s *Sync) InsertImage(ctx context.Context, f asset.File) (string, error) {
	s.mu.Lock()
	ready := s.state == Synced || s.state == Dirty
	s.mu.Unlock()
	if !ready {
		return "", ErrNotReady
	}

	if err := asset.Validate(f); err != nil {
		s.opts.Notifier.Notify(notice.Notice{Level: notice.Error, Message: uploadMessage(err), Err: err})
		return "", err
	}
	if s.opts.Assets == nil {
		return "", errors.New("no asset store configured")
	}

	path, err := s.opts.Assets.Upload(ctx, f)
	if err != nil {
		s.log.Error("image upload failed", "file", f.Name, "error", err)
		s.opts.Notifier.Notify(notice.Notice{Level: notice.Error, Message: "The image could not be uploaded.", Err: err})
		return "", fmt.Errorf("upload image: %w", err)
	}
	url := asset.URL(s.opts.AssetBaseURL, path)

	s.mu.Lock()
	if s.state != Synced && s.state != Dirty {
		s.mu.Unlock()
		return url, ErrUnmounted
	}
	s.applying.Store(true)
	s.editor.InsertContent(Image(url, f.Title))
	s.applying.Store(false)
	s.state = Dirty
	s.edits++
	s.mu.Unlock()

	s.propagation.Trigger()
	return url, nil
}

func uploadMessage(err error) string {
	switch {
	case errors.Is(err, asset.ErrUnsupportedType):
		return "Only image files can be uploaded."
	case errors.Is(err, asset.ErrTooLarge):
		return fmt.Sprintf("The image is larger than %dMB.", asset.MaxUploadSize>>20)
	case errors.Is(err, asset.ErrEmpty):
		return "The file is empty."
	}
	return "The image was rejected."
}

// Close detaches the editor. Unpropagated edits are dropped.
func (s *Sync) Close() {
	s.propagation.Stop()

	s.mu.Lock()
	s.state = Unmounted
	s.mu.Unlock()
}

func copyString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Group binds each content field of a form to its own Sync.
type Group struct {
	base Options

	mu    sync.Mutex
	syncs map[string]*Sync
}

// NewGroup uses base for every bound area; Area and OnChange are set per
// Bind.
func NewGroup(base Options) *Group {
	return &Group{base: base, syncs: map[string]*Sync{}}
}

func (g *Group) Bind(area string, onChange func(html string)) (*Sync, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.syncs[area]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateArea, area)
	}

	opts := g.base
	opts.Area, opts.OnChange = area, onChange
	s, err := NewSync(opts)
	if err != nil {
		return nil, err
	}
	g.syncs[area] = s

	return s, nil
}

func (g *Group) Sync(area string) (*Sync, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.syncs[area]
	return s, ok
}

func (g *Group) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, s := range g.syncs {
		s.Close()
	}
}

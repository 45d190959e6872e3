package listing

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/daniilsolovey/tourism-portal/internal/debounce"
	"github.com/daniilsolovey/tourism-portal/internal/notice"
	"github.com/daniilsolovey/tourism-portal/internal/portal"
)

const DefaultSearchDelay = 500 * time.Millisecond

var ErrClosed = errors.New("listing view closed")

type Options struct {
	// SearchDelay is the quiet period before a search change is fetched.
	SearchDelay time.Duration
	// Fallback is shown, marked degraded, when a fetch fails.
	Fallback []portal.Item
	Notifier notice.Notifier
	Logger   *slog.Logger
	// OnChange receives every state change in order. Calls are sequential
	// and must not call back into the View.
	OnChange func(State)
}

// State is a snapshot of what the view displays.
type State struct {
	Query       portal.ListQuery
	Items       []portal.Item
	Featured    *portal.Item
	TotalCount  int
	Page        int
	TotalPages  int
	Loading     bool
	LoadingMore bool
	Degraded    bool
	Err         error
}

// View drives one listing on top of a Source. Only the response of the most
// recent request is ever applied; earlier ones are cancelled and dropped.
type View struct {
	src        Source
	collection portal.Collection
	opts       Options
	log        *slog.Logger
	search     *debounce.Debouncer

	mu    sync.Mutex
	state State
	// shown is the query whose results are displayed, page 1 based.
	shown  portal.ListQuery
	seq    uint64
	rev    uint64
	cancel context.CancelFunc
	closed bool
	ctx    context.Context
	stop   context.CancelFunc
	wg     sync.WaitGroup

	loadMu sync.Mutex

	emitMu  sync.Mutex
	emitted uint64
}

func NewView(src Source, c portal.Collection, q portal.ListQuery, opts Options) (*View, error) {
	q, err := q.Normalize(c)
	if err != nil {
		return nil, err
	}

	if opts.SearchDelay <= 0 {
		opts.SearchDelay = DefaultSearchDelay
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Notifier == nil {
		opts.Notifier = notice.NewLogger(opts.Logger)
	}

	ctx, stop := context.WithCancel(context.Background())
	v := &View{
		src:        src,
		collection: c,
		opts:       opts,
		log:        opts.Logger.With("collection", c),
		state:      State{Query: q, Page: q.Page, TotalPages: 1, Items: []portal.Item{}},
		shown:      q,
		ctx:        ctx,
		stop:       stop,
	}
	v.search = debounce.New(opts.SearchDelay, v.Refresh)

	return v, nil
}

// Refresh fetches the current query.
func (v *View) Refresh() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	snap, rev := v.fetchLocked()
	v.mu.Unlock()

	v.emit(snap, rev)
}

// SetSearch updates the search text at once and fetches after the quiet
// period.
func (v *View) SetSearch(s string) error {
	if err := v.update(func(q portal.ListQuery) portal.ListQuery { return q.WithSearch(s) }, false); err != nil {
		return err
	}
	v.search.Trigger()
	return nil
}

func (v *View) SetCategories(categories ...string) error {
	return v.update(func(q portal.ListQuery) portal.ListQuery { return q.WithCategories(categories...) }, true)
}

// SetSort selects field the way a column header does, see SortState.Select.
func (v *View) SetSort(field portal.SortField) error {
	return v.update(func(q portal.ListQuery) portal.ListQuery {
		s := SortState{Field: q.SortField, Direction: q.SortDirection}.Select(field)
		return q.WithSort(s.Field, s.Direction)
	}, true)
}

func (v *View) SetDateRange(from, to *time.Time) error {
	return v.update(func(q portal.ListQuery) portal.ListQuery { return q.WithDateRange(from, to) }, true)
}

// GoToPage fetches page, clamped into the known page range.
func (v *View) GoToPage(page int) error {
	return v.update(func(q portal.ListQuery) portal.ListQuery {
		return q.WithPage(ClampPage(page, v.state.TotalPages))
	}, true)
}

func (v *View) update(change func(portal.ListQuery) portal.ListQuery, fetch bool) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}

	q, err := change(v.state.Query).Normalize(v.collection)
	if err != nil {
		v.mu.Unlock()
		return err
	}
	v.state.Query = q

	var (
		snap State
		rev  uint64
	)
	if fetch {
		snap, rev = v.fetchLocked()
	} else {
		snap, rev = v.publishLocked()
	}
	v.mu.Unlock()

	v.emit(snap, rev)
	return nil
}

// fetchLocked supersedes the request in flight and starts a new one.
func (v *View) fetchLocked() (State, uint64) {
	if v.cancel != nil {
		v.cancel()
	}

	v.seq++
	seq := v.seq
	q := v.state.Query
	ctx, cancel := context.WithCancel(v.ctx)
	v.cancel = cancel
	v.state.Loading = true

	v.wg.Add(1)
	go func() {
		defer v.wg.Done()
		defer cancel()

		res, err := v.src.Fetch(ctx, q)
		v.apply(seq, q, res, err)
	}()

	return v.publishLocked()
}

func (v *View) apply(seq uint64, q portal.ListQuery, res portal.ListResult, err error) {
	v.mu.Lock()
	if v.closed || seq != v.seq {
		v.mu.Unlock()
		v.log.Debug("dropped stale listing response", "seq", seq)
		return
	}

	v.state.Loading = false
	v.cancel = nil
	v.shown = q
	if err != nil {
		v.state.Err = err
		v.fallbackLocked(q)
	} else {
		v.state.Err = nil
		v.setResultLocked(res)
	}
	snap, rev := v.publishLocked()
	v.mu.Unlock()

	if err != nil {
		v.log.Warn("listing fetch failed", "error", err, "degraded", snap.Degraded)
		msg := "Could not load the list."
		if snap.Degraded {
			msg = "Could not load the list, showing sample content."
		}
		v.opts.Notifier.Notify(notice.Notice{Level: notice.Error, Message: msg, Err: err})
	}
	v.emit(snap, rev)
}

func (v *View) fallbackLocked(q portal.ListQuery) {
	if len(v.opts.Fallback) == 0 {
		v.setResultLocked(portal.NewListResult(nil, 0, 1, q.PageSize))
		return
	}

	res := Run(v.opts.Fallback, q)
	res.Degraded = true
	v.setResultLocked(res)
}

func (v *View) setResultLocked(res portal.ListResult) {
	v.state.Items = slices.Clone(res.Items)
	if v.state.Items == nil {
		v.state.Items = []portal.Item{}
	}
	v.state.TotalCount = res.TotalCount
	v.state.Page = res.Page
	v.state.TotalPages = max(res.TotalPages, 1)
	v.state.Degraded = res.Degraded
}

// LoadMore appends the next page of the displayed listing. Calls are
// serialized; it is a no-op on the last page, while a search change waits for
// its quiet period or while a replacing request is in flight.
func (v *View) LoadMore(ctx context.Context) error {
	v.loadMu.Lock()
	defer v.loadMu.Unlock()

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	if v.state.Loading || v.state.Degraded || v.state.Page >= v.state.TotalPages || v.search.Pending() {
		v.mu.Unlock()
		return nil
	}
	seq := v.seq
	q := v.shown.WithPage(v.state.Page + 1)
	v.state.LoadingMore = true
	snap, rev := v.publishLocked()
	v.mu.Unlock()
	v.emit(snap, rev)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(v.ctx, cancel)
	defer stop()

	res, err := v.src.Fetch(ctx, q)

	v.mu.Lock()
	v.state.LoadingMore = false
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	if seq != v.seq {
		// the listing was replaced meanwhile, the page belongs to old filters
		snap, rev = v.publishLocked()
		v.mu.Unlock()
		v.emit(snap, rev)
		return nil
	}
	if err != nil {
		v.state.Err = err
		snap, rev = v.publishLocked()
		v.mu.Unlock()

		v.log.Warn("load more failed", "page", q.Page, "error", err)
		v.opts.Notifier.Notify(notice.Notice{Level: notice.Error, Message: "Could not load more items.", Err: err})
		v.emit(snap, rev)
		return err
	}

	v.state.Err = nil
	v.state.Items = append(v.state.Items, res.Items...)
	v.state.TotalCount = res.TotalCount
	v.state.Page = res.Page
	v.state.TotalPages = max(res.TotalPages, 1)
	snap, rev = v.publishLocked()
	v.mu.Unlock()

	v.emit(snap, rev)
	return nil
}

func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.snapshotLocked()
}

func (v *View) snapshotLocked() State {
	s := v.state
	s.Items = slices.Clone(v.state.Items)
	s.Query.Categories = slices.Clone(v.state.Query.Categories)
	s.Featured = portal.Featured(s.Items)
	return s
}

// publishLocked takes a snapshot for emit, stamped with its position among
// the state changes.
func (v *View) publishLocked() (State, uint64) {
	v.rev++
	return v.snapshotLocked(), v.rev
}

// emit delivers s unless a later snapshot was delivered already.
func (v *View) emit(s State, rev uint64) {
	v.emitMu.Lock()
	defer v.emitMu.Unlock()

	if rev <= v.emitted {
		return
	}
	v.emitted = rev
	if v.opts.OnChange != nil {
		v.opts.OnChange(s)
	}
}

// Wait blocks until every started fetch has returned.
func (v *View) Wait() {
	v.wg.Wait()
}

// Close cancels pending and in-flight work. Responses arriving later are
// dropped.
func (v *View) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.stop()
	v.mu.Unlock()

	v.search.Stop()
}

package listing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/target/backoffice-ui/internal/pagination"
)

// Fetcher loads the full collection for a resource. The session travels in ctx.
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// ControllerOptions configures a Controller.
type ControllerOptions[T any] struct {
	Resource string
	// Title is used in user-facing notices, e.g. "Unable to load suppliers."
	Title        string
	Fetch        Fetcher[T]
	Store        StateStore
	Sequencer    Sequencer
	Sessions     SessionInvalidator
	DefaultLimit int
	Observer     Observer
	Logger       *slog.Logger
	Now          func() time.Time
}

// View is what a list page renders.
type View[T any] struct {
	Items     []T
	Info      pagination.Info
	FetchedAt time.Time
	// Loaded is false until the first successful fetch for the session.
	Loaded bool
}

// Navigation is the window a request asks for. Zero values keep the held
// page and limit.
type Navigation struct {
	Page    int
	Limit   int
	Refresh bool
}

// Controller fetches a client-paginated collection once per session, keeps
// it between requests and pages through it locally.
type Controller[T any] struct {
	*deps
	fetch        Fetcher[T]
	defaultLimit int
}

// NewController validates opts and returns a Controller.
func NewController[T any](opts ControllerOptions[T]) (*Controller[T], error) {
	if opts.Fetch == nil {
		return nil, fmt.Errorf("listing: fetcher is required for %q", opts.Resource)
	}
	d, err := newDeps(opts.Resource, opts.Title, opts.Store, opts.Sequencer, opts.Sessions,
		opts.Observer, opts.Logger, opts.Now)
	if err != nil {
		return nil, err
	}
	limit := opts.DefaultLimit
	if limit < 1 {
		limit = pagination.DefaultLimit
	}
	return &Controller[T]{deps: d, fetch: opts.Fetch, defaultLimit: limit}, nil
}

// Resource returns the resource name this controller serves.
func (c *Controller[T]) Resource() string { return c.resource }

// State reports whether a fetch is in flight for the session.
func (c *Controller[T]) State(sessionID string) State { return c.state(sessionID) }

// Mount returns the held view, fetching the collection on first visit.
func (c *Controller[T]) Mount(ctx context.Context, sessionID string) (View[T], error) {
	if snap, ok := c.held(ctx, sessionID); ok {
		return viewOf(snap), nil
	}
	return c.Refetch(ctx, sessionID)
}

// Refetch loads the collection again and resets to page 1, keeping the held
// limit. On failure the held view is returned alongside the error.
func (c *Controller[T]) Refetch(ctx context.Context, sessionID string) (View[T], error) {
	key := c.key(sessionID)
	seq, err := c.seq.Next(ctx, key)
	if err != nil {
		return View[T]{}, fmt.Errorf("issue %s sequence: %w", c.resource, err)
	}

	done := c.begin(sessionID)
	started := c.now()
	items, fetchErr := c.fetch(ctx)
	done()

	if fetchErr != nil {
		err := c.classify(ctx, sessionID, fetchErr)
		if isSignIn(err) {
			c.observe(OutcomeUnauthorized, started)
			return View[T]{}, err
		}
		c.observe(OutcomeError, started)
		return c.heldView(ctx, sessionID), err
	}

	if c.isStale(ctx, key, seq) {
		return c.discard(ctx, sessionID, seq, started)
	}

	limit := c.defaultLimit
	if prev, ok := c.held(ctx, sessionID); ok && prev.Limit > 0 {
		limit = prev.Limit
	}
	adapter := NewAdapter[T](limit)
	adapter.SetSource(items)
	snap := adapter.Snapshot()
	snap.Seq = seq
	snap.FetchedAt = c.now()

	saved, err := saveJSON(ctx, c.store, key, seq, snap)
	if err != nil {
		c.observe(OutcomeError, started)
		return viewOf(snap), err
	}
	if !saved {
		return c.discard(ctx, sessionID, seq, started)
	}
	c.observe(OutcomeOK, started)
	return viewOf(snap), nil
}

// ChangePage moves to page over the held collection without fetching.
func (c *Controller[T]) ChangePage(ctx context.Context, sessionID string, page int) (View[T], error) {
	return c.update(ctx, sessionID, func(a *Adapter[T]) { a.ChangePage(page) })
}

// ChangeLimit switches the page size over the held collection and returns to
// page 1.
func (c *Controller[T]) ChangeLimit(ctx context.Context, sessionID string, limit int) (View[T], error) {
	return c.update(ctx, sessionID, func(a *Adapter[T]) { a.ChangeLimit(limit) })
}

// Navigate applies a page request: refetch or mount, then limit, then page.
func (c *Controller[T]) Navigate(ctx context.Context, sessionID string, nav Navigation) (View[T], error) {
	var (
		view View[T]
		err  error
	)
	if nav.Refresh {
		view, err = c.Refetch(ctx, sessionID)
	} else {
		view, err = c.Mount(ctx, sessionID)
	}
	if err != nil || !view.Loaded {
		return view, err
	}
	if nav.Limit > 0 && nav.Limit != view.Info.Limit {
		if view, err = c.ChangeLimit(ctx, sessionID, nav.Limit); err != nil {
			return view, err
		}
	}
	if nav.Page != 0 && nav.Page != view.Info.Page {
		return c.ChangePage(ctx, sessionID, nav.Page)
	}
	return view, nil
}

func (c *Controller[T]) update(ctx context.Context, sessionID string, apply func(*Adapter[T])) (View[T], error) {
	snap, ok := c.held(ctx, sessionID)
	if !ok {
		view, err := c.Mount(ctx, sessionID)
		if err != nil || !view.Loaded {
			return view, err
		}
		if snap, ok = c.held(ctx, sessionID); !ok {
			return view, nil
		}
	}

	adapter := RestoreAdapter(snap)
	apply(adapter)
	next := adapter.Snapshot()
	next.Seq = snap.Seq
	next.FetchedAt = snap.FetchedAt

	saved, err := saveJSON(ctx, c.store, c.key(sessionID), next.Seq, next)
	if err != nil {
		return viewOf(next), err
	}
	if !saved {
		// A newer fetch landed in between; it wins.
		return c.heldView(ctx, sessionID), nil
	}
	return viewOf(next), nil
}

func (c *Controller[T]) discard(ctx context.Context, sessionID string, seq uint64, started time.Time) (View[T], error) {
	c.observe(OutcomeStale, started)
	c.logger.DebugContext(ctx, "discarding stale response", "seq", seq)
	return c.heldView(ctx, sessionID), fmt.Errorf("%w (%s seq %d)", ErrStaleResponse, c.resource, seq)
}

func (c *Controller[T]) held(ctx context.Context, sessionID string) (Snapshot[T], bool) {
	snap, ok, err := loadJSON[Snapshot[T]](ctx, c.store, c.key(sessionID))
	if err != nil {
		c.logger.WarnContext(ctx, "ignoring unreadable list state", "error", err)
		return Snapshot[T]{}, false
	}
	return snap, ok
}

func (c *Controller[T]) heldView(ctx context.Context, sessionID string) View[T] {
	if snap, ok := c.held(ctx, sessionID); ok {
		return viewOf(snap)
	}
	return View[T]{Info: pagination.Compute(0, pagination.DefaultPage, c.defaultLimit)}
}

func viewOf[T any](s Snapshot[T]) View[T] {
	a := RestoreAdapter(s)
	return View[T]{
		Items:     a.Visible(),
		Info:      a.Info(),
		FetchedAt: s.FetchedAt,
		Loaded:    true,
	}
}

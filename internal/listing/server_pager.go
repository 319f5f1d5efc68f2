package listing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/target/backoffice-ui/internal/pagination"
)

// PageFetcher loads one page from an endpoint that paginates server-side.
type PageFetcher[T any] func(ctx context.Context, page, limit int) ([]T, pagination.Info, error)

// ServerPagerOptions configures a ServerPager.
type ServerPagerOptions[T any] struct {
	Resource     string
	Title        string
	Fetch        PageFetcher[T]
	Store        StateStore
	Sequencer    Sequencer
	Sessions     SessionInvalidator
	DefaultLimit int
	Observer     Observer
	Logger       *slog.Logger
	Now          func() time.Time
}

type pageSnapshot[T any] struct {
	Items     []T             `json:"items"`
	Info      pagination.Info `json:"info"`
	Seq       uint64          `json:"seq"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// ServerPager serves lists whose backend returns one page at a time. Every
// navigation is a fetch; the last page received is held so failures and
// stale responses can fall back to it.
type ServerPager[T any] struct {
	*deps
	fetch        PageFetcher[T]
	defaultLimit int
}

// NewServerPager validates opts and returns a ServerPager.
func NewServerPager[T any](opts ServerPagerOptions[T]) (*ServerPager[T], error) {
	if opts.Fetch == nil {
		return nil, fmt.Errorf("listing: page fetcher is required for %q", opts.Resource)
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
	return &ServerPager[T]{deps: d, fetch: opts.Fetch, defaultLimit: limit}, nil
}

// Resource returns the resource name this pager serves.
func (p *ServerPager[T]) Resource() string { return p.resource }

// State reports whether a fetch is in flight for the session.
func (p *ServerPager[T]) State(sessionID string) State { return p.state(sessionID) }

// Navigate fetches the requested page. Zero values fall back to the held
// page and limit, so a bare visit re-fetches what the user last saw.
func (p *ServerPager[T]) Navigate(ctx context.Context, sessionID string, nav Navigation) (View[T], error) {
	held, hasHeld := p.held(ctx, sessionID)
	page, limit := pagination.DefaultPage, p.defaultLimit
	if hasHeld {
		page, limit = held.Info.Page, held.Info.Limit
	}
	if nav.Limit > 0 && nav.Limit != limit {
		limit = nav.Limit
		page = pagination.DefaultPage
	}
	if nav.Page != 0 {
		page = nav.Page
	}
	if nav.Refresh {
		page = pagination.DefaultPage
	}
	return p.fetchPage(ctx, sessionID, page, limit)
}

func (p *ServerPager[T]) fetchPage(ctx context.Context, sessionID string, page, limit int) (View[T], error) {
	key := p.key(sessionID)
	seq, err := p.seq.Next(ctx, key)
	if err != nil {
		return View[T]{}, fmt.Errorf("issue %s sequence: %w", p.resource, err)
	}

	done := p.begin(sessionID)
	started := p.now()
	items, info, fetchErr := p.fetch(ctx, page, limit)
	done()

	if fetchErr != nil {
		err := p.classify(ctx, sessionID, fetchErr)
		if isSignIn(err) {
			p.observe(OutcomeUnauthorized, started)
			return View[T]{}, err
		}
		p.observe(OutcomeError, started)
		return p.heldView(ctx, sessionID), err
	}
	if p.isStale(ctx, key, seq) {
		return p.discard(ctx, sessionID, seq, started)
	}

	snap := pageSnapshot[T]{Items: items, Info: normalizeInfo(info, len(items), page, limit), Seq: seq, FetchedAt: p.now()}
	saved, err := saveJSON(ctx, p.store, key, seq, snap)
	if err != nil {
		p.observe(OutcomeError, started)
		return pageView(snap), err
	}
	if !saved {
		return p.discard(ctx, sessionID, seq, started)
	}
	p.observe(OutcomeOK, started)
	return pageView(snap), nil
}

// normalizeInfo recomputes derived fields from the backend's counts so the
// view never trusts a stale or partial pagination object.
func normalizeInfo(info pagination.Info, received, page, limit int) pagination.Info {
	if info.Page == 0 {
		info.Page = page
	}
	if info.Limit == 0 {
		info.Limit = limit
	}
	total := info.TotalCount
	if total == 0 && received > 0 {
		total = (info.Page-1)*info.Limit + received
	}
	return pagination.Compute(total, info.Page, info.Limit)
}

func (p *ServerPager[T]) discard(ctx context.Context, sessionID string, seq uint64, started time.Time) (View[T], error) {
	p.observe(OutcomeStale, started)
	p.logger.DebugContext(ctx, "discarding stale page", "seq", seq)
	return p.heldView(ctx, sessionID), fmt.Errorf("%w (%s seq %d)", ErrStaleResponse, p.resource, seq)
}

func (p *ServerPager[T]) held(ctx context.Context, sessionID string) (pageSnapshot[T], bool) {
	snap, ok, err := loadJSON[pageSnapshot[T]](ctx, p.store, p.key(sessionID))
	if err != nil {
		p.logger.WarnContext(ctx, "ignoring unreadable page state", "error", err)
		return pageSnapshot[T]{}, false
	}
	return snap, ok
}

func (p *ServerPager[T]) heldView(ctx context.Context, sessionID string) View[T] {
	if snap, ok := p.held(ctx, sessionID); ok {
		return pageView(snap)
	}
	return View[T]{Info: pagination.Compute(0, pagination.DefaultPage, p.defaultLimit)}
}

func pageView[T any](s pageSnapshot[T]) View[T] {
	return View[T]{Items: s.Items, Info: s.Info, FetchedAt: s.FetchedAt, Loaded: true}
}

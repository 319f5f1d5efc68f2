// Package listing holds list pages' view state: the fetched source
// collection, the current page window, and the controllers that fetch,
// persist and page through it per session.
package listing

import (
	"time"

	"github.com/target/backoffice-ui/internal/pagination"
)

// Adapter owns an unpaginated source collection and the window into it.
// It is not safe for concurrent use; controllers rebuild one per request
// from a Snapshot.
type Adapter[T any] struct {
	source []T
	info   pagination.Info
}

// NewAdapter returns an empty adapter on page 1 with the given page size.
func NewAdapter[T any](limit int) *Adapter[T] {
	if limit < 1 {
		limit = pagination.DefaultLimit
	}
	return &Adapter[T]{info: pagination.Compute(0, pagination.DefaultPage, limit)}
}

// SetSource replaces the held collection and resets to page 1, keeping the
// current limit.
func (a *Adapter[T]) SetSource(items []T) {
	a.source = items
	a.info = pagination.Compute(len(items), pagination.DefaultPage, a.info.Limit)
}

// ChangePage moves the window over the held collection. No bounds are
// enforced: a page past the end shows nothing.
func (a *Adapter[T]) ChangePage(page int) {
	a.info = pagination.Compute(len(a.source), page, a.info.Limit)
}

// ChangeLimit switches the page size and returns to page 1.
func (a *Adapter[T]) ChangeLimit(limit int) {
	a.info = pagination.Compute(len(a.source), pagination.DefaultPage, limit)
}

// Visible returns the items on the current page.
func (a *Adapter[T]) Visible() []T {
	return pagination.Slice(a.source, a.info.Page, a.info.Limit)
}

// Info returns the current pagination metadata.
func (a *Adapter[T]) Info() pagination.Info { return a.info }

// Source returns the full held collection.
func (a *Adapter[T]) Source() []T { return a.source }

// Snapshot is the persisted form of an adapter between requests.
// Seq is the sequence number of the fetch that produced Items.
type Snapshot[T any] struct {
	Items     []T       `json:"items"`
	Page      int       `json:"page"`
	Limit     int       `json:"limit"`
	Seq       uint64    `json:"seq"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Snapshot captures the adapter's collection and window. Seq and FetchedAt
// are left for the caller to fill.
func (a *Adapter[T]) Snapshot() Snapshot[T] {
	return Snapshot[T]{Items: a.source, Page: a.info.Page, Limit: a.info.Limit}
}

// RestoreAdapter rebuilds an adapter from a snapshot. Pagination metadata is
// recomputed, never read back.
func RestoreAdapter[T any](s Snapshot[T]) *Adapter[T] {
	limit := s.Limit
	if limit < 1 {
		limit = pagination.DefaultLimit
	}
	page := s.Page
	if page == 0 {
		page = pagination.DefaultPage
	}
	return &Adapter[T]{source: s.Items, info: pagination.Compute(len(s.Items), page, limit)}
}

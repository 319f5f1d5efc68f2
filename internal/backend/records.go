package backend

import (
	"context"

	"github.com/target/backoffice-ui/internal/pagination"
)

// Records binds a Client to one resource and record type.
type Records[T any] struct {
	client   *Client
	resource string
}

// NewRecords returns the typed handle for resource.
func NewRecords[T any](c *Client, resource string) *Records[T] {
	return &Records[T]{client: c, resource: resource}
}

// Resource returns the resource path segment.
func (r *Records[T]) Resource() string { return r.resource }

// All fetches the whole collection. It has the shape of listing.Fetcher.
func (r *Records[T]) All(ctx context.Context) ([]T, error) {
	return ListAll[T](ctx, r.client, r.resource)
}

// Page fetches one page. It has the shape of listing.PageFetcher.
func (r *Records[T]) Page(ctx context.Context, page, limit int) ([]T, pagination.Info, error) {
	return ListPage[T](ctx, r.client, r.resource, page, limit)
}

func (r *Records[T]) Get(ctx context.Context, id string) (T, error) {
	return Get[T](ctx, r.client, r.resource, id)
}

func (r *Records[T]) Create(ctx context.Context, in T) (T, error) {
	return Create(ctx, r.client, r.resource, in)
}

func (r *Records[T]) Update(ctx context.Context, id string, in T) (T, error) {
	return Update(ctx, r.client, r.resource, id, in)
}

func (r *Records[T]) Delete(ctx context.Context, id string) error {
	return r.client.Delete(ctx, r.resource, id)
}

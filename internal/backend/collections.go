package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	apperrors "github.com/target/backoffice-ui/internal/errors"
	"github.com/target/backoffice-ui/internal/pagination"
)

// envelope is the shape of server-paginated collections.
type envelope[T any] struct {
	Data       []T              `json:"data"`
	Pagination *pagination.Info `json:"pagination"`
}

// decodeCollection accepts either a bare JSON array or the {data, pagination}
// envelope. info is nil when the payload carried no pagination object.
func decodeCollection[T any](raw json.RawMessage) ([]T, *pagination.Info, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil, nil
	}
	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, nil, err
		}
		return items, nil, nil
	}
	var env envelope[T]
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, nil, err
	}
	if env.Data == nil {
		env.Data = []T{}
	}
	return env.Data, env.Pagination, nil
}

func unexpected(resource string, err error) error {
	return apperrors.Wrapf(err, apperrors.ErrCodeUnavailable, "Unexpected response from the server for %s.", resource)
}

// maxCollectionPages bounds how many pages ListAll follows for one
// collection.
const maxCollectionPages = 500

// ListAll fetches the whole collection behind GET /<resource>. When the
// backend answers with a paginated envelope, the remaining pages are
// requested with the same limit until hasNextPage is false.
func ListAll[T any](ctx context.Context, c *Client, resource string) ([]T, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{method: http.MethodGet, resource: resource, segments: []string{resource}}, &raw); err != nil {
		return nil, fmt.Errorf("list %s: %w", resource, err)
	}
	items, info, err := decodeCollection[T](raw)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", resource, unexpected(resource, err))
	}
	if info == nil || !info.HasNextPage || info.Limit < 1 {
		return items, nil
	}
	return followPages(ctx, c, resource, items, *info)
}

func followPages[T any](ctx context.Context, c *Client, resource string, items []T, info pagination.Info) ([]T, error) {
	page := max(info.Page, pagination.DefaultPage)
	for info.HasNextPage {
		page++
		if page > maxCollectionPages {
			return nil, fmt.Errorf("list %s: %w", resource, apperrors.Unavailable(
				fmt.Sprintf("The %s collection is too large to load at once.", resource)))
		}
		next, nextInfo, err := ListPage[T](ctx, c, resource, page, info.Limit)
		if err != nil {
			return nil, err
		}
		if len(next) == 0 {
			break
		}
		items = append(items, next...)
		info = nextInfo
	}
	return items, nil
}

// ListPage fetches one page from a server-paginated endpoint. When the
// backend omits the pagination object it is derived from the items received:
// a full page is assumed to have at least one more item behind it.
func ListPage[T any](ctx context.Context, c *Client, resource string, page, limit int) ([]T, pagination.Info, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var raw json.RawMessage
	cl := call{method: http.MethodGet, resource: resource, segments: []string{resource}, query: q}
	if err := c.do(ctx, cl, &raw); err != nil {
		return nil, pagination.Info{}, fmt.Errorf("list %s page %d: %w", resource, page, err)
	}
	items, info, err := decodeCollection[T](raw)
	if err != nil {
		return nil, pagination.Info{}, fmt.Errorf("list %s page %d: %w", resource, page, unexpected(resource, err))
	}
	if info == nil {
		total := (page-1)*limit + len(items)
		if limit > 0 && len(items) >= limit {
			total = page*limit + 1
		}
		derived := pagination.Compute(total, page, limit)
		info = &derived
	}
	return items, *info, nil
}

// Get fetches GET /<resource>/<id>.
func Get[T any](ctx context.Context, c *Client, resource, id string) (T, error) {
	var out T
	cl := call{method: http.MethodGet, resource: resource, segments: []string{resource, id}}
	if err := c.do(ctx, cl, &out); err != nil {
		return out, fmt.Errorf("get %s %s: %w", resource, id, err)
	}
	return out, nil
}

// Create posts in to /<resource> and returns the stored record. A response
// without a body returns in unchanged.
func Create[T any](ctx context.Context, c *Client, resource string, in T) (T, error) {
	out := in
	cl := call{method: http.MethodPost, resource: resource, segments: []string{resource}, body: in}
	if err := c.do(ctx, cl, &out); err != nil {
		return in, fmt.Errorf("create %s: %w", resource, err)
	}
	return out, nil
}

// Update replaces /<resource>/<id> with in.
func Update[T any](ctx context.Context, c *Client, resource, id string, in T) (T, error) {
	out := in
	cl := call{method: http.MethodPut, resource: resource, segments: []string{resource, id}, body: in}
	if err := c.do(ctx, cl, &out); err != nil {
		return in, fmt.Errorf("update %s %s: %w", resource, id, err)
	}
	return out, nil
}

// Delete removes /<resource>/<id>.
func (c *Client) Delete(ctx context.Context, resource, id string) error {
	cl := call{method: http.MethodDelete, resource: resource, segments: []string{resource, id}}
	if err := c.do(ctx, cl, nil); err != nil {
		return fmt.Errorf("delete %s %s: %w", resource, id, err)
	}
	return nil
}

// ListDocuments returns the collection as generic JSON values.
func (c *Client) ListDocuments(ctx context.Context, resource string) ([]any, error) {
	return ListAll[any](ctx, c, resource)
}

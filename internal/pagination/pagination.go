// Package pagination computes page metadata for a locally held collection.
//
// Every value is derived from (total, page, limit) on each call; nothing is
// cached, so the metadata can never drift from the collection it describes.
package pagination

const (
	// DefaultPage is the first page; pages are 1-indexed.
	DefaultPage = 1
	// DefaultLimit is the page size used before the user picks one.
	DefaultLimit = 10
	// MaxLimit caps page sizes accepted from query strings.
	MaxLimit = 100
)

// Info describes the current window into a collection. The JSON shape matches
// the pagination object the finance backend returns on server-paginated
// endpoints.
type Info struct {
	Page            int  `json:"page"`
	Limit           int  `json:"limit"`
	TotalCount      int  `json:"totalCount"`
	TotalPages      int  `json:"totalPages"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// Default returns the initial pagination state of an empty list.
func Default() Info {
	return Info{Page: DefaultPage, Limit: DefaultLimit}
}

// Compute derives pagination metadata for a source of sourceLength items.
// page is not clamped: a page beyond the last one yields HasNextPage false
// and an empty visible slice.
func Compute(sourceLength, page, limit int) Info {
	if sourceLength < 0 {
		sourceLength = 0
	}
	info := Info{
		Page:            page,
		Limit:           limit,
		TotalCount:      sourceLength,
		HasPreviousPage: page > 1,
	}
	if limit > 0 {
		info.TotalPages = (sourceLength + limit - 1) / limit
		info.HasNextPage = page*limit < sourceLength
	}
	return info
}

// Bounds returns the half-open range [start, end) of the page within a
// collection of total items, clipped to [0, total].
func Bounds(total, page, limit int) (start, end int) {
	if total <= 0 || page < 1 || limit < 1 {
		return 0, 0
	}
	start = (page - 1) * limit
	if start >= total {
		return total, total
	}
	end = start + limit
	if end > total {
		end = total
	}
	return start, end
}

// Slice returns the visible window of src. The result aliases src.
func Slice[T any](src []T, page, limit int) []T {
	start, end := Bounds(len(src), page, limit)
	return src[start:end]
}

// Offset returns the zero-based index of the first item on the page.
func (i Info) Offset() int {
	if i.Page < 1 || i.Limit < 1 {
		return 0
	}
	return (i.Page - 1) * i.Limit
}

// StartIndex is the 1-based position of the first visible item, or 0 when
// the page is empty.
func (i Info) StartIndex() int {
	start, end := Bounds(i.TotalCount, i.Page, i.Limit)
	if start == end {
		return 0
	}
	return start + 1
}

// EndIndex is the 1-based position of the last visible item, or 0 when the
// page is empty.
func (i Info) EndIndex() int {
	start, end := Bounds(i.TotalCount, i.Page, i.Limit)
	if start == end {
		return 0
	}
	return end
}

// NormalizePage maps values below the first page to DefaultPage.
func NormalizePage(page int) int {
	if page < 1 {
		return DefaultPage
	}
	return page
}

// NormalizeLimit maps non-positive values to fallback and caps at MaxLimit.
func NormalizeLimit(limit, fallback int) int {
	if fallback < 1 {
		fallback = DefaultLimit
	}
	switch {
	case limit < 1:
		return fallback
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

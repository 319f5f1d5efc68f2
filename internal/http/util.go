package httpx

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/target/backoffice-ui/internal/listing"
	"github.com/target/backoffice-ui/internal/pagination"
)

// parseIntQuery returns the integer value of a query param or a default.
// It is tolerant of missing/invalid values.
func parseIntQuery(r *http.Request, key string, def int) int {
	if v := strings.TrimSpace(r.URL.Query().Get(key)); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// parseNavigation reads page, limitKey and refresh from the query string.
// Absent values stay zero so the list keeps its held page and limit;
// present values are normalized (page >= 1, limit within 1..maxPageSize).
func parseNavigation(r *http.Request, limitKey string) listing.Navigation {
	var nav listing.Navigation
	q := r.URL.Query()
	if q.Has("page") {
		nav.Page = pagination.NormalizePage(parseIntQuery(r, "page", pagination.DefaultPage))
	}
	if q.Has(limitKey) {
		limit := parseIntQuery(r, limitKey, pagination.DefaultLimit)
		if limit > maxPageSize {
			limit = maxPageSize
		}
		nav.Limit = pagination.NormalizeLimit(limit, pagination.DefaultLimit)
	}
	switch strings.ToLower(q.Get("refresh")) {
	case "1", "true", "yes":
		nav.Refresh = true
	}
	return nav
}

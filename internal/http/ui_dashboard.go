package httpx

import (
	"net/http"

	"github.com/target/backoffice-ui/internal/domain/model"
	apperrors "github.com/target/backoffice-ui/internal/errors"
	corefuncs "github.com/target/backoffice-ui/internal/http/templates/core"
	"github.com/target/backoffice-ui/internal/service"
)

// DashboardTile is one rendered dashboard widget.
type DashboardTile struct {
	Label     string
	Value     string
	Available bool
	Notice    string
	// Link points at the list the tile summarizes.
	Link string
}

func dashboardTiles(results []service.WidgetResult) []DashboardTile {
	tiles := make([]DashboardTile, 0, len(results))
	for _, res := range results {
		tile := DashboardTile{
			Label:     res.Label,
			Available: res.Available,
			Notice:    res.Notice,
		}
		if res.Available {
			tile.Value = corefuncs.FormatValue(res.Value)
		}
		if meta, ok := model.ResourceByName(res.Resource); ok {
			tile.Link = meta.Path()
		}
		tiles = append(tiles, tile)
	}
	return tiles
}

// Dashboard renders the landing page tiles.
func (h *UIHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	b := NewTemplateData(r, PageMeta{
		Title:       "Dashboard - " + appName,
		PageTitle:   "Dashboard",
		CurrentPage: PageDashboard,
		Kind:        PageDashboard,
	})

	if h.Widgets == nil {
		h.renderPage(w, r, b.With("Tiles", []DashboardTile{}).Build())
		return
	}

	results, err := h.Widgets.Evaluate(r.Context())
	switch {
	case err == nil:
	case apperrors.IsUnauthorized(err):
		h.endSession(w, r)
		return
	default:
		h.logger().ErrorContext(r.Context(), "dashboard evaluation failed", "error", err)
		b.WithError("Unable to load the dashboard. Please try again.")
	}
	h.renderPage(w, r, b.With("Tiles", dashboardTiles(results)).Build())
}

package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/target/backoffice-ui/internal/domain/model"
	"github.com/target/backoffice-ui/internal/http/ui/table"
	"github.com/target/backoffice-ui/internal/listing"
	"github.com/target/backoffice-ui/internal/pagination"
)

// ListSource serves list views for one resource. Both listing.Controller
// and listing.ServerPager satisfy it.
type ListSource[T any] interface {
	Resource() string
	Navigate(ctx context.Context, sessionID string, nav listing.Navigation) (listing.View[T], error)
}

// RecordStore performs single-record operations against the backend.
type RecordStore[T any] interface {
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, in T) (T, error)
	Update(ctx context.Context, id string, in T) (T, error)
	Delete(ctx context.Context, id string) error
}

var (
	_ ListSource[model.Supplier]   = (*listing.Controller[model.Supplier])(nil)
	_ ListSource[model.Receivable] = (*listing.ServerPager[model.Receivable])(nil)
)

// ResourceUI wires one resource's list, API and form routes.
type ResourceUI[T any] struct {
	Meta    model.Resource
	Source  ListSource[T]
	Columns []table.Column[T]
	ID      func(T) string
	// Store and Form are nil for read-only resources.
	Store RecordStore[T]
	Form  *FormSpec[T]
}

// ResourceRoutes is implemented by *ResourceUI.
type ResourceRoutes interface {
	Resource() model.Resource
	register(mux *http.ServeMux, h *UIHandlers, mw routeMiddleware)
}

// routeMiddleware holds the guards applied to resource routes.
type routeMiddleware struct {
	browse func(http.Handler) http.Handler
	manage func(http.Handler) http.Handler
}

// Resource returns the resource metadata.
func (ui *ResourceUI[T]) Resource() model.Resource { return ui.Meta }

func (ui *ResourceUI[T]) writable() bool {
	return !ui.Meta.ReadOnly && ui.Store != nil && ui.Form != nil
}

func (ui *ResourceUI[T]) register(mux *http.ServeMux, h *UIHandlers, mw routeMiddleware) {
	base := ui.Meta.Path()
	mux.Handle("GET "+base, mw.browse(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ui.list(h, w, r)
	})))
	mux.Handle("GET /api"+base, mw.browse(http.HandlerFunc(ui.apiList)))
	if !ui.writable() {
		return
	}
	mux.Handle("GET "+base+"/new", mw.manage(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ui.newForm(h, w, r)
	})))
	mux.Handle("GET "+base+"/{id}/edit", mw.manage(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ui.editForm(h, w, r)
	})))
	mux.Handle("POST "+base, mw.manage(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ui.save(h, w, r, FormModeCreate)
	})))
	mux.Handle("POST "+base+"/{id}", mw.manage(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ui.save(h, w, r, FormModeEdit)
	})))
	mux.Handle("POST "+base+"/{id}/delete", mw.manage(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ui.delete(h, w, r)
	})))
}

// list renders the list page. page, page_size and refresh=1 select the
// window; absent values keep what the session last saw.
func (ui *ResourceUI[T]) list(h *UIHandlers, w http.ResponseWriter, r *http.Request) {
	nav := parseNavigation(r, "page_size")
	view, err := ui.Source.Navigate(r.Context(), sessionID(r.Context()), nav)
	notice, ok := h.listNotice(w, r, err)
	if !ok {
		return
	}

	canManage := ui.writable() && CanManage(r.Context())
	tbl := table.Build(ui.Columns, view.Items, table.Options[T]{
		BasePath: ui.Meta.Path(),
		ID:       ui.ID,
		Manage:   canManage,
	})
	info := view.Info
	if info.Limit == 0 {
		info = pagination.Default()
	}

	data := NewTemplateData(r, PageMeta{
		Title:       ui.Meta.Title,
		PageTitle:   ui.Meta.Title,
		CurrentPage: ui.Meta.Name,
		Kind:        PageList,
	}).
		WithPagination(ui.Meta.Path(), info).
		WithNotice(notice).
		With("Resource", ui.Meta).
		With("Table", tbl).
		With("Loaded", view.Loaded).
		With("FetchedAt", view.FetchedAt).
		With("Writable", canManage).
		Build()
	h.renderPage(w, r, data)
}

// apiListResponse mirrors the backend's paginated envelope.
type apiListResponse[T any] struct {
	Data       []T             `json:"data"`
	Pagination pagination.Info `json:"pagination"`
}

// apiList serves GET /api/<resource>?page=&limit= from the same session
// state as the HTML list.
func (ui *ResourceUI[T]) apiList(w http.ResponseWriter, r *http.Request) {
	nav := parseNavigation(r, "limit")
	view, err := ui.Source.Navigate(r.Context(), sessionID(r.Context()), nav)
	switch {
	case err == nil, errors.Is(err, listing.ErrStaleResponse):
	case errors.Is(err, listing.ErrSignInRequired):
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errAuthRequired,
		})
		return
	default:
		writeAppError(w, err)
		return
	}

	items := view.Items
	if items == nil {
		items = []T{}
	}
	WriteJSON(w, http.StatusOK, apiListResponse[T]{Data: items, Pagination: view.Info})
}

// refresh refetches the list after a write so the next visit shows it.
// It reports false when the backend demanded a new sign-in.
func (ui *ResourceUI[T]) refresh(h *UIHandlers, r *http.Request) bool {
	_, err := ui.Source.Navigate(r.Context(), sessionID(r.Context()), listing.Navigation{Refresh: true})
	switch {
	case err == nil, errors.Is(err, listing.ErrStaleResponse):
		return true
	case errors.Is(err, listing.ErrSignInRequired):
		return false
	default:
		h.logger().WarnContext(r.Context(), "refetch after write failed",
			"resource", ui.Meta.Name,
			"error", err)
		return true
	}
}

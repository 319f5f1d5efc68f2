package httpx

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/target/backoffice-ui/internal/http/ui/viewmodel"
	"github.com/target/backoffice-ui/internal/pagination"
)

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
	r    *http.Request
}

// NewTemplateData creates a new TemplateDataBuilder initialized with basePageData.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{
		data: basePageData(r, meta),
		r:    r,
	}
}

// WithPagination adds the pager for info, linking pages under basePath.
func (b *TemplateDataBuilder) WithPagination(basePath string, info pagination.Info) *TemplateDataBuilder {
	b.data["Pagination"] = buildPagination(basePath, b.r.URL.Query(), info)
	return b
}

// WithError sets a general error message.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	b.data["Error"] = true
	b.data["ErrorMessage"] = msg
	return b
}

// WithNotice sets an inline warning that does not replace the content.
func (b *TemplateDataBuilder) WithNotice(msg string) *TemplateDataBuilder {
	if msg != "" {
		b.data["Notice"] = msg
	}
	return b
}

// WithFieldErrors adds field-level validation errors.
func (b *TemplateDataBuilder) WithFieldErrors(errs map[string]string) *TemplateDataBuilder {
	if len(errs) > 0 {
		b.data["Errors"] = errs
	}
	return b
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}

func buildPagination(basePath string, q url.Values, info pagination.Info) viewmodel.Pagination {
	p := viewmodel.Pagination{
		Page:       info.Page,
		PageSize:   info.Limit,
		TotalPages: info.TotalPages,
		HasPrev:    info.HasPreviousPage,
		HasNext:    info.HasNextPage,
		StartIndex: info.StartIndex(),
		EndIndex:   info.EndIndex(),
		TotalCount: info.TotalCount,
	}
	if p.HasPrev {
		p.PrevURL = buildPageURL(basePath, q, pageOpts{Page: info.Page - 1, PageSize: info.Limit})
	}
	if p.HasNext {
		p.NextURL = buildPageURL(basePath, q, pageOpts{Page: info.Page + 1, PageSize: info.Limit})
	}
	p.PageSizes = make([]viewmodel.PageSizeOption, 0, len(PageSizes))
	for _, size := range PageSizes {
		p.PageSizes = append(p.PageSizes, viewmodel.PageSizeOption{
			Size:     size,
			URL:      buildPageURL(basePath, q, pageOpts{Page: pagination.DefaultPage, PageSize: size}),
			Selected: size == info.Limit,
		})
	}
	return p
}

// pageOpts represents pagination options for list views.
type pageOpts struct {
	Page     int
	PageSize int
}

// buildPageURL returns a URL with page and page_size set, preserving other
// query params. refresh is dropped so paging never refetches.
func buildPageURL(basePath string, q url.Values, p pageOpts) string {
	qq := make(url.Values, len(q))
	for k, v := range q {
		if strings.HasPrefix(k, "hx-") || strings.HasPrefix(k, "hx_") || k == "refresh" {
			continue
		}
		tmp := make([]string, 0, len(v))
		for _, s := range v {
			if strings.TrimSpace(s) != "" {
				tmp = append(tmp, s)
			}
		}
		if len(tmp) > 0 {
			qq[k] = tmp
		}
	}
	qq.Set("page", strconv.Itoa(p.Page))
	qq.Set("page_size", strconv.Itoa(p.PageSize))
	return basePath + "?" + qq.Encode()
}

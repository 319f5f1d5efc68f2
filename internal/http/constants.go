package httpx

// Page kinds select the content template a page renders with. Navigation
// highlighting uses the resource name instead (PageMeta.CurrentPage).
const (
	PageDashboard = "dashboard"
	PageList      = "list"
	PageForm      = "form"
	PageNotFound  = "not-found"
	PageError     = "error"
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
	StaticPathFromRoot   = "frontend/static"
)

const (
	sessionCookieName = "session_id"
	errMsgFixBelow    = "Please fix the errors below."
	maxPageSize       = 100
)

// PageSizes are offered by the page size selector.
//
//nolint:gochecknoglobals // static read-only option list
var PageSizes = []int{10, 25, 50, 100}

// FormMode represents the mode of a form (create or edit).
type FormMode string

const (
	FormModeEdit   FormMode = "edit"
	FormModeCreate FormMode = "create"
)

//nolint:gochecknoglobals // static read-only lookup for templates; avoids per-call allocations
var contentTemplates = map[string]string{
	PageDashboard: "dashboard-content",
	PageList:      "list-content",
	PageForm:      "form-content",
	PageNotFound:  "not-found-content",
	PageError:     "error-content",
}

// ContentTemplateMap returns the mapping from page kind to template name.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the content template for the given page kind.
// Falls back to dashboard-content for unknown kinds.
func ContentTemplateFor(kind string) string {
	if name, ok := contentTemplates[kind]; ok {
		return name
	}
	return "dashboard-content"
}

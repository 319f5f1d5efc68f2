package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	jmespath "github.com/jmespath-community/go-jmespath"
	apperrors "github.com/target/backoffice-ui/internal/errors"
	"github.com/target/backoffice-ui/internal/ports"
	"golang.org/x/sync/errgroup"
)

// JMESPathEvaluator abstracts JMESPath operations for testability.
type JMESPathEvaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

// jmespathLibEvaluator implements JMESPathEvaluator using go-jmespath.
type jmespathLibEvaluator struct{}

func (jmespathLibEvaluator) Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return errors.New("expression is required")
	}
	_, err := jmespath.Compile(expr)
	return err
}

func (jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// Widget is one dashboard tile: an expression evaluated over a collection.
type Widget struct {
	Label      string
	Resource   string
	Expression string
}

// DefaultWidgets is used when no widgets are configured.
func DefaultWidgets() []Widget {
	return []Widget{
		{Label: "Suppliers", Resource: "suppliers", Expression: "length(@)"},
		{Label: "Customers", Resource: "customers", Expression: "length(@)"},
		{Label: "Active bank accounts", Resource: "bank-accounts", Expression: "length([?active])"},
		{Label: "Overdue receivables", Resource: "accounts-receivable", Expression: "length([?status=='overdue'])"},
	}
}

// ParseWidgets reads widgets from "Label=resource:expression" entries
// separated by semicolons. An empty spec yields DefaultWidgets.
func ParseWidgets(spec string) ([]Widget, error) {
	if strings.TrimSpace(spec) == "" {
		return DefaultWidgets(), nil
	}
	var widgets []Widget
	for _, entry := range strings.Split(spec, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		label, rest, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("widget %q: missing '='", entry)
		}
		resource, expr, ok := strings.Cut(rest, ":")
		if !ok {
			return nil, fmt.Errorf("widget %q: missing ':'", entry)
		}
		widgets = append(widgets, Widget{
			Label:      strings.TrimSpace(label),
			Resource:   strings.TrimSpace(resource),
			Expression: strings.TrimSpace(expr),
		})
	}
	return widgets, nil
}

// WidgetResult is a rendered tile. Unavailable tiles keep their label and
// carry a notice instead of a value.
type WidgetResult struct {
	Widget
	Value     any
	Available bool
	Notice    string
}

// DashboardServiceOptions groups dependencies for DashboardService.
type DashboardServiceOptions struct {
	Documents ports.DocumentLister
	Widgets   []Widget
	Evaluator JMESPathEvaluator
	Logger    *slog.Logger
}

// DashboardService computes the dashboard tiles for the signed-in user.
type DashboardService struct {
	docs    ports.DocumentLister
	widgets []Widget
	jems    JMESPathEvaluator
	logger  *slog.Logger
}

// NewDashboardService validates every widget expression up front.
func NewDashboardService(opts DashboardServiceOptions) (*DashboardService, error) {
	if opts.Documents == nil {
		return nil, errors.New("dashboard: document lister is required")
	}
	jems := opts.Evaluator
	if jems == nil {
		jems = jmespathLibEvaluator{}
	}
	widgets := opts.Widgets
	if len(widgets) == 0 {
		widgets = DefaultWidgets()
	}
	for _, w := range widgets {
		if w.Resource == "" {
			return nil, fmt.Errorf("dashboard widget %q: resource is required", w.Label)
		}
		if err := jems.Validate(w.Expression); err != nil {
			return nil, fmt.Errorf("dashboard widget %q: %w", w.Label, err)
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		docs:    opts.Documents,
		widgets: widgets,
		jems:    jems,
		logger:  logger.With("component", "dashboard"),
	}, nil
}

// Widgets returns the configured widgets.
func (s *DashboardService) Widgets() []Widget { return s.widgets }

// Evaluate fetches every collection the widgets need concurrently, once per
// resource, and evaluates each widget. A failed fetch marks its widgets
// unavailable. If the backend rejected the session's credentials the
// unauthorized error is returned and no results are produced.
func (s *DashboardService) Evaluate(ctx context.Context) ([]WidgetResult, error) {
	resources := make([]string, 0, len(s.widgets))
	seen := make(map[string]bool, len(s.widgets))
	for _, w := range s.widgets {
		if !seen[w.Resource] {
			seen[w.Resource] = true
			resources = append(resources, w.Resource)
		}
	}

	var (
		mu   sync.Mutex
		docs = make(map[string][]any, len(resources))
		errs = make(map[string]error)
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, res := range resources {
		g.Go(func() error {
			items, err := s.docs.ListDocuments(gctx, res)
			if apperrors.IsUnauthorized(err) {
				return fmt.Errorf("dashboard %s: %w", res, err)
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs[res] = err
				return nil
			}
			docs[res] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]WidgetResult, 0, len(s.widgets))
	for _, w := range s.widgets {
		results = append(results, s.evaluate(ctx, w, docs[w.Resource], errs[w.Resource]))
	}
	return results, nil
}

func (s *DashboardService) evaluate(ctx context.Context, w Widget, items []any, fetchErr error) WidgetResult {
	res := WidgetResult{Widget: w}
	if fetchErr != nil {
		s.logger.WarnContext(ctx, "dashboard fetch failed", "resource", w.Resource, "error", fetchErr)
		res.Notice = apperrors.UserMessage(fetchErr, "Unavailable")
		return res
	}
	if items == nil {
		items = []any{}
	}
	val, err := s.jems.Evaluate(w.Expression, items)
	if err != nil {
		s.logger.WarnContext(ctx, "dashboard expression failed",
			"resource", w.Resource,
			"expression", w.Expression,
			"error", err)
		res.Notice = "Unavailable"
		return res
	}
	res.Value = val
	res.Available = true
	return res
}

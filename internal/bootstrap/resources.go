package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/target/backoffice-ui/internal/backend"
	"github.com/target/backoffice-ui/internal/domain/model"
	httpx "github.com/target/backoffice-ui/internal/http"
	"github.com/target/backoffice-ui/internal/listing"
	"github.com/target/backoffice-ui/internal/observability/metrics"
)

// ResourceDeps groups what every list page needs.
type ResourceDeps struct {
	Client       *backend.Client
	Store        listing.StateStore
	Sequencer    listing.Sequencer
	Sessions     listing.SessionInvalidator
	Metrics      *metrics.Metrics
	DefaultLimit int
	Logger       *slog.Logger
	// Now is overridden in tests.
	Now func() time.Time
}

// BuildResources creates the list controller and screens for every resource
// in model.Resources.
func BuildResources(d ResourceDeps) ([]httpx.ResourceRoutes, error) {
	if d.Client == nil {
		return nil, errors.New("resources: backend client is required")
	}
	b := resourceBuilder{deps: d}
	routes := []httpx.ResourceRoutes{
		writable(&b, model.Suppliers, httpx.SupplierUI),
		writable(&b, model.Customers, httpx.CustomerUI),
		writable(&b, model.BankAccounts, httpx.BankAccountUI),
		writable(&b, model.CostCenters, httpx.CostCenterUI),
		writable(&b, model.TaxRates, httpx.TaxRateUI),
		writable(&b, model.PaymentTerms, httpx.PaymentTermUI),
		serverPaged(&b, model.AccountsReceivable, httpx.ReceivableUI),
	}
	if err := errors.Join(b.errs...); err != nil {
		return nil, err
	}
	return routes, nil
}

type resourceBuilder struct {
	deps ResourceDeps
	errs []error
}

func (b *resourceBuilder) fail(res model.Resource, err error) {
	b.errs = append(b.errs, fmt.Errorf("resource %s: %w", res.Name, err))
}

//nolint:ireturn // routes are collected as ResourceRoutes.
func writable[T any](
	b *resourceBuilder,
	res model.Resource,
	ui func(httpx.ListSource[T], httpx.RecordStore[T]) *httpx.ResourceUI[T],
) httpx.ResourceRoutes {
	records := backend.NewRecords[T](b.deps.Client, res.Name)
	ctrl, err := listing.NewController(listing.ControllerOptions[T]{
		Resource:     res.Name,
		Title:        res.Title,
		Fetch:        records.All,
		Store:        b.deps.Store,
		Sequencer:    b.deps.Sequencer,
		Sessions:     b.deps.Sessions,
		DefaultLimit: b.deps.DefaultLimit,
		Observer:     b.deps.Metrics,
		Logger:       b.deps.Logger,
		Now:          b.deps.Now,
	})
	if err != nil {
		b.fail(res, err)
		return nil
	}
	return ui(ctrl, records)
}

//nolint:ireturn // routes are collected as ResourceRoutes.
func serverPaged[T any](
	b *resourceBuilder,
	res model.Resource,
	ui func(httpx.ListSource[T]) *httpx.ResourceUI[T],
) httpx.ResourceRoutes {
	records := backend.NewRecords[T](b.deps.Client, res.Name)
	pager, err := listing.NewServerPager(listing.ServerPagerOptions[T]{
		Resource:     res.Name,
		Title:        res.Title,
		Fetch:        records.Page,
		Store:        b.deps.Store,
		Sequencer:    b.deps.Sequencer,
		Sessions:     b.deps.Sessions,
		DefaultLimit: b.deps.DefaultLimit,
		Observer:     b.deps.Metrics,
		Logger:       b.deps.Logger,
		Now:          b.deps.Now,
	})
	if err != nil {
		b.fail(res, err)
		return nil
	}
	return ui(pager)
}

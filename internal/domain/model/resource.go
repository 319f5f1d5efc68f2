//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

// Paging says where a resource's collection is paginated.
type Paging string

const (
	// PagingClient resources return a bare array that is paged locally.
	PagingClient Paging = "client"
	// PagingServer resources return {data, pagination} one page at a time.
	PagingServer Paging = "server"
)

// Resource describes one backend collection exposed as a list page.
type Resource struct {
	// Name is the REST path segment and the UI route, e.g. "bank-accounts".
	Name string
	// Title is the plural display name, e.g. "Bank accounts".
	Title string
	// Singular is used in form headings and notices.
	Singular string
	Paging   Paging
	// ReadOnly resources have no create/edit/delete forms.
	ReadOnly bool
}

// Path returns the resource's UI and REST path.
func (r Resource) Path() string { return "/" + r.Name }

var (
	Suppliers          = Resource{Name: "suppliers", Title: "Suppliers", Singular: "Supplier", Paging: PagingClient}
	Customers          = Resource{Name: "customers", Title: "Customers", Singular: "Customer", Paging: PagingClient}
	BankAccounts       = Resource{Name: "bank-accounts", Title: "Bank accounts", Singular: "Bank account", Paging: PagingClient}
	CostCenters        = Resource{Name: "cost-centers", Title: "Cost centers", Singular: "Cost center", Paging: PagingClient}
	TaxRates           = Resource{Name: "tax-rates", Title: "Tax rates", Singular: "Tax rate", Paging: PagingClient}
	PaymentTerms       = Resource{Name: "payment-terms", Title: "Payment terms", Singular: "Payment term", Paging: PagingClient}
	AccountsReceivable = Resource{
		Name:     "accounts-receivable",
		Title:    "Accounts receivable",
		Singular: "Receivable",
		Paging:   PagingServer,
		ReadOnly: true,
	}
)

// Resources returns every resource in navigation order.
func Resources() []Resource {
	return []Resource{Suppliers, Customers, BankAccounts, CostCenters, TaxRates, PaymentTerms, AccountsReceivable}
}

// ResourceByName looks up a resource by its path segment.
func ResourceByName(name string) (Resource, bool) {
	for _, r := range Resources() {
		if r.Name == name {
			return r, true
		}
	}
	return Resource{}, false
}

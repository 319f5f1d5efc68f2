package testutil

import (
	"fmt"

	"github.com/target/backoffice-ui/internal/domain/model"
)

// Suppliers returns n distinct suppliers with IDs "sup-1".."sup-n".
func Suppliers(n int) []model.Supplier {
	out := make([]model.Supplier, n)
	for i := range out {
		out[i] = model.Supplier{
			ID:     fmt.Sprintf("sup-%d", i+1),
			Name:   fmt.Sprintf("Supplier %02d", i+1),
			TaxID:  fmt.Sprintf("TAX-%04d", i+1),
			Email:  fmt.Sprintf("ap%d@supplier.example.com", i+1),
			Active: i%2 == 0,
		}
	}
	return out
}

// Receivables returns n receivables cycling through every status.
func Receivables(n int) []model.Receivable {
	statuses := []model.ReceivableStatus{
		model.ReceivableOpen, model.ReceivablePartial, model.ReceivablePaid, model.ReceivableOverdue,
	}
	out := make([]model.Receivable, n)
	for i := range out {
		out[i] = model.Receivable{
			ID:            fmt.Sprintf("ar-%d", i+1),
			InvoiceNumber: fmt.Sprintf("INV-%05d", i+1),
			CustomerID:    fmt.Sprintf("cus-%d", i%3+1),
			CustomerName:  fmt.Sprintf("Customer %d", i%3+1),
			Amount:        "100.00",
			Balance:       "100.00",
			Status:        statuses[i%len(statuses)],
		}
	}
	return out
}

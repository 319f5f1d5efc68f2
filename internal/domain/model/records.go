//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "time"

// Amounts and rates are decimal strings exactly as the backend sends them.

// Supplier is a vendor the company pays.
type Supplier struct {
	ID            string     `json:"id,omitempty"`
	Name          string     `json:"name"`
	TaxID         string     `json:"taxId"`
	Email         string     `json:"email,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Address       string     `json:"address,omitempty"`
	PaymentTermID string     `json:"paymentTermId,omitempty"`
	Active        bool       `json:"active"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
}

// Customer is a party the company invoices.
type Customer struct {
	ID          string     `json:"id,omitempty"`
	Name        string     `json:"name"`
	TaxID       string     `json:"taxId"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Address     string     `json:"address,omitempty"`
	CreditLimit string     `json:"creditLimit,omitempty"`
	Active      bool       `json:"active"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// BankAccount is one of the company's own accounts.
type BankAccount struct {
	ID            string `json:"id,omitempty"`
	BankName      string `json:"bankName"`
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	Currency      string `json:"currency"`
	Balance       string `json:"balance,omitempty"`
	Active        bool   `json:"active"`
}

// CostCenter groups expenses for reporting.
type CostCenter struct {
	ID          string `json:"id,omitempty"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

// TaxRate is a named percentage applied by the backend.
type TaxRate struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Rate        string `json:"rate"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

// PaymentTerm is a due-date rule such as "Net 30".
type PaymentTerm struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Days        int    `json:"days"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

// ReceivableStatus is derived by the backend; this service only displays it.
type ReceivableStatus string

const (
	ReceivableOpen    ReceivableStatus = "open"
	ReceivablePartial ReceivableStatus = "partial"
	ReceivablePaid    ReceivableStatus = "paid"
	ReceivableOverdue ReceivableStatus = "overdue"
)

// Receivable is an open invoice line in accounts receivable.
type Receivable struct {
	ID            string           `json:"id"`
	InvoiceNumber string           `json:"invoiceNumber"`
	CustomerID    string           `json:"customerId"`
	CustomerName  string           `json:"customerName"`
	Amount        string           `json:"amount"`
	Balance       string           `json:"balance"`
	Currency      string           `json:"currency,omitempty"`
	IssuedAt      *time.Time       `json:"issuedAt,omitempty"`
	DueDate       *time.Time       `json:"dueDate,omitempty"`
	Status        ReceivableStatus `json:"status"`
}

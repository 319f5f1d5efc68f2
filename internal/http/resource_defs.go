package httpx

import (
	"net/url"
	"strconv"

	"github.com/target/backoffice-ui/internal/domain/model"
	"github.com/target/backoffice-ui/internal/http/ui/table"
	"github.com/target/backoffice-ui/internal/http/validation"
)

// Field name and length limits shared by the forms below.
const (
	maxNameLen        = 200
	maxTaxIDLen       = 32
	maxEmailLen       = 254
	maxPhoneLen       = 32
	maxAddressLen     = 500
	maxDescriptionLen = 500
	maxCodeLen        = 20
	amountScale       = 2
	rateScale         = 4
	maxTermDays       = 365
)

func activeField() FormField {
	return FormField{Name: "active", Label: "Active", Type: "checkbox"}
}

func activeDefaults() url.Values { return url.Values{"active": {"true"}} }

func boolValue(b bool) string {
	if b {
		return "true"
	}
	return ""
}

// SupplierUI builds the suppliers screens.
func SupplierUI(source ListSource[model.Supplier], store RecordStore[model.Supplier]) *ResourceUI[model.Supplier] {
	return &ResourceUI[model.Supplier]{
		Meta:   model.Suppliers,
		Source: source,
		Store:  store,
		ID:     func(s model.Supplier) string { return s.ID },
		Columns: []table.Column[model.Supplier]{
			{Label: "Name", Value: func(s model.Supplier) table.Cell { return table.Truncated(s.Name, 60) }},
			{Label: "Tax ID", Value: func(s model.Supplier) table.Cell { return table.Text(s.TaxID) }},
			{Label: "Email", Value: func(s model.Supplier) table.Cell { return table.Text(s.Email) }},
			{Label: "Phone", Value: func(s model.Supplier) table.Cell { return table.Text(s.Phone) }},
			{Label: "Status", Value: func(s model.Supplier) table.Cell { return table.Active(s.Active) }},
			{Label: "Created", Value: func(s model.Supplier) table.Cell { return table.Date(s.CreatedAt) }},
		},
		Form: &FormSpec[model.Supplier]{
			Fields: []FormField{
				{Name: "name", Label: "Name", Type: "text", Required: true},
				{Name: "taxId", Label: "Tax ID", Type: "text", Required: true},
				{Name: "email", Label: "Email", Type: "email"},
				{Name: "phone", Label: "Phone", Type: "text"},
				{Name: "address", Label: "Address", Type: "textarea"},
				{Name: "paymentTermId", Label: "Payment term ID", Type: "text", Help: "Leave empty to use the default term."},
				activeField(),
			},
			Defaults: activeDefaults(),
			Parse: func(v url.Values) (model.Supplier, map[string]string) {
				errs := validation.New().
					Validate("name", v.Get("name"), validation.Required("Name", maxNameLen)).
					Validate("taxId", v.Get("taxId"), validation.Required("Tax ID", maxTaxIDLen)).
					Validate("email", v.Get("email"), validation.Optional("Email", maxEmailLen), validation.Email("Email")).
					Validate("phone", v.Get("phone"), validation.Optional("Phone", maxPhoneLen)).
					Validate("address", v.Get("address"), validation.Optional("Address", maxAddressLen)).
					Errors()
				return model.Supplier{
					Name:          formValue(v, "name"),
					TaxID:         formValue(v, "taxId"),
					Email:         formValue(v, "email"),
					Phone:         formValue(v, "phone"),
					Address:       formValue(v, "address"),
					PaymentTermID: formValue(v, "paymentTermId"),
					Active:        formBool(v, "active"),
				}, errs
			},
			Values: func(s model.Supplier) url.Values {
				return url.Values{
					"name":          {s.Name},
					"taxId":         {s.TaxID},
					"email":         {s.Email},
					"phone":         {s.Phone},
					"address":       {s.Address},
					"paymentTermId": {s.PaymentTermID},
					"active":        {boolValue(s.Active)},
				}
			},
		},
	}
}

// CustomerUI builds the customers screens.
func CustomerUI(source ListSource[model.Customer], store RecordStore[model.Customer]) *ResourceUI[model.Customer] {
	return &ResourceUI[model.Customer]{
		Meta:   model.Customers,
		Source: source,
		Store:  store,
		ID:     func(c model.Customer) string { return c.ID },
		Columns: []table.Column[model.Customer]{
			{Label: "Name", Value: func(c model.Customer) table.Cell { return table.Truncated(c.Name, 60) }},
			{Label: "Tax ID", Value: func(c model.Customer) table.Cell { return table.Text(c.TaxID) }},
			{Label: "Email", Value: func(c model.Customer) table.Cell { return table.Text(c.Email) }},
			{Label: "Credit limit", Value: func(c model.Customer) table.Cell { return table.Number(c.CreditLimit) }},
			{Label: "Status", Value: func(c model.Customer) table.Cell { return table.Active(c.Active) }},
			{Label: "Created", Value: func(c model.Customer) table.Cell { return table.Date(c.CreatedAt) }},
		},
		Form: &FormSpec[model.Customer]{
			Fields: []FormField{
				{Name: "name", Label: "Name", Type: "text", Required: true},
				{Name: "taxId", Label: "Tax ID", Type: "text", Required: true},
				{Name: "email", Label: "Email", Type: "email"},
				{Name: "phone", Label: "Phone", Type: "text"},
				{Name: "address", Label: "Address", Type: "textarea"},
				{Name: "creditLimit", Label: "Credit limit", Type: "number", Step: "0.01", Placeholder: "0.00"},
				activeField(),
			},
			Defaults: activeDefaults(),
			Parse: func(v url.Values) (model.Customer, map[string]string) {
				errs := validation.New().
					Validate("name", v.Get("name"), validation.Required("Name", maxNameLen)).
					Validate("taxId", v.Get("taxId"), validation.Required("Tax ID", maxTaxIDLen)).
					Validate("email", v.Get("email"), validation.Optional("Email", maxEmailLen), validation.Email("Email")).
					Validate("phone", v.Get("phone"), validation.Optional("Phone", maxPhoneLen)).
					Validate("address", v.Get("address"), validation.Optional("Address", maxAddressLen)).
					Validate("creditLimit", v.Get("creditLimit"), validation.Decimal("Credit limit", amountScale)).
					Errors()
				return model.Customer{
					Name:        formValue(v, "name"),
					TaxID:       formValue(v, "taxId"),
					Email:       formValue(v, "email"),
					Phone:       formValue(v, "phone"),
					Address:     formValue(v, "address"),
					CreditLimit: formValue(v, "creditLimit"),
					Active:      formBool(v, "active"),
				}, errs
			},
			Values: func(c model.Customer) url.Values {
				return url.Values{
					"name":        {c.Name},
					"taxId":       {c.TaxID},
					"email":       {c.Email},
					"phone":       {c.Phone},
					"address":     {c.Address},
					"creditLimit": {c.CreditLimit},
					"active":      {boolValue(c.Active)},
				}
			},
		},
	}
}

// BankAccountUI builds the bank accounts screens. Balance is shown but
// maintained by the backend.
func BankAccountUI(source ListSource[model.BankAccount], store RecordStore[model.BankAccount]) *ResourceUI[model.BankAccount] {
	return &ResourceUI[model.BankAccount]{
		Meta:   model.BankAccounts,
		Source: source,
		Store:  store,
		ID:     func(a model.BankAccount) string { return a.ID },
		Columns: []table.Column[model.BankAccount]{
			{Label: "Bank", Value: func(a model.BankAccount) table.Cell { return table.Text(a.BankName) }},
			{Label: "Account name", Value: func(a model.BankAccount) table.Cell { return table.Truncated(a.AccountName, 60) }},
			{Label: "Account number", Value: func(a model.BankAccount) table.Cell { return table.Text(a.AccountNumber) }},
			{Label: "Currency", Value: func(a model.BankAccount) table.Cell { return table.Text(a.Currency) }},
			{Label: "Balance", Value: func(a model.BankAccount) table.Cell { return table.Number(a.Balance) }},
			{Label: "Status", Value: func(a model.BankAccount) table.Cell { return table.Active(a.Active) }},
		},
		Form: &FormSpec[model.BankAccount]{
			Fields: []FormField{
				{Name: "bankName", Label: "Bank", Type: "text", Required: true},
				{Name: "accountName", Label: "Account name", Type: "text", Required: true},
				{Name: "accountNumber", Label: "Account number", Type: "text", Required: true, Help: "IBAN or local account number."},
				{Name: "currency", Label: "Currency", Type: "text", Required: true, Placeholder: "USD"},
				activeField(),
			},
			Defaults: url.Values{"active": {"true"}, "currency": {"USD"}},
			Parse: func(v url.Values) (model.BankAccount, map[string]string) {
				errs := validation.New().
					Validate("bankName", v.Get("bankName"), validation.Required("Bank", maxNameLen)).
					Validate("accountName", v.Get("accountName"), validation.Required("Account name", maxNameLen)).
					Validate("accountNumber", v.Get("accountNumber"), validation.AccountNumber("Account number")).
					Validate("currency", v.Get("currency"), validation.Currency("Currency")).
					Errors()
				return model.BankAccount{
					BankName:      formValue(v, "bankName"),
					AccountName:   formValue(v, "accountName"),
					AccountNumber: formValue(v, "accountNumber"),
					Currency:      formValue(v, "currency"),
					Active:        formBool(v, "active"),
				}, errs
			},
			Values: func(a model.BankAccount) url.Values {
				return url.Values{
					"bankName":      {a.BankName},
					"accountName":   {a.AccountName},
					"accountNumber": {a.AccountNumber},
					"currency":      {a.Currency},
					"active":        {boolValue(a.Active)},
				}
			},
		},
	}
}

// CostCenterUI builds the cost centers screens.
func CostCenterUI(source ListSource[model.CostCenter], store RecordStore[model.CostCenter]) *ResourceUI[model.CostCenter] {
	return &ResourceUI[model.CostCenter]{
		Meta:   model.CostCenters,
		Source: source,
		Store:  store,
		ID:     func(c model.CostCenter) string { return c.ID },
		Columns: []table.Column[model.CostCenter]{
			{Label: "Code", Value: func(c model.CostCenter) table.Cell { return table.Text(c.Code) }},
			{Label: "Name", Value: func(c model.CostCenter) table.Cell { return table.Truncated(c.Name, 60) }},
			{Label: "Description", Value: func(c model.CostCenter) table.Cell { return table.Truncated(c.Description, 80) }},
			{Label: "Status", Value: func(c model.CostCenter) table.Cell { return table.Active(c.Active) }},
		},
		Form: &FormSpec[model.CostCenter]{
			Fields: []FormField{
				{Name: "code", Label: "Code", Type: "text", Required: true, Placeholder: "CC-100"},
				{Name: "name", Label: "Name", Type: "text", Required: true},
				{Name: "description", Label: "Description", Type: "textarea"},
				activeField(),
			},
			Defaults: activeDefaults(),
			Parse: func(v url.Values) (model.CostCenter, map[string]string) {
				errs := validation.New().
					Validate("code", v.Get("code"), validation.RequiredRange("Code", 2, maxCodeLen)).
					Validate("name", v.Get("name"), validation.Required("Name", maxNameLen)).
					Validate("description", v.Get("description"), validation.Optional("Description", maxDescriptionLen)).
					Errors()
				return model.CostCenter{
					Code:        formValue(v, "code"),
					Name:        formValue(v, "name"),
					Description: formValue(v, "description"),
					Active:      formBool(v, "active"),
				}, errs
			},
			Values: func(c model.CostCenter) url.Values {
				return url.Values{
					"code":        {c.Code},
					"name":        {c.Name},
					"description": {c.Description},
					"active":      {boolValue(c.Active)},
				}
			},
		},
	}
}

// TaxRateUI builds the tax rates screens.
func TaxRateUI(source ListSource[model.TaxRate], store RecordStore[model.TaxRate]) *ResourceUI[model.TaxRate] {
	return &ResourceUI[model.TaxRate]{
		Meta:   model.TaxRates,
		Source: source,
		Store:  store,
		ID:     func(t model.TaxRate) string { return t.ID },
		Columns: []table.Column[model.TaxRate]{
			{Label: "Name", Value: func(t model.TaxRate) table.Cell { return table.Text(t.Name) }},
			{Label: "Rate (%)", Value: func(t model.TaxRate) table.Cell { return table.Number(t.Rate) }},
			{Label: "Description", Value: func(t model.TaxRate) table.Cell { return table.Truncated(t.Description, 80) }},
			{Label: "Status", Value: func(t model.TaxRate) table.Cell { return table.Active(t.Active) }},
		},
		Form: &FormSpec[model.TaxRate]{
			Fields: []FormField{
				{Name: "name", Label: "Name", Type: "text", Required: true},
				{Name: "rate", Label: "Rate (%)", Type: "number", Step: "0.0001", Required: true},
				{Name: "description", Label: "Description", Type: "textarea"},
				activeField(),
			},
			Defaults: activeDefaults(),
			Parse: func(v url.Values) (model.TaxRate, map[string]string) {
				errs := validation.New().
					Validate("name", v.Get("name"), validation.Required("Name", maxNameLen)).
					Validate("rate", v.Get("rate"), validation.Percentage("Rate"), validation.Decimal("Rate", rateScale)).
					Validate("description", v.Get("description"), validation.Optional("Description", maxDescriptionLen)).
					Errors()
				return model.TaxRate{
					Name:        formValue(v, "name"),
					Rate:        formValue(v, "rate"),
					Description: formValue(v, "description"),
					Active:      formBool(v, "active"),
				}, errs
			},
			Values: func(t model.TaxRate) url.Values {
				return url.Values{
					"name":        {t.Name},
					"rate":        {t.Rate},
					"description": {t.Description},
					"active":      {boolValue(t.Active)},
				}
			},
		},
	}
}

// PaymentTermUI builds the payment terms screens.
func PaymentTermUI(source ListSource[model.PaymentTerm], store RecordStore[model.PaymentTerm]) *ResourceUI[model.PaymentTerm] {
	return &ResourceUI[model.PaymentTerm]{
		Meta:   model.PaymentTerms,
		Source: source,
		Store:  store,
		ID:     func(p model.PaymentTerm) string { return p.ID },
		Columns: []table.Column[model.PaymentTerm]{
			{Label: "Name", Value: func(p model.PaymentTerm) table.Cell { return table.Text(p.Name) }},
			{Label: "Days", Value: func(p model.PaymentTerm) table.Cell { return table.Number(strconv.Itoa(p.Days)) }},
			{Label: "Description", Value: func(p model.PaymentTerm) table.Cell { return table.Truncated(p.Description, 80) }},
			{Label: "Status", Value: func(p model.PaymentTerm) table.Cell { return table.Active(p.Active) }},
		},
		Form: &FormSpec[model.PaymentTerm]{
			Fields: []FormField{
				{Name: "name", Label: "Name", Type: "text", Required: true, Placeholder: "Net 30"},
				{Name: "days", Label: "Days", Type: "number", Step: "1", Required: true},
				{Name: "description", Label: "Description", Type: "textarea"},
				activeField(),
			},
			Defaults: url.Values{"active": {"true"}, "days": {"30"}},
			Parse: func(v url.Values) (model.PaymentTerm, map[string]string) {
				errs := validation.New().
					Validate("name", v.Get("name"), validation.Required("Name", maxNameLen)).
					Validate("days", v.Get("days"), validation.IntRange("Days", 0, maxTermDays)).
					Validate("description", v.Get("description"), validation.Optional("Description", maxDescriptionLen)).
					Errors()
				days, _ := strconv.Atoi(formValue(v, "days"))
				return model.PaymentTerm{
					Name:        formValue(v, "name"),
					Days:        days,
					Description: formValue(v, "description"),
					Active:      formBool(v, "active"),
				}, errs
			},
			Values: func(p model.PaymentTerm) url.Values {
				return url.Values{
					"name":        {p.Name},
					"days":        {strconv.Itoa(p.Days)},
					"description": {p.Description},
					"active":      {boolValue(p.Active)},
				}
			},
		},
	}
}

// ReceivableUI builds the read-only accounts receivable list.
func ReceivableUI(source ListSource[model.Receivable]) *ResourceUI[model.Receivable] {
	return &ResourceUI[model.Receivable]{
		Meta:   model.AccountsReceivable,
		Source: source,
		ID:     func(r model.Receivable) string { return r.ID },
		Columns: []table.Column[model.Receivable]{
			{Label: "Invoice", Value: func(r model.Receivable) table.Cell { return table.Text(r.InvoiceNumber) }},
			{Label: "Customer", Value: func(r model.Receivable) table.Cell { return table.Truncated(r.CustomerName, 60) }},
			{Label: "Issued", Value: func(r model.Receivable) table.Cell { return table.Date(r.IssuedAt) }},
			{Label: "Due", Value: func(r model.Receivable) table.Cell { return table.Date(r.DueDate) }},
			{Label: "Amount", Value: func(r model.Receivable) table.Cell { return table.Number(r.Amount) }},
			{Label: "Balance", Value: func(r model.Receivable) table.Cell { return table.Number(r.Balance) }},
			{Label: "Currency", Value: func(r model.Receivable) table.Cell { return table.Text(r.Currency) }},
			{Label: "Status", Value: func(r model.Receivable) table.Cell { return table.Badge(string(r.Status)) }},
		},
	}
}

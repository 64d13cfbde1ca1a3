package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice type constants. Quotations skip payment-mode validation and the
// post-persist side-effect chain (commission excepted).
const (
	InvoiceTypeInvoice   = "invoice"
	InvoiceTypeQuotation = "quotation"
)

// DraftInvoice is an in-progress, not-yet-persisted invoice or quotation.
// Line items are kept in insertion order; that order is both the display and
// the submission order. The company reference is immutable once a line item
// exists; changing it resets the items and every company-dependent field.
type DraftInvoice struct {
	ID              string      `json:"id"`
	CompanyID       string      `json:"company_id"`
	InvoiceType     string      `json:"invoice_type"`
	Items           []*LineItem `json:"items"`
	ModeOfPayment   string      `json:"mode_of_payment"`
	DeliveryAddress string      `json:"delivery_address"`
	Reference       string      `json:"reference"`
	Description     string      `json:"description"`
	SendTo          []string    `json:"send_to"`
	AssignedTo      string      `json:"assigned_to"`
	ServiceID       string      `json:"service_id,omitempty"`

	// Set once the draft has been persisted upstream; a later submit becomes
	// an update instead of a create.
	PersistedID   string `json:"persisted_id,omitempty"`
	InvoiceNumber int64  `json:"invoice_number,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Totals are the derived amounts of a draft. Tax is defined for forward
// compatibility and is currently always zero.
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// ComputeTotals derives the totals from the current line items. Pure; called
// on every mutation so the result is never stale.
func (d *DraftInvoice) ComputeTotals() Totals {
	subtotal := decimal.Zero
	for _, item := range d.Items {
		subtotal = subtotal.Add(item.TotalAmount)
	}
	tax := decimal.Zero
	return Totals{
		Subtotal:   subtotal,
		Tax:        tax,
		GrandTotal: subtotal.Add(tax),
	}
}

// IsQuotation reports whether the draft is a quotation rather than an
// invoice.
func (d *DraftInvoice) IsQuotation() bool {
	return d.InvoiceType == InvoiceTypeQuotation
}

// InvoiceRecord is the persisted invoice as echoed back by the ERP backend
// after a create or update. InvoiceNumber is server-assigned and sequential
// for non-quotations.
type InvoiceRecord struct {
	ID            string           `json:"_id"`
	InvoiceNumber int64            `json:"invoiceNumber"`
	CompanyID     string           `json:"companyId"`
	Products      []InvoiceProduct `json:"products"`
	Subtotal      decimal.Decimal  `json:"subtotal"`
	Tax           decimal.Decimal  `json:"tax"`
	GrandTotal    decimal.Decimal  `json:"grandTotal"`
	InvoiceType   string           `json:"invoiceType"`
}

// InvoiceProduct is a server-echoed invoice line. CommissionPercent is only
// populated when the backend joins catalog data in; commission computation
// treats a missing percent as zero.
type InvoiceProduct struct {
	ProductID         string          `json:"productId"`
	ProductName       string          `json:"productName"`
	Quantity          int64           `json:"quantity"`
	Rate              decimal.Decimal `json:"rate"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	CommissionPercent decimal.Decimal `json:"commissionPercent"`
}

// CommissionTotal sums lineTotal x commissionPercent/100 over the echoed
// products. Lines without a commission percent contribute nothing.
func (r *InvoiceRecord) CommissionTotal() decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	total := decimal.Zero
	for _, p := range r.Products {
		if p.CommissionPercent.IsZero() {
			continue
		}
		total = total.Add(p.TotalAmount.Mul(p.CommissionPercent).Div(hundred))
	}
	return total
}

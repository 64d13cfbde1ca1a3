package port

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ArulKumar8270/corpculture-invoicing/internal/domain/entity"
)

// ReferenceDataProvider supplies companies, company-scoped product catalogs,
// contact persons and delivery addresses from the ERP backend. Read-only.
type ReferenceDataProvider interface {
	ListCompanies(ctx context.Context) ([]*entity.Company, error)
	GetCompany(ctx context.Context, companyID string) (*entity.Company, error)
	ListProductsByCompany(ctx context.Context, companyID string) ([]*entity.CatalogProduct, error)
}

// InvoicePayload is the wire body for create/update of a draft invoice.
type InvoicePayload struct {
	InvoiceNumber   int64            `json:"invoiceNumber,omitempty"`
	CompanyID       string           `json:"companyId"`
	Products        []PayloadProduct `json:"products"`
	ModeOfPayment   string           `json:"modeOfPayment"`
	DeliveryAddress string           `json:"deliveryAddress"`
	Reference       string           `json:"reference"`
	Description     string           `json:"description"`
	Subtotal        decimal.Decimal  `json:"subtotal"`
	Tax             decimal.Decimal  `json:"tax"`
	GrandTotal      decimal.Decimal  `json:"grandTotal"`
	SendTo          []string         `json:"sendTo"`
	AssignedTo      string           `json:"assignedTo"`
	InvoiceType     string           `json:"invoiceType"`
	ServiceID       string           `json:"serviceId,omitempty"`
}

// PayloadProduct is one line of the wire body.
type PayloadProduct struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int64           `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// InvoiceGateway persists draft invoices against the ERP backend. Both calls
// return the server-echoed record, including the server-assigned sequential
// invoice number on creation of a non-quotation.
type InvoiceGateway interface {
	Create(ctx context.Context, payload *InvoicePayload) (*entity.InvoiceRecord, error)
	Update(ctx context.Context, invoiceID string, payload *InvoicePayload) (*entity.InvoiceRecord, error)
}

// BenefitEntry is one employee-benefit record written for a qualifying line.
type BenefitEntry struct {
	ProductName string `json:"productName"`
	Quantity    int64  `json:"quantity"`
	InvoiceID   string `json:"invoiceId"`
	Rework      bool   `json:"rework"`
	Note        string `json:"note,omitempty"`
}

// SideEffectGateway covers the independent best-effort endpoints hit after a
// successful persist. Every call is wrapped individually by the coordinator;
// a failure is reported as a warning and never rolls back the persist.
type SideEffectGateway interface {
	IncrementInvoiceCounter(ctx context.Context, invoiceCount int64) error
	RecordEmployeeBenefit(ctx context.Context, entry *BenefitEntry) error
	UpdateMaterial(ctx context.Context, productName string, quantity int64) error
	RecordCommission(ctx context.Context, invoiceID string, amount decimal.Decimal) error
	CompleteService(ctx context.Context, serviceID string) error
}

package erp

import (
	"context"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/ArulKumar8270/corpculture-invoicing/internal/application/port"
	"github.com/ArulKumar8270/corpculture-invoicing/internal/domain/entity"
)

// invoiceEnvelope is the backend's persist response. On success the echoed
// record is in serviceInvoice; on rejection success is false and message
// carries the reason.
type invoiceEnvelope struct {
	Success        bool                  `json:"success"`
	ServiceInvoice *entity.InvoiceRecord `json:"serviceInvoice"`
	Message        string                `json:"message,omitempty"`
}

// InvoiceAPI implements port.InvoiceGateway against the ERP backend. Every
// failure is reported as *entity.PersistenceError so the coordinator can
// treat transport and server rejection uniformly.
type InvoiceAPI struct {
	client *Client
	logger *zap.Logger
}

// NewInvoiceAPI creates a new invoice persistence adapter
func NewInvoiceAPI(client *Client, logger *zap.Logger) *InvoiceAPI {
	return &InvoiceAPI{client: client, logger: logger}
}

// Create persists a new invoice and returns the server-echoed record with the
// assigned id and sequential invoice number.
func (a *InvoiceAPI) Create(ctx context.Context, payload *port.InvoicePayload) (*entity.InvoiceRecord, error) {
	return a.persist(ctx, http.MethodPost, "/service-invoice/create", payload)
}

// Update overwrites an already-persisted invoice.
func (a *InvoiceAPI) Update(ctx context.Context, invoiceID string, payload *port.InvoicePayload) (*entity.InvoiceRecord, error) {
	return a.persist(ctx, http.MethodPut, "/service-invoice/update/"+url.PathEscape(invoiceID), payload)
}

func (a *InvoiceAPI) persist(ctx context.Context, method, path string, payload *port.InvoicePayload) (*entity.InvoiceRecord, error) {
	var resp invoiceEnvelope
	if err := a.client.doJSON(ctx, method, path, payload, &resp); err != nil {
		if apiErr, ok := err.(*apiError); ok && apiErr.Message != "" {
			return nil, &entity.PersistenceError{Message: apiErr.Message, Cause: apiErr}
		}
		return nil, &entity.PersistenceError{Cause: err}
	}
	if !resp.Success {
		a.logger.Warn("Invoice persist rejected",
			zap.String("path", path),
			zap.String("message", resp.Message))
		return nil, &entity.PersistenceError{Message: resp.Message}
	}
	if resp.ServiceInvoice == nil {
		return nil, &entity.PersistenceError{Message: "backend returned no invoice record"}
	}
	return resp.ServiceInvoice, nil
}

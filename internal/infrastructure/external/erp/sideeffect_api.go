package erp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ArulKumar8270/corpculture-invoicing/internal/application/port"
)

// SideEffectAPI implements port.SideEffectGateway. Each method maps onto one
// independent backend endpoint; the coordinator decides what a failure means.
type SideEffectAPI struct {
	client *Client
	logger *zap.Logger
}

// NewSideEffectAPI creates a new side-effect adapter
func NewSideEffectAPI(client *Client, logger *zap.Logger) *SideEffectAPI {
	return &SideEffectAPI{client: client, logger: logger}
}

// IncrementInvoiceCounter advances the shared sequential invoice counter.
func (a *SideEffectAPI) IncrementInvoiceCounter(ctx context.Context, invoiceCount int64) error {
	body := map[string]int64{"invoiceCount": invoiceCount}
	if err := a.client.doJSON(ctx, http.MethodPut, "/common-details/increment-invoice", body, nil); err != nil {
		return fmt.Errorf("failed to increment invoice counter: %w", err)
	}
	return nil
}

// RecordEmployeeBenefit writes one benefit entry for a qualifying line.
func (a *SideEffectAPI) RecordEmployeeBenefit(ctx context.Context, entry *port.BenefitEntry) error {
	if err := a.client.doJSON(ctx, http.MethodPost, "/employee-benefits", entry, nil); err != nil {
		return fmt.Errorf("failed to record employee benefit: %w", err)
	}
	return nil
}

// UpdateMaterial adjusts the material stock of one product by name.
func (a *SideEffectAPI) UpdateMaterial(ctx context.Context, productName string, quantity int64) error {
	body := map[string]int64{"quantity": quantity}
	path := "/materials/updateMaterial/" + url.PathEscape(productName)
	if err := a.client.doJSON(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("failed to update material: %w", err)
	}
	return nil
}

// RecordCommission writes one commission record for the persisted invoice.
func (a *SideEffectAPI) RecordCommission(ctx context.Context, invoiceID string, amount decimal.Decimal) error {
	body := map[string]interface{}{
		"invoiceId": invoiceID,
		"amount":    amount,
	}
	if err := a.client.doJSON(ctx, http.MethodPost, "/commissions", body, nil); err != nil {
		return fmt.Errorf("failed to record commission: %w", err)
	}
	return nil
}

// CompleteService marks the linked service ticket as completed.
func (a *SideEffectAPI) CompleteService(ctx context.Context, serviceID string) error {
	body := map[string]string{"status": "Completed"}
	path := "/service/update/" + url.PathEscape(serviceID)
	if err := a.client.doJSON(ctx, http.MethodPut, path, body, nil); err != nil {
		return fmt.Errorf("failed to complete service: %w", err)
	}
	a.logger.Info("Service marked completed", zap.String("service_id", serviceID))
	return nil
}

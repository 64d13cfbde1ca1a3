package erp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/ArulKumar8270/corpculture-invoicing/internal/domain/entity"
)

// ReferenceAPI implements port.ReferenceDataProvider against the ERP backend.
type ReferenceAPI struct {
	client *Client
	logger *zap.Logger
}

// NewReferenceAPI creates a new reference data adapter
func NewReferenceAPI(client *Client, logger *zap.Logger) *ReferenceAPI {
	return &ReferenceAPI{client: client, logger: logger}
}

// ListCompanies retrieves all companies with their delivery addresses and
// contact persons.
func (a *ReferenceAPI) ListCompanies(ctx context.Context) ([]*entity.Company, error) {
	var resp struct {
		Success   bool              `json:"success"`
		Companies []*entity.Company `json:"companies"`
		Message   string            `json:"message,omitempty"`
	}
	if err := a.client.doJSON(ctx, http.MethodGet, "/company/all", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("company list rejected: %s", resp.Message)
	}
	return resp.Companies, nil
}

// GetCompany retrieves a single company by id. A 404 maps to (nil, nil) so
// callers can report a validation failure instead of a transport one.
func (a *ReferenceAPI) GetCompany(ctx context.Context, companyID string) (*entity.Company, error) {
	var resp struct {
		Success bool            `json:"success"`
		Company *entity.Company `json:"company"`
		Message string          `json:"message,omitempty"`
	}
	err := a.client.doJSON(ctx, http.MethodGet, "/company/get/"+url.PathEscape(companyID), nil, &resp)
	if err != nil {
		if apiErr, ok := err.(*apiError); ok && apiErr.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	if !resp.Success {
		return nil, nil
	}
	return resp.Company, nil
}

// ListProductsByCompany retrieves the catalog entries of one company.
func (a *ReferenceAPI) ListProductsByCompany(ctx context.Context, companyID string) ([]*entity.CatalogProduct, error) {
	var resp struct {
		Success  bool                     `json:"success"`
		Products []*entity.CatalogProduct `json:"serviceProduct"`
		Message  string                   `json:"message,omitempty"`
	}
	path := "/service-products/getServiceProductsByCompany/" + url.PathEscape(companyID)
	if err := a.client.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("product list rejected: %s", resp.Message)
	}
	a.logger.Debug("Fetched company catalog",
		zap.String("company_id", companyID),
		zap.Int("count", len(resp.Products)))
	return resp.Products, nil
}

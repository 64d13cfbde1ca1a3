package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ArulKumar8270/corpculture-invoicing/internal/application/dispatcher"
	"github.com/ArulKumar8270/corpculture-invoicing/internal/application/port"
	"github.com/ArulKumar8270/corpculture-invoicing/internal/domain/entity"
	"github.com/ArulKumar8270/corpculture-invoicing/internal/domain/event"
	"github.com/ArulKumar8270/corpculture-invoicing/pkg/utils"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// AddLineItemRequest carries the pending-selection fields from the add form.
// A nil Rate falls back to the catalog rate of the selected product.
type AddLineItemRequest struct {
	ProductID        string
	Quantity         int64
	Rate             *decimal.Decimal
	ReworkRequested  bool
	OtherProductNote string
	BenefitQuantity  int64
}

// DraftDetails carries optional field updates for a draft. Nil pointers leave
// the field unchanged; the delivery address arrives as the structured
// address+pincode pair and is flattened at selection time.
type DraftDetails struct {
	ModeOfPayment   *string
	DeliveryAddress *entity.DeliveryAddress
	Reference       *string
	Description     *string
	SendTo          []string
	AssignedTo      *string
}

// DraftService maintains draft invoices: the ordered line item list, the
// company-dependent fields and the derived totals.
type DraftService interface {
	CreateDraft(ctx context.Context, companyID, invoiceType, serviceID string) (*entity.DraftInvoice, error)
	GetDraft(ctx context.Context, id string) (*entity.DraftInvoice, error)
	ListDrafts(ctx context.Context, limit, offset int) ([]*entity.DraftInvoice, error)
	DeleteDraft(ctx context.Context, id string) error
	SetCompany(ctx context.Context, draftID, companyID string) (*entity.DraftInvoice, error)
	UpdateDetails(ctx context.Context, draftID string, details DraftDetails) (*entity.DraftInvoice, error)
	AddLineItem(ctx context.Context, draftID string, req AddLineItemRequest) (*entity.LineItem, error)
	RemoveLineItem(ctx context.Context, draftID, lineItemID string) error
	ComputeTotals(ctx context.Context, draftID string) (entity.Totals, error)
}

type draftServiceImpl struct {
	draftRepo  port.DraftRepository
	refData    port.ReferenceDataProvider
	catalogs   *catalogCache
	dispatcher dispatcher.Dispatcher
	logger     Logger
}

// NewDraftService creates a new DraftService
func NewDraftService(
	draftRepo port.DraftRepository,
	refData port.ReferenceDataProvider,
	eventDispatcher dispatcher.Dispatcher,
	logger Logger,
) DraftService {
	return &draftServiceImpl{
		draftRepo:  draftRepo,
		refData:    refData,
		catalogs:   newCatalogCache(refData),
		dispatcher: eventDispatcher,
		logger:     logger,
	}
}

// CreateDraft starts a new draft invoice or quotation for a company.
func (s *draftServiceImpl) CreateDraft(ctx context.Context, companyID, invoiceType, serviceID string) (*entity.DraftInvoice, error) {
	if companyID == "" {
		return nil, entity.NewValidationError("companyId", "company is required")
	}
	switch invoiceType {
	case "":
		invoiceType = entity.InvoiceTypeInvoice
	case entity.InvoiceTypeInvoice, entity.InvoiceTypeQuotation:
	default:
		return nil, entity.NewValidationError("invoiceType", fmt.Sprintf("unknown invoice type %q", invoiceType))
	}

	company, err := s.refData.GetCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("fetch company: %w", err)
	}
	if company == nil {
		return nil, entity.NewValidationError("companyId", "company not found")
	}

	now := time.Now()
	draft := &entity.DraftInvoice{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		InvoiceType: invoiceType,
		Items:       []*entity.LineItem{},
		SendTo:      []string{},
		ServiceID:   serviceID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.draftRepo.Create(ctx, draft); err != nil {
		return nil, fmt.Errorf("create draft: %w", err)
	}

	s.logger.Info("Draft created",
		"draft_id", draft.ID,
		"company_id", companyID,
		"invoice_type", invoiceType)

	s.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeDraftCreated, draft.ID, map[string]interface{}{
		"company_id":   companyID,
		"invoice_type": invoiceType,
	}))

	return draft, nil
}

// GetDraft retrieves a draft by ID
func (s *draftServiceImpl) GetDraft(ctx context.Context, id string) (*entity.DraftInvoice, error) {
	return s.draftRepo.GetByID(ctx, id)
}

// ListDrafts retrieves drafts ordered by last update
func (s *draftServiceImpl) ListDrafts(ctx context.Context, limit, offset int) ([]*entity.DraftInvoice, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.draftRepo.List(ctx, limit, offset)
}

// DeleteDraft removes a draft permanently (full form reset).
func (s *draftServiceImpl) DeleteDraft(ctx context.Context, id string) error {
	return s.draftRepo.Delete(ctx, id)
}

// SetCompany switches the draft to another company. The company reference is
// immutable once line items exist, so a change resets the items and every
// field that depends on the company's reference data.
func (s *draftServiceImpl) SetCompany(ctx context.Context, draftID, companyID string) (*entity.DraftInvoice, error) {
	if companyID == "" {
		return nil, entity.NewValidationError("companyId", "company is required")
	}

	draft, err := s.draftRepo.GetByID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.CompanyID == companyID {
		return draft, nil
	}

	company, err := s.refData.GetCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("fetch company: %w", err)
	}
	if company == nil {
		return nil, entity.NewValidationError("companyId", "company not found")
	}

	hadItems := len(draft.Items) > 0
	draft.CompanyID = companyID
	draft.Items = []*entity.LineItem{}
	draft.SendTo = []string{}
	draft.DeliveryAddress = ""
	draft.ModeOfPayment = ""
	draft.UpdatedAt = time.Now()

	if err := s.draftRepo.Update(ctx, draft); err != nil {
		return nil, fmt.Errorf("update draft: %w", err)
	}

	if hadItems {
		s.logger.Info("Company changed, draft reset",
			"draft_id", draft.ID,
			"company_id", companyID)
		s.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeDraftReset, draft.ID, map[string]interface{}{
			"company_id": companyID,
		}))
	}

	return draft, nil
}

// UpdateDetails applies the non-line-item form fields to the draft.
func (s *draftServiceImpl) UpdateDetails(ctx context.Context, draftID string, details DraftDetails) (*entity.DraftInvoice, error) {
	draft, err := s.draftRepo.GetByID(ctx, draftID)
	if err != nil {
		return nil, err
	}

	if details.ModeOfPayment != nil {
		draft.ModeOfPayment = *details.ModeOfPayment
	}
	if details.DeliveryAddress != nil {
		if err := utils.ValidatePincode(details.DeliveryAddress.Pincode); err != nil {
			return nil, entity.NewValidationError("pincode", err.Error())
		}
		draft.DeliveryAddress = details.DeliveryAddress.Flatten()
	}
	if details.Reference != nil {
		draft.Reference = *details.Reference
	}
	if details.Description != nil {
		draft.Description = *details.Description
	}
	if details.SendTo != nil {
		draft.SendTo = details.SendTo
	}
	if details.AssignedTo != nil {
		draft.AssignedTo = *details.AssignedTo
	}
	draft.UpdatedAt = time.Now()

	if err := s.draftRepo.Update(ctx, draft); err != nil {
		return nil, fmt.Errorf("update draft: %w", err)
	}
	return draft, nil
}

// AddLineItem validates the pending selection against the company catalog and
// appends a new line item. The display name is resolved here, once; the
// stored string is what every later read uses.
func (s *draftServiceImpl) AddLineItem(ctx context.Context, draftID string, req AddLineItemRequest) (*entity.LineItem, error) {
	if req.ProductID == "" {
		return nil, entity.NewValidationError("productId", "product is required")
	}
	if req.Quantity <= 0 {
		return nil, entity.NewValidationError("quantity", "quantity must be positive")
	}
	if req.ReworkRequested && req.OtherProductNote != "" {
		return nil, entity.NewValidationError("otherProductNote", "rework and other-product note are mutually exclusive")
	}
	if req.BenefitQuantity < 0 {
		return nil, entity.NewValidationError("benefitQuantity", "benefit quantity cannot be negative")
	}

	draft, err := s.draftRepo.GetByID(ctx, draftID)
	if err != nil {
		return nil, err
	}

	catalog, err := s.catalogs.Get(ctx, draft.CompanyID)
	if err != nil {
		return nil, err
	}
	product, ok := catalog[req.ProductID]
	if !ok {
		return nil, entity.NewValidationError("productId", "no matching product in the company catalog")
	}

	rate := product.Rate
	if req.Rate != nil {
		if req.Rate.IsNegative() {
			return nil, entity.NewValidationError("rate", "rate cannot be negative")
		}
		rate = *req.Rate
	}

	item := entity.NewLineItem(product, req.Quantity, rate, entity.LineItemOptions{
		ReworkRequested:  req.ReworkRequested,
		OtherProductNote: req.OtherProductNote,
		BenefitQuantity:  req.BenefitQuantity,
	})
	draft.Items = append(draft.Items, item)
	draft.UpdatedAt = time.Now()

	if err := s.draftRepo.Update(ctx, draft); err != nil {
		return nil, fmt.Errorf("update draft: %w", err)
	}

	s.logger.Info("Line item added",
		"draft_id", draft.ID,
		"line_item_id", item.ID,
		"product_name", item.ProductName,
		"quantity", item.Quantity)

	s.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeLineItemAdded, draft.ID, map[string]interface{}{
		"line_item_id": item.ID,
		"product_name": item.ProductName,
	}))

	return item, nil
}

// RemoveLineItem removes a line item by ID. An unknown ID is reported but
// leaves the draft unchanged.
func (s *draftServiceImpl) RemoveLineItem(ctx context.Context, draftID, lineItemID string) error {
	draft, err := s.draftRepo.GetByID(ctx, draftID)
	if err != nil {
		return err
	}

	idx := -1
	for i, item := range draft.Items {
		if item.ID == lineItemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return entity.ErrLineItemNotFound
	}

	draft.Items = append(draft.Items[:idx], draft.Items[idx+1:]...)
	draft.UpdatedAt = time.Now()

	if err := s.draftRepo.Update(ctx, draft); err != nil {
		return fmt.Errorf("update draft: %w", err)
	}

	s.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeLineItemRemoved, draft.ID, map[string]interface{}{
		"line_item_id": lineItemID,
	}))

	return nil
}

// ComputeTotals derives the totals of the current line item list.
func (s *draftServiceImpl) ComputeTotals(ctx context.Context, draftID string) (entity.Totals, error) {
	draft, err := s.draftRepo.GetByID(ctx, draftID)
	if err != nil {
		return entity.Totals{}, err
	}
	return draft.ComputeTotals(), nil
}

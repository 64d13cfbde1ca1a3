package http

import (
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ArulKumar8270/corpculture-invoicing/internal/application/port"
	"github.com/ArulKumar8270/corpculture-invoicing/internal/application/service"
	"github.com/ArulKumar8270/corpculture-invoicing/internal/domain/entity"
	"github.com/ArulKumar8270/corpculture-invoicing/internal/export"
	"github.com/ArulKumar8270/corpculture-invoicing/pkg/utils"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	draftService      service.DraftService
	submissionService service.SubmissionService
	refData           port.ReferenceDataProvider
	exporter          *export.Exporter
	logger            Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	draftService service.DraftService,
	submissionService service.SubmissionService,
	refData port.ReferenceDataProvider,
	exporter *export.Exporter,
	logger Logger,
) *Handlers {
	return &Handlers{
		draftService:      draftService,
		submissionService: submissionService,
		refData:           refData,
		exporter:          exporter,
		logger:            logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// CreateDraftRequest represents the body of POST /api/drafts
type CreateDraftRequest struct {
	CompanyID   string `json:"companyId" binding:"required"`
	InvoiceType string `json:"invoiceType"`
	ServiceID   string `json:"serviceId"`
}

// SetCompanyRequest represents the body of PUT /api/drafts/:id/company
type SetCompanyRequest struct {
	CompanyID string `json:"companyId" binding:"required"`
}

// UpdateDetailsRequest represents the body of PUT /api/drafts/:id.
// Absent fields are left unchanged.
type UpdateDetailsRequest struct {
	ModeOfPayment   *string                 `json:"modeOfPayment"`
	DeliveryAddress *entity.DeliveryAddress `json:"deliveryAddress"`
	Reference       *string                 `json:"reference"`
	Description     *string                 `json:"description"`
	SendTo          []string                `json:"sendTo"`
	AssignedTo      *string                 `json:"assignedTo"`
}

// AddLineItemRequest represents the body of POST /api/drafts/:id/items
type AddLineItemRequest struct {
	ProductID        string           `json:"productId" binding:"required"`
	Quantity         int64            `json:"quantity"`
	Rate             *decimal.Decimal `json:"rate"`
	ReworkRequested  bool             `json:"reworkRequested"`
	OtherProductNote string           `json:"otherProductNote"`
	BenefitQuantity  int64            `json:"benefitQuantity"`
}

// ListDraftsRequest represents query parameters for listing drafts
type ListDraftsRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// writeError maps domain failures onto HTTP statuses.
func (h *Handlers) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, Response{Success: false, Error: err.Error()})
	case errors.Is(err, entity.ErrDraftNotFound),
		errors.Is(err, entity.ErrLineItemNotFound),
		errors.Is(err, entity.ErrSubmissionNotFound):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: err.Error()})
	case errors.Is(err, entity.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, Response{Success: false, Error: err.Error()})
	case errors.Is(err, entity.ErrPersistence):
		c.JSON(http.StatusBadGateway, Response{Success: false, Error: err.Error()})
	default:
		h.logger.Error("Request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "internal error"})
	}
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	ok(c, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	})
}

// ListCompanies handles GET /api/companies
func (h *Handlers) ListCompanies(c *gin.Context) {
	companies, err := h.refData.ListCompanies(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, companies)
}

// GetCompany handles GET /api/companies/:id
func (h *Handlers) GetCompany(c *gin.Context) {
	company, err := h.refData.GetCompany(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if company == nil {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "company not found"})
		return
	}
	ok(c, company)
}

// ListCompanyProducts handles GET /api/companies/:id/products
func (h *Handlers) ListCompanyProducts(c *gin.Context) {
	products, err := h.refData.ListProductsByCompany(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, products)
}

// CreateDraft handles POST /api/drafts
func (h *Handlers) CreateDraft(c *gin.Context) {
	var req CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	draft, err := h.draftService.CreateDraft(c.Request.Context(), req.CompanyID, req.InvoiceType, req.ServiceID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: draft})
}

// ListDrafts handles GET /api/drafts
func (h *Handlers) ListDrafts(c *gin.Context) {
	var req ListDraftsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid query parameters"})
		return
	}

	drafts, err := h.draftService.ListDrafts(c.Request.Context(), req.Limit, req.Offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, drafts)
}

// GetDraft handles GET /api/drafts/:id
func (h *Handlers) GetDraft(c *gin.Context) {
	draft, err := h.draftService.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, draft)
}

// DeleteDraft handles DELETE /api/drafts/:id
func (h *Handlers) DeleteDraft(c *gin.Context) {
	if err := h.draftService.DeleteDraft(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, nil)
}

// UpdateDraftDetails handles PUT /api/drafts/:id
func (h *Handlers) UpdateDraftDetails(c *gin.Context) {
	var req UpdateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	for _, email := range req.SendTo {
		if err := utils.ValidateEmail(email); err != nil {
			c.JSON(http.StatusUnprocessableEntity, Response{Success: false, Error: err.Error()})
			return
		}
	}

	draft, err := h.draftService.UpdateDetails(c.Request.Context(), c.Param("id"), service.DraftDetails{
		ModeOfPayment:   req.ModeOfPayment,
		DeliveryAddress: req.DeliveryAddress,
		Reference:       req.Reference,
		Description:     req.Description,
		SendTo:          req.SendTo,
		AssignedTo:      req.AssignedTo,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, draft)
}

// SetDraftCompany handles PUT /api/drafts/:id/company
func (h *Handlers) SetDraftCompany(c *gin.Context) {
	var req SetCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	draft, err := h.draftService.SetCompany(c.Request.Context(), c.Param("id"), req.CompanyID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, draft)
}

// GetDraftTotals handles GET /api/drafts/:id/totals
func (h *Handlers) GetDraftTotals(c *gin.Context) {
	totals, err := h.draftService.ComputeTotals(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, totals)
}

// AddLineItem handles POST /api/drafts/:id/items
func (h *Handlers) AddLineItem(c *gin.Context) {
	var req AddLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	item, err := h.draftService.AddLineItem(c.Request.Context(), c.Param("id"), service.AddLineItemRequest{
		ProductID:        req.ProductID,
		Quantity:         req.Quantity,
		Rate:             req.Rate,
		ReworkRequested:  req.ReworkRequested,
		OtherProductNote: req.OtherProductNote,
		BenefitQuantity:  req.BenefitQuantity,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: item})
}

// RemoveLineItem handles DELETE /api/drafts/:id/items/:itemId
func (h *Handlers) RemoveLineItem(c *gin.Context) {
	if err := h.draftService.RemoveLineItem(c.Request.Context(), c.Param("id"), c.Param("itemId")); err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, nil)
}

// SubmitDraft handles POST /api/drafts/:id/submit
func (h *Handlers) SubmitDraft(c *gin.Context) {
	sub, err := h.submissionService.Submit(c.Request.Context(), c.Param("id"))
	if err != nil && sub == nil {
		h.writeError(c, err)
		return
	}
	if err != nil {
		// Validation or persist failure: the submission record carries the
		// failed state and message for the client to display.
		status := http.StatusUnprocessableEntity
		if errors.Is(err, entity.ErrPersistence) {
			status = http.StatusBadGateway
		}
		c.JSON(status, Response{Success: false, Data: sub, Error: err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, Response{Success: true, Data: sub})
}

// GetSubmission handles GET /api/submissions/:id
func (h *Handlers) GetSubmission(c *gin.Context) {
	sub, err := h.submissionService.GetSubmission(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, sub)
}

// GetLatestSubmission handles GET /api/drafts/:id/submission
func (h *Handlers) GetLatestSubmission(c *gin.Context) {
	sub, err := h.submissionService.GetLatestForDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, sub)
}

// ExportExcel handles GET /api/drafts/:id/export/excel
func (h *Handlers) ExportExcel(c *gin.Context) {
	draft, err := h.draftService.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	path, err := h.exporter.ExportExcel(c.Request.Context(), draft)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

// ExportPDF handles GET /api/drafts/:id/export/pdf
func (h *Handlers) ExportPDF(c *gin.Context) {
	draft, err := h.draftService.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	path, err := h.exporter.ExportPDF(c.Request.Context(), draft)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

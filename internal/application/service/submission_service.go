package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ArulKumar8270/corpculture-invoicing/internal/application/dispatcher"
	"github.com/ArulKumar8270/corpculture-invoicing/internal/application/port"
	"github.com/ArulKumar8270/corpculture-invoicing/internal/domain/entity"
	"github.com/ArulKumar8270/corpculture-invoicing/internal/domain/event"
	"github.com/ArulKumar8270/corpculture-invoicing/internal/domain/workflow"
)

// postProcessTimeout bounds the whole best-effort side-effect chain of one
// submission. The chain runs detached from the request context.
const postProcessTimeout = 30 * time.Second

// SubmissionService validates a draft, persists it upstream and runs the
// ordered best-effort side-effect chain. One submission per draft may be in
// flight at a time.
type SubmissionService interface {
	// Submit runs validation and the authoritative persist synchronously and
	// returns as soon as the persist succeeds; post-processing continues in
	// the background. The returned Submission reflects the state at return
	// time (POST_PROCESSING on success, FAILED otherwise).
	Submit(ctx context.Context, draftID string) (*entity.Submission, error)

	// GetSubmission retrieves a submission attempt by ID
	GetSubmission(ctx context.Context, id string) (*entity.Submission, error)

	// GetLatestForDraft retrieves the most recent submission for a draft
	GetLatestForDraft(ctx context.Context, draftID string) (*entity.Submission, error)

	// Wait blocks until all background post-processing has drained. Used on
	// shutdown and in tests.
	Wait()
}

type submissionServiceImpl struct {
	draftRepo      port.DraftRepository
	submissionRepo port.SubmissionRepository
	invoices       port.InvoiceGateway
	sideEffects    port.SideEffectGateway
	dispatcher     dispatcher.Dispatcher
	logger         Logger

	mu       sync.Mutex
	inFlight map[string]workflow.StateMachine
	wg       sync.WaitGroup
}

// NewSubmissionService creates a new SubmissionService
func NewSubmissionService(
	draftRepo port.DraftRepository,
	submissionRepo port.SubmissionRepository,
	invoices port.InvoiceGateway,
	sideEffects port.SideEffectGateway,
	eventDispatcher dispatcher.Dispatcher,
	logger Logger,
) SubmissionService {
	return &submissionServiceImpl{
		draftRepo:      draftRepo,
		submissionRepo: submissionRepo,
		invoices:       invoices,
		sideEffects:    sideEffects,
		dispatcher:     eventDispatcher,
		logger:         logger,
		inFlight:       make(map[string]workflow.StateMachine),
	}
}

// Submit drives one submission attempt through the lifecycle machine.
func (s *submissionServiceImpl) Submit(ctx context.Context, draftID string) (*entity.Submission, error) {
	draft, err := s.draftRepo.GetByID(ctx, draftID)
	if err != nil {
		return nil, err
	}

	machine, err := s.acquire(draftID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sub := &entity.Submission{
		ID:        uuid.New().String(),
		DraftID:   draftID,
		State:     machine.State().String(),
		StartedAt: now,
		UpdatedAt: now,
	}
	if err := s.submissionRepo.Create(ctx, sub); err != nil {
		s.release(draftID)
		return nil, fmt.Errorf("create submission: %w", err)
	}

	// Validating: local checks only. A failure makes no network call and
	// leaves the draft untouched for correction and retry.
	if err := validateDraft(draft); err != nil {
		s.fail(ctx, machine, sub, err.Error())
		return sub, err
	}
	if err := machine.Fire(workflow.TriggerValidated); err != nil {
		s.release(draftID)
		return nil, err
	}
	s.updateState(ctx, sub, machine.State())

	// Persisting: the one authoritative write. Create on first submit,
	// update when the draft already carries a persisted invoice id.
	payload := buildPayload(draft)
	wasCreate := draft.PersistedID == ""

	var record *entity.InvoiceRecord
	if wasCreate {
		record, err = s.invoices.Create(ctx, payload)
	} else {
		record, err = s.invoices.Update(ctx, draft.PersistedID, payload)
	}
	if err != nil {
		s.logger.Error("Invoice persist failed",
			"draft_id", draftID,
			"submission_id", sub.ID,
			"error", err)
		s.fail(ctx, machine, sub, err.Error())
		s.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeSubmissionFailed, draftID, map[string]interface{}{
			"submission_id": sub.ID,
			"message":       err.Error(),
		}))
		return sub, err
	}

	draft.PersistedID = record.ID
	if record.InvoiceNumber > 0 {
		draft.InvoiceNumber = record.InvoiceNumber
	}
	draft.UpdatedAt = time.Now()
	if err := s.draftRepo.Update(ctx, draft); err != nil {
		// The upstream write already succeeded; losing the local link is
		// logged but does not fail the submission.
		s.logger.Error("Failed to record persisted invoice id on draft",
			"draft_id", draftID,
			"invoice_id", record.ID,
			"error", err)
	}

	if err := machine.Fire(workflow.TriggerPersisted); err != nil {
		s.release(draftID)
		return nil, err
	}
	sub.InvoiceID = record.ID
	sub.InvoiceNumber = record.InvoiceNumber
	s.updateState(ctx, sub, machine.State())

	s.logger.Info("Invoice persisted",
		"draft_id", draftID,
		"invoice_id", record.ID,
		"invoice_number", record.InvoiceNumber,
		"created", wasCreate)

	// Success is reported now; the side-effect chain cannot fail the
	// submission and runs detached from the request.
	s.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeSubmissionSucceeded, draftID, map[string]interface{}{
		"submission_id":  sub.ID,
		"invoice_id":     record.ID,
		"invoice_number": record.InvoiceNumber,
	}))

	steps := s.buildPostProcessSteps(draft, record, wasCreate)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.release(draftID)
		s.postProcess(machine, sub, draftID, steps)
	}()

	return sub, nil
}

// GetSubmission retrieves a submission attempt by ID
func (s *submissionServiceImpl) GetSubmission(ctx context.Context, id string) (*entity.Submission, error) {
	return s.submissionRepo.GetByID(ctx, id)
}

// GetLatestForDraft retrieves the most recent submission for a draft
func (s *submissionServiceImpl) GetLatestForDraft(ctx context.Context, draftID string) (*entity.Submission, error) {
	return s.submissionRepo.GetLatestByDraftID(ctx, draftID)
}

// Wait blocks until background post-processing has drained
func (s *submissionServiceImpl) Wait() {
	s.wg.Wait()
}

// acquire registers a submission machine for the draft, rejecting re-entrant
// submits while one is persisting or post-processing. The machine must leave
// IDLE before the lock drops, otherwise a concurrent submit for the same
// draft would pass the AcceptsSubmit check and replace the map entry.
func (s *submissionServiceImpl) acquire(draftID string) (workflow.StateMachine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.inFlight[draftID]; ok && !existing.State().AcceptsSubmit() {
		return nil, entity.ErrSubmissionInFlight
	}
	machine := workflow.NewSubmissionMachine(workflow.StateIdle)
	if err := machine.Fire(workflow.TriggerSubmit); err != nil {
		return nil, err
	}
	s.inFlight[draftID] = machine
	return machine, nil
}

func (s *submissionServiceImpl) release(draftID string) {
	s.mu.Lock()
	delete(s.inFlight, draftID)
	s.mu.Unlock()
}

// fail transitions the machine and the submission record to FAILED.
func (s *submissionServiceImpl) fail(ctx context.Context, machine workflow.StateMachine, sub *entity.Submission, message string) {
	if err := machine.Fire(workflow.TriggerFail); err != nil {
		s.logger.Error("Invalid failure transition", "submission_id", sub.ID, "error", err)
	}
	sub.Message = message
	s.updateState(ctx, sub, machine.State())
	s.release(sub.DraftID)
}

func (s *submissionServiceImpl) updateState(ctx context.Context, sub *entity.Submission, state workflow.State) {
	sub.State = state.String()
	sub.UpdatedAt = time.Now()
	if err := s.submissionRepo.Update(ctx, sub); err != nil {
		s.logger.Error("Failed to update submission record",
			"submission_id", sub.ID,
			"state", sub.State,
			"error", err)
	}
}

// postStep is one named best-effort side effect. Steps run strictly in
// order; each failure becomes a warning and the chain continues.
type postStep struct {
	name string
	run  func(ctx context.Context) error
}

// buildPostProcessSteps assembles the ordered chain for this submission.
// Counter, benefit, material and service-completion writes only apply to
// newly created non-quotation invoices; commission applies to every
// successful persist.
func (s *submissionServiceImpl) buildPostProcessSteps(draft *entity.DraftInvoice, record *entity.InvoiceRecord, wasCreate bool) []postStep {
	var steps []postStep

	newInvoice := wasCreate && !draft.IsQuotation()

	if newInvoice {
		count := record.InvoiceNumber
		steps = append(steps, postStep{
			name: "increment-invoice-counter",
			run: func(ctx context.Context) error {
				return s.sideEffects.IncrementInvoiceCounter(ctx, count)
			},
		})

		for _, item := range draft.Items {
			if !item.QualifiesForBenefit() {
				continue
			}
			entry := &port.BenefitEntry{
				ProductName: item.ProductName,
				Quantity:    item.BenefitQuantity,
				InvoiceID:   record.ID,
				Rework:      item.ReworkRequested,
				Note:        item.OtherProductNote,
			}
			steps = append(steps, postStep{
				name: fmt.Sprintf("employee-benefit[%s]", item.ProductName),
				run: func(ctx context.Context) error {
					return s.sideEffects.RecordEmployeeBenefit(ctx, entry)
				},
			})
		}

		for _, item := range draft.Items {
			if !item.QualifiesForBenefit() {
				continue
			}
			name, qty := item.ProductName, item.Quantity
			steps = append(steps, postStep{
				name: fmt.Sprintf("material-update[%s]", name),
				run: func(ctx context.Context) error {
					return s.sideEffects.UpdateMaterial(ctx, name, qty)
				},
			})
		}
	}

	// Commission is computed from the server-echoed product list; lines
	// without a commission percent contribute zero. One record per invoice.
	if commission := record.CommissionTotal(); commission.IsPositive() {
		invoiceID := record.ID
		steps = append(steps, postStep{
			name: "record-commission",
			run: func(ctx context.Context) error {
				return s.sideEffects.RecordCommission(ctx, invoiceID, commission)
			},
		})
	}

	// The linked ticket is completed once, when its invoice is first
	// persisted; an update must not re-fire the transition.
	if draft.ServiceID != "" && newInvoice {
		serviceID := draft.ServiceID
		steps = append(steps, postStep{
			name: "complete-service",
			run: func(ctx context.Context) error {
				return s.sideEffects.CompleteService(ctx, serviceID)
			},
		})
	}

	return steps
}

// postProcess runs the chain sequentially, collecting a warning per failed
// step, then finishes the submission. A step failure never changes the final
// state away from DONE.
func (s *submissionServiceImpl) postProcess(machine workflow.StateMachine, sub *entity.Submission, draftID string, steps []postStep) {
	ctx, cancel := context.WithTimeout(context.Background(), postProcessTimeout)
	defer cancel()

	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			warning := entity.PostProcessingWarning{
				Step:       step.name,
				Message:    err.Error(),
				OccurredAt: time.Now(),
			}
			sub.Warnings = append(sub.Warnings, warning)
			s.logger.Error("Post-processing step failed",
				"draft_id", draftID,
				"submission_id", sub.ID,
				"step", step.name,
				"error", err)
			s.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeSubmissionWarning, draftID, map[string]interface{}{
				"submission_id": sub.ID,
				"step":          step.name,
				"message":       err.Error(),
			}))
		}
	}

	if err := machine.Fire(workflow.TriggerPostProcessed); err != nil {
		s.logger.Error("Invalid completion transition", "submission_id", sub.ID, "error", err)
	}
	s.updateState(ctx, sub, machine.State())

	s.logger.Info("Submission completed",
		"draft_id", draftID,
		"submission_id", sub.ID,
		"steps", len(steps),
		"warnings", len(sub.Warnings))

	s.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypePostProcessingDone, draftID, map[string]interface{}{
		"submission_id": sub.ID,
		"warnings":      len(sub.Warnings),
	}))
}

// validateDraft applies the local pre-network checks. Quotations do not
// require a payment mode.
func validateDraft(draft *entity.DraftInvoice) error {
	if draft.CompanyID == "" {
		return entity.NewValidationError("companyId", "company is required")
	}
	if draft.DeliveryAddress == "" {
		return entity.NewValidationError("deliveryAddress", "delivery address is required")
	}
	if len(draft.Items) == 0 {
		return entity.NewValidationError("products", "at least one line item is required")
	}
	if len(draft.SendTo) == 0 {
		return entity.NewValidationError("sendTo", "at least one recipient is required")
	}
	if !draft.IsQuotation() && draft.ModeOfPayment == "" {
		return entity.NewValidationError("modeOfPayment", "payment mode is required for invoices")
	}
	return nil
}

// buildPayload maps the draft onto the wire body. Totals are derived here so
// the payload can never carry a stale subtotal.
func buildPayload(draft *entity.DraftInvoice) *port.InvoicePayload {
	totals := draft.ComputeTotals()

	products := make([]port.PayloadProduct, 0, len(draft.Items))
	for _, item := range draft.Items {
		products = append(products, port.PayloadProduct{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			TotalAmount: item.TotalAmount,
		})
	}

	return &port.InvoicePayload{
		InvoiceNumber:   draft.InvoiceNumber,
		CompanyID:       draft.CompanyID,
		Products:        products,
		ModeOfPayment:   draft.ModeOfPayment,
		DeliveryAddress: draft.DeliveryAddress,
		Reference:       draft.Reference,
		Description:     draft.Description,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		GrandTotal:      totals.GrandTotal,
		SendTo:          draft.SendTo,
		AssignedTo:      draft.AssignedTo,
		InvoiceType:     draft.InvoiceType,
		ServiceID:       draft.ServiceID,
	}
}

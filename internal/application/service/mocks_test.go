package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ArulKumar8270/corpculture-invoicing/internal/application/port"
	"github.com/ArulKumar8270/corpculture-invoicing/internal/domain/entity"
)

// nopLogger satisfies Logger without output
type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

// mockDraftRepo is an in-memory DraftRepository. Drafts are deep-copied on
// the way in and out so tests can detect unintended mutation.
type mockDraftRepo struct {
	mu     sync.Mutex
	drafts map[string]*entity.DraftInvoice
}

func newMockDraftRepo() *mockDraftRepo {
	return &mockDraftRepo{drafts: make(map[string]*entity.DraftInvoice)}
}

func copyDraft(d *entity.DraftInvoice) *entity.DraftInvoice {
	data, _ := json.Marshal(d)
	var out entity.DraftInvoice
	_ = json.Unmarshal(data, &out)
	return &out
}

func (m *mockDraftRepo) Create(ctx context.Context, draft *entity.DraftInvoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[draft.ID] = copyDraft(draft)
	return nil
}

func (m *mockDraftRepo) GetByID(ctx context.Context, id string) (*entity.DraftInvoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	draft, ok := m.drafts[id]
	if !ok {
		return nil, entity.ErrDraftNotFound
	}
	return copyDraft(draft), nil
}

func (m *mockDraftRepo) Update(ctx context.Context, draft *entity.DraftInvoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drafts[draft.ID]; !ok {
		return entity.ErrDraftNotFound
	}
	m.drafts[draft.ID] = copyDraft(draft)
	return nil
}

func (m *mockDraftRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, id)
	return nil
}

func (m *mockDraftRepo) List(ctx context.Context, limit, offset int) ([]*entity.DraftInvoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.DraftInvoice, 0, len(m.drafts))
	for _, d := range m.drafts {
		out = append(out, copyDraft(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if offset >= len(out) {
		return []*entity.DraftInvoice{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// mockSubmissionRepo is an in-memory SubmissionRepository
type mockSubmissionRepo struct {
	mu   sync.Mutex
	subs map[string]*entity.Submission
}

func newMockSubmissionRepo() *mockSubmissionRepo {
	return &mockSubmissionRepo{subs: make(map[string]*entity.Submission)}
}

func copySubmission(s *entity.Submission) *entity.Submission {
	data, _ := json.Marshal(s)
	var out entity.Submission
	_ = json.Unmarshal(data, &out)
	return &out
}

func (m *mockSubmissionRepo) Create(ctx context.Context, sub *entity.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[sub.ID] = copySubmission(sub)
	return nil
}

func (m *mockSubmissionRepo) Update(ctx context.Context, sub *entity.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[sub.ID] = copySubmission(sub)
	return nil
}

func (m *mockSubmissionRepo) GetByID(ctx context.Context, id string) (*entity.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.subs[id]
	if !ok {
		return nil, entity.ErrSubmissionNotFound
	}
	return copySubmission(sub), nil
}

func (m *mockSubmissionRepo) GetLatestByDraftID(ctx context.Context, draftID string) (*entity.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *entity.Submission
	for _, s := range m.subs {
		if s.DraftID != draftID {
			continue
		}
		if latest == nil || s.StartedAt.After(latest.StartedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, entity.ErrSubmissionNotFound
	}
	return copySubmission(latest), nil
}

// mockRefData serves fixed companies and catalogs
type mockRefData struct {
	companies map[string]*entity.Company
	catalogs  map[string][]*entity.CatalogProduct
	calls     int
}

func newMockRefData() *mockRefData {
	return &mockRefData{
		companies: map[string]*entity.Company{
			"comp-1": {
				ID:          "comp-1",
				CompanyName: "Acme Printers",
				DeliveryAddresses: []entity.DeliveryAddress{
					{Address: "12 Mount Road, Chennai", Pincode: "600002"},
				},
				ContactPersons: []entity.ContactPerson{
					{ID: "cp-1", Name: "Ravi", Email: "ravi@acme.test"},
				},
			},
		},
		catalogs: map[string][]*entity.CatalogProduct{
			"comp-1": {
				{
					ID:          "prod-1",
					ProductName: entity.NewProductName("Toner Cartridge"),
					Rate:        decimal.NewFromInt(100),
				},
				{
					ID:          "prod-2",
					ProductName: entity.NestedProductName(entity.NewProductName("Drum Unit")),
					Rate:        decimal.NewFromInt(50),
				},
			},
		},
	}
}

func (m *mockRefData) ListCompanies(ctx context.Context) ([]*entity.Company, error) {
	out := make([]*entity.Company, 0, len(m.companies))
	for _, c := range m.companies {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockRefData) GetCompany(ctx context.Context, companyID string) (*entity.Company, error) {
	return m.companies[companyID], nil
}

func (m *mockRefData) ListProductsByCompany(ctx context.Context, companyID string) ([]*entity.CatalogProduct, error) {
	m.calls++
	return m.catalogs[companyID], nil
}

// mockInvoiceGateway records persist calls; createErr/updateErr force
// failures.
type mockInvoiceGateway struct {
	mu          sync.Mutex
	createCalls int
	updateCalls int
	lastPayload *port.InvoicePayload
	createErr   error
	updateErr   error
	record      *entity.InvoiceRecord
}

func (m *mockInvoiceGateway) Create(ctx context.Context, payload *port.InvoicePayload) (*entity.InvoiceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	m.lastPayload = payload
	if m.createErr != nil {
		return nil, m.createErr
	}
	if m.record != nil {
		return m.record, nil
	}
	return &entity.InvoiceRecord{ID: "inv-1", InvoiceNumber: 42}, nil
}

func (m *mockInvoiceGateway) Update(ctx context.Context, invoiceID string, payload *port.InvoicePayload) (*entity.InvoiceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	m.lastPayload = payload
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	if m.record != nil {
		return m.record, nil
	}
	return &entity.InvoiceRecord{ID: invoiceID}, nil
}

func (m *mockInvoiceGateway) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createCalls + m.updateCalls
}

// mockSideEffects records side-effect calls in order; failOn forces the named
// call to fail.
type mockSideEffects struct {
	mu     sync.Mutex
	order  []string
	failOn map[string]error
}

func newMockSideEffects() *mockSideEffects {
	return &mockSideEffects{failOn: make(map[string]error)}
}

func (m *mockSideEffects) note(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order = append(m.order, name)
	return m.failOn[name]
}

func (m *mockSideEffects) IncrementInvoiceCounter(ctx context.Context, invoiceCount int64) error {
	return m.note("counter")
}

func (m *mockSideEffects) RecordEmployeeBenefit(ctx context.Context, entry *port.BenefitEntry) error {
	return m.note("benefit:" + entry.ProductName)
}

func (m *mockSideEffects) UpdateMaterial(ctx context.Context, productName string, quantity int64) error {
	return m.note("material:" + productName)
}

func (m *mockSideEffects) RecordCommission(ctx context.Context, invoiceID string, amount decimal.Decimal) error {
	return m.note("commission")
}

func (m *mockSideEffects) CompleteService(ctx context.Context, serviceID string) error {
	return m.note("service:" + serviceID)
}

func (m *mockSideEffects) calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

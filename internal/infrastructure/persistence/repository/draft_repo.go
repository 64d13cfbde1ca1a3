package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/ArulKumar8270/corpculture-invoicing/internal/application/port"
	"github.com/ArulKumar8270/corpculture-invoicing/internal/domain/entity"
)

// DraftRepository implements port.DraftRepository on sqlite. The line item
// list and the recipient set are stored as JSON columns; line item amounts
// survive the round trip as decimal strings.
type DraftRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDraftRepository creates a new draft repository
func NewDraftRepository(db *sql.DB, logger *zap.Logger) port.DraftRepository {
	return &DraftRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new draft
func (r *DraftRepository) Create(ctx context.Context, draft *entity.DraftInvoice) error {
	items, sendTo, err := marshalDraftColumns(draft)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO drafts (
			id, company_id, invoice_type, items, mode_of_payment,
			delivery_address, reference, description, send_to, assigned_to,
			service_id, persisted_id, invoice_number, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		draft.ID,
		draft.CompanyID,
		draft.InvoiceType,
		items,
		draft.ModeOfPayment,
		draft.DeliveryAddress,
		draft.Reference,
		draft.Description,
		sendTo,
		draft.AssignedTo,
		draft.ServiceID,
		draft.PersistedID,
		draft.InvoiceNumber,
		draft.CreatedAt,
		draft.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create draft", zap.String("draft_id", draft.ID), zap.Error(err))
		return fmt.Errorf("failed to create draft: %w", err)
	}
	return nil
}

// GetByID retrieves a draft by ID
func (r *DraftRepository) GetByID(ctx context.Context, id string) (*entity.DraftInvoice, error) {
	query := `
		SELECT id, company_id, invoice_type, items, mode_of_payment,
			delivery_address, reference, description, send_to, assigned_to,
			service_id, persisted_id, invoice_number, created_at, updated_at
		FROM drafts
		WHERE id = ?
	`

	draft, err := scanDraft(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return draft, nil
}

// Update overwrites an existing draft
func (r *DraftRepository) Update(ctx context.Context, draft *entity.DraftInvoice) error {
	items, sendTo, err := marshalDraftColumns(draft)
	if err != nil {
		return err
	}

	query := `
		UPDATE drafts SET
			company_id = ?, invoice_type = ?, items = ?, mode_of_payment = ?,
			delivery_address = ?, reference = ?, description = ?, send_to = ?,
			assigned_to = ?, service_id = ?, persisted_id = ?,
			invoice_number = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		draft.CompanyID,
		draft.InvoiceType,
		items,
		draft.ModeOfPayment,
		draft.DeliveryAddress,
		draft.Reference,
		draft.Description,
		sendTo,
		draft.AssignedTo,
		draft.ServiceID,
		draft.PersistedID,
		draft.InvoiceNumber,
		draft.UpdatedAt,
		draft.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update draft", zap.String("draft_id", draft.ID), zap.Error(err))
		return fmt.Errorf("failed to update draft: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return entity.ErrDraftNotFound
	}
	return nil
}

// Delete removes a draft permanently
func (r *DraftRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM drafts WHERE id = ?", id)
	if err != nil {
		r.logger.Error("Failed to delete draft", zap.String("draft_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

// List retrieves drafts ordered by last update, newest first
func (r *DraftRepository) List(ctx context.Context, limit, offset int) ([]*entity.DraftInvoice, error) {
	query := `
		SELECT id, company_id, invoice_type, items, mode_of_payment,
			delivery_address, reference, description, send_to, assigned_to,
			service_id, persisted_id, invoice_number, created_at, updated_at
		FROM drafts
		ORDER BY updated_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	drafts := make([]*entity.DraftInvoice, 0)
	for rows.Next() {
		draft, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		drafts = append(drafts, draft)
	}
	return drafts, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDraft(row scanner) (*entity.DraftInvoice, error) {
	var draft entity.DraftInvoice
	var items, sendTo string

	err := row.Scan(
		&draft.ID,
		&draft.CompanyID,
		&draft.InvoiceType,
		&items,
		&draft.ModeOfPayment,
		&draft.DeliveryAddress,
		&draft.Reference,
		&draft.Description,
		&sendTo,
		&draft.AssignedTo,
		&draft.ServiceID,
		&draft.PersistedID,
		&draft.InvoiceNumber,
		&draft.CreatedAt,
		&draft.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(items), &draft.Items); err != nil {
		return nil, fmt.Errorf("failed to decode line items: %w", err)
	}
	if err := json.Unmarshal([]byte(sendTo), &draft.SendTo); err != nil {
		return nil, fmt.Errorf("failed to decode recipients: %w", err)
	}
	return &draft, nil
}

func marshalDraftColumns(draft *entity.DraftInvoice) (items, sendTo string, err error) {
	if draft.Items == nil {
		draft.Items = []*entity.LineItem{}
	}
	if draft.SendTo == nil {
		draft.SendTo = []string{}
	}

	itemData, err := json.Marshal(draft.Items)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode line items: %w", err)
	}
	sendToData, err := json.Marshal(draft.SendTo)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode recipients: %w", err)
	}
	return string(itemData), string(sendToData), nil
}

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

// SubmissionRepository implements port.SubmissionRepository on sqlite.
// Warnings are stored as a JSON column.
type SubmissionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db *sql.DB, logger *zap.Logger) port.SubmissionRepository {
	return &SubmissionRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new submission attempt
func (r *SubmissionRepository) Create(ctx context.Context, sub *entity.Submission) error {
	warnings, err := marshalWarnings(sub)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO submissions (
			id, draft_id, state, invoice_id, invoice_number, message,
			warnings, started_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		sub.ID,
		sub.DraftID,
		sub.State,
		sub.InvoiceID,
		sub.InvoiceNumber,
		sub.Message,
		warnings,
		sub.StartedAt,
		sub.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create submission", zap.String("submission_id", sub.ID), zap.Error(err))
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

// Update overwrites an existing submission attempt
func (r *SubmissionRepository) Update(ctx context.Context, sub *entity.Submission) error {
	warnings, err := marshalWarnings(sub)
	if err != nil {
		return err
	}

	query := `
		UPDATE submissions SET
			state = ?, invoice_id = ?, invoice_number = ?, message = ?,
			warnings = ?, updated_at = ?
		WHERE id = ?
	`

	_, err = r.db.ExecContext(ctx, query,
		sub.State,
		sub.InvoiceID,
		sub.InvoiceNumber,
		sub.Message,
		warnings,
		sub.UpdatedAt,
		sub.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update submission", zap.String("submission_id", sub.ID), zap.Error(err))
		return fmt.Errorf("failed to update submission: %w", err)
	}
	return nil
}

// GetByID retrieves a submission by ID
func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*entity.Submission, error) {
	query := selectSubmission + " WHERE id = ?"

	sub, err := scanSubmission(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return sub, nil
}

// GetLatestByDraftID retrieves the most recent submission for a draft
func (r *SubmissionRepository) GetLatestByDraftID(ctx context.Context, draftID string) (*entity.Submission, error) {
	query := selectSubmission + " WHERE draft_id = ? ORDER BY started_at DESC LIMIT 1"

	sub, err := scanSubmission(r.db.QueryRowContext(ctx, query, draftID))
	if err == sql.ErrNoRows {
		return nil, entity.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest submission: %w", err)
	}
	return sub, nil
}

const selectSubmission = `
	SELECT id, draft_id, state, invoice_id, invoice_number, message,
		warnings, started_at, updated_at
	FROM submissions`

func scanSubmission(row scanner) (*entity.Submission, error) {
	var sub entity.Submission
	var warnings string

	err := row.Scan(
		&sub.ID,
		&sub.DraftID,
		&sub.State,
		&sub.InvoiceID,
		&sub.InvoiceNumber,
		&sub.Message,
		&warnings,
		&sub.StartedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(warnings), &sub.Warnings); err != nil {
		return nil, fmt.Errorf("failed to decode warnings: %w", err)
	}
	return &sub, nil
}

func marshalWarnings(sub *entity.Submission) (string, error) {
	if sub.Warnings == nil {
		sub.Warnings = []entity.PostProcessingWarning{}
	}
	data, err := json.Marshal(sub.Warnings)
	if err != nil {
		return "", fmt.Errorf("failed to encode warnings: %w", err)
	}
	return string(data), nil
}

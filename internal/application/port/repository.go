package port

import (
	"context"

	"github.com/ArulKumar8270/corpculture-invoicing/internal/domain/entity"
)

// DraftRepository defines persistence operations for DraftInvoice. Drafts
// survive process restarts so an interrupted composition session can resume.
type DraftRepository interface {
	// Create persists a new draft
	Create(ctx context.Context, draft *entity.DraftInvoice) error

	// GetByID retrieves a draft by its ID
	GetByID(ctx context.Context, id string) (*entity.DraftInvoice, error)

	// Update overwrites an existing draft (line items included)
	Update(ctx context.Context, draft *entity.DraftInvoice) error

	// Delete removes a draft permanently
	Delete(ctx context.Context, id string) error

	// List retrieves drafts ordered by last update, newest first
	List(ctx context.Context, limit, offset int) ([]*entity.DraftInvoice, error)
}

// SubmissionRepository defines persistence operations for Submission records.
type SubmissionRepository interface {
	// Create persists a new submission attempt
	Create(ctx context.Context, sub *entity.Submission) error

	// Update overwrites state, result fields and warnings
	Update(ctx context.Context, sub *entity.Submission) error

	// GetByID retrieves a submission by its ID
	GetByID(ctx context.Context, id string) (*entity.Submission, error)

	// GetLatestByDraftID retrieves the most recent submission for a draft
	GetLatestByDraftID(ctx context.Context, draftID string) (*entity.Submission, error)
}

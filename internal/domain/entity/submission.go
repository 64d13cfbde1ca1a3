package entity

import "time"

// Submission is the record of one submit attempt for a draft. State mirrors
// the workflow machine; warnings accumulate as post-processing steps fail.
type Submission struct {
	ID            string                  `json:"id"`
	DraftID       string                  `json:"draft_id"`
	State         string                  `json:"state"`
	InvoiceID     string                  `json:"invoice_id,omitempty"`
	InvoiceNumber int64                   `json:"invoice_number,omitempty"`
	Message       string                  `json:"message,omitempty"`
	Warnings      []PostProcessingWarning `json:"warnings,omitempty"`
	StartedAt     time.Time               `json:"started_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

package event

// Type identifies the type of domain event
type Type string

const (
	TypeDraftCreated         Type = "draft.created"
	TypeDraftReset           Type = "draft.reset"
	TypeLineItemAdded        Type = "draft.line_item_added"
	TypeLineItemRemoved      Type = "draft.line_item_removed"
	TypeSubmissionSucceeded  Type = "submission.succeeded"
	TypeSubmissionFailed     Type = "submission.failed"
	TypePostProcessingDone   Type = "submission.post_processing_done"
	TypeSubmissionWarning    Type = "submission.warning"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeDraftCreated,
		TypeDraftReset,
		TypeLineItemAdded,
		TypeLineItemRemoved,
		TypeSubmissionSucceeded,
		TypeSubmissionFailed,
		TypePostProcessingDone,
		TypeSubmissionWarning:
		return true
	default:
		return false
	}
}

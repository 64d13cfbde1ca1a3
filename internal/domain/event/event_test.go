package event

import (
	"testing"
	"time"
)

func TestType_String(t *testing.T) {
	tests := []struct {
		name      string
		eventType Type
		want      string
	}{
		{
			name:      "draft created",
			eventType: TypeDraftCreated,
			want:      "draft.created",
		},
		{
			name:      "line item added",
			eventType: TypeLineItemAdded,
			want:      "draft.line_item_added",
		},
		{
			name:      "submission succeeded",
			eventType: TypeSubmissionSucceeded,
			want:      "submission.succeeded",
		},
		{
			name:      "submission failed",
			eventType: TypeSubmissionFailed,
			want:      "submission.failed",
		},
		{
			name:      "submission warning",
			eventType: TypeSubmissionWarning,
			want:      "submission.warning",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.eventType.String(); got != tt.want {
				t.Errorf("Type.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestType_IsValid(t *testing.T) {
	tests := []struct {
		name      string
		eventType Type
		want      bool
	}{
		{
			name:      "valid - draft created",
			eventType: TypeDraftCreated,
			want:      true,
		},
		{
			name:      "valid - draft reset",
			eventType: TypeDraftReset,
			want:      true,
		},
		{
			name:      "valid - line item removed",
			eventType: TypeLineItemRemoved,
			want:      true,
		},
		{
			name:      "valid - post processing done",
			eventType: TypePostProcessingDone,
			want:      true,
		},
		{
			name:      "invalid - unknown type",
			eventType: Type("unknown.type"),
			want:      false,
		},
		{
			name:      "invalid - empty string",
			eventType: Type(""),
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.eventType.IsValid(); got != tt.want {
				t.Errorf("Type.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"invoice_id": "abc123",
		"subtotal":   250.0,
	}

	event := NewEvent(TypeSubmissionSucceeded, "draft-456", payload)

	if event == nil {
		t.Fatal("NewEvent() returned nil")
	}

	if event.ID == "" {
		t.Error("Event ID should not be empty")
	}

	if event.Type != TypeSubmissionSucceeded {
		t.Errorf("Event Type = %v, want %v", event.Type, TypeSubmissionSucceeded)
	}

	if event.DraftID != "draft-456" {
		t.Errorf("Event DraftID = %v, want %v", event.DraftID, "draft-456")
	}

	if event.Payload == nil {
		t.Fatal("Event Payload should not be nil")
	}

	if event.Payload["invoice_id"] != "abc123" {
		t.Errorf("Event Payload[invoice_id] = %v, want %v", event.Payload["invoice_id"], "abc123")
	}

	if event.Timestamp.IsZero() {
		t.Error("Event Timestamp should not be zero")
	}

	if event.CorrelationID == "" {
		t.Error("Event CorrelationID should not be empty")
	}

	// Timestamp should be recent
	if time.Since(event.Timestamp) > time.Second {
		t.Error("Event Timestamp should be recent")
	}
}

func TestNewEventWithCorrelation(t *testing.T) {
	correlationID := "test-correlation-123"
	payload := map[string]interface{}{
		"step": "commission",
	}

	event := NewEventWithCorrelation(TypeSubmissionWarning, "draft-789", payload, correlationID)

	if event.CorrelationID != correlationID {
		t.Errorf("Event CorrelationID = %v, want %v", event.CorrelationID, correlationID)
	}

	if event.Type != TypeSubmissionWarning {
		t.Errorf("Event Type = %v, want %v", event.Type, TypeSubmissionWarning)
	}
}

func TestEvent_WithPayload(t *testing.T) {
	original := NewEvent(TypeDraftCreated, "draft-1", map[string]interface{}{
		"company_id": "comp-1",
	})

	updated := original.WithPayload("invoice_type", "invoice")

	// Original must be untouched
	if _, ok := original.Payload["invoice_type"]; ok {
		t.Error("WithPayload() mutated the original event")
	}

	if updated.Payload["invoice_type"] != "invoice" {
		t.Errorf("updated Payload[invoice_type] = %v, want %v", updated.Payload["invoice_type"], "invoice")
	}

	if updated.Payload["company_id"] != "comp-1" {
		t.Error("WithPayload() dropped existing payload keys")
	}

	if updated.ID != original.ID || updated.CorrelationID != original.CorrelationID {
		t.Error("WithPayload() must preserve identity and correlation")
	}
}

func TestEvent_PayloadGetters(t *testing.T) {
	event := NewEvent(TypeLineItemAdded, "draft-1", map[string]interface{}{
		"product_name": "Toner Cartridge",
		"quantity":     int64(3),
		"rate":         150.5,
		"rework":       true,
	})

	if got := event.GetPayloadString("product_name"); got != "Toner Cartridge" {
		t.Errorf("GetPayloadString() = %v, want %v", got, "Toner Cartridge")
	}

	if got := event.GetPayloadInt("quantity"); got != 3 {
		t.Errorf("GetPayloadInt() = %v, want %v", got, 3)
	}

	if got := event.GetPayloadFloat("rate"); got != 150.5 {
		t.Errorf("GetPayloadFloat() = %v, want %v", got, 150.5)
	}

	if got := event.GetPayloadBool("rework"); !got {
		t.Error("GetPayloadBool() = false, want true")
	}

	// Missing keys fall back to zero values
	if got := event.GetPayloadString("missing"); got != "" {
		t.Errorf("GetPayloadString(missing) = %v, want empty", got)
	}

	if got := event.GetPayloadInt("missing"); got != 0 {
		t.Errorf("GetPayloadInt(missing) = %v, want 0", got)
	}
}

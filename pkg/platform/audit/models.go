package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with regulatory significance, such as
	// refund documents issued with incomplete depositor data.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers events useful for debugging and operational visibility.
	// Examples: upstream lookup failures, circuit transitions.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from service logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	// Subject is the identifier the event is about (client id, product instance id).
	Subject string `json:"subject"`
	Action  string `json:"action"`
	Source  string `json:"source,omitempty"`
	Reason  string `json:"reason,omitempty"`
	// RequestID is the correlation ID from the HTTP request context.
	RequestID string `json:"request_id,omitempty"`
	// Caller is the authenticated service that triggered the action.
	Caller string `json:"caller,omitempty"`
}

type AuditEvent string

const (
	// Client card lookup events
	EventClientLookupFailed  AuditEvent = "client_lookup_failed"
	EventClientCircuitOpened AuditEvent = "client_circuit_opened"
	EventClientCircuitClosed AuditEvent = "client_circuit_closed"

	// Refund detail events
	EventDepositorErrorFilled AuditEvent = "depositor_error_filled"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventDepositorErrorFilled: CategoryCompliance,

	EventClientLookupFailed:  CategoryOperations,
	EventClientCircuitOpened: CategoryOperations,
	EventClientCircuitClosed: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

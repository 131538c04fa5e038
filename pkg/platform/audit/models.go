package audit

import (
	"time"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with regulatory significance: what was
	// filed for which client and when. These need guaranteed persistence.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers routine wizard activity useful for debugging.
	// These can be sampled or dropped under pressure.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	SessionID string        `json:"sessionId"`
	Subject   string        `json:"subject,omitempty"`
	Action    string        `json:"action"`
	Decision  string        `json:"decision,omitempty"`
	Reason    string        `json:"reason,omitempty"`
	RequestID string        `json:"requestId,omitempty"`
	ClientIP  string        `json:"clientIp,omitempty"`
}

type AuditEvent string

const (
	// Session events
	EventSessionStarted AuditEvent = "session_started"
	EventSessionDeleted AuditEvent = "session_deleted"
	EventActionsApplied AuditEvent = "actions_applied"
	EventFileAttached   AuditEvent = "file_attached"
	EventFormValidated  AuditEvent = "form_validated"

	// Submission events
	EventSubmissionRejected  AuditEvent = "submission_rejected"
	EventSubmissionStarted   AuditEvent = "submission_started"
	EventSubmissionCompleted AuditEvent = "submission_completed"
)

// eventCategories maps each audit event to its category.
var eventCategories = map[AuditEvent]EventCategory{
	EventSubmissionStarted:   CategoryCompliance,
	EventSubmissionCompleted: CategoryCompliance,
	EventSessionDeleted:      CategoryCompliance,

	EventSessionStarted:     CategoryOperations,
	EventActionsApplied:     CategoryOperations,
	EventFileAttached:       CategoryOperations,
	EventFormValidated:      CategoryOperations,
	EventSubmissionRejected: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// ComplianceEvent captures a regulatory-significant action requiring
// guaranteed persistence. Use with the compliance publisher for fail-closed
// semantics.
type ComplianceEvent struct {
	Timestamp time.Time // set automatically if zero
	SessionID string    // required
	Subject   string    // client name when known
	Action    string    // required, e.g. "submission_started"
	Decision  string    // outcome, e.g. the submission status
	Reason    string    // templates requested or errors reported
	RequestID string
	ClientIP  string
}

// Category returns CategoryCompliance (always).
func (e ComplianceEvent) Category() EventCategory { return CategoryCompliance }

// ToEvent converts to the stored Event shape.
func (e ComplianceEvent) ToEvent() Event {
	return Event{
		Category:  CategoryCompliance,
		Timestamp: e.Timestamp,
		SessionID: e.SessionID,
		Subject:   e.Subject,
		Action:    e.Action,
		Decision:  e.Decision,
		Reason:    e.Reason,
		RequestID: e.RequestID,
		ClientIP:  e.ClientIP,
	}
}

// OpsEvent captures operational events with minimal overhead.
// Events are fire-and-forget with optional sampling.
type OpsEvent struct {
	Timestamp time.Time
	SessionID string
	Action    string
	Subject   string
	RequestID string
}

// Category returns CategoryOperations (always).
func (e OpsEvent) Category() EventCategory { return CategoryOperations }

// ToEvent converts to the stored Event shape.
func (e OpsEvent) ToEvent() Event {
	return Event{
		Category:  CategoryOperations,
		Timestamp: e.Timestamp,
		SessionID: e.SessionID,
		Subject:   e.Subject,
		Action:    e.Action,
		RequestID: e.RequestID,
	}
}

package models

import (
	"fmt"
	"time"
)

// AuditAction represents the kind of operation being recorded
type AuditAction string

const (
	ActionCreate     AuditAction = "CREATE"
	ActionUpdate     AuditAction = "UPDATE"
	ActionDelete     AuditAction = "DELETE"
	ActionPriceFetch AuditAction = "PRICE_FETCH"
)

// AuditRetention is the compliance retention window for audit entries
const AuditRetention = 90 * 24 * time.Hour

// AuditEntry is an immutable record of who did what to which entity. Entries
// are append-only: application code never updates or deletes them.
type AuditEntry struct {
	EntityID    string                 `json:"entityId"`
	Action      AuditAction            `json:"action"`
	PerformedBy string                 `json:"performedBy"`
	Timestamp   string                 `json:"timestamp"`
	Details     map[string]interface{} `json:"details,omitempty"`
	TTL         int64                  `json:"ttl,omitempty"`
}

// NewAuditEntry creates an audit entry timestamped now with the default
// retention window. The timestamp uses nanosecond precision so that two
// entries for the same entity never collide in a time-ordered store.
func NewAuditEntry(entityID string, action AuditAction, performedBy string, details map[string]interface{}) *AuditEntry {
	now := time.Now().UTC()
	return &AuditEntry{
		EntityID:    entityID,
		Action:      action,
		PerformedBy: performedBy,
		Timestamp:   now.Format(time.RFC3339Nano),
		Details:     details,
		TTL:         now.Add(AuditRetention).Unix(),
	}
}

// Validate validates the audit entry data
func (e *AuditEntry) Validate() error {
	if e.EntityID == "" {
		return fmt.Errorf("audit entity ID is required")
	}

	if e.Action == "" {
		return fmt.Errorf("audit action is required")
	}

	if e.PerformedBy == "" {
		return fmt.Errorf("audit actor is required")
	}

	if e.Timestamp == "" {
		return fmt.Errorf("audit timestamp is required")
	}

	return nil
}

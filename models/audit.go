package models

import "time"

// AuditLogEntry records a single review action. Entries are append-only.
type AuditLogEntry struct {
	AuditID   string       `json:"audit_id" bson:"audit_id"`
	UserID    string       `json:"user_id" bson:"user_id"`
	UserName  string       `json:"user_name" bson:"user_name"`
	Action    string       `json:"action" bson:"action"`
	Details   AuditDetails `json:"details" bson:"details"`
	Timestamp time.Time    `json:"timestamp" bson:"timestamp"`
}

type AuditDetails struct {
	RecordID string `json:"record_id,omitempty" bson:"record_id,omitempty"`
	Action   string `json:"action" bson:"action"`
}

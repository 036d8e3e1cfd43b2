package domain

import "time"

// AuditRecord is an append-only log entry for a privileged or mutating
// operation: equivalent creation, a trust-line policy change, an
// operator-triggered clearing run, or an integrity audit. Rows are never
// updated or deleted.
type AuditRecord struct {
	ID      string    `json:"id"` // UUID
	Actor   string    `json:"actor"`
	Action  string    `json:"action"`
	Subject string    `json:"subject"`
	Payload []byte    `json:"payload"` // canonical JSON
	At      time.Time `json:"at"`
}

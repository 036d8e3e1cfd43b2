// Package domain holds the plain entity records that make up GEO's data
// model: participants, equivalents, trust lines, debts, transactions,
// prepare locks, and audit records. These are records, not behavior —
// the components in internal/invariant, internal/router,
// internal/payment and internal/clearing own the operations over them.
package domain

import "time"

// ParticipantStatus is the lifecycle state of a participant account.
type ParticipantStatus string

const (
	ParticipantActive   ParticipantStatus = "ACTIVE"
	ParticipantInactive ParticipantStatus = "INACTIVE"
)

// Participant is a network identity: a PID, its signing public key, and
// its lifecycle status.
type Participant struct {
	PID         string            `json:"pid"`
	PublicKey   string            `json:"public_key"`
	DisplayName string            `json:"display_name,omitempty"`
	Status      ParticipantStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// IsActive reports whether the participant may originate or receive
// payments.
func (p *Participant) IsActive() bool {
	return p.Status == ParticipantActive
}

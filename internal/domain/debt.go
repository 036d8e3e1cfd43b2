package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Debt is a directed, positive balance: Debtor owes Creditor Amount
// units of Equivalent. Per invariant I2 (debt asymmetry), at most one
// direction between any two participants in a given equivalent has a
// positive amount at a time; netting a payment or a clearing cycle
// collapses both directions into one before it is persisted. A
// zero-amount debt is not stored — the row is deleted instead (see
// DESIGN.md's Open Question decisions).
type Debt struct {
	Debtor     string    `json:"debtor"`
	Creditor   string    `json:"creditor"`
	Equivalent string    `json:"equivalent"`
	Amount     int64     `json:"amount"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Segment is the unordered participant pair plus equivalent a debt or
// trust line belongs to; it is the unit advisory locks serialize on.
type Segment struct {
	Equivalent string
	Pair       Pair
}

// NewSegment returns the canonical Segment for an equivalent and two
// participants, regardless of argument order.
func NewSegment(equivalent, x, y string) Segment {
	return Segment{Equivalent: equivalent, Pair: NewPair(x, y)}
}

// Fingerprint is the segment's advisory-lock key:
// sha256(equivalent || A || B) over the canonically ordered pair,
// hex-encoded. Both the payment engine's prepare/commit phases and the
// clearing engine's apply phase lock on this same key so the two never
// race each other over a shared segment.
func (s Segment) Fingerprint() string {
	h := sha256.New()
	h.Write([]byte(s.Equivalent))
	h.Write([]byte(s.Pair.A))
	h.Write([]byte(s.Pair.B))
	return hex.EncodeToString(h.Sum(nil))
}

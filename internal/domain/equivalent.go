package domain

import "time"

// EquivalentStatus controls whether an equivalent accepts new activity.
type EquivalentStatus string

const (
	EquivalentActive   EquivalentStatus = "ACTIVE"
	EquivalentInactive EquivalentStatus = "INACTIVE"
)

// Equivalent is a unit of account: a currency-like denomination that
// trust lines, debts and transactions are all scoped to.
type Equivalent struct {
	Code      string           `json:"code"`
	Precision int32            `json:"precision"`
	Status    EquivalentStatus `json:"status"`
	Operator  string           `json:"operator"` // PID of the operator that created it
	CreatedAt time.Time        `json:"created_at"`
}

// IsActive reports whether payments and clearing may run against this
// equivalent.
func (e *Equivalent) IsActive() bool {
	return e.Status == EquivalentActive
}

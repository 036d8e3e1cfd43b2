package domain

import "time"

// TrustLinePolicy is a closed, strictly-decoded record of the
// discretionary rules a creditor attaches to a trust line. Unknown keys
// in the signed document this is decoded from must be rejected by the
// caller (see internal/canon), not silently ignored.
//
// CanBeIntermediate is a pointer so "absent from the policy document"
// (nil, defaults to allowed) is distinguishable from an explicit
// false: a network only routes usefully if participants relay for
// each other by default, so refusing intermediation must be an
// explicit opt-out, not the zero value of a plain bool.
type TrustLinePolicy struct {
	AutoClearing        bool     `json:"auto_clearing"`
	CanBeIntermediate   *bool    `json:"can_be_intermediate,omitempty"`
	BlockedParticipants []string `json:"blocked_participants,omitempty"`
}

// Blocks reports whether pid is excluded from routing through this line.
func (p TrustLinePolicy) Blocks(pid string) bool {
	for _, b := range p.BlockedParticipants {
		if b == pid {
			return true
		}
	}
	return false
}

// AllowsIntermediate reports whether this line may be used as a
// non-final hop in a route. Unset (nil) defaults to true.
func (p TrustLinePolicy) AllowsIntermediate() bool {
	return p.CanBeIntermediate == nil || *p.CanBeIntermediate
}

// TrustLineStatus is the line's position in its lifecycle. Only ACTIVE
// lines back routing capacity; the others exist so administrative and
// historical state survives without deleting the row.
type TrustLineStatus string

const (
	TrustLinePending TrustLineStatus = "PENDING"
	TrustLineActive  TrustLineStatus = "ACTIVE"
	TrustLineFrozen  TrustLineStatus = "FROZEN"
	TrustLineClosed  TrustLineStatus = "CLOSED"
)

// TrustLine is a directed credit limit: Creditor extends up to Limit
// units of Equivalent to Debtor. It is the edge the router and the
// invariant checker reason about; the opposing direction, if it exists,
// is a separate row.
type TrustLine struct {
	Creditor   string          `json:"creditor"`
	Debtor     string          `json:"debtor"`
	Equivalent string          `json:"equivalent"`
	Limit      int64           `json:"limit"`
	Policy     TrustLinePolicy `json:"policy"`
	Status     TrustLineStatus `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Pair identifies the unordered participant pair a trust line or debt
// belongs to, used for lock ordering and per-pair invariant checks.
type Pair struct {
	A string
	B string
}

// NewPair returns a Pair with its members in canonical (sorted) order,
// so two callers referencing the same pair in either direction always
// agree on the ordering.
func NewPair(x, y string) Pair {
	if x <= y {
		return Pair{A: x, B: y}
	}
	return Pair{A: y, B: x}
}

package domain

import "time"

// PrepareLock reserves capacity on a segment on behalf of a transaction
// during the PREPARED phase. It is the only source of "in-flight"
// capacity reduction the router needs to account for: a lock past its
// ExpiresAt is eligible for the recovery loop to reap.
type PrepareLock struct {
	ID            string    `json:"id"` // UUID
	TransactionID string    `json:"transaction_id"`
	Equivalent    string    `json:"equivalent"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	Amount        int64     `json:"amount"`
	ExpiresAt     time.Time `json:"expires_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// Expired reports whether the lock's TTL has elapsed as of now. A lock
// whose ExpiresAt equals now counts as expired.
func (l *PrepareLock) Expired(now time.Time) bool {
	return !now.Before(l.ExpiresAt)
}

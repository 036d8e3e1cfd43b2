package eventbus

import "time"

// Type names one of the network's published domain events.
type Type string

const (
	PaymentCommitted  Type = "payment.committed"
	PaymentAborted    Type = "payment.aborted"
	ClearingCommitted Type = "clearing.committed"
	TrustlineUpdated  Type = "trustline.updated"
)

// Event is the wire shape emitted to every subscriber whose filter
// matches. Participants carries every PID the event is relevant to, so
// a per-participant subscription can match on membership rather than
// the bus tracking per-PID subscriber lists itself.
type Event struct {
	Type          Type      `json:"type"`
	TransactionID string    `json:"transaction_id,omitempty"`
	Equivalent    string    `json:"equivalent"`
	Participants  []string  `json:"participants"`
	Amount        int64     `json:"amount,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// Involves reports whether pid appears in the event's participant set.
func (e Event) Involves(pid string) bool {
	for _, p := range e.Participants {
		if p == pid {
			return true
		}
	}
	return false
}

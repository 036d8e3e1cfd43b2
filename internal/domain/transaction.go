package domain

import "time"

// TransactionType distinguishes the kinds of ledger-affecting operations.
// COMPRESSION and COMPENSATION are reserved: declared here so callers can
// name them, but rejected by every write path today (see DESIGN.md's
// Open Question decisions).
type TransactionType string

const (
	TransactionPayment     TransactionType = "PAYMENT"
	TransactionClearing    TransactionType = "CLEARING"
	TransactionCompression TransactionType = "COMPRESSION"
	TransactionCompensation TransactionType = "COMPENSATION"
)

// TransactionStatus is the payment/clearing state machine's state.
type TransactionStatus string

const (
	StatusNew       TransactionStatus = "NEW"
	StatusPrepared  TransactionStatus = "PREPARED"
	StatusCommitted TransactionStatus = "COMMITTED"
	StatusAborted   TransactionStatus = "ABORTED"
)

// RouteHop is one edge of a committed or prepared payment route.
type RouteHop struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

// Transaction is the durable record of a payment or clearing operation:
// what was requested, how it was routed, and what state it reached.
type Transaction struct {
	ID             string            `json:"id"` // UUID
	Type           TransactionType   `json:"type"`
	Status         TransactionStatus `json:"status"`
	Equivalent     string            `json:"equivalent"`
	From           string            `json:"from,omitempty"`
	To             string            `json:"to,omitempty"`
	Amount         int64             `json:"amount"`
	Routes         []RouteHop        `json:"routes,omitempty"`
	IdempotencyKey string            `json:"idempotency_key,omitempty"`
	Nonce          string            `json:"nonce,omitempty"`
	Signature      string            `json:"signature,omitempty"`
	Memo           string            `json:"memo,omitempty"`
	// Payload is an opaque, possibly-compressed document for types whose
	// detail doesn't fit Routes — CLEARING transactions store their
	// cycle edges and delta here. PayloadCodec names the codec Payload
	// was compressed with ("none" or "lz4"); empty means no payload.
	Payload      []byte    `json:"payload,omitempty"`
	PayloadCodec string    `json:"payload_codec,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Terminal reports whether the transaction has reached a final state.
func (t *Transaction) Terminal() bool {
	return t.Status == StatusCommitted || t.Status == StatusAborted
}

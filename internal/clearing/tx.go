package clearing

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/geohub/geod/internal/compression"
	"github.com/geohub/geod/internal/domain"
)

// compressionThreshold is the payload size above which LZ4 compression
// is worth its framing overhead; a 3-cycle's JSON rarely clears it, a
// 6-cycle's routinely does.
const compressionThreshold = 256

// clearingPayload is the opaque document a CLEARING transaction's
// Payload decodes to.
type clearingPayload struct {
	Equivalent string            `json:"equivalent"`
	Cycle      []domain.RouteHop `json:"cycle"`
	Delta      int64             `json:"delta"`
}

func newClearingTransaction(c Cycle, delta int64) (*domain.Transaction, error) {
	raw, err := json.Marshal(clearingPayload{Equivalent: c.Equivalent, Cycle: c.Edges, Delta: delta})
	if err != nil {
		return nil, fmt.Errorf("clearing: marshal payload: %w", err)
	}
	payload, codec, err := compression.CompressIfWorthwhile(compression.LZ4{}, raw, compressionThreshold)
	if err != nil {
		return nil, fmt.Errorf("clearing: compress payload: %w", err)
	}

	now := time.Now().UTC()
	return &domain.Transaction{
		ID:           uuid.NewString(),
		Type:         domain.TransactionClearing,
		Status:       domain.StatusCommitted,
		Equivalent:   c.Equivalent,
		Amount:       delta,
		Payload:      payload,
		PayloadCodec: codec,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

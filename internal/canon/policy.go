package canon

import (
	"encoding/json"
	"fmt"

	"github.com/geohub/geod/internal/domain"
)

// trustLinePolicyFields is the closed field set §9 allows in a signed
// policy document; anything else is rejected rather than dropped.
var trustLinePolicyFields = map[string]bool{
	"auto_clearing":       true,
	"can_be_intermediate": true,
	"blocked_participants": true,
}

// DecodeTrustLinePolicy strictly decodes a signed policy document into
// a domain.TrustLinePolicy. raw is first parsed with the same decode
// path every other signed payload goes through (Decode), and checked
// against the closed field set before being projected onto the typed
// struct, so an unknown key is rejected outright rather than silently
// dropped (§9).
func DecodeTrustLinePolicy(raw []byte) (domain.TrustLinePolicy, error) {
	v, err := Decode(raw)
	if err != nil {
		return domain.TrustLinePolicy{}, fmt.Errorf("canon: decode trust line policy: %w", err)
	}
	if err := CheckKnownFields(v, trustLinePolicyFields); err != nil {
		return domain.TrustLinePolicy{}, err
	}

	var p domain.TrustLinePolicy
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.TrustLinePolicy{}, fmt.Errorf("canon: decode trust line policy: %w", err)
	}
	return p, nil
}

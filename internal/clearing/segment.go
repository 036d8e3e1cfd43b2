package clearing

import (
	"sort"

	"github.com/geohub/geod/internal/domain"
)

// sortedFingerprints returns the distinct, lexicographically sorted
// segment fingerprints touched by the cycle's edges — the same
// fingerprint scheme and ordering discipline the payment engine uses,
// so a clearing apply and a concurrent payment prepare over a shared
// segment always lock in compatible order.
func sortedFingerprints(c Cycle) []string {
	seen := make(map[string]bool, len(c.Edges))
	var out []string
	for _, edge := range c.Edges {
		fp := domain.NewSegment(c.Equivalent, edge.From, edge.To).Fingerprint()
		if !seen[fp] {
			seen[fp] = true
			out = append(out, fp)
		}
	}
	sort.Strings(out)
	return out
}

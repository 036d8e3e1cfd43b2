package payment

import (
	"sort"

	"github.com/geohub/geod/internal/domain"
)

// sortedFingerprints returns the distinct, lexicographically sorted
// segment fingerprints touched by hops, the locking order the engine
// must follow to avoid deadlocking against other concurrent prepares
// and against the clearing engine applying a cycle over the same
// segment.
func sortedFingerprints(equivalent string, hops []domain.RouteHop) []string {
	seen := make(map[string]bool, len(hops))
	var out []string
	for _, h := range hops {
		fp := domain.NewSegment(equivalent, h.From, h.To).Fingerprint()
		if !seen[fp] {
			seen[fp] = true
			out = append(out, fp)
		}
	}
	sort.Strings(out)
	return out
}

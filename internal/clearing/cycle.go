package clearing

import (
	"context"
	"sort"

	"github.com/geohub/geod/internal/domain"
	"github.com/geohub/geod/internal/store"
)

// Cycle is a candidate positive-debt cycle: an ordered sequence of
// edges A->B->C->...->A, each currently carrying positive debt in the
// same equivalent.
type Cycle struct {
	Equivalent string
	Edges      []domain.RouteHop // Amount is each edge's live debt at discovery time
	Delta      int64             // min edge amount, the uniform decrement applied on Apply
}

// cycleKey is a canonical string identifying a cycle regardless of
// which edge it is rotated to start from, used to dedupe discoveries.
func cycleKey(edges []domain.RouteHop) string {
	n := len(edges)
	best := ""
	for start := 0; start < n; start++ {
		var s string
		for i := 0; i < n; i++ {
			s += edges[(start+i)%n].From + ">"
		}
		if best == "" || s < best {
			best = s
		}
	}
	return best
}

// discover builds the live positive-debt adjacency for equivalent and
// returns every simple cycle of length 3..maxLen. When touched is
// non-empty, only cycles containing at least one edge in touched are
// returned (the on-demand path); an empty touched set searches the
// whole graph (the periodic batch path).
func discover(ctx context.Context, tx store.Store, equivalent string, maxLen int, touched map[domain.Pair]bool) ([]Cycle, error) {
	debts, err := tx.Debts().ListByEquivalent(ctx, equivalent)
	if err != nil {
		return nil, err
	}

	adj := make(map[string][]domain.Debt)
	for _, d := range debts {
		if d.Amount <= 0 {
			continue
		}
		adj[d.Debtor] = append(adj[d.Debtor], d)
	}

	locks, err := activeReservedPairs(ctx, tx, equivalent)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var cycles []Cycle
	for start := range adj {
		walkCycles(start, start, []domain.RouteHop{}, map[string]bool{start: true}, adj, maxLen, func(edges []domain.RouteHop) {
			if reservedTouches(edges, locks) {
				return
			}
			if len(touched) > 0 && !touchesAny(edges, touched) {
				return
			}
			key := cycleKey(edges)
			if seen[key] {
				return
			}
			seen[key] = true
			cycles = append(cycles, Cycle{Equivalent: equivalent, Edges: edges, Delta: minAmount(edges)})
		})
	}

	sort.Slice(cycles, func(i, j int) bool { return cycleKey(cycles[i].Edges) < cycleKey(cycles[j].Edges) })
	return cycles, nil
}

// walkCycles performs a bounded DFS from start, reporting every simple
// path back to start of length 3..maxLen via found.
func walkCycles(start, cur string, path []domain.RouteHop, visited map[string]bool, adj map[string][]domain.Debt, maxLen int, found func([]domain.RouteHop)) {
	for _, d := range adj[cur] {
		next := d.Creditor
		edge := domain.RouteHop{From: d.Debtor, To: d.Creditor, Amount: d.Amount}

		if next == start {
			if len(path)+1 >= 3 {
				found(appendCopy(path, edge))
			}
			continue
		}
		if visited[next] || len(path)+1 >= maxLen {
			continue
		}
		visited[next] = true
		walkCycles(start, next, appendCopy(path, edge), visited, adj, maxLen, found)
		delete(visited, next)
	}
}

// appendCopy returns a fresh slice with edge appended, never sharing
// path's backing array with sibling recursive calls.
func appendCopy(path []domain.RouteHop, edge domain.RouteHop) []domain.RouteHop {
	out := make([]domain.RouteHop, len(path)+1)
	copy(out, path)
	out[len(path)] = edge
	return out
}

func minAmount(edges []domain.RouteHop) int64 {
	min := edges[0].Amount
	for _, e := range edges[1:] {
		if e.Amount < min {
			min = e.Amount
		}
	}
	return min
}

func touchesAny(edges []domain.RouteHop, touched map[domain.Pair]bool) bool {
	for _, e := range edges {
		if touched[domain.NewPair(e.From, e.To)] {
			return true
		}
	}
	return false
}

// activeReservedPairs collects every segment pair with a live prepare
// lock in equivalent, so candidate cycles can reject edges the payment
// engine currently has reserved rather than race it.
func activeReservedPairs(ctx context.Context, s store.Store, equivalent string) (map[domain.Pair]bool, error) {
	debts, err := s.Debts().ListByEquivalent(ctx, equivalent)
	if err != nil {
		return nil, err
	}
	reserved := make(map[domain.Pair]bool)
	for _, d := range debts {
		locks, err := s.PrepareLocks().ListBySegment(ctx, equivalent, d.Debtor, d.Creditor)
		if err != nil {
			return nil, err
		}
		if len(locks) > 0 {
			reserved[domain.NewPair(d.Debtor, d.Creditor)] = true
		}
	}
	return reserved, nil
}

func reservedTouches(edges []domain.RouteHop, reserved map[domain.Pair]bool) bool {
	for _, e := range edges {
		if reserved[domain.NewPair(e.From, e.To)] {
			return true
		}
	}
	return false
}

// Package router is L4: it builds the directed segment capacity graph
// for an equivalent and searches it for feasible payment routes. It is
// grounded structurally on the teacher's path-finding surface
// (capacity-graph multipath search over trust lines) and the
// sandboxed-then-applied pattern the teacher uses to layer in-flight
// adjustments over committed state — here, live PrepareLock
// reservations layered over committed debts and trust lines.
package router

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/geohub/geod/internal/apperr"
	"github.com/geohub/geod/internal/domain"
	"github.com/geohub/geod/internal/router/graphcache"
	"github.com/geohub/geod/internal/store"
)

// Constraints bounds a route search.
type Constraints struct {
	MaxHops        int
	MaxPaths       int
	SearchBudget   time.Duration
	BlockedPIDs    map[string]bool
}

// DefaultConstraints returns the network's documented defaults: at most
// 6 hops, 3 candidate paths, a 500ms search budget.
func DefaultConstraints() Constraints {
	return Constraints{MaxHops: 6, MaxPaths: 3, SearchBudget: 500 * time.Millisecond}
}

// Hop is one edge of a route, with the capacity the router found on it
// at search time.
type Hop struct {
	From, To string
	Capacity int64
}

// RoutePlan is one candidate path with the amount assigned to it by the
// greedy split.
type RoutePlan struct {
	Hops      []Hop
	Assigned  int64
}

// edge is one directed segment in the capacity graph. canBeIntermediate
// carries the segment owner's policy flag through to path search, where
// it is enforced against the node at the far end of the edge (to) only
// when that node is not the route's final destination — "intermediate"
// is relative to a specific search, not a property of the graph itself.
type edge struct {
	to                string
	capacity          int64
	canBeIntermediate bool
}

// graph is an adjacency list over participant PIDs for one equivalent.
type graph struct {
	adj map[string][]edge
}

// Router searches the segment capacity graph built from store for
// feasible payment routes.
type Router struct {
	store store.Store
	cache *graphcache.Cache
}

func New(s store.Store) *Router {
	return &Router{store: s}
}

// WithCache attaches a graph cache. Reads check the cache first and
// populate it on a miss; the cache is never authoritative, so a nil
// cache (the default) simply means every call rebuilds from the store.
func (r *Router) WithCache(c *graphcache.Cache) *Router {
	r.cache = c
	return r
}

// InvalidateCache drops the cached graph for equivalent, if a cache is
// attached. Callers in the payment and clearing engines must call this
// after every commit that changes debts or trust lines for equivalent.
func (r *Router) InvalidateCache(ctx context.Context, equivalent string) error {
	if r.cache == nil {
		return nil
	}
	return r.cache.Invalidate(ctx, equivalent)
}

// BuildGraph loads active trust lines, positive debts, and live
// prepare-lock reservations for equivalent and constructs the directed
// segment capacity graph per the formula:
//
//	c(S->R) = L - debt[S->R,E] + debt[R->S,E] - reserved(S->R,E)
//
// where L is the limit of the trust line R->S. Segments of non-ACTIVE
// lines, segments with non-positive capacity, and segments whose line
// policy blocks the debtor S are omitted. The can_be_intermediate flag
// does not remove a segment here; it is carried on the edge and
// enforced by the path search. The cache, if attached, stores only
// the trust-line/debt component (L - debt[S->R] + debt[R->S]); live
// reservations are always subtracted fresh on every call, cache hit or
// not, since prepare locks churn far faster than trust lines or debts
// and caching them would make the cache authoritative over in-flight
// capacity — exactly what it must never be.
func (r *Router) BuildGraph(ctx context.Context, equivalent string) (*graph, error) {
	base, err := r.baseGraph(ctx, equivalent)
	if err != nil {
		return nil, err
	}

	g := &graph{adj: make(map[string][]edge)}
	for from, edges := range base {
		for _, e := range edges {
			reserved, err := r.reservedCapacity(ctx, equivalent, from, e.to)
			if err != nil {
				return nil, err
			}
			cap := e.capacity - reserved
			if cap <= 0 {
				continue
			}
			g.adj[from] = append(g.adj[from], edge{to: e.to, capacity: cap, canBeIntermediate: e.canBeIntermediate})
		}
	}
	return g, nil
}

// baseGraph returns the trust-line/debt component of the capacity graph,
// consulting the cache first and populating it on a miss.
func (r *Router) baseGraph(ctx context.Context, equivalent string) (map[string][]edge, error) {
	if r.cache != nil {
		if segs, err := r.cache.Get(ctx, equivalent); err == nil {
			adj := make(map[string][]edge, len(segs))
			for _, s := range segs {
				adj[s.From] = append(adj[s.From], edge{to: s.To, capacity: s.Capacity, canBeIntermediate: s.CanBeIntermediate})
			}
			return adj, nil
		} else if err != graphcache.ErrMiss {
			return nil, fmt.Errorf("router: graph cache: %w", err)
		}
	}

	lines, err := r.store.TrustLines().ListByEquivalent(ctx, equivalent)
	if err != nil {
		return nil, fmt.Errorf("router: list trust lines: %w", err)
	}
	debts, err := r.store.Debts().ListByEquivalent(ctx, equivalent)
	if err != nil {
		return nil, fmt.Errorf("router: list debts: %w", err)
	}

	debtOf := make(map[[2]string]int64, len(debts))
	for _, d := range debts {
		debtOf[[2]string{d.Debtor, d.Creditor}] = d.Amount
	}

	adj := make(map[string][]edge)
	var segs []graphcache.Segment
	for _, line := range lines {
		if line.Status != domain.TrustLineActive {
			continue
		}
		// trust line Creditor->Debtor with limit L backs segment
		// Debtor(S) -> Creditor(R): S can owe R up to L.
		s, rcpt, limit := line.Debtor, line.Creditor, line.Limit
		if line.Policy.Blocks(s) {
			continue
		}

		cap := limit - debtOf[[2]string{s, rcpt}] + debtOf[[2]string{rcpt, s}]
		if cap <= 0 {
			continue
		}
		adj[s] = append(adj[s], edge{to: rcpt, capacity: cap, canBeIntermediate: line.Policy.AllowsIntermediate()})
		segs = append(segs, graphcache.Segment{From: s, To: rcpt, Capacity: cap, CanBeIntermediate: line.Policy.AllowsIntermediate()})
	}

	if r.cache != nil {
		if err := r.cache.Put(ctx, equivalent, segs); err != nil {
			return nil, fmt.Errorf("router: populate graph cache: %w", err)
		}
	}
	return adj, nil
}

func (r *Router) reservedCapacity(ctx context.Context, equivalent, from, to string) (int64, error) {
	locks, err := r.store.PrepareLocks().ListBySegment(ctx, equivalent, from, to)
	if err != nil {
		return 0, fmt.Errorf("router: list prepare locks: %w", err)
	}
	var total int64
	for _, l := range locks {
		if l.From == from && l.To == to {
			total += l.Amount
		}
	}
	return total, nil
}

// FindRoutes searches the equivalent's capacity graph for up to
// constraints.MaxPaths feasible paths from from to to covering amount.
func (r *Router) FindRoutes(ctx context.Context, from, to, equivalent string, amount int64, c Constraints) ([]RoutePlan, error) {
	if c.MaxHops <= 0 {
		c = DefaultConstraints()
	}
	searchCtx := ctx
	var cancel context.CancelFunc
	if c.SearchBudget > 0 {
		searchCtx, cancel = context.WithTimeout(ctx, c.SearchBudget)
		defer cancel()
	}

	g, err := r.BuildGraph(ctx, equivalent)
	if err != nil {
		return nil, err
	}

	candidates := kShortestPaths(searchCtx, g, from, to, c)
	timedOut := searchCtx.Err() != nil

	plans, covered := greedySplit(candidates, amount)
	if covered < amount {
		if timedOut && covered > 0 {
			return plans, apperr.New(apperr.Timeout, "router.FindRoutes", "path search budget exceeded with partial coverage").
				WithDetail("covered", covered).WithDetail("requested", amount)
		}
		return nil, apperr.New(apperr.InsufficientCapacity, "router.FindRoutes", "no feasible route set covers the requested amount").
			WithDetail("covered", covered).WithDetail("requested", amount)
	}
	return plans, nil
}

// path is a sequence of hops plus its bottleneck (min-edge) capacity.
type path struct {
	hops     []Hop
	minEdge  int64
}

// kShortestPaths performs a breadth-first search by hop count up to
// c.MaxHops, gated by capacity and blocked participants, returning up to
// c.MaxPaths paths. Within each hop-count class, paths are ordered by
// descending min-edge capacity (max-min-edge preference), then by
// canonical PID order along the path for determinism.
func kShortestPaths(ctx context.Context, g *graph, from, to string, c Constraints) []path {
	type frontierEntry struct {
		node    string
		hops    []Hop
		minEdge int64
		visited map[string]bool
	}

	var found []path
	queue := []frontierEntry{{node: from, minEdge: 1<<63 - 1, visited: map[string]bool{from: true}}}

	for depth := 0; depth <= c.MaxHops && len(queue) > 0; depth++ {
		var next []frontierEntry
		for _, f := range queue {
			select {
			case <-ctx.Done():
				return finalizePaths(found, c.MaxPaths)
			default:
			}

			if f.node == to && depth > 0 {
				found = append(found, path{hops: f.hops, minEdge: f.minEdge})
				continue
			}

			for _, e := range g.adj[f.node] {
				if c.BlockedPIDs[e.to] || f.visited[e.to] {
					continue
				}
				// e.to is an intermediate relay whenever it isn't the
				// route's final destination; such a node must opt in
				// via can_be_intermediate.
				if e.to != to && !e.canBeIntermediate {
					continue
				}
				min := e.capacity
				if f.minEdge < min {
					min = f.minEdge
				}
				visited := make(map[string]bool, len(f.visited)+1)
				for k := range f.visited {
					visited[k] = true
				}
				visited[e.to] = true

				hops := make([]Hop, len(f.hops), len(f.hops)+1)
				copy(hops, f.hops)
				hops = append(hops, Hop{From: f.node, To: e.to, Capacity: e.capacity})

				next = append(next, frontierEntry{node: e.to, hops: hops, minEdge: min, visited: visited})
			}
		}
		queue = next
	}
	return finalizePaths(found, c.MaxPaths)
}

func finalizePaths(found []path, maxPaths int) []path {
	sort.SliceStable(found, func(i, j int) bool {
		if len(found[i].hops) != len(found[j].hops) {
			return len(found[i].hops) < len(found[j].hops)
		}
		if found[i].minEdge != found[j].minEdge {
			return found[i].minEdge > found[j].minEdge
		}
		return pathKey(found[i]) < pathKey(found[j])
	})
	if maxPaths > 0 && len(found) > maxPaths {
		found = found[:maxPaths]
	}
	return found
}

func pathKey(p path) string {
	var key string
	for _, h := range p.hops {
		key += h.To + "|"
	}
	return key
}

// greedySplit assigns amount across candidates from the highest-capacity
// path down, never exceeding a path's min-edge capacity, and returns the
// resulting plans plus the total amount covered.
func greedySplit(candidates []path, amount int64) ([]RoutePlan, int64) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].minEdge > candidates[j].minEdge
	})

	var plans []RoutePlan
	var covered int64
	for _, cand := range candidates {
		if covered >= amount {
			break
		}
		remaining := amount - covered
		assign := cand.minEdge
		if assign > remaining {
			assign = remaining
		}
		if assign <= 0 {
			continue
		}
		plans = append(plans, RoutePlan{Hops: cand.hops, Assigned: assign})
		covered += assign
	}
	return plans, covered
}

package transform

import (
	"maps"
	"slices"

	"github.com/matzehuels/c4x/pkg/dag"
)

// DefaultSweeps is the number of barycenter passes OrderRows runs when
// asked for zero or fewer.
const DefaultSweeps = 8

// OrderRows reorders nodes within each rank to reduce edge crossings and
// returns the crossing count of the ordering it keeps.
//
// Passes alternate direction: downward passes sort each rank by the mean
// position of its parents, upward passes by the mean position of its
// children. Each pass finishes with a transpose step that swaps adjacent
// neighbours while that lowers the local crossing count. The best ordering
// seen, measured with [dag.CountCrossings], is written back to g. Ties keep
// the earlier ordering, so insertion order wins when nothing helps.
//
// Nodes without neighbours in the reference rank keep their position.
func OrderRows(g *dag.DAG, sweeps int) int {
	if sweeps <= 0 {
		sweeps = DefaultSweeps
	}
	rows := g.RowIDs()
	best := g.RowOrders()
	bestCross := dag.CountCrossings(g, best)
	if len(rows) < 2 || bestCross == 0 {
		return bestCross
	}

	cur := cloneOrders(best)
	for pass := range sweeps {
		if pass%2 == 0 {
			for i := 1; i < len(rows); i++ {
				sortByBarycenter(g, cur, rows[i], cur[rows[i-1]], true)
			}
		} else {
			for i := len(rows) - 2; i >= 0; i-- {
				sortByBarycenter(g, cur, rows[i], cur[rows[i+1]], false)
			}
		}
		transpose(g, cur, rows)

		if c := dag.CountCrossings(g, cur); c < bestCross {
			best, bestCross = cloneOrders(cur), c
			if c == 0 {
				break
			}
		}
	}

	for row, ids := range best {
		g.SetRowOrder(row, ids)
	}
	return bestCross
}

func sortByBarycenter(g *dag.DAG, orders map[int][]string, row int, ref []string, useParents bool) {
	ids := orders[row]
	refPos := dag.PosMap(ref)

	bary := make(map[string]float64, len(ids))
	for i, id := range ids {
		nbrs := g.Children(id)
		if useParents {
			nbrs = g.Parents(id)
		}
		sum, n := 0.0, 0
		for _, nb := range nbrs {
			if p, ok := refPos[nb]; ok {
				sum += float64(p)
				n++
			}
		}
		if n == 0 {
			bary[id] = float64(i)
			continue
		}
		bary[id] = sum / float64(n)
	}

	slices.SortStableFunc(ids, func(a, b string) int {
		switch {
		case bary[a] < bary[b]:
			return -1
		case bary[a] > bary[b]:
			return 1
		}
		return 0
	})
}

// transpose swaps adjacent nodes while the swap reduces crossings against
// both neighbouring ranks.
func transpose(g *dag.DAG, orders map[int][]string, rows []int) {
	for improved, rounds := true, 0; improved && rounds < 4; rounds++ {
		improved = false
		for ri, row := range rows {
			var above, below map[string]int
			if ri > 0 {
				above = dag.PosMap(orders[rows[ri-1]])
			}
			if ri < len(rows)-1 {
				below = dag.PosMap(orders[rows[ri+1]])
			}
			ids := orders[row]
			for i := 0; i+1 < len(ids); i++ {
				a, b := ids[i], ids[i+1]
				before := pairCost(g, a, b, above, below)
				after := pairCost(g, b, a, above, below)
				if after < before {
					ids[i], ids[i+1] = b, a
					improved = true
				}
			}
		}
	}
}

func pairCost(g *dag.DAG, left, right string, above, below map[string]int) int {
	c := 0
	if above != nil {
		c += dag.CountPairCrossings(g, left, right, above, true)
	}
	if below != nil {
		c += dag.CountPairCrossings(g, left, right, below, false)
	}
	return c
}

func cloneOrders(orders map[int][]string) map[int][]string {
	out := make(map[int][]string, len(orders))
	for _, row := range slices.Sorted(maps.Keys(orders)) {
		out[row] = slices.Clone(orders[row])
	}
	return out
}

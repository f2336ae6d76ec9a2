package transform

import "github.com/matzehuels/c4x/pkg/dag"

// AssignLayers assigns every node to a rank using longest-path layering.
//
// Sources sit on rank 0 and every other node sits one rank below its deepest
// parent, so each edge points strictly forward. The traversal is Kahn's
// algorithm seeded in insertion order; nodes left on a cycle keep rank 0, so
// run [BreakCycles] first.
//
// Existing row assignments are overwritten. Time complexity is O(V + E).
func AssignLayers(g *dag.DAG) {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	rows := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		rows[n.ID] = 0
		degree := g.InDegree(n.ID)
		inDegree[n.ID] = degree
		if degree == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	g.SetRows(rows)
}

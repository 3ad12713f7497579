package lineage

// AssignLevels computes an integer depth for every node, determining the row
// a node is drawn in.
//
// Roots are nodes with no incoming edge; every root sits at level 0 and each
// node first discovered through an edge sits one level below its parent.
// Because discovery is breadth-first from all roots simultaneously, a node
// reachable over several paths gets the level of the shortest one (minimum
// hops from any root).
//
// # Algorithm
//
// AssignLevels performs a multi-source BFS:
//  1. Seed the queue with all zero in-degree nodes at level 0, in input order
//  2. Process the queue: each unleveled child gets level(parent)+1
//  3. A node is leveled at most once; revisits are skipped
//
// The single-assignment guard is what makes the traversal cycle-safe: a back
// edge leads to an already leveled node and is ignored, so the walk halts on
// any input.
//
// # Fallback Roots
//
// A graph can have no natural root at all (a pure cycle, or empty input). In
// that case every node is treated as its own root at level 0. The same rule
// covers rootless cyclic subcomponents hiding behind natural roots: whatever
// BFS leaves unleveled is self-rooted at 0 in a final sweep. Completeness
// holds either way; every node in the input has an entry in the result.
//
// # Performance
//
// Time complexity is O(V + E). Space complexity is O(V + E) for the
// adjacency list, queue, and level map.
//
// The result is a pure function of the input: same nodes and edges, same
// levels. Edges referencing unknown nodes are ignored, so AssignLevels is
// safe on unsanitized input too, though callers normally run [Sanitize]
// first.
func AssignLevels(nodes []Node, edges []Edge) map[string]int {
	levels := make(map[string]int, len(nodes))
	if len(nodes) == 0 {
		return levels
	}

	present := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		present[n.ID] = true
	}

	children := make(map[string][]string, len(nodes))
	indegree := make(map[string]int, len(nodes))
	for _, e := range edges {
		if !present[e.From] || !present[e.To] {
			continue
		}
		children[e.From] = append(children[e.From], e.To)
		indegree[e.To]++
	}

	queue := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if _, seen := levels[n.ID]; seen {
			continue
		}
		if indegree[n.ID] == 0 {
			levels[n.ID] = 0
			queue = append(queue, n.ID)
		}
	}

	if len(queue) == 0 {
		// Pure cycle: no node has zero in-degree, so every node becomes its
		// own root.
		for _, n := range nodes {
			levels[n.ID] = 0
		}
		return levels
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range children[curr] {
			if _, seen := levels[child]; seen {
				continue
			}
			levels[child] = levels[curr] + 1
			queue = append(queue, child)
		}
	}

	// Rootless cyclic subcomponents are unreachable from any natural root.
	for _, n := range nodes {
		if _, seen := levels[n.ID]; !seen {
			levels[n.ID] = 0
		}
	}

	return levels
}

// Roots returns the ids of nodes with no incoming edge, in input order.
// Edges referencing unknown nodes are ignored.
func Roots(nodes []Node, edges []Edge) []string {
	present := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		present[n.ID] = true
	}

	hasIncoming := make(map[string]bool, len(nodes))
	for _, e := range edges {
		if present[e.From] && present[e.To] {
			hasIncoming[e.To] = true
		}
	}

	var roots []string
	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if seen[n.ID] || hasIncoming[n.ID] {
			continue
		}
		seen[n.ID] = true
		roots = append(roots, n.ID)
	}
	return roots
}

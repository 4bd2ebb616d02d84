package graph

import "context"

// Colors for the depth-first search.
const (
	white = iota // unvisited
	gray         // on the current path
	black        // finished
)

// cancelCheckInterval bounds how many nodes are visited between context checks.
const cancelCheckInterval = 256

// Cycles runs a three-color depth-first search over the resolved edges. Every edge that reaches a
// gray node closes a cycle; the returned cycles hold the path members from that node back to the
// current one, in path order. Traversal follows declaration order so the result is deterministic.
func (ix *Index) Cycles(ctx context.Context) ([][]string, error) {
	color := make(map[string]int, len(ix.nodes))
	path := make([]string, 0, len(ix.nodes))
	cycles := make([][]string, 0)
	visited := 0

	var visit func(id string) error
	visit = func(id string) error {
		visited++
		if visited%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		color[id] = gray
		path = append(path, id)

		for _, next := range ix.successors[id] {
			switch color[next] {
			case gray:
				start := len(path) - 1
				for start > 0 && path[start] != next {
					start--
				}

				cycles = append(cycles, append([]string(nil), path[start:]...))
			case white:
				if err := visit(next); err != nil {
					return err
				}
			}
		}

		path = path[:len(path)-1]
		color[id] = black

		return nil
	}

	for _, node := range ix.nodes {
		if color[node.ID] != white {
			continue
		}

		if err := visit(node.ID); err != nil {
			return nil, err
		}
	}

	return cycles, nil
}

// CycleMembers returns every node that appears in a detected cycle, once, in declaration order.
func (ix *Index) CycleMembers(ctx context.Context) ([]string, error) {
	cycles, err := ix.Cycles(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	members := make([]string, 0)

	for _, cycle := range cycles {
		for _, id := range cycle {
			if _, ok := seen[id]; ok {
				continue
			}

			seen[id] = struct{}{}
			members = append(members, id)
		}
	}

	ix.sortByPosition(members)

	return members, nil
}

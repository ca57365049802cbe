package query

import (
	"fmt"

	"git.canoozie.net/riddling/memgraph/pkg/model"
	"git.canoozie.net/riddling/memgraph/pkg/storage"
)

// DepthUnbounded disables the depth cutoff of a traversal
const DepthUnbounded = -1

// TraversalNode is one node discovered by a traversal, tagged with its
// depth (edge-hops from the start node).
type TraversalNode struct {
	Node  *model.Node
	Depth int
}

// TraversalVisitor is called for each node a traversal yields, in BFS
// discovery order. Returning false stops the traversal early.
type TraversalVisitor func(node *model.Node, depth int) (bool, error)

// Traversal performs depth-bounded, filtered breadth-first exploration
// over the edge store.
type Traversal struct {
	db     *storage.DB
	logger model.Logger
}

// NewTraversal creates a new traversal engine over the given database
func NewTraversal(db *storage.DB, logger model.Logger) *Traversal {
	if logger == nil {
		logger = model.NewNoOpLogger()
	}
	return &Traversal{db: db, logger: logger}
}

// Run explores the graph breadth-first from the start key, calling the
// visitor for each yielded node.
//
// Semantics:
//   - The start node is always yielded at depth 0, filter or not; it is
//     the query anchor, not a discovered connection.
//   - Each node is visited at most once however many paths reach it, so
//     traversal terminates on cyclic graphs.
//   - Nodes beyond maxDepth are neither yielded nor expanded; a
//     negative maxDepth means no cutoff.
//   - A filter (a PropertyFilter descriptor) narrows what is yielded,
//     not what is reachable: a node failing the filter is skipped but
//     its neighbors are still explored.
func (t *Traversal) Run(start model.NodeKey, filter *Query, maxDepth int, visitor TraversalVisitor) error {
	if filter != nil && filter.Type != QueryTypePropertyFilter {
		return fmt.Errorf("%w: traversal filter must be of the form key=value, got %q", ErrInvalidQuery, filter)
	}

	startNode, err := t.db.LookupByID(start.Label, start.ID)
	if err != nil {
		return err
	}

	cont, err := visitor(startNode, 0)
	if err != nil || !cont {
		return err
	}

	type entry struct {
		key   model.NodeKey
		depth int
	}
	queue := []entry{{key: start, depth: 0}}
	visited := map[model.NodeKey]bool{start: true}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if maxDepth >= 0 && current.depth >= maxDepth {
			continue
		}

		for _, neighborKey := range t.db.Neighbors(current.key) {
			if visited[neighborKey] {
				continue
			}
			visited[neighborKey] = true

			neighbor, err := t.db.LookupByID(neighborKey.Label, neighborKey.ID)
			if err != nil {
				// Connect rejects dangling endpoints, so the neighbor
				// must exist.
				return model.ErrInvariantViolation{
					Detail: fmt.Sprintf("edge store references missing node %s", neighborKey),
				}
			}

			if matchesFilter(neighbor, filter) {
				cont, err := visitor(neighbor, current.depth+1)
				if err != nil || !cont {
					return err
				}
			}

			queue = append(queue, entry{key: neighborKey, depth: current.depth + 1})
		}
	}

	return nil
}

// Collect runs a traversal and returns the yielded nodes in discovery
// order, each tagged with its depth.
func (t *Traversal) Collect(start model.NodeKey, filter *Query, maxDepth int) ([]TraversalNode, error) {
	var result []TraversalNode
	err := t.Run(start, filter, maxDepth, func(node *model.Node, depth int) (bool, error) {
		result = append(result, TraversalNode{Node: node, Depth: depth})
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// matchesFilter reports whether the node satisfies the equality filter.
// A nil filter matches everything; a node lacking the property fails.
func matchesFilter(node *model.Node, filter *Query) bool {
	if filter == nil {
		return true
	}
	value, ok := node.GetProperty(filter.Key)
	return ok && value == filter.Value
}

package query

import (
	"fmt"

	"git.canoozie.net/riddling/memgraph/pkg/model"
	"git.canoozie.net/riddling/memgraph/pkg/storage"
)

// Engine is the query processing facade over one database: textual
// queries, identity addressing and graph traversal.
type Engine struct {
	Executor  *Executor
	Traversal *Traversal
	logger    model.Logger
}

// NewEngine creates a new query engine over the given database
func NewEngine(db *storage.DB, logger model.Logger) *Engine {
	if logger == nil {
		logger = model.NewNoOpLogger()
	}
	return &Engine{
		Executor:  NewExecutor(db, logger),
		Traversal: NewTraversal(db, logger),
		logger:    logger,
	}
}

// Query parses and executes a textual query, returning the matching
// nodes with their full property maps.
func (e *Engine) Query(queryStr string) (*Result, error) {
	query, err := Parse(queryStr)
	if err != nil {
		return nil, err
	}
	return e.Executor.Execute(query)
}

// QueryByID resolves an identity address of the form "Label:id" to a
// single node. Any other query form is rejected.
func (e *Engine) QueryByID(address string) (*model.Node, error) {
	query, err := Parse(address)
	if err != nil {
		return nil, err
	}
	if query.Type != QueryTypeByID {
		return nil, fmt.Errorf("%w: %q does not address a single node, expected \"Label:id\"", ErrInvalidQuery, address)
	}
	result, err := e.Executor.Execute(query)
	if err != nil {
		return nil, err
	}
	return result.Nodes[0], nil
}

// GraphQuery explores the graph from the node addressed by start
// ("Label:id"), breadth-first, up to maxDepth edge-hops (negative for
// unbounded). A non-empty filter of the form "key=value" narrows the
// returned nodes without pruning exploration; the start node is always
// included. Results come back in BFS discovery order, tagged by depth.
func (e *Engine) GraphQuery(start, filter string, maxDepth int) ([]TraversalNode, error) {
	startQuery, err := Parse(start)
	if err != nil {
		return nil, err
	}
	if startQuery.Type != QueryTypeByID {
		return nil, fmt.Errorf("%w: traversal start %q must address a single node, expected \"Label:id\"", ErrInvalidQuery, start)
	}

	var filterQuery *Query
	if filter != "" {
		filterQuery, err = ParseFilter(filter)
		if err != nil {
			return nil, err
		}
	}

	return e.Traversal.Collect(model.NodeKey{Label: startQuery.Label, ID: startQuery.ID}, filterQuery, maxDepth)
}

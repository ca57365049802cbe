package query

import (
	"fmt"

	"git.canoozie.net/riddling/memgraph/pkg/model"
	"git.canoozie.net/riddling/memgraph/pkg/storage"
)

// Result represents a query result
type Result struct {
	Nodes []*model.Node
}

// Keys returns the identity keys of the result's nodes in result order
func (r *Result) Keys() []model.NodeKey {
	keys := make([]model.NodeKey, len(r.Nodes))
	for i, node := range r.Nodes {
		keys[i] = node.Key()
	}
	return keys
}

// Executor resolves query descriptors against the store's indexes.
// Every descriptor maps onto exactly one index lookup; the executor
// never scans the node set except for the inherently O(n) AllNodes.
type Executor struct {
	db     *storage.DB
	logger model.Logger
}

// NewExecutor creates a new query executor over the given database
func NewExecutor(db *storage.DB, logger model.Logger) *Executor {
	if logger == nil {
		logger = model.NewNoOpLogger()
	}
	return &Executor{db: db, logger: logger}
}

// Execute resolves a descriptor and returns the matching nodes with
// their full property maps. Result order is (label, id) sorted; the
// match set itself is order-insensitive.
func (e *Executor) Execute(query *Query) (*Result, error) {
	switch query.Type {
	case QueryTypeAllNodes:
		return &Result{Nodes: e.db.Nodes()}, nil
	case QueryTypeAllOfLabel:
		return &Result{Nodes: e.db.LookupByLabel(query.Label)}, nil
	case QueryTypeByID:
		node, err := e.db.LookupByID(query.Label, query.ID)
		if err != nil {
			return nil, err
		}
		return &Result{Nodes: []*model.Node{node}}, nil
	case QueryTypeByProperty:
		return &Result{Nodes: e.db.LookupByProperty(query.Label, query.Key, query.Value)}, nil
	case QueryTypePropertyFilter:
		return nil, fmt.Errorf("%w: filter %q cannot be executed as a standalone query", ErrInvalidQuery, query)
	default:
		return nil, fmt.Errorf("%w: unsupported query type %s", ErrInvalidQuery, query.Type)
	}
}

// Package storage implements the in-memory property store, edge store
// and index manager behind the query engine. All state is owned by a
// single DB handle; mutations update the indexes synchronously under a
// write lock, so readers never observe a half-indexed node.
package storage

import (
	"fmt"
	"sort"
	"sync"

	"git.canoozie.net/riddling/memgraph/pkg/model"
)

// propertyKey addresses one entry of the property index. Keying the map
// on the full (label, key, value) triple keeps point lookups O(1)
// without any collision handling.
type propertyKey struct {
	label string
	key   string
	value string
}

// DB holds all graph state: the property store (nodes and their
// property maps), the edge store (symmetric adjacency), and the three
// derived indexes. Concurrency model is multi-reader/single-writer:
// lookups take the read lock, every mutation takes the write lock for
// the whole of its index update.
type DB struct {
	mu     sync.RWMutex
	logger model.Logger

	// nodes doubles as the property store and the identity index:
	// (label, id) -> node is the canonical O(1) lookup.
	nodes map[model.NodeKey]*model.Node

	// labels is the label index: label -> set of ids.
	labels map[string]map[string]struct{}

	// properties is the inverted property index:
	// (label, key, value) -> set of node keys.
	properties map[propertyKey]map[model.NodeKey]struct{}

	// edges is the adjacency of the edge store. Undirected: an edge is
	// recorded under both endpoints, duplicates collapse into the set.
	edges map[model.NodeKey]map[model.NodeKey]struct{}
}

// NewDB creates an empty database. A nil logger disables logging.
func NewDB(logger model.Logger) *DB {
	if logger == nil {
		logger = model.NewNoOpLogger()
	}
	return &DB{
		logger:     logger,
		nodes:      make(map[model.NodeKey]*model.Node),
		labels:     make(map[string]map[string]struct{}),
		properties: make(map[propertyKey]map[model.NodeKey]struct{}),
		edges:      make(map[model.NodeKey]map[model.NodeKey]struct{}),
	}
}

// AddNode creates a node with an empty property map. Re-adding an
// existing (label, id) is a no-op; the return value reports whether a
// node was actually created.
func (db *DB) AddNode(label, id string) bool {
	db.mu.Lock()
	defer db.mu.Unlock()

	key := model.NodeKey{Label: label, ID: id}
	if _, exists := db.nodes[key]; exists {
		return false
	}

	db.nodes[key] = model.NewNode(label, id)
	ids, ok := db.labels[label]
	if !ok {
		ids = make(map[string]struct{})
		db.labels[label] = ids
	}
	ids[id] = struct{}{}

	db.logger.Debug("added node %s", key)
	return true
}

// AddNodeStrict creates a node like AddNode but reports
// ErrDuplicateNode if the (label, id) pair already exists.
func (db *DB) AddNodeStrict(label, id string) error {
	if !db.AddNode(label, id) {
		return model.ErrDuplicateNode{Key: model.NodeKey{Label: label, ID: id}}
	}
	return nil
}

// SetProperty sets or overwrites a property on an existing node and
// re-points the property index in the same critical section: the
// membership under the old value is removed before the one under the
// new value is inserted, so no reader sees the node under both or
// neither.
func (db *DB) SetProperty(label, id, key, value string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	nodeKey := model.NodeKey{Label: label, ID: id}
	node, exists := db.nodes[nodeKey]
	if !exists {
		return model.ErrNodeNotFound{Key: nodeKey}
	}

	if old, had := node.Properties[key]; had {
		if old == value {
			return nil
		}
		db.unindexProperty(propertyKey{label: label, key: key, value: old}, nodeKey)
	}

	node.Properties[key] = value
	db.indexProperty(propertyKey{label: label, key: key, value: value}, nodeKey)

	db.logger.Debug("set property %s.%s=%s", nodeKey, key, value)
	return nil
}

// GetNode returns a copy of the node's record, or ErrNodeNotFound.
func (db *DB) GetNode(label, id string) (*model.Node, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	key := model.NodeKey{Label: label, ID: id}
	node, exists := db.nodes[key]
	if !exists {
		return nil, model.ErrNodeNotFound{Key: key}
	}
	return node.Clone(), nil
}

// Connect records an undirected edge between two existing nodes.
// Either endpoint missing is ErrNodeNotFound; duplicate edges collapse
// into the adjacency set; a node cannot connect to itself.
func (db *DB) Connect(a, b model.NodeKey) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if a == b {
		return fmt.Errorf("cannot connect %s to itself", a)
	}
	if _, exists := db.nodes[a]; !exists {
		return model.ErrNodeNotFound{Key: a}
	}
	if _, exists := db.nodes[b]; !exists {
		return model.ErrNodeNotFound{Key: b}
	}

	db.addAdjacent(a, b)
	db.addAdjacent(b, a)

	db.logger.Debug("connected %s and %s", a, b)
	return nil
}

// Neighbors returns the keys adjacent to the given node, sorted by
// (label, id) so traversal discovery order is deterministic. A node
// with no connections yields an empty slice.
func (db *DB) Neighbors(key model.NodeKey) []model.NodeKey {
	db.mu.RLock()
	defer db.mu.RUnlock()

	adjacent := db.edges[key]
	keys := make([]model.NodeKey, 0, len(adjacent))
	for k := range adjacent {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}

func (db *DB) addAdjacent(from, to model.NodeKey) {
	adjacent, ok := db.edges[from]
	if !ok {
		adjacent = make(map[model.NodeKey]struct{})
		db.edges[from] = adjacent
	}
	adjacent[to] = struct{}{}
}

func (db *DB) indexProperty(pk propertyKey, nodeKey model.NodeKey) {
	members, ok := db.properties[pk]
	if !ok {
		members = make(map[model.NodeKey]struct{})
		db.properties[pk] = members
	}
	members[nodeKey] = struct{}{}
}

func (db *DB) unindexProperty(pk propertyKey, nodeKey model.NodeKey) {
	members, ok := db.properties[pk]
	if !ok {
		return
	}
	delete(members, nodeKey)
	if len(members) == 0 {
		delete(db.properties, pk)
	}
}

func sortKeys(keys []model.NodeKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Label != keys[j].Label {
			return keys[i].Label < keys[j].Label
		}
		return keys[i].ID < keys[j].ID
	})
}

package storage

import (
	"fmt"
	"sort"

	"git.canoozie.net/riddling/memgraph/pkg/model"
)

// LookupByID resolves a (label, id) pair through the identity index,
// or reports ErrNodeNotFound.
func (db *DB) LookupByID(label, id string) (*model.Node, error) {
	return db.GetNode(label, id)
}

// LookupByLabel returns copies of all nodes carrying the label, sorted
// by id. An unknown label is an empty result, not an error.
func (db *DB) LookupByLabel(label string) []*model.Node {
	db.mu.RLock()
	defer db.mu.RUnlock()

	ids := db.labels[label]
	nodes := make([]*model.Node, 0, len(ids))
	for id := range ids {
		nodes = append(nodes, db.nodes[model.NodeKey{Label: label, ID: id}].Clone())
	}
	sortNodes(nodes)
	return nodes
}

// LookupByProperty returns copies of all nodes of the label whose
// property key currently equals value. The inverted index makes the
// point lookup O(1); only materializing the matches costs per-result.
func (db *DB) LookupByProperty(label, key, value string) []*model.Node {
	db.mu.RLock()
	defer db.mu.RUnlock()

	members := db.properties[propertyKey{label: label, key: key, value: value}]
	nodes := make([]*model.Node, 0, len(members))
	for nodeKey := range members {
		nodes = append(nodes, db.nodes[nodeKey].Clone())
	}
	sortNodes(nodes)
	return nodes
}

// Nodes returns copies of every node in the store, sorted by
// (label, id). Enumerating all nodes is inherently O(n).
func (db *DB) Nodes() []*model.Node {
	db.mu.RLock()
	defer db.mu.RUnlock()

	nodes := make([]*model.Node, 0, len(db.nodes))
	for _, node := range db.nodes {
		nodes = append(nodes, node.Clone())
	}
	sortNodes(nodes)
	return nodes
}

// Edges returns every distinct edge once, ordered by its lower
// endpoint. The minimal model stores no edge attributes, so the
// records come back with a nil property map; see model.Edge.
func (db *DB) Edges() []*model.Edge {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var result []*model.Edge
	for from, adjacent := range db.edges {
		for to := range adjacent {
			// Each undirected edge appears under both endpoints; emit
			// it from the lesser one only.
			if lessKey(from, to) {
				result = append(result, model.NewEdge(from, to))
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].A != result[j].A {
			return lessKey(result[i].A, result[j].A)
		}
		return lessKey(result[i].B, result[j].B)
	})
	return result
}

func lessKey(a, b model.NodeKey) bool {
	if a.Label != b.Label {
		return a.Label < b.Label
	}
	return a.ID < b.ID
}

// NodeCount returns the number of nodes in the store
func (db *DB) NodeCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.nodes)
}

// CheckInvariants audits the derived indexes against the property
// store and reports the first divergence as ErrInvariantViolation.
// Correct mutation code can never make it fail; it exists for tests.
func (db *DB) CheckInvariants() error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	// Every node appears in its label's index entry, and every property
	// it holds has a matching index membership.
	for nodeKey, node := range db.nodes {
		if _, ok := db.labels[node.Label][node.ID]; !ok {
			return model.ErrInvariantViolation{
				Detail: fmt.Sprintf("node %s missing from label index", nodeKey),
			}
		}
		for key, value := range node.Properties {
			pk := propertyKey{label: node.Label, key: key, value: value}
			if _, ok := db.properties[pk][nodeKey]; !ok {
				return model.ErrInvariantViolation{
					Detail: fmt.Sprintf("node %s missing from property index for %s=%s", nodeKey, key, value),
				}
			}
		}
	}

	// No stale memberships: every index entry points at a live node
	// whose current property value matches the entry.
	for label, ids := range db.labels {
		for id := range ids {
			if _, ok := db.nodes[model.NodeKey{Label: label, ID: id}]; !ok {
				return model.ErrInvariantViolation{
					Detail: fmt.Sprintf("label index references missing node %s:%s", label, id),
				}
			}
		}
	}
	for pk, members := range db.properties {
		for nodeKey := range members {
			node, ok := db.nodes[nodeKey]
			if !ok {
				return model.ErrInvariantViolation{
					Detail: fmt.Sprintf("property index references missing node %s", nodeKey),
				}
			}
			if node.Properties[pk.key] != pk.value {
				return model.ErrInvariantViolation{
					Detail: fmt.Sprintf("stale property index membership %s for %s=%s", nodeKey, pk.key, pk.value),
				}
			}
		}
	}

	// No dangling edges.
	for from, adjacent := range db.edges {
		if _, ok := db.nodes[from]; !ok {
			return model.ErrInvariantViolation{
				Detail: fmt.Sprintf("edge store references missing node %s", from),
			}
		}
		for to := range adjacent {
			if _, ok := db.edges[to][from]; !ok {
				return model.ErrInvariantViolation{
					Detail: fmt.Sprintf("asymmetric edge %s -> %s", from, to),
				}
			}
		}
	}

	return nil
}

func sortNodes(nodes []*model.Node) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Label != nodes[j].Label {
			return nodes[i].Label < nodes[j].Label
		}
		return nodes[i].ID < nodes[j].ID
	})
}

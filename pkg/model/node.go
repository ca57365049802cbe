package model

import "fmt"

// NodeKey is the composite identity of a node. IDs are unique within a
// label; the (Label, ID) pair is unique across the graph.
type NodeKey struct {
	Label string // Type or category of the node
	ID    string // Identifier, unique within the label
}

// String formats the key in the query-language address form "Label:id".
func (k NodeKey) String() string {
	return k.Label + ":" + k.ID
}

// Node represents a vertex in the graph database
type Node struct {
	Label      string            // Type or category of the node
	ID         string            // Identifier, unique within the label
	Properties map[string]string // Key-value pairs of node properties
}

// NewNode creates a new Node with the given label and ID
func NewNode(label, id string) *Node {
	return &Node{
		Label:      label,
		ID:         id,
		Properties: make(map[string]string),
	}
}

// Key returns the node's composite identity key
func (n *Node) Key() NodeKey {
	return NodeKey{Label: n.Label, ID: n.ID}
}

// GetProperty retrieves a property value by key
func (n *Node) GetProperty(key string) (string, bool) {
	value, exists := n.Properties[key]
	return value, exists
}

// Clone returns a copy of the node with its own property map. Lookups
// hand out clones so callers cannot mutate indexed state behind the
// store's back.
func (n *Node) Clone() *Node {
	props := make(map[string]string, len(n.Properties))
	for k, v := range n.Properties {
		props[k] = v
	}
	return &Node{Label: n.Label, ID: n.ID, Properties: props}
}

// String returns a compact representation used by the CLI and tests
func (n *Node) String() string {
	return fmt.Sprintf("{label: %s, id: %s, properties: %v}", n.Label, n.ID, n.Properties)
}

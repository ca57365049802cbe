package model

// Edge represents an undirected connection between two nodes. The core
// model carries no edge attributes; Properties is an extension point
// for application layers that need them and stays nil otherwise.
type Edge struct {
	A          NodeKey
	B          NodeKey
	Properties map[string]string
}

// NewEdge creates a new Edge between two node keys
func NewEdge(a, b NodeKey) *Edge {
	return &Edge{A: a, B: b}
}

// Other returns the endpoint opposite to the given key, and whether the
// key is an endpoint of this edge at all.
func (e *Edge) Other(key NodeKey) (NodeKey, bool) {
	switch key {
	case e.A:
		return e.B, true
	case e.B:
		return e.A, true
	}
	return NodeKey{}, false
}

package query

import (
	"errors"
	"testing"

	"git.canoozie.net/riddling/memgraph/pkg/model"
	"git.canoozie.net/riddling/memgraph/pkg/storage"
)

func key(id string) model.NodeKey {
	return model.NodeKey{Label: "Student", ID: id}
}

// chainDB builds a -- b -- c -- d with courses alternating SW600/SW610.
func chainDB(t *testing.T) *storage.DB {
	t.Helper()
	db := storage.NewDB(nil)
	courses := map[string]string{"a": "SW600", "b": "SW610", "c": "SW600", "d": "SW610"}
	for _, id := range []string{"a", "b", "c", "d"} {
		db.AddNode("Student", id)
		db.SetProperty("Student", id, "course", courses[id])
	}
	db.Connect(key("a"), key("b"))
	db.Connect(key("b"), key("c"))
	db.Connect(key("c"), key("d"))
	return db
}

func collectIDs(t *testing.T, db *storage.DB, start model.NodeKey, filter *Query, maxDepth int) []string {
	t.Helper()
	result, err := NewTraversal(db, nil).Collect(start, filter, maxDepth)
	if err != nil {
		t.Fatalf("Unexpected traversal error: %v", err)
	}
	ids := make([]string, len(result))
	for i, tn := range result {
		ids[i] = tn.Node.ID
	}
	return ids
}

func TestTraversalDiscoveryOrder(t *testing.T) {
	db := storage.NewDB(nil)
	db.AddNode("Student", "abc")
	db.AddNode("Student", "xyz")
	db.Connect(key("abc"), key("xyz"))

	ids := collectIDs(t, db, key("abc"), nil, DepthUnbounded)
	if len(ids) != 2 || ids[0] != "abc" || ids[1] != "xyz" {
		t.Errorf("Expected [abc xyz], got %v", ids)
	}
}

func TestTraversalDepthZeroReturnsOnlyStart(t *testing.T) {
	db := chainDB(t)

	ids := collectIDs(t, db, key("a"), nil, 0)
	if len(ids) != 1 || ids[0] != "a" {
		t.Errorf("Expected only the start node, got %v", ids)
	}
}

func TestTraversalDepthBound(t *testing.T) {
	db := chainDB(t)

	tests := []struct {
		maxDepth int
		want     []string
	}{
		{0, []string{"a"}},
		{1, []string{"a", "b"}},
		{2, []string{"a", "b", "c"}},
		{3, []string{"a", "b", "c", "d"}},
		{DepthUnbounded, []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		ids := collectIDs(t, db, key("a"), nil, tt.maxDepth)
		if len(ids) != len(tt.want) {
			t.Errorf("maxDepth=%d: expected %v, got %v", tt.maxDepth, tt.want, ids)
			continue
		}
		for i := range tt.want {
			if ids[i] != tt.want[i] {
				t.Errorf("maxDepth=%d: expected %v, got %v", tt.maxDepth, tt.want, ids)
				break
			}
		}
	}
}

func TestTraversalDepthTags(t *testing.T) {
	db := chainDB(t)

	result, err := NewTraversal(db, nil).Collect(key("a"), nil, DepthUnbounded)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for i, wantDepth := range []int{0, 1, 2, 3} {
		if result[i].Depth != wantDepth {
			t.Errorf("Expected node %d at depth %d, got %d", i, wantDepth, result[i].Depth)
		}
	}
}

// Filter narrows the result set, not the reachable set: b fails the
// filter but its neighbor c still appears.
func TestTraversalFilterDoesNotPrune(t *testing.T) {
	db := chainDB(t)
	filter := &Query{Type: QueryTypePropertyFilter, Key: "course", Value: "SW600"}

	ids := collectIDs(t, db, key("a"), filter, DepthUnbounded)
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "c" {
		t.Errorf("Expected [a c], got %v", ids)
	}
}

// The start node is the query anchor: it is always included, filter
// match or not.
func TestTraversalStartBypassesFilter(t *testing.T) {
	db := chainDB(t)
	filter := &Query{Type: QueryTypePropertyFilter, Key: "course", Value: "SW610"}

	ids := collectIDs(t, db, key("a"), filter, DepthUnbounded)
	if len(ids) != 3 || ids[0] != "a" || ids[1] != "b" || ids[2] != "d" {
		t.Errorf("Expected [a b d], got %v", ids)
	}
}

func TestTraversalFilterRespectsDepthBound(t *testing.T) {
	db := chainDB(t)
	filter := &Query{Type: QueryTypePropertyFilter, Key: "course", Value: "SW610"}

	// d is 3 hops away: within the filter but beyond the bound.
	ids := collectIDs(t, db, key("a"), filter, 2)
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("Expected [a b], got %v", ids)
	}
}

func TestTraversalCycleSafety(t *testing.T) {
	db := storage.NewDB(nil)
	for _, id := range []string{"a", "b", "c"} {
		db.AddNode("Student", id)
	}
	db.Connect(key("a"), key("b"))
	db.Connect(key("b"), key("c"))
	db.Connect(key("c"), key("a"))

	ids := collectIDs(t, db, key("a"), nil, DepthUnbounded)
	if len(ids) != 3 {
		t.Fatalf("Expected each of a, b, c exactly once, got %v", ids)
	}
	seen := map[string]bool{}
	for _, id := range ids {
		if seen[id] {
			t.Errorf("Node %s visited twice", id)
		}
		seen[id] = true
	}
}

func TestTraversalMissingStart(t *testing.T) {
	db := storage.NewDB(nil)

	err := NewTraversal(db, nil).Run(key("ghost"), nil, DepthUnbounded, func(*model.Node, int) (bool, error) {
		t.Error("Visitor must not be called for a missing start node")
		return false, nil
	})
	var notFound model.ErrNodeNotFound
	if !errors.As(err, &notFound) {
		t.Errorf("Expected ErrNodeNotFound, got %v", err)
	}
}

func TestTraversalRejectsNonFilterDescriptor(t *testing.T) {
	db := chainDB(t)

	err := NewTraversal(db, nil).Run(key("a"), &Query{Type: QueryTypeByID, Label: "Student", ID: "a"}, DepthUnbounded,
		func(*model.Node, int) (bool, error) { return true, nil })
	if !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("Expected ErrInvalidQuery, got %v", err)
	}
}

func TestTraversalVisitorEarlyStop(t *testing.T) {
	db := chainDB(t)

	visits := 0
	err := NewTraversal(db, nil).Run(key("a"), nil, DepthUnbounded, func(*model.Node, int) (bool, error) {
		visits++
		return visits < 2, nil
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if visits != 2 {
		t.Errorf("Expected the traversal to stop after 2 visits, got %d", visits)
	}
}

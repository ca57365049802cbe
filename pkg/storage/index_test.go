package storage

import (
	"testing"

	"git.canoozie.net/riddling/memgraph/pkg/model"
)

func TestLookupByLabel(t *testing.T) {
	db := NewDB(nil)
	db.AddNode("Student", "xyz")
	db.AddNode("Student", "abc")
	db.AddNode("Teacher", "abc")

	nodes := db.LookupByLabel("Student")
	if len(nodes) != 2 {
		t.Fatalf("Expected 2 students, got %d", len(nodes))
	}
	if nodes[0].ID != "abc" || nodes[1].ID != "xyz" {
		t.Errorf("Expected [abc xyz], got [%s %s]", nodes[0].ID, nodes[1].ID)
	}

	if nodes := db.LookupByLabel("Ghost"); len(nodes) != 0 {
		t.Errorf("Expected empty result for unknown label, got %v", nodes)
	}
}

func TestLookupByID(t *testing.T) {
	db := NewDB(nil)
	db.AddNode("Student", "abc")

	node, err := db.LookupByID("Student", "abc")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if node.Label != "Student" || node.ID != "abc" {
		t.Errorf("Unexpected node %v", node)
	}

	if _, err := db.LookupByID("Student", "missing"); err == nil {
		t.Error("Expected error for missing id")
	}
	if _, err := db.LookupByID("Ghost", "abc"); err == nil {
		t.Error("Expected error for unknown label")
	}
}

// Lookup consistency: after any sequence of AddNode/SetProperty calls
// the property index returns exactly the nodes whose current value
// matches, with no stale or missing memberships.
func TestLookupByPropertyConsistency(t *testing.T) {
	db := NewDB(nil)
	db.AddNode("Person", "eljo")
	db.AddNode("Person", "merin")
	db.AddNode("Person", "norah")

	db.SetProperty("Person", "eljo", "gender", "Male")
	db.SetProperty("Person", "merin", "gender", "Female")
	db.SetProperty("Person", "norah", "gender", "Female")

	females := db.LookupByProperty("Person", "gender", "Female")
	if len(females) != 2 || females[0].ID != "merin" || females[1].ID != "norah" {
		t.Errorf("Expected [merin norah], got %v", females)
	}

	// Flipping a value moves the membership, it never duplicates it.
	db.SetProperty("Person", "merin", "gender", "Male")

	females = db.LookupByProperty("Person", "gender", "Female")
	if len(females) != 1 || females[0].ID != "norah" {
		t.Errorf("Expected [norah], got %v", females)
	}
	males := db.LookupByProperty("Person", "gender", "Male")
	if len(males) != 2 {
		t.Errorf("Expected 2 males, got %d", len(males))
	}
	if err := db.CheckInvariants(); err != nil {
		t.Errorf("Invariant check failed: %v", err)
	}
}

func TestLookupByPropertyScopedToLabel(t *testing.T) {
	db := NewDB(nil)
	db.AddNode("Person", "eljo")
	db.AddNode("Dog", "eljo")
	db.SetProperty("Person", "eljo", "name", "Eljo George")
	db.SetProperty("Dog", "eljo", "name", "Eljo George")

	people := db.LookupByProperty("Person", "name", "Eljo George")
	if len(people) != 1 || people[0].Label != "Person" {
		t.Errorf("Expected only the Person node, got %v", people)
	}
}

func TestNodesReturnsAll(t *testing.T) {
	db := NewDB(nil)
	db.AddNode("Person", "eljo")
	db.AddNode("Dog", "rex")
	db.AddNode("Person", "merin")

	nodes := db.Nodes()
	if len(nodes) != 3 {
		t.Fatalf("Expected 3 nodes, got %d", len(nodes))
	}
	// Sorted by (label, id).
	want := []string{"Dog:rex", "Person:eljo", "Person:merin"}
	for i, node := range nodes {
		if node.Key().String() != want[i] {
			t.Errorf("Expected node %d to be %s, got %s", i, want[i], node.Key())
		}
	}
}

func TestCheckInvariantsDetectsDivergence(t *testing.T) {
	db := NewDB(nil)
	db.AddNode("Student", "abc")
	db.SetProperty("Student", "abc", "course", "SW610")

	if err := db.CheckInvariants(); err != nil {
		t.Fatalf("Expected clean audit, got %v", err)
	}

	// Corrupt the store behind the mutation protocol's back.
	db.nodes[model.NodeKey{Label: "Student", ID: "abc"}].Properties["course"] = "SW600"

	if err := db.CheckInvariants(); err == nil {
		t.Error("Expected the audit to detect the stale property index membership")
	}
}

// Package tracing implements a contact-tracing application on top of
// the graph engine. People are nodes, physical contacts are edges, and
// infection state is an ordinary node property; everything here is a
// consumer of the engine's query and traversal operations.
package tracing

import (
	"git.canoozie.net/riddling/memgraph/pkg/model"
	"git.canoozie.net/riddling/memgraph/pkg/query"
	"git.canoozie.net/riddling/memgraph/pkg/storage"
)

// PersonLabel is the node label for people in the contact graph
const PersonLabel = "Person"

// Infection state property
const (
	InfectedProperty = "infected"
	InfectedYes      = "yes"
	InfectedNo       = "no"
)

// Zone is the risk classification of a person
type Zone string

const (
	// ZoneInfected means the person is infected
	ZoneInfected Zone = "Infected"
	// ZoneRed means a direct contact is infected
	ZoneRed Zone = "Red"
	// ZoneOrange means a second-level contact is infected
	ZoneOrange Zone = "Orange"
	// ZoneGreen means no infection within two contact levels
	ZoneGreen Zone = "Green"
)

// zoneDepth is how many contact levels the zoning looks at
const zoneDepth = 2

// Tracer answers contact-tracing questions over one contact graph
type Tracer struct {
	db     *storage.DB
	engine *query.Engine
	logger model.Logger
}

// NewTracer creates a Tracer over the given database
func NewTracer(db *storage.DB, logger model.Logger) *Tracer {
	if logger == nil {
		logger = model.NewNoOpLogger()
	}
	return &Tracer{
		db:     db,
		engine: query.NewEngine(db, logger),
		logger: logger,
	}
}

// DB exposes the underlying database handle
func (t *Tracer) DB() *storage.DB {
	return t.db
}

// Infected lists all currently infected people
func (t *Tracer) Infected() []*model.Node {
	return t.db.LookupByProperty(PersonLabel, InfectedProperty, InfectedYes)
}

// MarkInfected records a person as infected
func (t *Tracer) MarkInfected(personID string) error {
	return t.db.SetProperty(PersonLabel, personID, InfectedProperty, InfectedYes)
}

// MarkRecovered records an infected person as recovered
func (t *Tracer) MarkRecovered(personID string) error {
	return t.db.SetProperty(PersonLabel, personID, InfectedProperty, InfectedNo)
}

// Zone computes the person's risk zone: Infected if they are infected
// themselves, Red if any direct contact is infected, Orange if any
// second-level contact is, Green otherwise.
func (t *Tracer) Zone(personID string) (Zone, error) {
	address := PersonLabel + ":" + personID
	contacts, err := t.engine.GraphQuery(address, InfectedProperty+"="+InfectedYes, zoneDepth)
	if err != nil {
		return "", err
	}

	zone := ZoneGreen
	for _, contact := range contacts {
		switch {
		case contact.Depth == 0:
			// The start node is always returned; it only counts when it
			// is itself infected.
			if value, _ := contact.Node.GetProperty(InfectedProperty); value == InfectedYes {
				return ZoneInfected, nil
			}
		case contact.Depth == 1:
			zone = ZoneRed
		case zone == ZoneGreen:
			zone = ZoneOrange
		}
	}
	return zone, nil
}

// ContactNetwork returns the person's contacts grouped by level:
// element 0 holds the person, element i the contacts exactly i hops
// away, up to depth levels.
func (t *Tracer) ContactNetwork(personID string, depth int) ([][]*model.Node, error) {
	address := PersonLabel + ":" + personID
	contacts, err := t.engine.GraphQuery(address, "", depth)
	if err != nil {
		return nil, err
	}

	maxLevel := 0
	for _, contact := range contacts {
		if contact.Depth > maxLevel {
			maxLevel = contact.Depth
		}
	}
	levels := make([][]*model.Node, maxLevel+1)
	for _, contact := range contacts {
		levels[contact.Depth] = append(levels[contact.Depth], contact.Node)
	}
	return levels, nil
}

// ImpactSet returns the people within depth hops of an infected person,
// excluding the person themselves: the set whose zone their infection
// affects.
func (t *Tracer) ImpactSet(personID string, depth int) ([]*model.Node, error) {
	address := PersonLabel + ":" + personID
	contacts, err := t.engine.GraphQuery(address, "", depth)
	if err != nil {
		return nil, err
	}

	impacted := make([]*model.Node, 0, len(contacts))
	for _, contact := range contacts {
		if contact.Depth == 0 {
			continue
		}
		impacted = append(impacted, contact.Node)
	}
	return impacted, nil
}

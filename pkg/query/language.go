package query

import (
	"errors"
	"fmt"
	"strings"
)

// QueryType represents the different kinds of query descriptors
type QueryType string

const (
	QueryTypeAllNodes       QueryType = "ALL_NODES"       // empty query string
	QueryTypeAllOfLabel     QueryType = "ALL_OF_LABEL"    // "Label"
	QueryTypeByID           QueryType = "BY_ID"           // "Label:id"
	QueryTypeByProperty     QueryType = "BY_PROPERTY"     // "Label:key=value"
	QueryTypePropertyFilter QueryType = "PROPERTY_FILTER" // "key=value", traversal filter only
)

// Query is the structured descriptor produced by the parser. Which of
// the fields are meaningful depends on Type.
type Query struct {
	Type  QueryType
	Label string
	ID    string
	Key   string
	Value string
}

// ErrInvalidQuery indicates that a query string is malformed
var ErrInvalidQuery = errors.New("invalid query")

// Parse parses a query string into a descriptor.
//
// The grammar:
//
//	""                -> all nodes
//	"Label"           -> all nodes of the label
//	"Label:id"        -> one node by identity
//	"Label:key=value" -> nodes of the label with property key equal to value
//
// The string is split on the first ":" into label and remainder, the
// remainder on the first "=" into key and value. Extra ":" or "="
// separators, empty fragments and bare "key=value" strings are
// rejected with an error naming the offending fragment; intent is
// never guessed.
func Parse(queryStr string) (*Query, error) {
	if queryStr == "" {
		return &Query{Type: QueryTypeAllNodes}, nil
	}

	label, rest, hasRest := strings.Cut(queryStr, ":")
	if label == "" {
		return nil, fmt.Errorf("%w: missing label in %q", ErrInvalidQuery, queryStr)
	}
	if strings.Contains(label, "=") {
		return nil, fmt.Errorf("%w: %q is a property filter, not an addressable query", ErrInvalidQuery, queryStr)
	}

	if !hasRest {
		return &Query{Type: QueryTypeAllOfLabel, Label: label}, nil
	}
	if strings.Contains(rest, ":") {
		return nil, fmt.Errorf("%w: unexpected extra ':' in %q", ErrInvalidQuery, rest)
	}
	if rest == "" {
		return nil, fmt.Errorf("%w: missing id or key=value after %q", ErrInvalidQuery, label+":")
	}

	if !strings.Contains(rest, "=") {
		return &Query{Type: QueryTypeByID, Label: label, ID: rest}, nil
	}

	key, value, err := parseClause(rest)
	if err != nil {
		return nil, err
	}
	return &Query{Type: QueryTypeByProperty, Label: label, Key: key, Value: value}, nil
}

// ParseFilter parses a bare "key=value" clause into a PropertyFilter
// descriptor for use as a traversal filter argument.
func ParseFilter(filterStr string) (*Query, error) {
	if !strings.Contains(filterStr, "=") {
		return nil, fmt.Errorf("%w: filter %q is not of the form key=value", ErrInvalidQuery, filterStr)
	}
	key, value, err := parseClause(filterStr)
	if err != nil {
		return nil, err
	}
	return &Query{Type: QueryTypePropertyFilter, Key: key, Value: value}, nil
}

// parseClause splits a "key=value" fragment, rejecting empty key or
// value and extra "=" separators.
func parseClause(clause string) (key, value string, err error) {
	key, value, _ = strings.Cut(clause, "=")
	if key == "" {
		return "", "", fmt.Errorf("%w: missing key in %q", ErrInvalidQuery, clause)
	}
	if value == "" {
		return "", "", fmt.Errorf("%w: missing value in %q", ErrInvalidQuery, clause)
	}
	if strings.Contains(value, "=") {
		return "", "", fmt.Errorf("%w: unexpected extra '=' in %q", ErrInvalidQuery, clause)
	}
	return key, value, nil
}

// String returns the query in its textual address form
func (q *Query) String() string {
	switch q.Type {
	case QueryTypeAllNodes:
		return ""
	case QueryTypeAllOfLabel:
		return q.Label
	case QueryTypeByID:
		return q.Label + ":" + q.ID
	case QueryTypeByProperty:
		return q.Label + ":" + q.Key + "=" + q.Value
	case QueryTypePropertyFilter:
		return q.Key + "=" + q.Value
	}
	return string(q.Type)
}

package tracing

import (
	"encoding/csv"
	"fmt"
	"io"

	"git.canoozie.net/riddling/memgraph/pkg/model"
	"git.canoozie.net/riddling/memgraph/pkg/storage"
)

// LoadPeople populates Person nodes from CSV. The first row is a
// header whose first column must be "id"; every further column becomes
// a property of that name. Returns the number of people loaded.
func LoadPeople(db *storage.DB, r io.Reader) (int, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return 0, fmt.Errorf("people data: empty header")
	}
	if err != nil {
		return 0, fmt.Errorf("people data: %w", err)
	}
	if header[0] != "id" {
		return 0, fmt.Errorf("people data: first column must be \"id\", got %q", header[0])
	}

	count := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return count, fmt.Errorf("people data: %w", err)
		}

		id := row[0]
		db.AddNode(PersonLabel, id)
		for i := 1; i < len(header); i++ {
			if err := db.SetProperty(PersonLabel, id, header[i], row[i]); err != nil {
				return count, fmt.Errorf("people data: %w", err)
			}
		}
		count++
	}
}

// LoadContacts populates contact edges from CSV rows of two person
// ids. Both people must already be loaded; unknown ids are an error,
// not silently skipped. Returns the number of contacts loaded.
func LoadContacts(db *storage.DB, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2

	count := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return count, fmt.Errorf("contact data: %w", err)
		}

		a := model.NodeKey{Label: PersonLabel, ID: row[0]}
		b := model.NodeKey{Label: PersonLabel, ID: row[1]}
		if err := db.Connect(a, b); err != nil {
			return count, fmt.Errorf("contact data: %w", err)
		}
		count++
	}
}

package table

import (
	"encoding/csv"
	"fmt"
	"os"
)

// CSVStore reads and writes comma-separated files.
type CSVStore struct{}

// NewCSVStore creates a csv store.
func NewCSVStore() *CSVStore {
	return &CSVStore{}
}

// Read loads a csv file. Rows may have varying lengths.
func (s *CSVStore) Read(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return split(rows), nil
}

// Write replaces path with t.
func (s *CSVStore) Write(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		f.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		f.Close()
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return f.Close()
}

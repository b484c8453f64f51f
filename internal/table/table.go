// Package table reads and writes the persisted dataset as a header row
// followed by data rows. The format is chosen by file extension.
package table

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultSheet is the worksheet used for .xlsx files.
const DefaultSheet = "SDS_Data"

// ErrUnsupportedFormat is returned for extensions other than .xlsx and .csv.
var ErrUnsupportedFormat = errors.New("unsupported table format")

// Table is a header row plus data rows. Rows may be shorter than Header.
type Table struct {
	Header []string
	Rows   [][]string
}

// Store persists tables.
type Store interface {
	Read(path string) (*Table, error)
	Write(path string, t *Table) error
}

// FileStore dispatches on the file extension.
type FileStore struct {
	xlsx *XLSXStore
	csv  *CSVStore
}

// NewFileStore creates a store writing xlsx files to the given sheet.
func NewFileStore(sheet string) *FileStore {
	return &FileStore{xlsx: NewXLSXStore(sheet), csv: NewCSVStore()}
}

// Supported reports whether path has a readable table extension.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".csv":
		return true
	}
	return false
}

func (s *FileStore) backend(path string) (Store, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return s.xlsx, nil
	case ".csv":
		return s.csv, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
}

// Read loads the table at path.
func (s *FileStore) Read(path string) (*Table, error) {
	b, err := s.backend(path)
	if err != nil {
		return nil, err
	}
	return b.Read(path)
}

// Write replaces the file at path with t.
func (s *FileStore) Write(path string, t *Table) error {
	b, err := s.backend(path)
	if err != nil {
		return err
	}
	return b.Write(path, t)
}

// split separates the first non-empty row as header.
func split(rows [][]string) *Table {
	for i, row := range rows {
		if !blank(row) {
			return &Table{Header: row, Rows: dropBlank(rows[i+1:])}
		}
	}
	return &Table{}
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func dropBlank(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		if !blank(r) {
			out = append(out, r)
		}
	}
	return out
}

package table

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sample() *Table {
	return &Table{
		Header: []string{"Description", "CAS Number", "Flash Point (°C)"},
		Rows: [][]string{
			{"acetone", "67-64-1", "-20"},
			{"ethanol", "64-17-5", "13"},
		},
	}
}

func TestFileStoreWriteRead(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore("")

	for _, name := range []string{"out.xlsx", "out.csv"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, store.Write(path, sample()))

			got, err := store.Read(path)
			require.NoError(t, err)
			assert.Equal(t, sample().Header, got.Header)
			assert.Equal(t, sample().Rows, got.Rows)
		})
	}
}

func TestXLSXUsesConfiguredSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, NewXLSXStore("").Write(path, sample()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{DefaultSheet}, f.GetSheetList())
}

func TestXLSXReadFallsBackToFirstSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Description", "CAS Number"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"water"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	got, err := NewXLSXStore(DefaultSheet).Read(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Description", "CAS Number"}, got.Header)
	assert.Equal(t, [][]string{{"water"}}, got.Rows)
}

func TestCSVRaggedRowsAndBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte(",,\nDescription,CAS Number\nwater\n,\nacetone,67-64-1\n"), 0o600))

	got, err := NewCSVStore().Read(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Description", "CAS Number"}, got.Header)
	assert.Equal(t, [][]string{{"water"}, {"acetone", "67-64-1"}}, got.Rows)
}

func TestUnsupportedFormat(t *testing.T) {
	store := NewFileStore(DefaultSheet)
	_, err := store.Read("data.xls")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.ErrorIs(t, store.Write("data.json", sample()), ErrUnsupportedFormat)

	assert.True(t, Supported("A.XLSX"))
	assert.True(t, Supported("a.csv"))
	assert.False(t, Supported("a.xls"))
}

func TestReadMissingFile(t *testing.T) {
	_, err := NewFileStore("").Read(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}

package sds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromTableReconcilesColumns(t *testing.T) {
	header := []string{"CAS Number", "Legacy Notes", "Description", "Flash Point", "Relative Vapour Density (Air=1)"}
	rows := [][]string{
		{"67-64-1", "ignored", "acetone", "-20", "2.0"},
		{"n/a", "x", "water"},
	}

	ds := FromTable(header, rows)
	require.Len(t, ds, 2)

	assert.Equal(t, "67-64-1", ds[0].Get(ColCASNumber).String())
	assert.Equal(t, "acetone", ds[0].Get(ColDescription).String())
	assert.Equal(t, "-20", ds[0].Get(ColFlashPoint).String())
	assert.Equal(t, "2.0", ds[0].Get(ColVapourDensity).String())
	assert.Equal(t, NDA, ds[0].Get(ColLD50).String())

	assert.False(t, ds[1].Get(ColCASNumber).Available())
	assert.Equal(t, "water", ds[1].Get(ColDescription).String())
	assert.Equal(t, NDA, ds[1].Get(ColFlashPoint).String())
}

func TestLookupColumnAliases(t *testing.T) {
	tests := []struct {
		header string
		want   Column
	}{
		{"Flash Point (°C)", ColFlashPoint},
		{"flash point (C)", ColFlashPoint},
		{"FLASH POINT", ColFlashPoint},
		{"Relative Vapor Density (Air = 1)", ColVapourDensity},
		{"Flammable Limits", ColFlammableLimits},
		{"LD50", ColLD50},
		{"Source of Information", ColSource},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			c, ok := LookupColumn(tt.header)
			require.True(t, ok)
			assert.Equal(t, tt.want, c)
		})
	}

	_, ok := LookupColumn("Legacy Notes")
	assert.False(t, ok)
}

func TestDatasetRowsCanonicalOrder(t *testing.T) {
	existing := Dataset{record("acetone", "67-64-1", nil)}
	fresh := Dataset{record("ethanol", "64-17-5", nil), record("water", NDA, nil)}

	ds := Append(existing, fresh)
	require.Len(t, ds, 3)
	assert.Equal(t, Header(), ds.Header())

	rows := ds.Rows()
	assert.Equal(t, "acetone", rows[0][ColDescription])
	assert.Equal(t, "ethanol", rows[1][ColDescription])
	assert.Equal(t, "water", rows[2][ColDescription])
	assert.Equal(t, NDA, rows[2][ColCASNumber])
	assert.Equal(t, SourceMSDS, rows[2][ColSource])
	for _, row := range rows {
		assert.Len(t, row, len(Header()))
	}
}

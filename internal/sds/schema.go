package sds

import (
	"path/filepath"
	"strconv"
	"strings"
)

// Column identifies one field of the canonical schema.
type Column int

// Canonical column order. Every write follows this order.
const (
	ColDescription Column = iota
	ColCASNumber
	ColMaterialName
	ColTradeName
	ColPhysicalState
	ColStaticHazard
	ColVapourPressure
	ColFlashPoint
	ColFlammableLimits
	ColMeltingPoint
	ColBoilingPoint
	ColDensity
	ColVapourDensity
	ColIgnitionTemperature
	ColThresholdLimitValue
	ColIDLH
	ColLD50
	ColLC50
	ColSource

	columnCount
)

// SourceMSDS is the constant tag stored in the Source of Information column.
const SourceMSDS = "MSDS"

var columnNames = [columnCount]string{
	ColDescription:         "Description",
	ColCASNumber:           "CAS Number",
	ColMaterialName:        "Material Name",
	ColTradeName:           "Trade Name",
	ColPhysicalState:       "Physical state",
	ColStaticHazard:        "Static Hazard",
	ColVapourPressure:      "Vapour Pressure",
	ColFlashPoint:          "Flash Point (°C)",
	ColFlammableLimits:     "Flammable Limits by Volume (LEL, UEL)",
	ColMeltingPoint:        "Melting Point (°C)",
	ColBoilingPoint:        "Boiling Point (°C)",
	ColDensity:             "Density",
	ColVapourDensity:       "Relative Vapour Density (Air = 1)",
	ColIgnitionTemperature: "Ignition Temperature (°C)",
	ColThresholdLimitValue: "Threshold Limit Value (ppm)",
	ColIDLH:                "Immediate Danger to Life in Humans",
	ColLD50:                "LD50 (mg/kg)",
	ColLC50:                "LC50",
	ColSource:              "Source of Information",
}

// String returns the column header.
func (c Column) String() string {
	if c < 0 || c >= columnCount {
		return "Column(" + strconv.Itoa(int(c)) + ")"
	}
	return columnNames[c]
}

// Columns returns the schema in canonical order.
func Columns() []Column {
	cols := make([]Column, columnCount)
	for i := range cols {
		cols[i] = Column(i)
	}
	return cols
}

// Header returns the canonical header row.
func Header() []string {
	return append([]string(nil), columnNames[:]...)
}

// aliasIndex maps normalised header spellings to columns. It covers the
// canonical names plus the unit-less and spacing variants found in older
// spreadsheets.
var aliasIndex = buildAliasIndex()

func buildAliasIndex() map[string]Column {
	idx := make(map[string]Column, columnCount*2)
	for c, name := range columnNames {
		idx[normalizeHeader(name)] = Column(c)
	}
	extra := map[string]Column{
		"Flammable Limits":        ColFlammableLimits,
		"Flammability Limits":     ColFlammableLimits,
		"Relative Vapour Density": ColVapourDensity,
		"Vapour Density":          ColVapourDensity,
		"TLV":                     ColThresholdLimitValue,
		"IDLH":                    ColIDLH,
		"CAS":                     ColCASNumber,
		"CAS No":                  ColCASNumber,
		"Source":                  ColSource,
	}
	for name, c := range extra {
		idx[normalizeHeader(name)] = c
	}
	return idx
}

// normalizeHeader lowercases a header, drops unit parentheticals and every
// non-alphanumeric rune. "Relative Vapour Density (Air = 1)" keeps its
// "(air=1)" qualifier because it is part of the name rather than a unit.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	var b strings.Builder
	depth := 0
	var paren strings.Builder
	for _, r := range h {
		switch {
		case r == '(':
			depth++
			paren.Reset()
		case r == ')' && depth > 0:
			depth--
			if p := paren.String(); strings.Contains(p, "air") {
				b.WriteString(stripNonAlnum(p))
			}
		case depth > 0:
			paren.WriteRune(r)
		default:
			if isAlnum(r) {
				b.WriteRune(r)
			}
		}
	}
	return strings.ReplaceAll(b.String(), "vapor", "vapour")
}

func stripNonAlnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isAlnum(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// LookupColumn resolves a persisted header to a schema column.
func LookupColumn(header string) (Column, bool) {
	for c, name := range columnNames {
		if name == header {
			return Column(c), true
		}
	}
	c, ok := aliasIndex[normalizeHeader(header)]
	return c, ok
}

// Record is one row of the canonical schema.
type Record struct {
	fields [columnCount]Field
}

// NewRecord returns a record with every column NotAvailable.
func NewRecord() Record {
	return Record{}
}

// Get returns the value of a column.
func (r *Record) Get(c Column) Field {
	return r.fields[c]
}

// Set stores a value for a column.
func (r *Record) Set(c Column, f Field) {
	r.fields[c] = f
}

// Values renders the record in canonical column order.
func (r *Record) Values() []string {
	out := make([]string, columnCount)
	for i, f := range r.fields {
		out[i] = f.String()
	}
	return out
}

// Map renders the record keyed by header name.
func (r *Record) Map() map[string]string {
	out := make(map[string]string, columnCount)
	for i, f := range r.fields {
		out[columnNames[i]] = f.String()
	}
	return out
}

// DescriptionFromFilename strips directory and extension from a source filename.
func DescriptionFromFilename(filename string) string {
	base := filepath.Base(filename)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

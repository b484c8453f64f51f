package sds

import "strings"

// NDA is the rendered form of a field for which no information was found.
const NDA = "NDA"

// Field is the outcome of a single extraction: either a present value or
// NotAvailable. The zero value is NotAvailable.
type Field struct {
	value   string
	present bool
}

// NotAvailable is the unique "no data" field.
var NotAvailable = Field{}

// Present wraps a found value. Placeholder values collapse to NotAvailable
// so that a Present field always carries real data.
func Present(v string) Field {
	v = strings.TrimSpace(v)
	if IsPlaceholder(v) {
		return NotAvailable
	}
	return Field{value: v, present: true}
}

// ParseField converts a persisted cell back into a Field.
func ParseField(cell string) Field {
	return Present(cell)
}

// Available reports whether the field holds a value.
func (f Field) Available() bool {
	return f.present
}

// Value returns the held value and whether it is present.
func (f Field) Value() (string, bool) {
	return f.value, f.present
}

// String renders the field, using NDA for NotAvailable.
func (f Field) String() string {
	if !f.present {
		return NDA
	}
	return f.value
}

// placeholders are cell values that mean "nothing here" for merge and dedup.
var placeholders = map[string]bool{
	"":              true,
	"nda":           true,
	"n/a":           true,
	"not available": true,
}

// IsPlaceholder reports whether s is one of the "no data" literals.
func IsPlaceholder(s string) bool {
	return placeholders[strings.ToLower(strings.TrimSpace(s))]
}

package sds

// Dataset is an ordered collection of records in canonical schema.
type Dataset []Record

// FromTable reconciles a persisted table to the schema. Columns are matched
// by name or legacy alias; unknown columns are dropped and missing ones stay
// NotAvailable. Short rows are padded.
func FromTable(header []string, rows [][]string) Dataset {
	idx := make([]Column, len(header))
	known := make([]bool, len(header))
	for i, h := range header {
		if c, ok := LookupColumn(h); ok {
			idx[i], known[i] = c, true
		}
	}

	ds := make(Dataset, 0, len(rows))
	for _, row := range rows {
		rec := NewRecord()
		for i, cell := range row {
			if i >= len(header) || !known[i] {
				continue
			}
			// First matching column wins when an old sheet carries both
			// an alias and the canonical header.
			if !rec.Get(idx[i]).Available() {
				rec.Set(idx[i], ParseField(cell))
			}
		}
		ds = append(ds, rec)
	}
	return ds
}

// Append returns existing followed by fresh, each in its own order.
func Append(existing, fresh Dataset) Dataset {
	out := make(Dataset, 0, len(existing)+len(fresh))
	out = append(out, existing...)
	return append(out, fresh...)
}

// Header returns the canonical header.
func (d Dataset) Header() []string {
	return Header()
}

// Rows renders every record in canonical column order.
func (d Dataset) Rows() [][]string {
	rows := make([][]string, len(d))
	for i := range d {
		rows[i] = d[i].Values()
	}
	return rows
}

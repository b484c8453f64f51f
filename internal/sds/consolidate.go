package sds

import (
	"fmt"
	"strconv"
	"strings"
)

// identityKey groups records for merging. A record without a usable CAS
// number gets a key of its own so that it never merges with another.
func identityKey(r *Record, index int) string {
	if cas, ok := r.Get(ColCASNumber).Value(); ok {
		return "cas:" + strings.ToLower(cas)
	}
	return "row:" + strconv.Itoa(index)
}

// MergeResult summarises a merge pass.
type MergeResult struct {
	// Merged counts input records folded into an earlier one.
	Merged int
	// Unique is the number of records after merging.
	Unique int
}

// Merge groups records by identity key in order of first appearance and
// fills NotAvailable columns of each group's first record from later members.
// A present value is never replaced. When disabled the input is returned
// unchanged.
func Merge(records []Record, enabled bool) ([]Record, MergeResult) {
	if !enabled {
		out := append([]Record(nil), records...)
		return out, MergeResult{Unique: len(out)}
	}

	var out []Record
	pos := make(map[string]int, len(records))
	for i := range records {
		key := identityKey(&records[i], i)
		j, seen := pos[key]
		if !seen {
			pos[key] = len(out)
			out = append(out, records[i])
			continue
		}
		fillMissing(&out[j], &records[i])
	}
	return out, MergeResult{Merged: len(records) - len(out), Unique: len(out)}
}

func fillMissing(dst, src *Record) {
	for _, c := range Columns() {
		if !dst.Get(c).Available() && src.Get(c).Available() {
			dst.Set(c, src.Get(c))
		}
	}
}

// DuplicateCheck selects how fresh records are compared with existing data.
type DuplicateCheck string

// Duplicate check policies.
const (
	CheckNone        DuplicateCheck = "none"
	CheckCAS         DuplicateCheck = "cas"
	CheckDescription DuplicateCheck = "description"
	CheckBoth        DuplicateCheck = "both"
)

// DuplicateChecks lists the accepted policies.
func DuplicateChecks() []DuplicateCheck {
	return []DuplicateCheck{CheckNone, CheckCAS, CheckDescription, CheckBoth}
}

// ParseDuplicateCheck validates a policy name. The empty string means none.
func ParseDuplicateCheck(s string) (DuplicateCheck, error) {
	switch p := DuplicateCheck(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return CheckNone, nil
	case CheckNone, CheckCAS, CheckDescription, CheckBoth:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown duplicate check %q (want none, cas, description or both)", ErrInvalidRequest, s)
	}
}

// FilterDuplicates drops fresh records already present in existing under
// the given policy. Under CheckBoth a record survives only when it is new
// on CAS number and on description; a match on either drops it.
// NotAvailable values never count as duplicates.
func FilterDuplicates(existing, fresh []Record, policy DuplicateCheck) []Record {
	if policy == CheckNone || policy == "" || len(existing) == 0 {
		return append([]Record(nil), fresh...)
	}

	cas := keySet(existing, ColCASNumber)
	desc := keySet(existing, ColDescription)

	out := make([]Record, 0, len(fresh))
	for i := range fresh {
		r := &fresh[i]
		casDup := inSet(cas, r, ColCASNumber)
		descDup := inSet(desc, r, ColDescription)

		var dup bool
		switch policy {
		case CheckCAS:
			dup = casDup
		case CheckDescription:
			dup = descDup
		case CheckBoth:
			dup = casDup || descDup
		}
		if !dup {
			out = append(out, *r)
		}
	}
	return out
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func keySet(records []Record, c Column) map[string]struct{} {
	set := make(map[string]struct{}, len(records))
	for i := range records {
		if v, ok := records[i].Get(c).Value(); ok {
			set[normalizeKey(v)] = struct{}{}
		}
	}
	return set
}

func inSet(set map[string]struct{}, r *Record, c Column) bool {
	v, ok := r.Get(c).Value()
	if !ok {
		return false
	}
	_, found := set[normalizeKey(v)]
	return found
}

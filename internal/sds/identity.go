package sds

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Identification fields: CAS number, names and physical state.

const (
	casValue = `(\d{2,7}-\d{2}-\d)\b`
	casLead  = `\s*[:\-]?\s*[\[\(]?\s*`
)

var casExtractor = extractor{
	column: ColCASNumber,
	rules: []rule{
		first(`CAS-No\.?` + casLead + casValue),
		first(`CAS\s+No\.?` + casLead + casValue),
		first(`CAS\s+number` + casLead + casValue),
		first(`CAS#?` + casLead + casValue),
		first(`【CAS】` + casLead + casValue),
		first(`CAS\b[^\n\r\d]{0,25}?(?:No\.?|NUMBER|#)` + casLead + casValue),
		first(`\b` + casValue),
	},
	// CAS numbers keep their dashes; no numeric cleaning.
	finish: finishRaw,
}

// ExtractCASNumber finds the CAS registry number, preferring labelled forms
// over the first bare CAS-shaped token.
func ExtractCASNumber(text string) Field {
	return casExtractor.extract(text)
}

// ValidCASCheckDigit verifies the registry check digit of a CAS number:
// the weighted sum of the other digits, read right to left with weights
// 1, 2, 3..., modulo 10.
func ValidCASCheckDigit(cas string) bool {
	parts := strings.Split(cas, "-")
	if len(parts) != 3 || len(parts[2]) != 1 {
		return false
	}
	check, err := strconv.Atoi(parts[2])
	if err != nil {
		return false
	}
	digits := parts[0] + parts[1]
	sum := 0
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		if d < '0' || d > '9' {
			return false
		}
		sum += int(d-'0') * (len(digits) - i)
	}
	return sum%10 == check
}

// maxNameLength bounds a plausible chemical or trade name; longer captures
// are section headers or sentences.
const maxNameLength = 60

// finishName rejects captures that look like headings or company blocks.
func finishName(raw string) Field {
	v := collapseSpace(raw)
	lower := strings.ToLower(v)
	if utf8.RuneCountInString(v) > maxNameLength ||
		strings.Contains(v, "/") ||
		strings.Contains(lower, "company") {
		return NotAvailable
	}
	return Present(v)
}

func nameRule(label string) rule {
	return first(`\b` + label + `[:\s]*([^\n\r]+)`)
}

var materialNameExtractor = extractor{
	column: ColMaterialName,
	rules: []rule{
		nameRule(`material\s+name`),
		nameRule(`product\s+names`),
		nameRule(`product\s+name`),
		nameRule(`product\s+description`),
		nameRule(`identification\s+of\s+the\s+substance`),
		nameRule(`chemical\s+name`),
		nameRule(`trade\s+name`),
	},
	finish: finishName,
}

// ExtractMaterialName finds the material or product name.
func ExtractMaterialName(text string) Field {
	return materialNameExtractor.extract(text)
}

var tradeNameExtractor = extractor{
	column: ColTradeName,
	rules: []rule{
		first(`(?:product\s*/\s*)?trade\s*name(?:\s*&\s*synonyms)?\s*:?\s*([^\n\r]+)`),
	},
	finish: finishName,
}

// ExtractTradeName finds the trade name line.
func ExtractTradeName(text string) Field {
	return tradeNameExtractor.extract(text)
}

const (
	stateTemp  = `(?:\s+at\s+[^\n\r:]*?(?:degree|°)\s*[CF])?`
	stateValue = `[ \t]*[:\-]?[ \t]*` + lineBreak + `([^\n\r.]+)`
)

var physicalStateExtractor = extractor{
	column: ColPhysicalState,
	rules: []rule{
		first(`\bphysical\s+state` + stateTemp + stateValue),
		first(`\bappearance\s*:\s*form` + stateTemp + stateValue),
		first(`\bform\s+at\s+room\s+temperature` + stateValue),
		first(`\bappearance` + stateTemp + stateValue),
		first(`\bform\b` + stateTemp + `\s*:\s*([^\n\r.]+)`),
	},
	finish: finishRaw,
}

// ExtractPhysicalState finds the physical state or form description.
func ExtractPhysicalState(text string) Field {
	return physicalStateExtractor.extract(text)
}

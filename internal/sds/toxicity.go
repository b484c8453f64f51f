package sds

import (
	"strings"
)

// Toxicity and exposure-limit fields. All of them are numeric-cleaned.

const (
	// The subscript 50 is often mangled by text extraction into "₅₀" or "O".
	ld50Label = `\bLD[50₅₀O]+`
	lc50Label = `\bLC[50₅₀O]+`

	ineq       = `(?:[<>=≥≤]\s*=?\s*)?`
	doseValue  = `(\d[\d,]*(?:\.\d+)?)`
	trailParen = `(?:\s*\([^)\n]*\))?`

	ld50Unit = `\s*(?:mg|g)\s*/\s*kg`
	lc50Unit = `\s*(?:mg\s*/\s*l\b|ppm)`

	route      = `(?:\s*\(?\s*(?:oral|dermal)\s*\)?)?`
	inhalation = `(?:\s*\(?\s*inhalation\s*\)?)?`
	duration   = `(?:\s*[-,]?\s*\(?\s*\d+\s*h(?:ours?|rs?)?\b\s*\)?)?`
	// contextGap allows a short species or route phrase between label and dose.
	contextGap = `[^\n\d]{0,40}?(?:\d+\s*h(?:ours?|rs?)?\b[^\n\d]{0,20}?)?`
)

var ld50Extractor = extractor{
	column: ColLD50,
	rules: []rule{
		each(ld50Label + route + sep + ineq + doseValue + ld50Unit + trailParen),
		each(ld50Label + contextGap + ineq + doseValue + ld50Unit),
	},
	finish: finishNumeric,
}

// ExtractLD50 finds the median lethal dose in mg/kg or g/kg.
func ExtractLD50(text string) Field {
	return ld50Extractor.extract(text)
}

// aquaticSpecies mark an LC50 as ecotoxicity data rather than human
// inhalation toxicity.
var aquaticSpecies = []string{
	"fish",
	"minnow",
	"trout",
	"daphnia",
	"pimephales",
	"oncorhynchus",
	"danio",
}

// aquatic rejects an LC50 occurrence when the match or the rest of its line
// names an aquatic test species.
func aquatic(text string, loc []int) bool {
	end := loc[1]
	if nl := strings.IndexByte(text[end:], '\n'); nl >= 0 {
		end += nl
	} else {
		end = len(text)
	}
	span := strings.ToLower(text[loc[0]:end])
	for _, s := range aquaticSpecies {
		if strings.Contains(span, s) {
			return true
		}
	}
	return false
}

var lc50Extractor = extractor{
	column: ColLC50,
	rules: []rule{
		{
			re:     re(lc50Label + inhalation + duration + sep + ineq + doseValue + lc50Unit + trailParen),
			group:  1,
			every:  true,
			reject: aquatic,
		},
		{
			re:     re(lc50Label + contextGap + ineq + doseValue + lc50Unit + trailParen),
			group:  1,
			every:  true,
			reject: aquatic,
		},
	},
	finish: finishNumeric,
}

// ExtractLC50 finds the median lethal concentration in mg/L or ppm,
// skipping aquatic toxicity entries.
func ExtractLC50(text string) Field {
	return lc50Extractor.extract(text)
}

const exposureLimitLabel = `\b(?:ACGIH\s+TLV|OSHA\s+PEL|NIOSH\s+REL|EU[-\s]?OEL|TWA|STEL|TLV|PEL|REL|OEL|MAK)\b`

var tlvExtractor = extractor{
	column: ColThresholdLimitValue,
	rules: []rule{
		each(exposureLimitLabel + `[^\n\d]{0,20}?` + doseValue + `\s*(?:ppm|mg\s*/\s*m(?:3|³))`),
		each(`\bTLV\s*:\s*([^\n\r]+)`),
	},
	finish: finishNumeric,
}

// ExtractThresholdLimitValue finds an occupational exposure limit. Labelled
// limits with a unit are preferred over a bare "TLV:" line.
func ExtractThresholdLimitValue(text string) Field {
	return tlvExtractor.extract(text)
}

var idlhExtractor = extractor{
	column: ColIDLH,
	rules: []rule{
		each(`\bIDLH\b\)?` + unitParen + sep + ineq + doseValue + `(?:\s*(?:ppm|mg\s*/\s*m(?:3|³)))?`),
	},
	finish: finishNumeric,
}

// ExtractIDLH finds the IDLH concentration.
func ExtractIDLH(text string) Field {
	return idlhExtractor.extract(text)
}

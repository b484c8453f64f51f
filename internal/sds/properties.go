package sds

import (
	"strings"
)

// Physical property fields. Temperatures are reduced to their first number;
// pressures and densities keep the captured text since their units vary.

// invalidValues are explicit "no value" phrasings that must not be taken as
// a measured property.
var invalidValues = []string{
	"not measured",
	"not applicable",
	"not available",
	"not determined",
	"not established",
	"no data available",
	"no data",
	"no information available",
}

// isInvalidValue reports whether v starts with an explicit "no value" phrase.
func isInvalidValue(v string) bool {
	lower := strings.ToLower(strings.TrimLeft(v, " \t:-"))
	for _, p := range invalidValues {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// finishProperty keeps the captured text unless it is a placeholder or an
// explicit "no value" phrase.
func finishProperty(raw string) Field {
	v := collapseSpace(raw)
	if isInvalidValue(v) {
		return NotAvailable
	}
	return Present(v)
}

func labelled(label string) rule {
	return each(label + unitParen + atTemp + sep + restOfLine)
}

var vapourPressureExtractor = extractor{
	column: ColVapourPressure,
	rules:  []rule{labelled(`\bvapou?r\s+pressure`)},
	finish: finishProperty,
}

// ExtractVapourPressure finds the vapour pressure line.
func ExtractVapourPressure(text string) Field {
	return vapourPressureExtractor.extract(text)
}

var flashPointExtractor = extractor{
	column: ColFlashPoint,
	rules:  []rule{labelled(`\bflash\s*point\b`)},
	finish: finishNumeric,
}

// ExtractFlashPoint finds the flash point temperature.
func ExtractFlashPoint(text string) Field {
	return flashPointExtractor.extract(text)
}

var meltingPointExtractor = extractor{
	column: ColMeltingPoint,
	rules: []rule{
		labelled(`\bmelting\s+point(?:\s*/\s*(?:freezing\s+point|range))?`),
		labelled(`\bmelting\s+range`),
		labelled(`\bfreezing\s+point`),
	},
	finish: finishNumeric,
}

// ExtractMeltingPoint finds the melting (or freezing) point temperature.
func ExtractMeltingPoint(text string) Field {
	return meltingPointExtractor.extract(text)
}

var boilingPointExtractor = extractor{
	column: ColBoilingPoint,
	rules: []rule{
		labelled(`\binitial\s+boiling\s+point(?:\s+and\s+boiling\s+range)?`),
		labelled(`\bboiling\s+point(?:\s*(?:/|,|or)?\s*(?:initial\s+boiling\s+point(?:\s+and\s+boiling\s+range)?|boiling\s+range|range))?`),
		labelled(`\bboiling\s+range`),
	},
	finish: finishNumeric,
}

// ExtractBoilingPoint finds the boiling point or initial boiling point.
func ExtractBoilingPoint(text string) Field {
	return boilingPointExtractor.extract(text)
}

// finishDensity also drops label residue left by the bare "density" rule,
// e.g. "and/or relative density: ..." or "/Specific gravity: ...".
func finishDensity(raw string) Field {
	v := collapseSpace(raw)
	lower := strings.ToLower(v)
	if strings.HasPrefix(lower, "and") || strings.HasPrefix(lower, "or ") || strings.HasPrefix(lower, "/") {
		return NotAvailable
	}
	return finishProperty(v)
}

// notVapourDensity rejects a bare "density" label that belongs to a vapour
// density or relative density line.
func notVapourDensity(text string, loc []int) bool {
	before := strings.ToLower(strings.TrimSpace(lineBefore(text, loc[0])))
	return strings.HasSuffix(before, "vapour") ||
		strings.HasSuffix(before, "vapor") ||
		strings.HasSuffix(before, "relative")
}

var densityExtractor = extractor{
	column: ColDensity,
	rules: []rule{
		labelled(`\bdensity\s+and\s*/\s*or\s+relative\s+density`),
		labelled(`\brelative\s+density`),
		{
			re:     re(`\bdensity\b` + unitParen + atTemp + sep + restOfLine),
			group:  1,
			every:  true,
			reject: notVapourDensity,
		},
		labelled(`\bspecific\s+gravity(?:\s*\([^)\n]*=\s*1\s*\))?(?:\s*/\s*density)?`),
		labelled(`\bdensity\s*/\s*specific\s+gravity`),
	},
	finish: finishDensity,
}

// ExtractDensity finds density, preferring the combined "density and/or
// relative density" label, then relative density, bare density and finally
// specific gravity.
func ExtractDensity(text string) Field {
	return densityExtractor.extract(text)
}

var vapourDensityExtractor = extractor{
	column: ColVapourDensity,
	rules: []rule{
		each(`\b(?:relative\s+)?vapou?r\s+density(?:\s*\(\s*air\s*=\s*1\s*\))?` + atTemp + unitParen + sep + restOfLine),
	},
	finish: finishProperty,
}

// ExtractVapourDensity finds the relative vapour density (air = 1).
func ExtractVapourDensity(text string) Field {
	return vapourDensityExtractor.extract(text)
}

const ignitionValue = unitParen + `(?:\s*,?\s*°?\s*C\b)?[ \t]*[:\-]?[ \t]*` + lineBreak + `(\d[\d,]*(?:\.\d+)?)`

var ignitionExtractor = extractor{
	column: ColIgnitionTemperature,
	rules: []rule{
		each(`\bauto[-\s]?ignition(?:\s+temperature)?` + ignitionValue),
		each(`\bself[-\s]?ignition(?:\s+temperature)?` + ignitionValue),
		each(`\bignition\s+temperature` + ignitionValue),
	},
	// The numeric run is kept verbatim, commas included.
	finish: func(raw string) Field {
		return Present(strings.TrimRight(raw, ","))
	},
}

// ExtractIgnitionTemperature finds the (auto/self) ignition temperature.
func ExtractIgnitionTemperature(text string) Field {
	return ignitionExtractor.extract(text)
}

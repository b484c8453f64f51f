package sds

import (
	"regexp"
	"strings"
)

// Static hazard answers.
const (
	StaticHazardYes = "Yes"
	StaticHazardNo  = "No"
)

// phraseGap joins the words of a multi-word warning that may wrap across
// lines.
const phraseGap = `(?s:.{0,200}?)`

var (
	noStaticPatterns = compileAll(
		`no\s+static\s+hazard`,
		`static\s+hazard\s*:?\s*no\b`,
		`not\s+static\s+sensitive`,
		`no\s+electrostatic\s+hazard`,
		`static\s+discharge\s*:?\s*not\s+applicable`,
		`static\s+discharge\s*:?\s*n/?a\b`,
	)

	staticPatterns = compileAll(
		`static\s+discharge`,
		`electrostatic\s+discharge`,
		`static\s+electricity`,
		`electrostatic\s+charge`,
		`static\s+charge`,
		`precautionary\s+measures\s+against\s+static\s+discharge`,
		`measures\s+to\s+prevent` + phraseGap + `static`,
		`ground` + phraseGap + `bond` + phraseGap + `container`,
		`grounding` + phraseGap + `bonding`,
		`anti[-\s]?static`,
		`static\s+sensitive`,
		`electrostatic\s+ignition`,
		`static\s+buildup`,
	)

	handlingSectionPatterns = compileAll(
		`section\s*7.*?(?:handling|storage)`,
		`handling\s+and\s+storage`,
		`precautions\s+for\s+safe\s+handling`,
		`storage\s+conditions`,
	)
)

// ExtractStaticHazard decides whether the document warns about static
// discharge. An explicit denial wins, then any static terminology. A
// handling and storage section without such terms means "No"; without the
// section there is nothing to judge and the field stays NotAvailable.
func ExtractStaticHazard(text string) Field {
	switch {
	case anyMatch(text, noStaticPatterns):
		return Present(StaticHazardNo)
	case anyMatch(text, staticPatterns):
		return Present(StaticHazardYes)
	case anyMatch(text, handlingSectionPatterns):
		return Present(StaticHazardNo)
	default:
		return NotAvailable
	}
}

// NonFlammable is reported when no limits are present but the document
// declares the material non-flammable.
const NonFlammable = "Non-flammable"

// gap bounds the distance between a lower and upper limit so that the pair
// stays within one table row or a couple of lines.
const (
	pct    = `(\d+(?:\.\d+)?)`
	gap    = `(?s:.{0,120}?)`
	dash   = `\s*[-–—]\s*`
	volPct = `\s*(?:vol\s*%|%\s*vol|volume\s*%|%)`
)

// flammablePairs capture (lower, upper) in one match. Ordered: same-line
// labels, ranges, parentheticals, tables, contextual ranges.
var flammablePairs = compileAll(
	// same line
	`\bLEL[:\s]*`+pct+`\s*%`+gap+`\bUEL[:\s]*`+pct+`\s*%`,
	`lower\s+explosive\s+limit[:\s]*`+pct+`\s*%`+gap+`upper\s+explosive\s+limit[:\s]*`+pct+`\s*%`,
	`\bLFL[:\s]*`+pct+`\s*%`+gap+`\bUFL[:\s]*`+pct+`\s*%`,
	// range
	`(?:\bLEL|lower\s+explosive\s+limit|\bLFL|flammable\s+limits?)[:\s]*`+pct+`\s*%?`+dash+pct+`\s*%`,
	`explosive\s+limits?[:\s]*`+pct+`\s*%?`+dash+pct+`\s*%`,
	`flammability\s+limits?[:\s]*`+pct+`\s*%?`+dash+pct+`\s*%`,
	// parenthetical, anchored to a flammability keyword on the same line
	`(?:\bLEL|\bUEL|flammab|explosi)[^\n]{0,60}?\(\s*`+pct+`\s*%?`+dash+pct+`\s*%?\s*\)`,
	`\(\s*LEL[:\s]*`+pct+`\s*%`+gap+`UEL[:\s]*`+pct+`\s*%\s*\)`,
	// table
	`(?:\bLEL|\blower)[:\s]*`+pct+volPct+gap+`(?:\bUEL|\bupper)[:\s]*`+pct+volPct,
	// contextual range
	`(?:flammable|explosive)\s+(?:range|limits?)[^\n\d]{0,40}?`+pct+dash+pct+`\s*%`,
)

var (
	lowerLimitPatterns = compileAll(
		`\bLEL[:\s]*`+pct+`\s*%`,
		`lower\s+explosive\s+limit[:\s]*`+pct+`\s*%`,
		`\bLFL[:\s]*`+pct+`\s*%`,
		`lower\s+flammab(?:le|ility)\s+limit[:\s]*`+pct+`\s*%`,
	)
	upperLimitPatterns = compileAll(
		`\bUEL[:\s]*`+pct+`\s*%`,
		`upper\s+explosive\s+limit[:\s]*`+pct+`\s*%`,
		`\bUFL[:\s]*`+pct+`\s*%`,
		`upper\s+flammab(?:le|ility)\s+limit[:\s]*`+pct+`\s*%`,
	)
	nonFlammablePatterns = compileAll(
		`not\s+flammable`,
		`non[-\s]?flammable`,
		`flammable\s+limits?\s*:?\s*(?:not\s+applicable|n/?a\b)`,
		`explosive\s+limits?\s*:?\s*(?:not\s+applicable|n/?a\b)`,
		`does\s+not\s+burn`,
		`will\s+not\s+burn`,
		`non[-\s]?combustible`,
	)
)

// ExtractFlammableLimits reports the lower and upper explosive limits as a
// single "LEL: x%, UEL: y%" value. Paired forms are tried first, then the
// two limits independently; "Non-flammable" is used when the document says
// so and no limit is given.
func ExtractFlammableLimits(text string) Field {
	for _, p := range flammablePairs {
		if m := p.FindStringSubmatch(text); m != nil {
			return Present(formatLimits(m[1], m[2]))
		}
	}

	lel := firstCapture(text, lowerLimitPatterns)
	uel := firstCapture(text, upperLimitPatterns)
	if lel != "" || uel != "" {
		return Present(formatLimits(lel, uel))
	}

	if anyMatch(text, nonFlammablePatterns) {
		return Present(NonFlammable)
	}
	return NotAvailable
}

func firstCapture(text string, patterns []*regexp.Regexp) string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

func formatLimits(lel, uel string) string {
	var parts []string
	if lel != "" {
		parts = append(parts, "LEL: "+lel+"%")
	}
	if uel != "" {
		parts = append(parts, "UEL: "+uel+"%")
	}
	return strings.Join(parts, ", ")
}

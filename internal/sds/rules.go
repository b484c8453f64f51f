package sds

import (
	"regexp"
	"strings"
)

// rule is one recognition pattern in an extractor's priority list.
type rule struct {
	re    *regexp.Regexp
	group int
	// every scans all occurrences of the pattern instead of only the first.
	every bool
	// reject inspects the full match (text plus submatch indexes) and
	// discards the occurrence when it returns true.
	reject func(text string, loc []int) bool
}

// match returns the captured values of the rule in text, in document order.
func (r rule) match(text string) []string {
	n := 1
	if r.every {
		n = -1
	}
	var out []string
	for _, loc := range r.re.FindAllStringSubmatchIndex(text, n) {
		if r.reject != nil && r.reject(text, loc) {
			continue
		}
		g := r.group
		if 2*g+1 >= len(loc) || loc[2*g] < 0 {
			continue
		}
		out = append(out, text[loc[2*g]:loc[2*g+1]])
	}
	return out
}

// extractor is an ordered, first-match-wins rule list for one field.
type extractor struct {
	column Column
	rules  []rule
	// finish turns a raw capture into the field value. NotAvailable keeps
	// the search going with the next occurrence or rule.
	finish func(raw string) Field
}

func (e extractor) extract(text string) Field {
	finish := e.finish
	if finish == nil {
		finish = finishRaw
	}
	for _, r := range e.rules {
		for _, raw := range r.match(text) {
			if f := finish(raw); f.Available() {
				return f
			}
		}
	}
	return NotAvailable
}

// finishRaw keeps the capture as text.
func finishRaw(raw string) Field {
	return Present(collapseSpace(raw))
}

// finishNumeric reduces the capture to its first number.
func finishNumeric(raw string) Field {
	return CleanNumeric(raw)
}

// re compiles a pattern with case-insensitive matching.
func re(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + pattern)
}

// first returns a rule capturing group 1 of the first occurrence.
func first(pattern string) rule {
	return rule{re: re(pattern), group: 1}
}

// each returns a rule capturing group 1 of every occurrence in turn.
func each(pattern string) rule {
	return rule{re: re(pattern), group: 1, every: true}
}

// anyMatch reports whether any pattern occurs in text.
func anyMatch(text string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// compileAll compiles a list of case-insensitive patterns.
func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = re(p)
	}
	return out
}

// lineBefore returns the text between the previous newline and pos.
func lineBefore(text string, pos int) string {
	start := strings.LastIndexByte(text[:pos], '\n') + 1
	return text[start:pos]
}

// Shared fragments.
const (
	// lineBreak lets a value wrap onto the next line but never past a blank one.
	lineBreak = `(?:\r?\n[ \t]*)?`
	// sep is the label/value separator: optional colon, equals or spaced dash.
	sep = `[ \t]*(?:(?:[:=]|-[ \t])[ \t]*` + lineBreak + `|-?\r?\n[ \t]*)?`
	// atTemp is an optional "at 20 °C" style qualifier.
	atTemp = `(?:\s*(?:at|@)\s*-?\d{1,3}(?:[.,]\d+)?\s*(?:degree|°)?\s*[CFK]\b)?`
	// unitParen is an optional unit parenthetical such as "(mmHg)".
	unitParen = `(?:\s*\([^)\n]{0,30}\))?`
	// restOfLine captures the remainder of the current line.
	restOfLine = `([^\n\r]*)`
)

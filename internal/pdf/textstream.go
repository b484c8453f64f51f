package pdf

import (
	"bytes"
	"strconv"
	"strings"
	"unicode/utf16"
)

// ContentStreamText pulls the shown text out of a decoded page content
// stream. Text positioning operators that move to a new line produce line
// breaks so that label/value pairs stay on their own lines.
func ContentStreamText(data []byte) string {
	s := &streamScanner{data: data}
	var out strings.Builder
	var operands []operand
	lastY, haveY := 0.0, false

	newline := func() { out.WriteByte('\n') }
	space := func() { out.WriteByte(' ') }

	for {
		tok, ok := s.next()
		if !ok {
			break
		}
		if tok.kind != kindOperator {
			operands = append(operands, tok)
			continue
		}

		switch tok.text {
		case "Tj":
			if str, ok := lastString(operands); ok {
				out.WriteString(str)
			}
		case "'", `"`:
			newline()
			if str, ok := lastString(operands); ok {
				out.WriteString(str)
			}
		case "TJ":
			if n := len(operands); n > 0 && operands[n-1].kind == kindArray {
				out.WriteString(operands[n-1].text)
			}
		case "Td", "TD":
			if n := len(operands); n >= 2 && operands[n-1].num != 0 {
				newline()
			} else {
				space()
			}
		case "T*":
			newline()
		case "Tm":
			if n := len(operands); n >= 6 {
				y := operands[n-1].num
				if haveY && y != lastY {
					newline()
				} else {
					space()
				}
				lastY, haveY = y, true
			}
		case "ET":
			space()
		case "BI":
			s.skipInlineImage()
		}
		operands = operands[:0]
	}

	return tidyLines(out.String())
}

func lastString(ops []operand) (string, bool) {
	for i := len(ops) - 1; i >= 0; i-- {
		if ops[i].kind == kindString {
			return ops[i].text, true
		}
	}
	return "", false
}

// tidyLines collapses spaces inside each line and drops blank lines.
func tidyLines(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

type tokenKind int

const (
	kindNumber tokenKind = iota
	kindString
	kindArray
	kindName
	kindOperator
)

type operand struct {
	kind tokenKind
	text string
	num  float64
}

// tjSpace is the TJ displacement, in thousandths of text space, beyond which
// a gap is rendered as a word break.
const tjSpace = -200

type streamScanner struct {
	data []byte
	pos  int
}

func isPDFSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', 0:
		return true
	}
	return false
}

func isDelimiter(b byte) bool {
	return strings.IndexByte("()<>[]{}/%", b) >= 0
}

func (s *streamScanner) skipSpace() {
	for s.pos < len(s.data) {
		switch b := s.data[s.pos]; {
		case isPDFSpace(b):
			s.pos++
		case b == '%':
			for s.pos < len(s.data) && s.data[s.pos] != '\n' && s.data[s.pos] != '\r' {
				s.pos++
			}
		default:
			return
		}
	}
}

func (s *streamScanner) next() (operand, bool) {
	s.skipSpace()
	if s.pos >= len(s.data) {
		return operand{}, false
	}

	switch b := s.data[s.pos]; {
	case b == '(':
		s.pos++
		return operand{kind: kindString, text: s.literal()}, true
	case b == '<' && s.peek(1) == '<':
		s.pos += 2
		return operand{kind: kindName, text: "<<"}, true
	case b == '>' && s.peek(1) == '>':
		s.pos += 2
		return operand{kind: kindName, text: ">>"}, true
	case b == '<':
		s.pos++
		return operand{kind: kindString, text: s.hex()}, true
	case b == '[':
		s.pos++
		return operand{kind: kindArray, text: s.array()}, true
	case b == '/':
		s.pos++
		return operand{kind: kindName, text: s.word()}, true
	case b == ']' || b == ')' || b == '>' || b == '{' || b == '}':
		s.pos++
		return operand{kind: kindName, text: string(b)}, true
	}

	w := s.word()
	if n, err := strconv.ParseFloat(w, 64); err == nil {
		return operand{kind: kindNumber, num: n, text: w}, true
	}
	return operand{kind: kindOperator, text: w}, true
}

func (s *streamScanner) peek(off int) byte {
	if s.pos+off < len(s.data) {
		return s.data[s.pos+off]
	}
	return 0
}

func (s *streamScanner) word() string {
	start := s.pos
	for s.pos < len(s.data) && !isPDFSpace(s.data[s.pos]) && !isDelimiter(s.data[s.pos]) {
		s.pos++
	}
	if s.pos == start && s.pos < len(s.data) {
		s.pos++
	}
	return string(s.data[start:s.pos])
}

// literal reads a (string) body after the opening parenthesis, honouring
// nested parentheses and backslash escapes.
func (s *streamScanner) literal() string {
	var raw []byte
	depth := 1
	for s.pos < len(s.data) {
		b := s.data[s.pos]
		s.pos++
		switch b {
		case '\\':
			if s.pos < len(s.data) {
				raw = append(raw, b, s.data[s.pos])
				s.pos++
			}
			continue
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return decodePDFString(raw)
			}
		}
		raw = append(raw, b)
	}
	return decodePDFString(raw)
}

func (s *streamScanner) hex() string {
	var digits []byte
	for s.pos < len(s.data) && s.data[s.pos] != '>' {
		if b := s.data[s.pos]; !isPDFSpace(b) {
			digits = append(digits, b)
		}
		s.pos++
	}
	s.pos++ // '>'
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	raw := make([]byte, 0, len(digits)/2)
	for i := 0; i+1 < len(digits); i += 2 {
		v, err := strconv.ParseUint(string(digits[i:i+2]), 16, 8)
		if err != nil {
			return ""
		}
		raw = append(raw, byte(v))
	}
	return decodeText(raw)
}

// array flattens a TJ array into its text, turning wide gaps into spaces.
func (s *streamScanner) array() string {
	var b strings.Builder
	for {
		s.skipSpace()
		if s.pos >= len(s.data) {
			return b.String()
		}
		if s.data[s.pos] == ']' {
			s.pos++
			return b.String()
		}
		tok, ok := s.next()
		if !ok {
			return b.String()
		}
		switch tok.kind {
		case kindString:
			b.WriteString(tok.text)
		case kindNumber:
			if tok.num < tjSpace {
				b.WriteByte(' ')
			}
		}
	}
}

// skipInlineImage jumps past inline image data up to the EI operator.
func (s *streamScanner) skipInlineImage() {
	idx := bytes.Index(s.data[s.pos:], []byte("ID"))
	if idx < 0 {
		s.pos = len(s.data)
		return
	}
	s.pos += idx + 2
	end := bytes.Index(s.data[s.pos:], []byte("EI"))
	if end < 0 {
		s.pos = len(s.data)
		return
	}
	s.pos += end + 2
}

// decodePDFString resolves backslash escapes in a literal string body.
func decodePDFString(raw []byte) string {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			out = append(out, raw[i])
			continue
		}
		i++
		switch c := raw[i]; c {
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case '\n':
			// line continuation
		default:
			if c >= '0' && c <= '7' {
				v := int(c - '0')
				for k := 0; k < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; k++ {
					i++
					v = v*8 + int(raw[i]-'0')
				}
				out = append(out, byte(v))
			} else {
				out = append(out, c)
			}
		}
	}
	return decodeText(out)
}

// decodeText interprets string bytes as UTF-16BE when they carry a byte
// order mark, otherwise as single-byte Latin-1.
func decodeText(raw []byte) string {
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		units := make([]uint16, 0, (len(raw)-2)/2)
		for i := 2; i+1 < len(raw); i += 2 {
			units = append(units, uint16(raw[i])<<8|uint16(raw[i+1]))
		}
		return string(utf16.Decode(units))
	}
	var b strings.Builder
	for _, c := range raw {
		b.WriteRune(rune(c))
	}
	return b.String()
}

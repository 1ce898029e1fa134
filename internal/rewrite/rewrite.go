// Package rewrite locates declaration-shaped fragments that are missing
// their function keyword and rewrites them into canonical form.
//
// The detection is a named heuristic, not a parser: a regular expression
// finds fragments of the shape `[async ]name(params) {` and a
// single-character lookback decides whether each one is a malformed
// standalone declaration or a benign occurrence (method body, assignment,
// property value, list element). Parameter capture is single-level and
// does not survive nested parentheses; that gap is accepted and covered
// by tests rather than hidden.
package rewrite

import "regexp"

// Match is one candidate fragment. Offsets index the original buffer and
// never change after the scan.
type Match struct {
	Raw    string
	Start  int
	End    int
	Async  bool
	Name   string
	Params string
}

var declPattern = regexp.MustCompile(`(async[ \t]+)?([A-Za-z_$][A-Za-z0-9_$]*)[ \t]*\(([^()]*)\)[ \t\r\n]*\{`)

// reservedNames are identifiers that legally precede a parenthesized
// clause or are declaration keywords themselves. A bare `if (...) {` is
// valid code, and `function(...) {` is an anonymous function expression,
// not a mangled declaration.
var reservedNames = map[string]struct{}{
	"if":       {},
	"for":      {},
	"while":    {},
	"switch":   {},
	"catch":    {},
	"with":     {},
	"function": {},
	"async":    {},
}

// Scan returns all candidates in document order. The scan is a single
// forward pass over the buffer; text consumed by one match is never
// revisited, so candidates are invariantly non-overlapping.
//
// A match is skipped when the byte immediately before it belongs to a
// longer expression (identifier character or property access), when its
// name is a reserved keyword, or when the nearest preceding word is
// `function` (the declaration is already well-formed, which also makes
// the rewrite idempotent).
func Scan(text string) []Match {
	idx := declPattern.FindAllStringSubmatchIndex(text, -1)
	matches := make([]Match, 0, len(idx))
	for _, m := range idx {
		start, end := m[0], m[1]
		if start > 0 {
			prev := text[start-1]
			if isIdentByte(prev) || prev == '.' {
				continue
			}
		}
		name := text[m[4]:m[5]]
		if _, reserved := reservedNames[name]; reserved {
			continue
		}
		if precedingWord(text, start) == "function" {
			continue
		}
		matches = append(matches, Match{
			Raw:    text[start:end],
			Start:  start,
			End:    end,
			Async:  m[2] >= 0,
			Name:   name,
			Params: text[m[6]:m[7]],
		})
	}
	return matches
}

// precedingWord returns the identifier immediately before pos, skipping
// whitespace. Empty when pos sits at the top of the buffer or after a
// non-identifier character.
func precedingWord(text string, pos int) string {
	i := pos
	for i > 0 && isSpaceByte(text[i-1]) {
		i--
	}
	j := i
	for j > 0 && isIdentByte(text[j-1]) {
		j--
	}
	return text[j:i]
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '$' ||
		(b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z')
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

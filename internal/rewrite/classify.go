package rewrite

// Verdict is the outcome of classifying one candidate.
type Verdict int

const (
	Accept Verdict = iota
	Reject
)

func (v Verdict) String() string {
	if v == Accept {
		return "accept"
	}
	return "reject"
}

// Classification pairs a candidate with its verdict and the significant
// character that decided it. Preceding is zero when the candidate sits at
// the top of the buffer.
type Classification struct {
	Match     Match
	Verdict   Verdict
	Preceding byte
}

// Classify applies the preceding-character heuristic to each candidate:
// walk backward from the candidate over whitespace and inspect the
// nearest significant byte in the original buffer. `{` means the
// candidate is a method or property inside a body, `=` an assignment
// right-hand side, `:` a property value, `,` a list or argument element;
// all of those are benign and rejected. Anything else accepts: a bare
// `name(...) {` with no qualifying prefix is assumed to be a declaration
// missing its function keyword. This is a heuristic with a known
// false-positive surface, not a proof.
func Classify(text string, matches []Match) []Classification {
	out := make([]Classification, 0, len(matches))
	for _, m := range matches {
		c := Classification{Match: m, Verdict: Accept}
		i := m.Start
		for i > 0 && isSpaceByte(text[i-1]) {
			i--
		}
		if i > 0 {
			c.Preceding = text[i-1]
			switch c.Preceding {
			case '{', '=', ':', ',':
				c.Verdict = Reject
			}
		}
		out = append(out, c)
	}
	return out
}

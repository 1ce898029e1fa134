package rewrite

import (
	"fmt"
	"strings"
)

// Edit replaces original bytes [Start,End) with Replacement.
type Edit struct {
	Start       int
	End         int
	Replacement string
}

// Canonical returns the unambiguous declaration text for a match.
// Spacing inside the original fragment is normalized.
func Canonical(m Match) string {
	var b strings.Builder
	if m.Async {
		b.WriteString("async ")
	}
	b.WriteString("function ")
	b.WriteString(m.Name)
	b.WriteString("(")
	b.WriteString(m.Params)
	b.WriteString(") {")
	return b.String()
}

// Edits converts accepted classifications into edits, one per Accept, in
// ascending original-offset order.
func Edits(cls []Classification) []Edit {
	edits := []Edit{}
	for _, c := range cls {
		if c.Verdict != Accept {
			continue
		}
		edits = append(edits, Edit{
			Start:       c.Match.Start,
			End:         c.Match.End,
			Replacement: Canonical(c.Match),
		})
	}
	return edits
}

// Apply splices all edits into text in one linear pass: copy the
// unedited span, write the replacement, continue after the edited span.
// Offsets always refer to the original buffer, so no running delta is
// needed. Edits must be in ascending order and non-overlapping; anything
// else would corrupt the buffer and is rejected outright. Zero edits
// returns text unchanged.
func Apply(text string, edits []Edit) (string, int, error) {
	var b strings.Builder
	prev := 0
	for i, e := range edits {
		if e.Start < prev || e.End < e.Start || e.End > len(text) {
			return "", 0, fmt.Errorf("edit %d out of order or out of range [%d,%d)", i, e.Start, e.End)
		}
		b.WriteString(text[prev:e.Start])
		b.WriteString(e.Replacement)
		prev = e.End
	}
	b.WriteString(text[prev:])
	return b.String(), len(edits), nil
}

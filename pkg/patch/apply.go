package patch

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ApplyEdits applies the edit sequence to the original text and returns the
// resulting document. Application is atomic: every edit is resolved and
// validated against the original before any text is assembled, so a bad edit
// leaves nothing half-applied. Edits must be in document order and must not
// overlap, which Synthesize guarantees by construction.
func ApplyEdits(original string, edits []Edit) (string, error) {
	starts := lineStarts(original)

	type span struct {
		from, to int
		text     string
	}
	spans := make([]span, 0, len(edits))

	last := 0
	for i, e := range edits {
		from, err := resolve(original, starts, e.Start)
		if err != nil {
			return "", fmt.Errorf("edit %d: %w", i, err)
		}
		to := from
		if e.Action != ActionInsert {
			if to, err = resolve(original, starts, e.End); err != nil {
				return "", fmt.Errorf("edit %d: %w", i, err)
			}
		}
		if to < from {
			return "", fmt.Errorf("edit %d: end precedes start", i)
		}
		if from < last {
			return "", fmt.Errorf("edit %d: overlaps preceding edit", i)
		}
		last = to
		spans = append(spans, span{from: from, to: to, text: e.Text})
	}

	var b strings.Builder
	prev := 0
	for _, s := range spans {
		b.WriteString(original[prev:s.from])
		b.WriteString(s.text)
		prev = s.to
	}
	b.WriteString(original[prev:])
	return b.String(), nil
}

// lineStarts returns the byte offset at which each line of text begins.
func lineStarts(text string) []int {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// resolve converts a (line, character) position into a byte offset, counting
// the character column in runes the same way Synthesize advances it. A
// position one past the final line addresses the end of the document, which
// is where a deletion covering the last line terminates.
func resolve(text string, starts []int, pos Position) (int, error) {
	if pos.Line < 0 || pos.Character < 0 {
		return 0, fmt.Errorf("negative position %d:%d", pos.Line, pos.Character)
	}
	if pos.Line >= len(starts) {
		if pos.Line == len(starts) && pos.Character == 0 {
			return len(text), nil
		}
		return 0, fmt.Errorf("position %d:%d beyond document", pos.Line, pos.Character)
	}
	off := starts[pos.Line]
	for i := 0; i < pos.Character; i++ {
		if off >= len(text) || text[off] == '\n' {
			return 0, fmt.Errorf("position %d:%d beyond line end", pos.Line, pos.Character)
		}
		_, width := utf8.DecodeRuneInString(text[off:])
		off += width
	}
	return off, nil
}

package patch

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Action identifies the kind of change an Edit performs.
type Action int

const (
	// ActionDelete removes the text between Start and End.
	ActionDelete Action = iota
	// ActionInsert places Text at Start; End is not meaningful.
	ActionInsert
	// ActionReplace substitutes the text between Start and End with Text.
	ActionReplace
)

// String returns a readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionDelete:
		return "delete"
	case ActionInsert:
		return "insert"
	case ActionReplace:
		return "replace"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Position is a 0-based (line, character) coordinate in the original
// document. The character column counts runes, not bytes.
type Position struct {
	Line      int
	Character int
}

// Edit is one position-anchored operation against the original document.
// Start and End always refer to the pre-edit text; Text is empty for
// deletions. Edits synthesized from a patch arrive in document order and do
// not overlap.
type Edit struct {
	Action Action
	Start  Position
	End    Position
	Text   string
}

// accumState tracks the edit currently being accumulated while walking a
// patch's diffs. The delete state upgrades to replace when an insert follows
// a delete without an intervening equal run.
type accumState int

const (
	accumIdle accumState = iota
	accumDelete
	accumInsert
	accumReplace
)

type accumulator struct {
	state accumState
	start Position
	end   Position
	text  strings.Builder
}

func (a *accumulator) flush(edits []Edit) []Edit {
	switch a.state {
	case accumIdle:
		return edits
	case accumDelete:
		edits = append(edits, Edit{Action: ActionDelete, Start: a.start, End: a.end})
	case accumInsert:
		edits = append(edits, Edit{Action: ActionInsert, Start: a.start, End: a.start, Text: a.text.String()})
	case accumReplace:
		edits = append(edits, Edit{Action: ActionReplace, Start: a.start, End: a.end, Text: a.text.String()})
	}
	a.state = accumIdle
	a.text.Reset()
	return edits
}

// Synthesize walks one patch's diffs against the original document and
// returns the edits realizing the patch, anchored in original-document
// coordinates. Adjacent delete and insert runs merge into a single replace
// edit. The walk is deterministic and never fails for patches produced by
// Parse, which rejects deletions following an insert run; a delete arriving
// while an insert is accumulating here can only mean a hand-built Patch that
// violates that ordering, and panics.
func Synthesize(originalText string, p Patch) []Edit {
	cursor := Position{Line: p.Start1}
	eol := detectEOL(originalText)

	var edits []Edit
	var acc accumulator

	for _, d := range p.Diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			edits = acc.flush(edits)
			cursor = advance(cursor, d.Text)

		case diffmatchpatch.DiffDelete:
			switch acc.state {
			case accumIdle:
				acc.state = accumDelete
				acc.start = cursor
			case accumDelete:
				// extend the open deletion
			default:
				panic(fmt.Sprintf("patch: delete after %v without an equal run", acc.state))
			}
			cursor = advance(cursor, d.Text)
			acc.end = cursor

		case diffmatchpatch.DiffInsert:
			switch acc.state {
			case accumIdle:
				acc.state = accumInsert
				acc.start = cursor
			case accumDelete:
				acc.state = accumReplace
			}
			// Inserted text exists only in the result, so the original-document
			// cursor must not move past it.
			acc.text.WriteString(restoreEOL(d.Text, eol))
		}
	}

	return acc.flush(edits)
}

// EditsFromPatch parses formatter patch text and synthesizes the full edit
// sequence for the document in one call. The patch text may still carry a
// `---`/`+++` file header; it is stripped before parsing.
func EditsFromPatch(originalText, patchText string) ([]Edit, error) {
	patches, err := Parse(StripFileHeader(patchText))
	if err != nil {
		return nil, err
	}
	var edits []Edit
	for _, p := range patches {
		edits = append(edits, Synthesize(originalText, p)...)
	}
	return edits, nil
}

// advance walks pos forward through text, resetting the character column on
// each newline.
func advance(pos Position, text string) Position {
	for _, r := range text {
		if r == '\n' {
			pos.Line++
			pos.Character = 0
		} else {
			pos.Character++
		}
	}
	return pos
}

// detectEOL reports the document's line terminator style so inserted text
// matches it.
func detectEOL(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx > 0 && text[idx-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// restoreEOL rewrites the bare \n terminators attached by the parser to the
// document's own terminator style.
func restoreEOL(text, eol string) string {
	if eol == "\n" {
		return text
	}
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(normalized, "\n", eol)
}

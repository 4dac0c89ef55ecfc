package patch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Patch is one parsed hunk: the span it covers in the original and resulting
// documents plus the ordered line diffs describing the change. Start1/Length1
// describe the original document, Start2/Length2 the result, both 0-based
// after header normalization. A Patch is created once by Parse and never
// mutated afterwards.
type Patch struct {
	Diffs   []diffmatchpatch.Diff
	Start1  int
	Length1 int
	Start2  int
	Length2 int
}

// MalformedPatchError reports patch text that violates the hunk grammar. Line
// is the 0-based index of the offending line within the patch text.
type MalformedPatchError struct {
	Line int
	Text string
}

// Error implements the error interface.
func (e *MalformedPatchError) Error() string {
	return fmt.Sprintf("malformed patch at line %d: %q", e.Line+1, e.Text)
}

var (
	hunkHeaderRx = regexp.MustCompile(`^@@ -(\d+)(,(\d+))? \+(\d+)(,(\d+))? @@`)
	noNewlineRx  = regexp.MustCompile(`\\ No newline at end of file\r?\n?`)
)

// StripFileHeader removes diff-tool framing that is not part of the hunk
// grammar: a leading `---`/`+++` file-header block (everything up to the
// first `@@`) and any `\ No newline at end of file` marker lines.
//
// Callers are expected to run formatter output through StripFileHeader before
// handing it to Parse.
func StripFileHeader(patchText string) string {
	if strings.HasPrefix(patchText, "---") {
		if idx := strings.Index(patchText, "@@"); idx >= 0 {
			patchText = patchText[idx:]
		}
	}
	return noNewlineRx.ReplaceAllString(patchText, "")
}

// Parse converts patch text into an ordered slice of patches. Each iteration
// of the outer loop must begin on a hunk header; content lines are consumed
// until the next header or end of input. A line that is neither a header, a
// signed content line nor empty yields a *MalformedPatchError. So does a `-`
// line directly following a `+` run: line diffs list deletions before
// insertions within a change block, and edit synthesis relies on that order.
//
// Line terminators are stripped while splitting and a `\n` is re-attached to
// every diff payload before the patch is returned, so multi-line diffs
// advance line counters correctly during edit synthesis.
func Parse(patchText string) ([]Patch, error) {
	if strings.TrimSpace(patchText) == "" {
		return nil, nil
	}

	lines := splitLines(patchText)
	var patches []Patch

	index := 0
	for index < len(lines) {
		header := hunkHeaderRx.FindStringSubmatch(lines[index])
		if header == nil {
			return nil, &MalformedPatchError{Line: index, Text: lines[index]}
		}

		var p Patch
		p.Start1, p.Length1 = parseSpan(header[1], header[3])
		p.Start2, p.Length2 = parseSpan(header[4], header[6])
		index++

		var prevSign byte
		for index < len(lines) {
			line := lines[index]
			if strings.HasPrefix(line, "@") {
				// Next hunk header; leave it for the outer loop.
				break
			}
			if line == "" {
				index++
				continue
			}
			payload := line[1:]
			switch line[0] {
			case '-':
				if prevSign == '+' {
					return nil, &MalformedPatchError{Line: index, Text: line}
				}
				p.Diffs = append(p.Diffs, diffmatchpatch.Diff{Type: diffmatchpatch.DiffDelete, Text: payload})
			case '+':
				p.Diffs = append(p.Diffs, diffmatchpatch.Diff{Type: diffmatchpatch.DiffInsert, Text: payload})
			case ' ':
				p.Diffs = append(p.Diffs, diffmatchpatch.Diff{Type: diffmatchpatch.DiffEqual, Text: payload})
			default:
				return nil, &MalformedPatchError{Line: index, Text: line}
			}
			prevSign = line[0]
			index++
		}

		for i := range p.Diffs {
			p.Diffs[i].Text += "\n"
		}
		patches = append(patches, p)
	}

	return patches, nil
}

// parseSpan normalizes one half of a hunk header. The header encodes a
// 1-based start with an optional length: an omitted length means length 1
// with the start shifted to 0-based; a literal "0" means an empty span whose
// start is already the insertion line; any other length shifts the start to
// 0-based and keeps the explicit length.
func parseSpan(startDigits, lengthDigits string) (start, length int) {
	start, _ = strconv.Atoi(startDigits)
	switch lengthDigits {
	case "":
		return start - 1, 1
	case "0":
		return start, 0
	default:
		length, _ = strconv.Atoi(lengthDigits)
		return start - 1, length
	}
}

// splitLines splits on bare \n after normalizing \r\n and lone \r, matching
// the terminator styles diff tools emit across platforms.
func splitLines(input string) []string {
	normalized := strings.ReplaceAll(input, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.Split(normalized, "\n")
}

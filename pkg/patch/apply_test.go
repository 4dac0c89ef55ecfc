package patch

import (
	"strings"
	"testing"
)

func TestApplyEditsAllActions(t *testing.T) {
	t.Parallel()

	original := "one\ntwo\nthree\n"
	edits := []Edit{
		{Action: ActionReplace, Start: Position{Line: 0}, End: Position{Line: 1}, Text: "ONE\n"},
		{Action: ActionInsert, Start: Position{Line: 2}, Text: "half\n"},
		{Action: ActionDelete, Start: Position{Line: 2}, End: Position{Line: 3}},
	}

	result, err := ApplyEdits(original, edits)
	if err != nil {
		t.Fatalf("ApplyEdits returned error: %v", err)
	}
	if got, want := result, "ONE\ntwo\nhalf\n"; got != want {
		t.Fatalf("unexpected result: got %q want %q", got, want)
	}
}

func TestApplyEditsNoEdits(t *testing.T) {
	t.Parallel()

	original := "unchanged\n"
	result, err := ApplyEdits(original, nil)
	if err != nil {
		t.Fatalf("ApplyEdits returned error: %v", err)
	}
	if result != original {
		t.Fatalf("document changed without edits: %q", result)
	}
}

func TestApplyEditsRejectsOverlap(t *testing.T) {
	t.Parallel()

	original := "one\ntwo\nthree\n"
	edits := []Edit{
		{Action: ActionDelete, Start: Position{Line: 1}, End: Position{Line: 3}},
		{Action: ActionDelete, Start: Position{Line: 2}, End: Position{Line: 3}},
	}

	if _, err := ApplyEdits(original, edits); err == nil {
		t.Fatalf("expected overlap error")
	}
}

func TestApplyEditsRejectsOutOfRange(t *testing.T) {
	t.Parallel()

	edits := []Edit{
		{Action: ActionInsert, Start: Position{Line: 9, Character: 0}, Text: "x"},
	}
	if _, err := ApplyEdits("one\n", edits); err == nil {
		t.Fatalf("expected out-of-range error")
	}
}

func TestApplyEditsRejectsInvertedRange(t *testing.T) {
	t.Parallel()

	edits := []Edit{
		{Action: ActionDelete, Start: Position{Line: 2}, End: Position{Line: 1}},
	}
	if _, err := ApplyEdits("one\ntwo\nthree\n", edits); err == nil {
		t.Fatalf("expected inverted-range error")
	}
}

func TestApplyEditsDeleteToEndOfFile(t *testing.T) {
	t.Parallel()

	original := "keep\ndrop"
	edits := []Edit{
		{Action: ActionDelete, Start: Position{Line: 1}, End: Position{Line: 2}},
	}
	result, err := ApplyEdits(original, edits)
	if err != nil {
		t.Fatalf("ApplyEdits returned error: %v", err)
	}
	if got, want := result, "keep\n"; got != want {
		t.Fatalf("unexpected result: got %q want %q", got, want)
	}
}

func TestApplyEditsMidLineMultibyte(t *testing.T) {
	t.Parallel()

	// Character columns count runes, so an edit after multibyte text must not
	// land mid-rune.
	original := "héllo wörld\n"
	edits := []Edit{
		{Action: ActionReplace, Start: Position{Line: 0, Character: 6}, End: Position{Line: 0, Character: 11}, Text: "there"},
	}
	result, err := ApplyEdits(original, edits)
	if err != nil {
		t.Fatalf("ApplyEdits returned error: %v", err)
	}
	if got, want := result, "héllo there\n"; got != want {
		t.Fatalf("unexpected result: got %q want %q", got, want)
	}
}

func TestApplyEditsRejectsColumnPastLineEnd(t *testing.T) {
	t.Parallel()

	edits := []Edit{
		{Action: ActionInsert, Start: Position{Line: 0, Character: 10}, Text: "x"},
	}
	if _, err := ApplyEdits("ab\ncd\n", edits); err == nil {
		t.Fatalf("expected beyond-line-end error")
	}
}

func TestApplyEditsMidLine(t *testing.T) {
	t.Parallel()

	original := "hello world\n"
	edits := []Edit{
		{Action: ActionReplace, Start: Position{Line: 0, Character: 6}, End: Position{Line: 0, Character: 11}, Text: "there"},
	}
	result, err := ApplyEdits(original, edits)
	if err != nil {
		t.Fatalf("ApplyEdits returned error: %v", err)
	}
	if !strings.HasPrefix(result, "hello there") {
		t.Fatalf("unexpected result: %q", result)
	}
}

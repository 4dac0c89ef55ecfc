package format

import (
	"go.lsp.dev/protocol"

	"github.com/coderelay/fmtbridge/pkg/patch"
)

// ToTextEdits materializes synthesized edits into the editor's native LSP
// representation. Inserts become zero-width ranges at their anchor; deletes
// and replaces cover [start, end).
func ToTextEdits(edits []patch.Edit) []protocol.TextEdit {
	out := make([]protocol.TextEdit, 0, len(edits))
	for _, e := range edits {
		out = append(out, toTextEdit(e))
	}
	return out
}

func toTextEdit(e patch.Edit) protocol.TextEdit {
	start := protocol.Position{
		Line:      uint32(e.Start.Line),
		Character: uint32(e.Start.Character),
	}
	switch e.Action {
	case patch.ActionInsert:
		return protocol.TextEdit{
			Range:   protocol.Range{Start: start, End: start},
			NewText: e.Text,
		}
	case patch.ActionDelete:
		return protocol.TextEdit{
			Range: protocol.Range{Start: start, End: position(e.End)},
		}
	default:
		return protocol.TextEdit{
			Range:   protocol.Range{Start: start, End: position(e.End)},
			NewText: e.Text,
		}
	}
}

func position(p patch.Position) protocol.Position {
	return protocol.Position{Line: uint32(p.Line), Character: uint32(p.Character)}
}

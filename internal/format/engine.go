package format

import (
	"context"
	"fmt"
	"path/filepath"

	"go.lsp.dev/protocol"

	"github.com/coderelay/fmtbridge/internal/logging"
	"github.com/coderelay/fmtbridge/pkg/patch"
)

// Document is the text being formatted. Path is only used for its extension;
// the document itself travels through a temp artifact.
type Document struct {
	Path string
	Text string
}

// Descriptor tells the engine how to invoke one external formatter. It is
// passed in explicitly per request; the engine reads no ambient
// configuration.
type Descriptor struct {
	Tool string
	Args []string
	Cwd  string
}

// Engine coordinates a single formatting request: temp artifact out, external
// tool run, patch text back, edits synthesized. The pipeline is pure
// computation once the tool has produced its patch, so an Engine is safe for
// concurrent use by independent requests.
type Engine struct {
	executor Executor
	temp     TempStore
	logger   logging.Logger
}

// NewEngine wires an engine from its collaborators. Nil collaborators fall
// back to the OS-backed defaults and a no-op logger.
func NewEngine(executor Executor, temp TempStore, logger logging.Logger) *Engine {
	if executor == nil {
		executor = NewCommandExecutor()
	}
	if temp == nil {
		temp = OSTempStore{}
	}
	if logger == nil {
		logger = logging.NoOp{}
	}
	return &Engine{executor: executor, temp: temp, logger: logger}
}

// Format runs the external formatter over the document and returns the edit
// sequence realizing its suggestions, in editor-native form. The tool is
// invoked once, with the temp artifact path appended to its arguments, and
// its stdout is treated as patch text.
//
// Cancellation is observed after the temp artifact is written, after the
// process completes, and before returning; the artifact is removed on every
// path. A cancelled request returns (nil, ctx.Err()) with no other side
// effects.
func (e *Engine) Format(ctx context.Context, doc Document, d Descriptor) ([]protocol.TextEdit, error) {
	edits, err := e.Edits(ctx, doc, d)
	if err != nil {
		return nil, err
	}
	return ToTextEdits(edits), nil
}

// Edits is Format without the editor-native materialization, for callers that
// want to apply or inspect the raw edit sequence.
func (e *Engine) Edits(ctx context.Context, doc Document, d Descriptor) ([]patch.Edit, error) {
	if d.Tool == "" {
		return nil, fmt.Errorf("format: empty tool descriptor")
	}

	artifact, err := e.temp.WriteTemp(doc.Text, filepath.Ext(doc.Path))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := e.temp.RemoveTemp(artifact); err != nil {
			e.logger.Warn(ctx, "temp artifact cleanup failed", logging.F("path", artifact))
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	args := append(append([]string(nil), d.Args...), artifact)
	e.logger.Debug(ctx, "running formatter", logging.F("tool", d.Tool), logging.F("args", args))

	result, runErr := e.executor.Execute(ctx, d.Tool, args, ExecOptions{Cwd: d.Cwd})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if runErr != nil {
		toolErr := classifyToolError(d.Tool, runErr, result)
		e.logger.Error(ctx, "formatter invocation failed", toolErr, logging.F("tool", d.Tool))
		return nil, toolErr
	}

	edits, err := patch.EditsFromPatch(doc.Text, result.Stdout)
	if err != nil {
		e.logger.Error(ctx, "unable to parse formatter output", err, logging.F("tool", d.Tool))
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.logger.Info(ctx, "formatting complete",
		logging.F("tool", d.Tool), logging.F("edits", len(edits)))
	return edits, nil
}

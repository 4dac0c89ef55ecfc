// Package cli wires flags, environment defaults and the formatter registry
// into a single command invocation.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/coderelay/fmtbridge/internal/config"
	"github.com/coderelay/fmtbridge/internal/format"
	"github.com/coderelay/fmtbridge/internal/logging"
	"github.com/coderelay/fmtbridge/internal/probe"
	"github.com/coderelay/fmtbridge/internal/tui"
	"github.com/coderelay/fmtbridge/pkg/patch"
)

// Run executes fmtbridge with the provided CLI arguments. It returns a
// POSIX-style exit code: 0 on success (including a cancelled request, which
// is silent by design), 1 on failure, 2 on usage errors.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	if err := godotenv.Load(); err != nil {
		// A missing .env file is fine, but other errors should be surfaced to help with debugging.
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			fmt.Fprintf(stderr, "failed to load .env: %v\n", err)
			return 1
		}
	}

	flagSet := flag.NewFlagSet("fmtbridge", flag.ContinueOnError)
	flagSet.SetOutput(stderr)
	var (
		tool       = flagSet.String("tool", os.Getenv("FMTBRIDGE_TOOL"), "formatter executable to invoke")
		toolArgs   = flagSet.String("args", os.Getenv("FMTBRIDGE_ARGS"), "extra arguments passed to the formatter, space separated")
		configPath = flagSet.String("config", os.Getenv("FMTBRIDGE_CONFIG"), "path to the formatter registry JSON")
		write      = flagSet.Bool("write", false, "apply the edits back to the file instead of printing them")
		preview    = flagSet.Bool("preview", false, "review the edits interactively before applying")
		logLevel   = flagSet.String("log-level", os.Getenv("FMTBRIDGE_LOG_LEVEL"), "minimum log level (debug, info, warn, error)")
	)
	if err := flagSet.Parse(args); err != nil {
		return 2
	}
	if flagSet.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: fmtbridge [flags] FILE")
		flagSet.PrintDefaults()
		return 2
	}

	path := flagSet.Arg(0)
	text, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "cannot read %s: %v\n", path, err)
		return 1
	}

	descriptor, err := resolveDescriptor(*tool, *toolArgs, *configPath, path)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if status := probe.New().Check(descriptor.Tool); !status.Available && !strings.ContainsRune(descriptor.Tool, os.PathSeparator) {
		fmt.Fprintf(stderr, "formatter %q is not installed\n", descriptor.Tool)
		return 1
	}

	logger := logging.NewStd(logging.ParseLevel(*logLevel), stderr)
	engine := format.NewEngine(nil, nil, logger)
	doc := format.Document{Path: path, Text: string(text)}

	if *preview {
		return runPreview(ctx, stderr, engine, doc, descriptor, path)
	}

	edits, err := engine.Edits(ctx, doc, descriptor)
	if err != nil {
		return reportError(stderr, err)
	}

	if *write {
		if err := applyToFile(path, doc.Text, edits); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}

	encoder := json.NewEncoder(stdout)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(format.ToTextEdits(edits)); err != nil {
		fmt.Fprintf(stderr, "cannot encode edits: %v\n", err)
		return 1
	}
	return 0
}

func runPreview(ctx context.Context, stderr io.Writer, engine *format.Engine, doc format.Document, d format.Descriptor, path string) int {
	_, err := tui.Run(ctx, tui.Params{
		Engine:     engine,
		Doc:        doc,
		Descriptor: d,
		Apply: func(edits []patch.Edit) error {
			return applyToFile(path, doc.Text, edits)
		},
	})
	if err != nil {
		return reportError(stderr, err)
	}
	return 0
}

// reportError converts pipeline failures into the user-facing messages of the
// error taxonomy. Cancellation stays silent.
func reportError(stderr io.Writer, err error) int {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0
	}

	var notInstalled *format.ToolNotInstalledError
	var execErr *format.ToolExecutionError
	var malformed *patch.MalformedPatchError
	switch {
	case errors.As(err, &notInstalled):
		fmt.Fprintln(stderr, notInstalled.Error())
	case errors.As(err, &malformed):
		fmt.Fprintf(stderr, "unable to parse formatter output: %v\n", malformed)
	case errors.As(err, &execErr):
		fmt.Fprintf(stderr, "formatting failed: %v\n", execErr)
	default:
		fmt.Fprintf(stderr, "formatting failed: %v\n", err)
	}
	return 1
}

// resolveDescriptor picks the formatter invocation: an explicit -tool flag
// wins, otherwise the registry is consulted by file extension.
func resolveDescriptor(tool, toolArgs, configPath, filePath string) (format.Descriptor, error) {
	if tool != "" {
		return format.Descriptor{Tool: tool, Args: splitArgs(toolArgs)}, nil
	}
	if configPath == "" {
		return format.Descriptor{}, errors.New("no formatter configured: pass -tool or -config")
	}
	registry, err := config.Load(configPath)
	if err != nil {
		return format.Descriptor{}, err
	}
	ext := filepath.Ext(filePath)
	descriptor, ok := registry.Lookup(ext)
	if !ok {
		return format.Descriptor{}, fmt.Errorf("no formatter registered for %q files", ext)
	}
	if extra := splitArgs(toolArgs); len(extra) > 0 {
		descriptor.Args = append(descriptor.Args, extra...)
	}
	return descriptor, nil
}

func splitArgs(raw string) []string {
	return strings.Fields(raw)
}

// applyToFile applies the edits atomically and rewrites the file only when
// the content actually changed.
func applyToFile(path, original string, edits []patch.Edit) error {
	if len(edits) == 0 {
		return nil
	}
	result, err := patch.ApplyEdits(original, edits)
	if err != nil {
		return fmt.Errorf("apply edits: %w", err)
	}
	if result == original {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(result), info.Mode().Perm())
}

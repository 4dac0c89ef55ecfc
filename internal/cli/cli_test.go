package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderelay/fmtbridge/internal/format"
	"github.com/coderelay/fmtbridge/pkg/patch"
)

func TestRunRequiresFileArgument(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), nil, &stdout, &stderr)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "usage: fmtbridge")
}

func TestRunUnreadableFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"-tool", "yapf", filepath.Join(t.TempDir(), "missing.py")}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "cannot read")
}

func TestRunMissingFormatter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.py")
	require.NoError(t, os.WriteFile(path, []byte("x=1\n"), 0o600))

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"-tool", "surely-not-installed-3f9a", path}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "not installed")
}

func TestRunEndToEndWithFakeFormatter(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script formatter")
	}

	dir := t.TempDir()
	target := filepath.Join(dir, "prog.py")
	require.NoError(t, os.WriteFile(target, []byte("import   sys\n"), 0o600))

	// A formatter that always suggests collapsing the double space.
	script := filepath.Join(dir, "fakefmt")
	require.NoError(t, os.WriteFile(script, []byte(
		"#!/bin/sh\nprintf '%s\\n' '@@ -1 +1 @@' '-import   sys' '+import sys'\n"), 0o755))

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"-tool", script, "-write", target}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "import sys\n", string(content))
}

func TestRunPrintsEditsAsJSON(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script formatter")
	}

	dir := t.TempDir()
	target := filepath.Join(dir, "prog.py")
	require.NoError(t, os.WriteFile(target, []byte("import   sys\n"), 0o600))

	script := filepath.Join(dir, "fakefmt")
	require.NoError(t, os.WriteFile(script, []byte(
		"#!/bin/sh\nprintf '%s\\n' '@@ -1 +1 @@' '-import   sys' '+import sys'\n"), 0o755))

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"-tool", script, target}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), `"newText"`)
	assert.Contains(t, stdout.String(), "import sys")
}

func TestResolveDescriptorPrefersFlag(t *testing.T) {
	d, err := resolveDescriptor("yapf", "--diff --style pep8", "", "a.py")
	require.NoError(t, err)
	assert.Equal(t, "yapf", d.Tool)
	assert.Equal(t, []string{"--diff", "--style", "pep8"}, d.Args)
}

func TestResolveDescriptorFromRegistry(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "fmtbridge.json")
	require.NoError(t, os.WriteFile(cfg, []byte(
		`{"formatters": {".py": {"tool": "yapf", "args": ["--diff"]}}}`), 0o600))

	d, err := resolveDescriptor("", "", cfg, "src/app.py")
	require.NoError(t, err)
	assert.Equal(t, "yapf", d.Tool)
	assert.Equal(t, []string{"--diff"}, d.Args)
}

func TestResolveDescriptorUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "fmtbridge.json")
	require.NoError(t, os.WriteFile(cfg, []byte(
		`{"formatters": {".py": {"tool": "yapf"}}}`), 0o600))

	_, err := resolveDescriptor("", "", cfg, "main.zig")
	require.ErrorContains(t, err, `no formatter registered for ".zig"`)
}

func TestResolveDescriptorNothingConfigured(t *testing.T) {
	_, err := resolveDescriptor("", "", "", "a.py")
	require.Error(t, err)
}

func TestReportErrorMapping(t *testing.T) {
	var stderr bytes.Buffer
	code := reportError(&stderr, &format.ToolNotInstalledError{Tool: "yapf"})
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "not installed")

	stderr.Reset()
	code = reportError(&stderr, &patch.MalformedPatchError{Line: 0, Text: "bogus"})
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "unable to parse formatter output")

	stderr.Reset()
	code = reportError(&stderr, context.Canceled)
	assert.Equal(t, 0, code)
	assert.Empty(t, stderr.String())
}

func TestReportErrorToolTimeoutIsNotSilent(t *testing.T) {
	// A tool blowing its own deadline is an execution failure; only the
	// request's cancellation may pass without a message.
	var stderr bytes.Buffer
	err := fmt.Errorf("formatter %q: %w", "yapf", errors.New("timed out after 1m0s"))
	code := reportError(&stderr, err)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "formatting failed")
	assert.Contains(t, stderr.String(), "timed out")
}

func TestApplyToFileNoEditsLeavesFileAlone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.py")
	require.NoError(t, os.WriteFile(path, []byte("ok\n"), 0o600))

	require.NoError(t, applyToFile(path, "ok\n", nil))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", string(content))
}

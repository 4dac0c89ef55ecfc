package format

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ToolNotInstalledError indicates the external formatter binary could not be
// found, or its interpreter reported a missing module.
type ToolNotInstalledError struct {
	Tool   string
	Detail string
}

// Error implements the error interface.
func (e *ToolNotInstalledError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("formatter %q is not installed: %s", e.Tool, e.Detail)
	}
	return fmt.Sprintf("formatter %q is not installed", e.Tool)
}

// ToolExecutionError indicates the formatter ran but terminated abnormally.
type ToolExecutionError struct {
	Tool     string
	ExitCode int
	Stderr   string
}

// Error implements the error interface.
func (e *ToolExecutionError) Error() string {
	msg := fmt.Sprintf("formatter %q failed with exit code %d", e.Tool, e.ExitCode)
	if detail := strings.TrimSpace(e.Stderr); detail != "" {
		msg += ": " + detail
	}
	return msg
}

// missingModuleMarkers are the stderr signatures interpreters print when the
// formatter's language-level package is absent even though the interpreter
// itself started fine.
var missingModuleMarkers = []string{
	"No module named",
	"Cannot find module",
}

// classifyToolError converts a raw execution failure into the error the
// caller should surface: missing binaries and missing interpreter modules
// become *ToolNotInstalledError, everything else *ToolExecutionError.
func classifyToolError(tool string, runErr error, result ExecResult) error {
	if errors.Is(runErr, exec.ErrNotFound) || errors.Is(runErr, os.ErrNotExist) {
		return &ToolNotInstalledError{Tool: tool}
	}
	for _, marker := range missingModuleMarkers {
		if strings.Contains(result.Stderr, marker) {
			return &ToolNotInstalledError{Tool: tool, Detail: strings.TrimSpace(result.Stderr)}
		}
	}
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return &ToolExecutionError{Tool: tool, ExitCode: exitErr.ExitCode(), Stderr: result.Stderr}
	}
	return fmt.Errorf("formatter %q: %w", tool, runErr)
}

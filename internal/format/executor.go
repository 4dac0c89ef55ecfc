package format

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ExecOptions configure a single external tool invocation.
type ExecOptions struct {
	Cwd         string
	MergeStderr bool
	Timeout     time.Duration
}

// ExecResult carries the decoded output of a completed invocation.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Executor runs an external formatter process and returns its decoded
// output. Implementations must honor context cancellation.
type Executor interface {
	Execute(ctx context.Context, executable string, args []string, opts ExecOptions) (ExecResult, error)
}

const defaultToolTimeout = time.Minute

// CommandExecutor shells out with exec.CommandContext.
type CommandExecutor struct{}

// NewCommandExecutor builds the default executor.
func NewCommandExecutor() *CommandExecutor {
	return &CommandExecutor{}
}

// Execute runs the executable and waits for it to finish, killing it if the
// context is cancelled or the timeout elapses first.
func (e *CommandExecutor) Execute(ctx context.Context, executable string, args []string, opts ExecOptions) (ExecResult, error) {
	if strings.TrimSpace(executable) == "" {
		return ExecResult{}, fmt.Errorf("executor: empty executable")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultToolTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, executable, args...)
	if opts.Cwd != "" {
		cmd.Dir = opts.Cwd
	}

	var stdoutBuf bytes.Buffer
	var stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	if opts.MergeStderr {
		cmd.Stderr = &stdoutBuf
	} else {
		cmd.Stderr = &stderrBuf
	}

	if err := cmd.Start(); err != nil {
		return ExecResult{}, err
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var runErr error
	select {
	case <-runCtx.Done():
		_ = cmd.Process.Kill()
		<-done
		// A dead parent context is request cancellation and stays silent
		// upstream; the tool outliving its own deadline is an execution
		// failure and must be reported as one.
		if err := ctx.Err(); err != nil {
			runErr = err
		} else {
			runErr = fmt.Errorf("timed out after %s", timeout)
		}
	case err := <-done:
		runErr = err
	}

	result := ExecResult{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}
	return result, runErr
}

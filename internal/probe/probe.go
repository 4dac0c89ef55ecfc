// Package probe answers one question before a formatting request starts: is
// the configured formatter actually invocable on this machine. Checking up
// front turns a confusing exec failure into a clear "not installed" message.
package probe

import "os/exec"

// Status reports whether a formatter tool resolved on PATH and where.
type Status struct {
	Tool      string
	Available bool
	Path      string
}

// Prober resolves formatter tools. The lookup function is injectable so tests
// can exercise probes without relying on tools present on the host PATH.
type Prober struct {
	lookPath func(string) (string, error)
}

// New constructs a Prober resolving commands with exec.LookPath.
func New() *Prober {
	return &Prober{lookPath: exec.LookPath}
}

// NewWithLookPath overrides the command lookup implementation.
func NewWithLookPath(lookPath func(string) (string, error)) *Prober {
	p := New()
	if lookPath != nil {
		p.lookPath = lookPath
	}
	return p
}

// Check resolves the tool on PATH.
func (p *Prober) Check(tool string) Status {
	if tool == "" {
		return Status{Tool: tool}
	}
	path, err := p.lookPath(tool)
	if err != nil {
		return Status{Tool: tool}
	}
	return Status{Tool: tool, Available: true, Path: path}
}

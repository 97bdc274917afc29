// Package fsprobe answers whether a file is currently held open by any process.
// Probing is best-effort: when no probe is available the answer is always "not open",
// so compression proceeds rather than blocking.
package fsprobe

import (
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/prometheus/procfs"

	"github.com/raoulx24/log-janitor/internal/config"
)

// Prober reports whether path is open in some process.
type Prober interface {
	IsOpen(path string) bool
}

// Result reports which probe was selected and why.
type Result struct {
	Name      string // "procfs", "lsof" or "none"
	Supported bool   // false when falling back to Noop
	Reason    string // explanation when unsupported
}

// Noop never reports a file as open.
type Noop struct{}

func (Noop) IsOpen(string) bool { return false }

// Select returns the probe for mode. Unavailable probes degrade to Noop.
func Select(mode string) (Prober, Result) {
	return selectAt(mode, procfs.DefaultMountPoint)
}

func selectAt(mode, procMount string) (Prober, Result) {
	switch mode {
	case config.ProbeNone:
		return Noop{}, Result{Name: config.ProbeNone, Reason: "disabled by configuration"}

	case config.ProbeProcfs:
		p, err := NewProcfs(procMount)
		if err != nil {
			return Noop{}, Result{Name: config.ProbeNone, Reason: err.Error()}
		}
		return p, Result{Name: config.ProbeProcfs, Supported: true}

	case config.ProbeLsof:
		p, err := NewLsof()
		if err != nil {
			return Noop{}, Result{Name: config.ProbeNone, Reason: err.Error()}
		}
		return p, Result{Name: config.ProbeLsof, Supported: true}

	default:
		p, perr := NewProcfs(procMount)
		if perr == nil {
			return p, Result{Name: config.ProbeProcfs, Supported: true}
		}
		l, lerr := NewLsof()
		if lerr == nil {
			return l, Result{Name: config.ProbeLsof, Supported: true}
		}
		return Noop{}, Result{Name: config.ProbeNone, Reason: fmt.Sprintf("%v; %v", perr, lerr)}
	}
}

// Procfs scans /proc/<pid>/fd of every visible process.
type Procfs struct {
	fs procfs.FS
}

// NewProcfs fails if mountPoint is not a readable proc filesystem.
func NewProcfs(mountPoint string) (*Procfs, error) {
	fs, err := procfs.NewFS(mountPoint)
	if err != nil {
		return nil, fmt.Errorf("procfs unavailable: %w", err)
	}
	self, err := fs.Self()
	if err != nil {
		return nil, fmt.Errorf("procfs unavailable: %w", err)
	}
	if _, err := self.FileDescriptorTargets(); err != nil {
		return nil, fmt.Errorf("procfs fd listing unavailable: %w", err)
	}
	return &Procfs{fs: fs}, nil
}

func (p *Procfs) IsOpen(path string) bool {
	target := canonical(path)

	procs, err := p.fs.AllProcs()
	if err != nil {
		return false
	}
	for _, proc := range procs {
		// processes exit or deny access between listing and reading
		targets, err := proc.FileDescriptorTargets()
		if err != nil {
			continue
		}
		for _, t := range targets {
			if t == target {
				return true
			}
		}
	}
	return false
}

// Lsof shells out to lsof(8). Exit status 0 means at least one process has the file open.
type Lsof struct {
	bin string
}

func NewLsof() (*Lsof, error) {
	bin, err := exec.LookPath("lsof")
	if err != nil {
		return nil, fmt.Errorf("lsof unavailable: %w", err)
	}
	return &Lsof{bin: bin}, nil
}

func (l *Lsof) IsOpen(path string) bool {
	return exec.Command(l.bin, "-t", "--", path).Run() == nil
}

func canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

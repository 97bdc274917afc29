// Package gate holds the eligibility predicates applied to every compression candidate.
package gate

import (
	"path/filepath"
	"time"

	"github.com/raoulx24/log-janitor/internal/config"
	"github.com/raoulx24/log-janitor/internal/fs"
	"github.com/raoulx24/log-janitor/internal/fsprobe"
)

// Candidate is a file matched by a pattern during the current run.
type Candidate struct {
	Path string
	Name string
	Info fs.FileInfo
}

// NewCandidate builds a Candidate from a stat result.
func NewCandidate(info fs.FileInfo) Candidate {
	return Candidate{
		Path: info.Path,
		Name: filepath.Base(info.Path),
		Info: info,
	}
}

// Verdict is the result of Check.
type Verdict int

const (
	Eligible Verdict = iota
	Blacklisted
	Open
	Recent
)

func (v Verdict) String() string {
	switch v {
	case Eligible:
		return "eligible"
	case Blacklisted:
		return "blacklisted"
	case Open:
		return "open"
	case Recent:
		return "recent"
	default:
		return "unknown"
	}
}

type Gate struct {
	blacklist     map[string]struct{}
	probe         fsprobe.Prober
	maxAge        time.Duration
	timestampType string
	now           func() time.Time
}

// New creates a gate from cfg. A nil probe behaves as fsprobe.Noop and a nil clock as time.Now.
func New(cfg *config.Config, probe fsprobe.Prober, now func() time.Time) *Gate {
	if probe == nil {
		probe = fsprobe.Noop{}
	}
	if now == nil {
		now = time.Now
	}

	bl := make(map[string]struct{}, len(cfg.Blacklist))
	for _, name := range cfg.Blacklist {
		bl[name] = struct{}{}
	}

	return &Gate{
		blacklist:     bl,
		probe:         probe,
		maxAge:        cfg.MaxAgeDuration(),
		timestampType: cfg.TimestampType,
		now:           now,
	}
}

// IsBlacklisted compares the base name exactly; entries are not patterns.
func (g *Gate) IsBlacklisted(c Candidate) bool {
	_, ok := g.blacklist[c.Name]
	return ok
}

func (g *Gate) IsOpen(c Candidate) bool {
	return g.probe.IsOpen(c.Path)
}

// Age is the time elapsed since the configured timestamp of c.
func (g *Gate) Age(c Candidate) (time.Duration, error) {
	ts, err := SelectTime(c.Info, g.timestampType)
	if err != nil {
		return 0, err
	}
	return g.now().Sub(ts), nil
}

func (g *Gate) IsRecent(c Candidate) (bool, error) {
	age, err := g.Age(c)
	if err != nil {
		return false, err
	}
	return age < g.maxAge, nil
}

// Check applies blacklist, open-file and age in that order and stops at the first hit.
// The only error is a *config.Error for an unknown timestamp type.
func (g *Gate) Check(c Candidate) (Verdict, error) {
	if g.IsBlacklisted(c) {
		return Blacklisted, nil
	}
	if g.IsOpen(c) {
		return Open, nil
	}
	recent, err := g.IsRecent(c)
	if err != nil {
		return Eligible, err
	}
	if recent {
		return Recent, nil
	}
	return Eligible, nil
}

// SelectTime picks the modify, change or access time of fi.
func SelectTime(fi fs.FileInfo, timestampType string) (time.Time, error) {
	switch timestampType {
	case config.TimestampModify:
		return fi.MTime, nil
	case config.TimestampChange:
		return fi.CTime, nil
	case config.TimestampAccess:
		return fi.ATime, nil
	}
	return time.Time{}, config.CheckTimestampType(timestampType)
}

// Package summary accumulates per-outcome counters for one run and renders the final report.
// Counters are atomic so workers may record concurrently.
package summary

import (
	"fmt"
	"io"
	"sync/atomic"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
)

type Outcome int

const (
	Compressed Outcome = iota
	AlreadyCompressed
	SkippedOpen
	SkippedRecent
	SkippedBlacklisted
	CompressError
	Deleted
	DeleteError

	numOutcomes
)

func (o Outcome) String() string {
	switch o {
	case Compressed:
		return "compressed"
	case AlreadyCompressed:
		return "already_compressed"
	case SkippedOpen:
		return "skipped_open"
	case SkippedRecent:
		return "skipped_recent"
	case SkippedBlacklisted:
		return "skipped_blacklisted"
	case CompressError:
		return "compress_error"
	case Deleted:
		return "deleted"
	case DeleteError:
		return "delete_error"
	default:
		return "unknown"
	}
}

// Counts is a point-in-time copy of the outcome counters.
type Counts map[Outcome]int64

type Summary struct {
	counts [numOutcomes]atomic.Int64

	bytesIn        atomic.Int64 // source bytes selected for compression
	bytesOut       atomic.Int64 // artifact bytes written (zero in dry-run)
	bytesReclaimed atomic.Int64 // artifact bytes removed by cleanup
}

func New() *Summary {
	return &Summary{}
}

func (s *Summary) Record(o Outcome) {
	if o < 0 || o >= numOutcomes {
		return
	}
	s.counts[o].Add(1)
}

func (s *Summary) AddCompressedBytes(in, out int64) {
	s.bytesIn.Add(in)
	s.bytesOut.Add(out)
}

func (s *Summary) AddReclaimedBytes(n int64) {
	s.bytesReclaimed.Add(n)
}

func (s *Summary) Count(o Outcome) int64 {
	if o < 0 || o >= numOutcomes {
		return 0
	}
	return s.counts[o].Load()
}

// Snapshot copies every counter, including zeros.
func (s *Summary) Snapshot() Counts {
	c := make(Counts, numOutcomes)
	for o := Outcome(0); o < numOutcomes; o++ {
		c[o] = s.counts[o].Load()
	}
	return c
}

// Merge adds other's counters into s.
func (s *Summary) Merge(other *Summary) {
	for o := Outcome(0); o < numOutcomes; o++ {
		s.counts[o].Add(other.counts[o].Load())
	}
	s.bytesIn.Add(other.bytesIn.Load())
	s.bytesOut.Add(other.bytesOut.Load())
	s.bytesReclaimed.Add(other.bytesReclaimed.Load())
}

// Report writes the Compression and Cleanup sections.
func (s *Summary) Report(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	fmt.Fprintln(tw, "Compression")
	fmt.Fprintf(tw, "  Compressed:\t%d\n", s.Count(Compressed))
	fmt.Fprintf(tw, "  Already compressed:\t%d\n", s.Count(AlreadyCompressed))
	fmt.Fprintf(tw, "  Skipped (open):\t%d\n", s.Count(SkippedOpen))
	fmt.Fprintf(tw, "  Skipped (recent):\t%d\n", s.Count(SkippedRecent))
	fmt.Fprintf(tw, "  Skipped (blacklisted):\t%d\n", s.Count(SkippedBlacklisted))
	fmt.Fprintf(tw, "  Errors:\t%d\n", s.Count(CompressError))
	fmt.Fprintf(tw, "  Input size:\t%s\n", humanize.Bytes(uint64(s.bytesIn.Load())))
	fmt.Fprintln(tw, "Cleanup")
	fmt.Fprintf(tw, "  Deleted:\t%d\n", s.Count(Deleted))
	fmt.Fprintf(tw, "  Errors:\t%d\n", s.Count(DeleteError))
	fmt.Fprintf(tw, "  Reclaimed:\t%s\n", humanize.Bytes(uint64(s.bytesReclaimed.Load())))

	return tw.Flush()
}

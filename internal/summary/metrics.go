package summary

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "log_janitor"

// RunInfo describes the run the counters belong to.
type RunInfo struct {
	Started  time.Time
	Finished time.Time
	DryRun   bool
}

// WriteTextfile exports the counters in the node_exporter textfile format.
// The file is replaced atomically.
func (s *Summary) WriteTextfile(path string, info RunInfo) error {
	return prometheus.WriteToTextfile(path, s.registry(info))
}

func (s *Summary) registry(info RunInfo) *prometheus.Registry {
	reg := prometheus.NewRegistry()

	compression := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "compression_total",
		Help:      "Files handled by the compression phase of the last run, by outcome.",
	}, []string{"outcome"})

	cleanup := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cleanup_total",
		Help:      "Artifacts handled by the cleanup phase of the last run, by outcome.",
	}, []string{"outcome"})

	bytes := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_bytes",
		Help:      "Bytes handled in the last run.",
	}, []string{"kind"})

	timestamp := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last run finished.",
	})

	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_duration_seconds",
		Help:      "Wall time of the last run.",
	})

	dryRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_dry_run",
		Help:      "1 if the last run was a dry run.",
	})

	reg.MustRegister(compression, cleanup, bytes, timestamp, duration, dryRun)

	for o := Outcome(0); o < numOutcomes; o++ {
		vec := compression
		if isCleanup(o) {
			vec = cleanup
		}
		vec.WithLabelValues(o.String()).Add(float64(s.Count(o)))
	}

	bytes.WithLabelValues("compression_in").Set(float64(s.bytesIn.Load()))
	bytes.WithLabelValues("compression_out").Set(float64(s.bytesOut.Load()))
	bytes.WithLabelValues("reclaimed").Set(float64(s.bytesReclaimed.Load()))

	timestamp.Set(float64(info.Finished.Unix()))
	duration.Set(info.Finished.Sub(info.Started).Seconds())
	if info.DryRun {
		dryRun.Set(1)
	}

	return reg
}

func isCleanup(o Outcome) bool {
	return o == Deleted || o == DeleteError
}

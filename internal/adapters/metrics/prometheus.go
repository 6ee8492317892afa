// Package metrics exports frame exchange statistics as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bft-labs/deltaship/internal/domain"
	"github.com/bft-labs/deltaship/internal/ports"
)

const namespace = "deltaship"

// Recorder implements ports.StatsRecorder with Prometheus collectors.
type Recorder struct {
	frames     prometheus.Counter
	rawBytes   prometheus.Counter
	wireBytes  prometheus.Counter
	chunks     *prometheus.CounterVec
	mismatches prometheus.Counter
	errors     prometheus.Counter
	frameWire  prometheus.Histogram
	ratio      prometheus.Gauge

	totals domain.Stats
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames exchanged between encoder and decoder.",
		}),
		rawBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "raw_bytes_total",
			Help:      "Uncompressed frame bytes offered to the encoder.",
		}),
		wireBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wire_bytes_total",
			Help:      "Encoded chunk bytes carried by the channel.",
		}),
		chunks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_total",
			Help:      "Chunks carried by the channel, by kind.",
		}, []string{"kind"}),
		mismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frame_mismatches_total",
			Help:      "Frames whose receiver copy differed from the sender's.",
		}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "codec_errors_total",
			Help:      "Frames aborted by a codec or channel error.",
		}),
		frameWire: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_wire_bytes",
			Help:      "Encoded size of one frame.",
			Buckets:   prometheus.ExponentialBuckets(16, 2, 12),
		}),
		ratio: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "compression_ratio_percent",
			Help:      "Wire bytes as a percentage of raw bytes since start.",
		}),
	}

	for _, c := range []prometheus.Collector{
		r.frames, r.rawBytes, r.wireBytes, r.chunks,
		r.mismatches, r.errors, r.frameWire, r.ratio,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// RecordFrame folds one frame report into the metrics.
func (r *Recorder) RecordFrame(report domain.FrameReport) {
	r.totals.Add(report)

	r.frames.Inc()
	r.rawBytes.Add(float64(report.RawBytes))
	r.wireBytes.Add(float64(report.Traffic.WireBytes))
	r.chunks.WithLabelValues(domain.ChunkLiteral.String()).Add(float64(report.Traffic.Literals))
	r.chunks.WithLabelValues(domain.ChunkRepeat.String()).Add(float64(report.Traffic.Repeats))
	r.chunks.WithLabelValues(domain.ChunkEnd.String()).Add(float64(report.Traffic.Ends))
	r.frameWire.Observe(float64(report.Traffic.WireBytes))
	r.ratio.Set(r.totals.Ratio())

	if report.Mismatch {
		r.mismatches.Inc()
	}
	if report.Err != nil {
		r.errors.Inc()
	}
}

var _ ports.StatsRecorder = (*Recorder)(nil)

package steg

import "github.com/prometheus/client_golang/prometheus"

// Segment outcomes recorded by Metrics.
const (
	segmentDecoded  = "decoded"
	segmentRejected = "rejected"
)

// Metrics counts extraction activity. A nil *Metrics records nothing.
type Metrics struct {
	Segments       *prometheus.CounterVec
	Extractions    *prometheus.CounterVec
	CorrectedBytes prometheus.Counter
	WinningVotes   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg when reg is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Segments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "steg",
			Name:      "segments_total",
			Help:      "Terminator-delimited segments by unframe outcome.",
		}, []string{"outcome"}),
		Extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "steg",
			Name:      "extractions_total",
			Help:      "Extract calls by result.",
		}, []string{"result"}),
		CorrectedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "steg",
			Name:      "corrected_bytes_total",
			Help:      "Byte errors repaired by Reed-Solomon in decoded segments.",
		}),
		WinningVotes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "steg",
			Name:      "winning_votes",
			Help:      "Votes behind each recovered message.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Segments, m.Extractions, m.CorrectedBytes, m.WinningVotes)
	}
	return m
}

func (m *Metrics) segment(outcome string, corrected int) {
	if m == nil {
		return
	}
	m.Segments.WithLabelValues(outcome).Inc()
	if corrected > 0 {
		m.CorrectedBytes.Add(float64(corrected))
	}
}

func (m *Metrics) extraction(found bool, votes int) {
	if m == nil {
		return
	}
	if !found {
		m.Extractions.WithLabelValues("not_found").Inc()
		return
	}
	m.Extractions.WithLabelValues("found").Inc()
	m.WinningVotes.Observe(float64(votes))
}

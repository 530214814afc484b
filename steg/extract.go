package steg

import (
	"go.uber.org/zap"
)

// maxBorrow bounds how many spare zero bytes of a long zero run a segment
// may claim from either side.
const maxBorrow = 3

// Candidate is one distinct message decoded from a bit tensor and the number
// of segments that produced it.
type Candidate struct {
	Text  string
	Votes int
}

// Extractor recovers a message from decoded bits by splitting on
// terminators, unframing every segment and voting.
type Extractor struct {
	framer  *Framer
	logger  *zap.Logger
	metrics *Metrics
}

// Option configures an Extractor or a Steganographer.
type Option func(*Extractor)

// WithLogger sets the logger used for per-segment debug output.
func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics records segment and extraction counts into m.
func WithMetrics(m *Metrics) Option {
	return func(e *Extractor) { e.metrics = m }
}

// NewExtractor returns an Extractor unframing with f.
func NewExtractor(f *Framer, opts ...Option) *Extractor {
	e := &Extractor{framer: f, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// segment is the data between two terminators. lead and trail count the
// zeros of the neighbouring runs beyond the terminator itself, which may
// belong to the segment.
type segment struct {
	data        []byte
	lead, trail int
}

// splitSegments cuts data at every run of at least four zero bytes. A run
// of exactly four is a plain terminator; a longer one is a terminator next
// to message bytes that happen to be zero.
func splitSegments(data []byte) []segment {
	var out []segment
	start, lead := 0, 0
	for i := 0; i < len(data); {
		if data[i] != 0 {
			i++
			continue
		}
		j := i
		for j < len(data) && data[j] == 0 {
			j++
		}
		if run := j - i; run >= len(Terminator) {
			spare := min(run-len(Terminator), maxBorrow)
			out = append(out, segment{data: data[start:i], lead: lead, trail: spare})
			start, lead = j, spare
		}
		i = j
	}
	return append(out, segment{data: data[start:], lead: lead})
}

// unframeSegment unframes s as cut, then with spare zeros restored on
// either side, fewest first.
func (e *Extractor) unframeSegment(s segment) (string, int, error) {
	text, corrected, err := e.framer.unframe(s.data)
	if err == nil {
		return text, corrected, nil
	}
	for total := 1; total <= s.lead+s.trail; total++ {
		for i := 0; i <= min(s.lead, total); i++ {
			j := total - i
			if j > s.trail {
				continue
			}
			buf := make([]byte, i+len(s.data)+j)
			copy(buf[i:], s.data)
			if text, corrected, err := e.framer.unframe(buf); err == nil {
				return text, corrected, nil
			}
		}
	}
	return "", 0, err
}

// Candidates returns every message decoded from bits, in the order each was
// first seen. Segments that fail to unframe are skipped.
func (e *Extractor) Candidates(bits []bool) []Candidate {
	var out []Candidate
	index := make(map[string]int)
	for i, seg := range splitSegments(BitsToBytes(bits)) {
		if len(seg.data) == 0 {
			continue
		}
		text, corrected, err := e.unframeSegment(seg)
		if err != nil {
			e.metrics.segment(segmentRejected, 0)
			e.logger.Debug("segment rejected",
				zap.Int("segment", i),
				zap.Int("bytes", len(seg.data)),
				zap.Error(err))
			continue
		}
		e.metrics.segment(segmentDecoded, corrected)
		if corrected > 0 {
			e.logger.Debug("segment corrected",
				zap.Int("segment", i),
				zap.Int("corrected", corrected))
		}
		if j, ok := index[text]; ok {
			out[j].Votes++
			continue
		}
		index[text] = len(out)
		out = append(out, Candidate{Text: text, Votes: 1})
	}
	return out
}

// Extract returns the message decoded from the most segments of bits. Ties
// go to the message seen first. It fails with ErrMessageNotFound when no
// segment decodes. Compared with a plain left-to-right split on every
// terminator, the zero-run handling of splitSegments only ever recovers more.
func (e *Extractor) Extract(bits []bool) (string, error) {
	cands := e.Candidates(bits)
	if len(cands) == 0 {
		e.metrics.extraction(false, 0)
		return "", ErrMessageNotFound
	}
	best := cands[0]
	for _, c := range cands[1:] {
		if c.Votes > best.Votes {
			best = c
		}
	}
	e.metrics.extraction(true, best.Votes)
	e.logger.Debug("message recovered",
		zap.Int("candidates", len(cands)),
		zap.Int("votes", best.Votes))
	return best.Text, nil
}

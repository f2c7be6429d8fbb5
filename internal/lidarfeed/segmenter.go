package lidarfeed

import (
	"sort"

	"github.com/banshee-data/lidarrelay/internal/lidarproto"
)

// AcceptanceResult reports the outcome of evaluating one buffered rotation
// against the acceptance rules.
type AcceptanceResult struct {
	Accepted     bool
	Rotation     lidarproto.Rotation
	RejectReason string
	SampleCount  int
}

// Segmenter accumulates measurements between boundary markers and decides,
// at each marker, whether the buffered rotation is a full 360-degree sweep
// fit to hand to the encoder: a sample line appends to the buffer; a
// boundary line evaluates and clears it.
type Segmenter struct {
	now         func() uint64
	buffer      []lidarproto.Measurement
	startTimeUS uint64
}

// NewSegmenter builds a Segmenter. now supplies the microsecond clock used to
// stamp each rotation's start time; it is injectable so tests can control
// time deterministically.
func NewSegmenter(now func() uint64) *Segmenter {
	return &Segmenter{now: now}
}

// Feed processes one input line. It mirrors the original per-line ordering:
// a matching measurement is appended to the buffer first; a boundary marker
// is then evaluated against whatever is currently buffered (which may
// include the sample just appended from this same line, since a boundary
// line may itself carry a measurement per §6). Feed returns a non-nil result
// only on a boundary line that had a non-empty buffer to evaluate.
func (s *Segmenter) Feed(line string) *AcceptanceResult {
	if m, ok := Parse(line); ok {
		if s.startTimeUS == 0 {
			s.startTimeUS = s.now()
		}
		s.buffer = append(s.buffer, m)
	}

	if !IsBoundary(line) {
		return nil
	}

	var result *AcceptanceResult
	if len(s.buffer) > 0 {
		result = s.evaluate()
	}
	s.buffer = nil
	s.startTimeUS = s.now()
	return result
}

// evaluate applies the acceptance rules to the current buffer: sample count
// within the encode-side window, angular coverage spanning at least
// [0, 10.00] to [350.00, 360.00) degrees, and no gap wider than 10.00
// degrees between consecutive sorted samples.
func (s *Segmenter) evaluate() *AcceptanceResult {
	count := len(s.buffer)
	result := &AcceptanceResult{SampleCount: count}

	if count < lidarproto.MinSampleCount || count > lidarproto.MaxEncodeCount {
		result.RejectReason = "sample count out of range"
		return result
	}

	sorted := make([]int, count)
	for i, m := range s.buffer {
		sorted[i] = int(m.ThetaCenti)
	}
	sort.Ints(sorted)

	if sorted[0] > lidarproto.MinCoverageCenti || sorted[count-1] < lidarproto.MaxCoverageCenti {
		result.RejectReason = "insufficient angular coverage"
		return result
	}

	for i := 1; i < count; i++ {
		if sorted[i]-sorted[i-1] > lidarproto.MaxAngleGapCenti {
			result.RejectReason = "angular gap exceeds threshold"
			return result
		}
	}

	result.Accepted = true
	result.Rotation = lidarproto.Rotation{
		Measurements: append([]lidarproto.Measurement(nil), s.buffer...),
		StartTimeUS:  s.startTimeUS,
	}
	return result
}

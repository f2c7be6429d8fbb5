package lidarfeed

import (
	"fmt"
	"testing"
)

func fixedClock(t uint64) func() uint64 {
	return func() uint64 { return t }
}

// buildFullSweepLines generates one line per degree from 0 to 359, each
// with a small valid distance, followed by a boundary marker line.
func buildFullSweepLines() []string {
	lines := make([]string, 0, 361)
	for deg := 0; deg < 360; deg++ {
		lines = append(lines, fmt.Sprintf("theta: %d.00 Dist: 1000", deg))
	}
	lines = append(lines, "S")
	return lines
}

func TestSegmenterAcceptsFullSweep(t *testing.T) {
	seg := NewSegmenter(fixedClock(1000))

	var accepted *AcceptanceResult
	for _, line := range buildFullSweepLines() {
		if res := seg.Feed(line); res != nil {
			accepted = res
		}
	}

	if accepted == nil {
		t.Fatal("expected a rotation result at the boundary marker")
	}
	if !accepted.Accepted {
		t.Fatalf("expected acceptance, got rejection: %s", accepted.RejectReason)
	}
	if accepted.SampleCount != 360 {
		t.Errorf("expected 360 samples, got %d", accepted.SampleCount)
	}
	if accepted.Rotation.StartTimeUS != 1000 {
		t.Errorf("expected start time 1000, got %d", accepted.Rotation.StartTimeUS)
	}
}

// TestSegmenterRejectsInsufficientCoverage checks that 400 samples
// clustered within a narrow angular band, never reaching 350 degrees, are
// rejected for insufficient coverage.
func TestSegmenterRejectsInsufficientCoverage(t *testing.T) {
	seg := NewSegmenter(fixedClock(0))

	for i := 0; i < 400; i++ {
		deg := 100 + float64(i%10)/10.0
		seg.Feed(fmt.Sprintf("theta: %.2f Dist: 1000", deg))
	}
	result := seg.Feed("S")

	if result == nil {
		t.Fatal("expected a result")
	}
	if result.Accepted {
		t.Fatal("expected rejection due to insufficient angular coverage")
	}
}

func TestSegmenterRejectsTooFewSamples(t *testing.T) {
	seg := NewSegmenter(fixedClock(0))

	for i := 0; i < 50; i++ {
		seg.Feed(fmt.Sprintf("theta: %d.00 Dist: 1000", i))
	}
	result := seg.Feed("S")

	if result == nil {
		t.Fatal("expected a result")
	}
	if result.Accepted {
		t.Fatal("expected rejection due to too few samples")
	}
}

func TestSegmenterRejectsAngularGap(t *testing.T) {
	seg := NewSegmenter(fixedClock(0))

	// 300 samples clustered at the low end, then a lone sample near the
	// high end: coverage passes but the gap between them is enormous.
	for i := 0; i < 300; i++ {
		deg := float64(i) / 300.0 * 5.0 // 0..5 degrees
		seg.Feed(fmt.Sprintf("theta: %.2f Dist: 1000", deg))
	}
	seg.Feed("theta: 355.00 Dist: 1000")
	result := seg.Feed("S")

	if result == nil {
		t.Fatal("expected a result")
	}
	if result.Accepted {
		t.Fatal("expected rejection due to an angular gap")
	}
}

func TestSegmenterIgnoresBoundaryWithEmptyBuffer(t *testing.T) {
	seg := NewSegmenter(fixedClock(0))
	if res := seg.Feed("S"); res != nil {
		t.Fatalf("expected no result for a boundary with nothing buffered, got %+v", res)
	}
}

func TestSegmenterResetsAfterBoundary(t *testing.T) {
	clockVal := uint64(100)
	seg := NewSegmenter(fixedClock(clockVal))

	for _, line := range buildFullSweepLines() {
		seg.Feed(line)
	}
	if len(seg.buffer) != 0 {
		t.Fatalf("expected buffer to be cleared after boundary, has %d entries", len(seg.buffer))
	}
}

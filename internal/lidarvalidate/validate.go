// Package lidarvalidate applies the post-decode sanity filter and
// per-rotation diagnostics to a decoded rotation.
package lidarvalidate

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/lidarrelay/internal/lidarproto"
)

const (
	minTheta       = 0.0
	maxTheta       = 360.0
	minDistMM      = 0
	maxDistMM      = 14000
	maxThetaJump   = 100.0
	minSurviving   = lidarproto.MinSampleCount
	maxSurviving   = lidarproto.MaxDecodeCount
)

// Result is the outcome of validating one decoded rotation.
type Result struct {
	Accepted []lidarproto.DecodedSample
	Dropped  int
	// Empty is true when the surviving sample count falls outside
	// [300, 700]: the rotation is suppressed on the data monitor but a
	// status record is still emitted.
	Empty bool
}

// Filter drops samples with theta out of [0, 360], distance out of
// [0, 14000], or a jump of more than 100 degrees from the previous accepted
// sample, and flags the rotation empty if too few or too many survive.
func Filter(samples []lidarproto.DecodedSample) Result {
	result := Result{Accepted: make([]lidarproto.DecodedSample, 0, len(samples))}

	havePrev := false
	var prevTheta float64

	for _, s := range samples {
		if s.ThetaDeg < minTheta || s.ThetaDeg > maxTheta {
			result.Dropped++
			continue
		}
		if s.DistMM < minDistMM || s.DistMM > maxDistMM {
			result.Dropped++
			continue
		}
		if havePrev && math.Abs(s.ThetaDeg-prevTheta) > maxThetaJump {
			result.Dropped++
			continue
		}

		result.Accepted = append(result.Accepted, s)
		prevTheta = s.ThetaDeg
		havePrev = true
	}

	count := len(result.Accepted)
	result.Empty = count < minSurviving || count > maxSurviving
	return result
}

// RotationStats summarizes the distribution of accepted distances in a
// validated rotation, enrichment beyond the pass/fail filter.
type RotationStats struct {
	Count    int
	MeanMM   float64
	StdDevMM float64
}

// Stats computes the mean and standard deviation of accepted distances via
// gonum/stat.MeanStdDev.
func Stats(accepted []lidarproto.DecodedSample) RotationStats {
	if len(accepted) == 0 {
		return RotationStats{}
	}

	dists := make([]float64, len(accepted))
	for i, s := range accepted {
		dists[i] = float64(s.DistMM)
	}

	mean, stddev := stat.MeanStdDev(dists, nil)
	return RotationStats{Count: len(accepted), MeanMM: mean, StdDevMM: stddev}
}

// Package lidarfeed turns the sensor driver's raw text lines into
// measurements and segments them into full rotations.
package lidarfeed

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/banshee-data/lidarrelay/internal/lidarproto"
)

// measurementLine matches a sensor line carrying one polar sample, optionally
// prefixed by the boundary-marker quality field and optionally suffixed with
// a fractional distance and a quality score.
var measurementLine = regexp.MustCompile(`^\s*(S\s+)?theta:\s*(\d+\.\d+)\s+Dist:\s*(\d+)(\.\d+)?(\s+Q:\s*\d+)?\s*$`)

// Parse translates one sensor line into a measurement. It returns ok=false
// for lines that do not match the measurement regex, and for the degenerate
// all-zero sample (both fields zero), which is noise rather than data.
func Parse(line string) (m lidarproto.Measurement, ok bool) {
	match := measurementLine.FindStringSubmatch(line)
	if match == nil {
		return lidarproto.Measurement{}, false
	}

	theta, err := strconv.ParseFloat(match[2], 64)
	if err != nil {
		return lidarproto.Measurement{}, false
	}
	dist, err := strconv.Atoi(match[3])
	if err != nil {
		return lidarproto.Measurement{}, false
	}

	// Scale degrees to centi-degrees and truncate.
	thetaCenti := uint16(theta * 100)
	distMM := uint32(dist)

	if thetaCenti == 0 && distMM == 0 {
		return lidarproto.Measurement{}, false
	}

	return lidarproto.Measurement{ThetaCenti: thetaCenti, DistMM: distMM}, true
}

// IsBoundary reports whether a line carries the rotation boundary marker: any
// line containing the sentinel token "S".
func IsBoundary(line string) bool {
	return strings.Contains(line, "S")
}

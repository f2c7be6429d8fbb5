// Package lidarproto implements the rotation data model and the bit-packed
// wire codec: a variable-free, fixed-width delta encoding of one 360° LiDAR
// rotation with an appended binary timestamp trailer.
package lidarproto

// Measurement is a single polar sample taken during one rotation.
type Measurement struct {
	ThetaCenti uint16 // angle in hundredths of a degree, 0..36000
	DistMM     uint32 // distance in millimeters, 0..65535
}

// Rotation is an ordered, accepted sequence of measurements bounded by two
// boundary markers, along with the wall-clock time the rotation began.
type Rotation struct {
	Measurements []Measurement
	StartTimeUS  uint64
}

// Acceptance bounds from the data model (§3). The encoder is stricter than
// the decoder by design: a rotation with a count in (MaxEncodeCount,
// MaxDecodeCount] can never occur on the wire, but the decoder still has to
// tolerate counts up to MaxDecodeCount because of the spurious pad-induced
// sample the codec can synthesize (§4.4, §9).
const (
	MinSampleCount    = 300
	MaxEncodeCount    = 650
	MaxDecodeCount    = 700
	MinCoverageCenti  = 1000  // 10.00 degrees
	MaxCoverageCenti  = 35000 // 350.00 degrees
	MaxAngleGapCenti  = 1000  // 10.00 degrees between consecutive sorted angles
	FullRotationCenti = 36000

	ThetaFieldBits = 11
	DistFieldBits  = 16

	ThetaDeltaMin = -(1 << (ThetaFieldBits - 1))     // -1024
	ThetaDeltaMax = (1 << (ThetaFieldBits - 1)) - 1   // 1023
	DistDeltaMin  = -(1 << (DistFieldBits - 1))       // -32768
	DistDeltaMax  = (1 << (DistFieldBits - 1)) - 1    // 32767

	TimestampTrailerBytes = 8
)

package lidarproto

import "encoding/binary"

// DecodedSample is one polar measurement reconstructed from a frame. Theta
// is reported in degrees (§4.4: "theta is returned in degrees as
// theta_centi/100.0"); distance stays in millimeters but is a signed
// accumulator since corrupt or pad-derived frames can walk it negative —
// the validator (not the codec) is responsible for rejecting those.
type DecodedSample struct {
	ThetaDeg float64
	DistMM   int64
}

// Encode packs an accepted rotation into the wire frame: the delta-coded
// bitstream payload followed by the 8-byte big-endian timestamp trailer.
// It fails with ErrEncodeRangeExceeded if any inter-sample delta falls
// outside the signed 11-bit (theta) or signed 16-bit (distance) window; the
// rotation must be discarded whole in that case, never truncated.
func Encode(r Rotation) ([]byte, error) {
	if len(r.Measurements) == 0 {
		return nil, ErrEncodeRangeExceeded
	}

	w := &bitWriter{}

	first := r.Measurements[0]
	w.writeBits(uint32(first.ThetaCenti), ThetaFieldBits)
	w.writeBits(uint32(first.DistMM), DistFieldBits)

	prevTheta := int32(first.ThetaCenti)
	prevDist := int32(first.DistMM)

	for _, m := range r.Measurements[1:] {
		thetaDiff := int32(m.ThetaCenti) - prevTheta
		distDiff := int32(m.DistMM) - prevDist

		if thetaDiff < ThetaDeltaMin || thetaDiff > ThetaDeltaMax ||
			distDiff < DistDeltaMin || distDiff > DistDeltaMax {
			return nil, ErrEncodeRangeExceeded
		}

		w.writeBits(twosComplement(thetaDiff, ThetaFieldBits), ThetaFieldBits)
		w.writeBits(twosComplement(distDiff, DistFieldBits), DistFieldBits)

		prevTheta = int32(m.ThetaCenti)
		prevDist = int32(m.DistMM)
	}

	payload := w.flush()
	frame := make([]byte, len(payload)+TimestampTrailerBytes)
	copy(frame, payload)
	binary.BigEndian.PutUint64(frame[len(payload):], r.StartTimeUS)
	return frame, nil
}

// Decode extracts the timestamp and reconstructs the measurement sequence
// from a wire frame. It fails with ErrFrameTooShort if the frame is shorter
// than the timestamp trailer, and with ErrUnexpectedEndOfFrame if a
// mid-sample bit read underflows the payload — the entire frame is
// abandoned in that case.
//
// The decode loop's termination rule (the open question in §9) is fixed
// here: continue while the bits not yet consumed, buffered bits and unread
// payload bytes counted together, amount to at least one theta field (11).
// With one unread byte and at most 2 buffered bits the loop therefore stops
// rather than attempting a read that would underflow. Trailing zero pad
// bits produced by the encoder can synthesize one spurious low-magnitude
// sample; that is tolerated here by design and is the validator's job to
// filter (§4.4, §4.7).
func Decode(frame []byte) (uint64, []DecodedSample, error) {
	if len(frame) < TimestampTrailerBytes {
		return 0, nil, ErrFrameTooShort
	}

	payload := frame[:len(frame)-TimestampTrailerBytes]
	timestampUS := binary.BigEndian.Uint64(frame[len(frame)-TimestampTrailerBytes:])

	r := &bitReader{data: payload}
	var samples []DecodedSample
	var curTheta, curDist int32
	first := true

	for r.remainingBits() >= ThetaFieldBits {
		if first {
			theta, err := r.readUnsigned(ThetaFieldBits)
			if err != nil {
				return 0, nil, ErrUnexpectedEndOfFrame
			}
			dist, err := r.readUnsigned(DistFieldBits)
			if err != nil {
				return 0, nil, ErrUnexpectedEndOfFrame
			}
			curTheta = int32(theta)
			curDist = int32(dist)
			first = false
		} else {
			thetaDiff, err := r.readSigned(ThetaFieldBits)
			if err != nil {
				return 0, nil, ErrUnexpectedEndOfFrame
			}
			distDiff, err := r.readSigned(DistFieldBits)
			if err != nil {
				return 0, nil, ErrUnexpectedEndOfFrame
			}
			curTheta += thetaDiff
			curDist += distDiff
		}

		samples = append(samples, DecodedSample{
			ThetaDeg: float64(curTheta) / 100.0,
			DistMM:   int64(curDist),
		})
	}

	return timestampUS, samples, nil
}

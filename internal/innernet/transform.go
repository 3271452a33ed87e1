package innernet

import "crewwire/internal/wire"

// TransformData is the shared initial/update payload shape for
// CustomNetworkTransform: `u16 seq, u16 x, u16 y, i16 x_vel, i16 y_vel`
// (§4.4.5).
type TransformData struct {
	SequenceNum uint16
	X, Y        uint16
	XVel, YVel  int16
}

// DecodeTransformData parses a CustomNetworkTransform initial or update
// payload; both forms share the same layout.
func DecodeTransformData(payload []byte) (TransformData, error) {
	r := wire.NewReader(payload)
	seq, err := r.U16LE()
	if err != nil {
		return TransformData{}, err
	}
	x, err := r.U16LE()
	if err != nil {
		return TransformData{}, err
	}
	y, err := r.U16LE()
	if err != nil {
		return TransformData{}, err
	}
	xVel, err := r.I16LE()
	if err != nil {
		return TransformData{}, err
	}
	yVel, err := r.I16LE()
	if err != nil {
		return TransformData{}, err
	}
	return TransformData{SequenceNum: seq, X: x, Y: y, XVel: xVel, YVel: yVel}, nil
}

// AcceptsSequence reports whether incoming sequence t should be accepted
// given the currently-stored sequence s, per the forward-half-ring window
// (§4.6).
func AcceptsSequence(s, t uint16) bool {
	w := uint16(uint32(s) + 0x7FFF)
	if s < w {
		return t > s && t <= w
	}
	return !(t > w && t <= s)
}

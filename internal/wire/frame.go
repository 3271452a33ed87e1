package wire

import "errors"

// HazelType identifies the outermost tag byte of a Hazel datagram.
type HazelType uint8

// Hazel outer tag bytes (§3.2).
const (
	HazelNone       HazelType = 0
	HazelReliable   HazelType = 1
	HazelHello      HazelType = 8
	HazelDisconnect HazelType = 9
	HazelAck        HazelType = 10
	HazelFragment   HazelType = 11
	HazelPing       HazelType = 12
)

// ErrUnknownHazelType is returned for a tag byte outside the closed set (§3.2);
// the caller treats the datagram as unrecognized rather than failing.
var ErrUnknownHazelType = errors.New("wire: unknown hazel type")

// SubFrame is one `[u16LE length, u8 tag, payload]` record nested inside a
// Reliable or None Hazel frame.
type SubFrame struct {
	Tag     uint8
	Payload []byte
}

// Frame is the decoded outer envelope of one Hazel datagram.
type Frame struct {
	Type      HazelType
	ID        uint16 // valid for Reliable/Hello/Ping/Ack
	Ack       uint8  // valid for Ack only
	SubFrames []SubFrame
}

// DecodeFrame parses one Hazel datagram body. Ack/Ping/Hello/Disconnect carry
// no sub-frames (§5 "ignored for state purposes") but are still returned so a
// caller can distinguish them from a parse failure.
func DecodeFrame(buf []byte) (Frame, error) {
	if len(buf) == 0 {
		return Frame{}, ErrTruncatedFrame
	}
	r := NewReader(buf)
	tagByte, err := r.U8()
	if err != nil {
		return Frame{}, err
	}
	typ := HazelType(tagByte)

	var frame Frame
	frame.Type = typ

	switch typ {
	case HazelReliable, HazelHello, HazelPing:
		id, err := r.U16LE()
		if err != nil {
			return Frame{}, err
		}
		frame.ID = id
	case HazelAck:
		id, err := r.U16LE()
		if err != nil {
			return Frame{}, err
		}
		frame.ID = id
		terminator, err := r.U8()
		if err != nil {
			return Frame{}, err
		}
		frame.Ack = terminator
		return frame, nil
	case HazelDisconnect, HazelFragment:
		return frame, nil
	case HazelNone:
		// no header fields
	default:
		return Frame{}, ErrUnknownHazelType
	}

	if typ == HazelReliable || typ == HazelNone {
		subs, err := decodeSubFrames(r.Remaining())
		if err != nil {
			return Frame{}, err
		}
		frame.SubFrames = subs
	}
	return frame, nil
}

// decodeSubFrames reads a concatenation of `[u16LE length, u8 tag, <length
// bytes>]` records until the buffer is exhausted (§4.2). Trailing bytes that
// don't complete a record boundary are a TruncatedFrame.
func decodeSubFrames(buf []byte) ([]SubFrame, error) {
	r := NewReader(buf)
	var subs []SubFrame
	for r.Len() > 0 {
		length, err := r.U16LE()
		if err != nil {
			return nil, ErrTruncatedFrame
		}
		tag, err := r.U8()
		if err != nil {
			return nil, ErrTruncatedFrame
		}
		payload, err := r.Bytes(int(length))
		if err != nil {
			return nil, ErrTruncatedFrame
		}
		subs = append(subs, SubFrame{Tag: tag, Payload: payload})
	}
	return subs, nil
}

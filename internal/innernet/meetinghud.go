package innernet

import "crewwire/internal/wire"

// Vote is one bit-packed vote byte: `[dead:1, has_voted:1, was_reporter:1,
// reserved:1, voted_for:4]` (§3.1). VotedFor is stored −1..14, biased by +1
// on the wire so 0 means "no vote yet".
type Vote struct {
	IsDead       bool
	HasVoted     bool
	WasReporter  bool
	VotedFor     int8
}

func decodeVoteByte(b uint8) Vote {
	return Vote{
		IsDead:      b&0x80 != 0,
		HasVoted:    b&0x40 != 0,
		WasReporter: b&0x20 != 0,
		VotedFor:    int8(b&0x0f) - 1,
	}
}

func encodeVoteByte(v Vote) uint8 {
	var b uint8
	if v.IsDead {
		b |= 0x80
	}
	if v.HasVoted {
		b |= 0x40
	}
	if v.WasReporter {
		b |= 0x20
	}
	b |= uint8(v.VotedFor+1) & 0x0f
	return b
}

// DecodeMeetingHudInitial decodes the initial-spawn MeetingHud payload: a
// run of bit-packed Vote bytes to the end of the payload (§4.4.3).
func DecodeMeetingHudInitial(payload []byte) ([]Vote, error) {
	votes := make([]Vote, 0, len(payload))
	for _, b := range payload {
		votes = append(votes, decodeVoteByte(b))
	}
	return votes, nil
}

// MeetingHudUpdate is the decoded payload of a MeetingHud data update: an
// index set and the votes overwriting those slots, in index order.
type MeetingHudUpdate struct {
	Indices []int
	Votes   []Vote
}

// DecodeMeetingHudUpdate decodes a MeetingHud data-update payload: a
// bitset-varint index set followed by one bit-packed Vote byte per index
// (§4.4.3).
func DecodeMeetingHudUpdate(payload []byte) (MeetingHudUpdate, error) {
	r := wire.NewReader(payload)
	indices, err := r.Bitset()
	if err != nil {
		return MeetingHudUpdate{}, err
	}
	votes := make([]Vote, 0, len(indices))
	for range indices {
		raw, err := r.U8()
		if err != nil {
			return MeetingHudUpdate{}, err
		}
		votes = append(votes, decodeVoteByte(raw))
	}
	return MeetingHudUpdate{Indices: indices, Votes: votes}, nil
}

// EncodeMeetingHudUpdate re-packs an update for round-trip testing.
func EncodeMeetingHudUpdate(update MeetingHudUpdate) []byte {
	w := wire.NewWriter()
	w.PutBitset(update.Indices)
	for _, v := range update.Votes {
		w.PutU8(encodeVoteByte(v))
	}
	return w.Bytes()
}

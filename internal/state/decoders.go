package state

import (
	"crewwire/internal/innernet"
	"crewwire/internal/wire"
)

// initialDecoder parses a spawn child's msg payload into a net-object's
// Attrs (§4.4, "initial-data table"). A class absent from this map installs
// with nil Attrs.
type initialDecoder func(payload []byte) (any, error)

// updateDecoder applies a data-update payload onto an already-installed
// object's Attrs in place (§4.4, "update-data table"). A class absent from
// this map has no mirrored data-update effect.
type updateDecoder func(obj *NetObject, payload []byte) error

var initialDecoders = map[innernet.ClassTag]initialDecoder{
	innernet.ClassGameData: func(payload []byte) (any, error) {
		initial, err := innernet.DecodeGameDataInitial(payload)
		if err != nil {
			return nil, err
		}
		players := make(map[uint8]*innernet.PlayerInfo, len(initial.Players))
		for _, p := range initial.Players {
			info := p.Info
			info.ID = p.PlayerID
			players[p.PlayerID] = &info
		}
		return &GameDataAttrs{Players: players}, nil
	},
	innernet.ClassMeetingHud: func(payload []byte) (any, error) {
		votes, err := innernet.DecodeMeetingHudInitial(payload)
		if err != nil {
			return nil, err
		}
		return &MeetingHudAttrs{Votes: votes}, nil
	},
	innernet.ClassPlayerControl: func(payload []byte) (any, error) {
		r := wire.NewReader(payload)
		if _, err := r.U8(); err != nil { // is_new, not needed by this observer
			return nil, err
		}
		playerID, err := r.U8()
		if err != nil {
			return nil, err
		}
		return &PlayerControlAttrs{PlayerID: playerID}, nil
	},
	innernet.ClassCustomNetworkTransform: func(payload []byte) (any, error) {
		td, err := innernet.DecodeTransformData(payload)
		if err != nil {
			return nil, err
		}
		return &TransformAttrs{
			SequenceNum: td.SequenceNum,
			X:           td.X,
			Y:           td.Y,
			XVel:        td.XVel,
			YVel:        td.YVel,
		}, nil
	},
	innernet.ClassShipStatusSkeld: func(payload []byte) (any, error) {
		return innernet.DecodeShipStatusInitial(innernet.MapSkeld, payload)
	},
	innernet.ClassShipStatusMiraHQ: func(payload []byte) (any, error) {
		return innernet.DecodeShipStatusInitial(innernet.MapMiraHQ, payload)
	},
	innernet.ClassShipStatusPolus: func(payload []byte) (any, error) {
		return innernet.DecodeShipStatusInitial(innernet.MapPolus, payload)
	},
}

var updateDecoders = map[innernet.ClassTag]updateDecoder{
	innernet.ClassMeetingHud: func(obj *NetObject, payload []byte) error {
		update, err := innernet.DecodeMeetingHudUpdate(payload)
		if err != nil {
			return err
		}
		attrs, ok := obj.Attrs.(*MeetingHudAttrs)
		if !ok {
			attrs = &MeetingHudAttrs{}
			obj.Attrs = attrs
		}
		for i, idx := range update.Indices {
			for idx >= len(attrs.Votes) {
				attrs.Votes = append(attrs.Votes, innernet.Vote{VotedFor: -1})
			}
			attrs.Votes[idx] = update.Votes[i]
		}
		return nil
	},
	innernet.ClassCustomNetworkTransform: func(obj *NetObject, payload []byte) error {
		td, err := innernet.DecodeTransformData(payload)
		if err != nil {
			return err
		}
		attrs, ok := obj.Attrs.(*TransformAttrs)
		if !ok {
			attrs = &TransformAttrs{}
			obj.Attrs = attrs
		}
		if !innernet.AcceptsSequence(attrs.SequenceNum, td.SequenceNum) {
			return nil
		}
		attrs.SequenceNum = td.SequenceNum
		attrs.X, attrs.Y = td.X, td.Y
		attrs.XVel, attrs.YVel = td.XVel, td.YVel
		return nil
	},
	innernet.ClassShipStatusSkeld:  applyShipStatusUpdate,
	innernet.ClassShipStatusMiraHQ: applyShipStatusUpdate,
	innernet.ClassShipStatusPolus:  applyShipStatusUpdate,
}

func applyShipStatusUpdate(obj *NetObject, payload []byte) error {
	status, ok := obj.Attrs.(*innernet.ShipStatus)
	if !ok {
		return nil
	}
	return innernet.ApplyShipStatusUpdate(status, payload)
}

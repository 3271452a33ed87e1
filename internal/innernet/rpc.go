package innernet

import "crewwire/internal/wire"

// RPCOpcode is the closed set of remote procedure call opcodes (GLOSSARY,
// 0x00-0x1E).
type RPCOpcode uint8

const (
	RPCPlayAnimation            RPCOpcode = 0x00
	RPCCompleteTask             RPCOpcode = 0x01
	RPCGameOptions              RPCOpcode = 0x02
	RPCSetInfected              RPCOpcode = 0x03
	RPCExiled                   RPCOpcode = 0x04
	RPCCheckName                RPCOpcode = 0x05
	RPCSetName                  RPCOpcode = 0x06
	RPCCheckColor               RPCOpcode = 0x07
	RPCSetColor                 RPCOpcode = 0x08
	RPCSetHat                   RPCOpcode = 0x09
	RPCSetSkin                  RPCOpcode = 0x0A
	RPCReportDeadBody           RPCOpcode = 0x0B
	RPCMurderPlayer             RPCOpcode = 0x0C
	RPCAddChat                  RPCOpcode = 0x0D
	RPCStartMeeting             RPCOpcode = 0x0E
	RPCSetScanner               RPCOpcode = 0x0F
	RPCAddChatNote              RPCOpcode = 0x10
	RPCSetPet                   RPCOpcode = 0x11
	RPCGameCountdown            RPCOpcode = 0x12
	RPCEnterVent                RPCOpcode = 0x13
	RPCExitVent                 RPCOpcode = 0x14
	RPCCustomNetworkTransformSnapTo RPCOpcode = 0x15
	RPCCloseMeetingHud          RPCOpcode = 0x16
	RPCVotingComplete           RPCOpcode = 0x17
	RPCCastVote                 RPCOpcode = 0x18
	RPCClearVote                RPCOpcode = 0x19
	RPCAddVoteBanVote           RPCOpcode = 0x1A
	RPCCloseDoorsOfType         RPCOpcode = 0x1B
	RPCRepairSystem             RPCOpcode = 0x1C
	RPCSetTasks                 RPCOpcode = 0x1D
	RPCPlayerInfo               RPCOpcode = 0x1E
)

// String returns the symbolic opcode name.
func (o RPCOpcode) String() string {
	switch o {
	case RPCPlayAnimation:
		return "PLAY_ANIMATION"
	case RPCCompleteTask:
		return "COMPLETE_TASK"
	case RPCGameOptions:
		return "GAME_OPTIONS"
	case RPCSetInfected:
		return "SET_INFECTED"
	case RPCExiled:
		return "EXILED"
	case RPCCheckName:
		return "CHECK_NAME"
	case RPCSetName:
		return "SET_NAME"
	case RPCCheckColor:
		return "CHECK_COLOR"
	case RPCSetColor:
		return "SET_COLOR"
	case RPCSetHat:
		return "SET_HAT"
	case RPCSetSkin:
		return "SET_SKIN"
	case RPCReportDeadBody:
		return "REPORT_DEAD_BODY"
	case RPCMurderPlayer:
		return "MURDER_PLAYER"
	case RPCAddChat:
		return "ADD_CHAT"
	case RPCStartMeeting:
		return "START_MEETING"
	case RPCSetScanner:
		return "SET_SCANNER"
	case RPCAddChatNote:
		return "ADD_CHAT_NOTE"
	case RPCSetPet:
		return "SET_PET"
	case RPCGameCountdown:
		return "GAME_COUNTDOWN"
	case RPCEnterVent:
		return "ENTER_VENT"
	case RPCExitVent:
		return "EXIT_VENT"
	case RPCCustomNetworkTransformSnapTo:
		return "CNT_SNAPTO"
	case RPCCloseMeetingHud:
		return "CLOSE_MEETING_HUD"
	case RPCVotingComplete:
		return "VOTING_COMPLETE"
	case RPCCastVote:
		return "CAST_VOTE"
	case RPCClearVote:
		return "CLEAR_VOTE"
	case RPCAddVoteBanVote:
		return "ADD_VOTE_BAN_VOTE"
	case RPCCloseDoorsOfType:
		return "CLOSE_DOORS_OF_TYPE"
	case RPCRepairSystem:
		return "REPAIR_SYSTEM"
	case RPCSetTasks:
		return "SET_TASKS"
	case RPCPlayerInfo:
		return "PLAYER_INFO"
	default:
		return "UNKNOWN_RPC"
	}
}

// Payload structs for the opcodes whose decoded shape is more than a single
// scalar (§4.4).

type SetInfectedPayload struct {
	PlayerIDs []byte
}

type SnapToPayload struct {
	X, Y        uint16
	SequenceNum uint16
}

type VotingCompletePayload struct {
	Votes      []Vote
	ExiledID   uint8 // 0xFF = no one exiled
	Tie        bool
}

type CastVotePayload struct {
	SourcePlayerID  uint8
	SuspectPlayerID uint8 // 0xFF = cleared/skip
}

type AddVoteBanVotePayload struct {
	SourceClientID uint32
	TargetClientID uint32
}

type RepairSystemPayload struct {
	SystemID uint8
	NetID    uint32
	Amount   uint8
}

type SetTasksPayload struct {
	PlayerID  uint8
	TaskTypes []byte
}

type PlayerInfoRPCPayload struct {
	Entries []PlayerInfoSubMessage
}

// PlayerInfoSubMessage is one `[u16LE length, u8 tag=player_id, <PlayerInfo
// body>]` record inside a PLAYER_INFO RPC.
type PlayerInfoSubMessage struct {
	PlayerID uint8
	Info     PlayerInfo
}

// RPCDecoder decodes the opcode-specific tail of an RPC sub-message into a
// typed payload value.
type RPCDecoder func([]byte) (any, error)

// RPCDecoders is the RPC registration table (§4.4): opcode -> decoder.
var RPCDecoders = map[RPCOpcode]RPCDecoder{
	RPCPlayAnimation: func(b []byte) (any, error) {
		r := wire.NewReader(b)
		return r.U8()
	},
	RPCCompleteTask: func(b []byte) (any, error) {
		r := wire.NewReader(b)
		return r.U7V()
	},
	RPCGameOptions: func(b []byte) (any, error) {
		r := wire.NewReader(b)
		length, err := r.U7V()
		if err != nil {
			return nil, err
		}
		body, err := r.Bytes(int(length))
		if err != nil {
			return nil, err
		}
		return DecodeGameOptions(body)
	},
	RPCSetInfected: func(b []byte) (any, error) {
		r := wire.NewReader(b)
		ids, err := r.ShortPrefixedBytes()
		if err != nil {
			return nil, err
		}
		return SetInfectedPayload{PlayerIDs: ids}, nil
	},
	RPCExiled: func(b []byte) (any, error) { return struct{}{}, nil },
	RPCCheckName: func(b []byte) (any, error) {
		r := wire.NewReader(b)
		return r.ShortPrefixedString()
	},
	RPCSetName: func(b []byte) (any, error) {
		r := wire.NewReader(b)
		return r.ShortPrefixedString()
	},
	RPCCheckColor: func(b []byte) (any, error) {
		r := wire.NewReader(b)
		return r.U8()
	},
	RPCSetColor: func(b []byte) (any, error) {
		r := wire.NewReader(b)
		return r.U8()
	},
	RPCSetHat: func(b []byte) (any, error) {
		r := wire.NewReader(b)
		return r.U7V()
	},
	RPCSetSkin: func(b []byte) (any, error) {
		r := wire.NewReader(b)
		return r.U7V()
	},
	RPCReportDeadBody: func(b []byte) (any, error) {
		r := wire.NewReader(b)
		return r.U8()
	},
	RPCMurderPlayer: func(b []byte) (any, error) {
		r := wire.NewReader(b)
		return r.U7V()
	},
	RPCAddChat: func(b []byte) (any, error) {
		r := wire.NewReader(b)
		return r.ShortPrefixedString()
	},
	RPCStartMeeting: func(b []byte) (any, error) {
		r := wire.NewReader(b)
		return r.U8()
	},
	RPCSetScanner: func(b []byte) (any, error) {
		r := wire.NewReader(b)
		on, err := r.U8()
		if err != nil {
			return nil, err
		}
		id, err := r.U8()
		if err != nil {
			return nil, err
		}
		return [2]uint8{on, id}, nil
	},
	RPCAddChatNote: func(b []byte) (any, error) {
		r := wire.NewReader(b)
		src, err := r.U8()
		if err != nil {
			return nil, err
		}
		note, err := r.U8()
		if err != nil {
			return nil, err
		}
		return [2]uint8{src, note}, nil
	},
	RPCSetPet: func(b []byte) (any, error) {
		r := wire.NewReader(b)
		return r.U7V()
	},
	RPCGameCountdown: func(b []byte) (any, error) {
		r := wire.NewReader(b)
		seq, err := r.U7V()
		if err != nil {
			return nil, err
		}
		countdown, err := r.U8()
		if err != nil {
			return nil, err
		}
		return [2]uint32{seq, uint32(countdown)}, nil
	},
	RPCEnterVent: func(b []byte) (any, error) {
		r := wire.NewReader(b)
		return r.U7V()
	},
	RPCExitVent: func(b []byte) (any, error) {
		r := wire.NewReader(b)
		return r.U7V()
	},
	RPCCustomNetworkTransformSnapTo: func(b []byte) (any, error) {
		r := wire.NewReader(b)
		x, err := r.U16LE()
		if err != nil {
			return nil, err
		}
		y, err := r.U16LE()
		if err != nil {
			return nil, err
		}
		seq, err := r.U16LE()
		if err != nil {
			return nil, err
		}
		return SnapToPayload{X: x, Y: y, SequenceNum: seq}, nil
	},
	RPCCloseMeetingHud: func(b []byte) (any, error) { return struct{}{}, nil },
	RPCVotingComplete: func(b []byte) (any, error) {
		r := wire.NewReader(b)
		n, err := r.U8()
		if err != nil {
			return nil, err
		}
		votes := make([]Vote, 0, n)
		for i := uint8(0); i < n; i++ {
			raw, err := r.U8()
			if err != nil {
				return nil, err
			}
			votes = append(votes, decodeVoteByte(raw))
		}
		exiled, err := r.U8()
		if err != nil {
			return nil, err
		}
		tie, err := r.U8()
		if err != nil {
			return nil, err
		}
		return VotingCompletePayload{Votes: votes, ExiledID: exiled, Tie: tie != 0}, nil
	},
	RPCCastVote: func(b []byte) (any, error) {
		r := wire.NewReader(b)
		src, err := r.U8()
		if err != nil {
			return nil, err
		}
		suspect, err := r.U8()
		if err != nil {
			return nil, err
		}
		return CastVotePayload{SourcePlayerID: src, SuspectPlayerID: suspect}, nil
	},
	RPCClearVote: func(b []byte) (any, error) { return struct{}{}, nil },
	RPCAddVoteBanVote: func(b []byte) (any, error) {
		r := wire.NewReader(b)
		src, err := r.U32LE()
		if err != nil {
			return nil, err
		}
		target, err := r.U32LE()
		if err != nil {
			return nil, err
		}
		return AddVoteBanVotePayload{SourceClientID: src, TargetClientID: target}, nil
	},
	RPCCloseDoorsOfType: func(b []byte) (any, error) {
		r := wire.NewReader(b)
		return r.U8()
	},
	RPCRepairSystem: func(b []byte) (any, error) {
		r := wire.NewReader(b)
		systemID, err := r.U8()
		if err != nil {
			return nil, err
		}
		netID, err := r.U7V()
		if err != nil {
			return nil, err
		}
		amount, err := r.U8()
		if err != nil {
			return nil, err
		}
		return RepairSystemPayload{SystemID: systemID, NetID: netID, Amount: amount}, nil
	},
	RPCSetTasks: func(b []byte) (any, error) {
		r := wire.NewReader(b)
		playerID, err := r.U8()
		if err != nil {
			return nil, err
		}
		taskTypes, err := r.ShortPrefixedBytes()
		if err != nil {
			return nil, err
		}
		return SetTasksPayload{PlayerID: playerID, TaskTypes: taskTypes}, nil
	},
	RPCPlayerInfo: func(b []byte) (any, error) {
		r := wire.NewReader(b)
		var entries []PlayerInfoSubMessage
		for r.Len() > 0 {
			length, err := r.U16LE()
			if err != nil {
				return nil, err
			}
			playerID, err := r.U8()
			if err != nil {
				return nil, err
			}
			body, err := r.Bytes(int(length))
			if err != nil {
				return nil, err
			}
			info, err := DecodePlayerInfo(body)
			if err != nil {
				return nil, err
			}
			entries = append(entries, PlayerInfoSubMessage{PlayerID: playerID, Info: info})
		}
		return PlayerInfoRPCPayload{Entries: entries}, nil
	},
}

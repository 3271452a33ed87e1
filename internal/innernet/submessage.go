package innernet

import (
	"errors"

	"crewwire/internal/wire"
)

// HazelTagBroadcast and HazelTagDirected are the two game-layer-bearing Hazel
// sub-frame tags (§3.2). Other tags appear on the wire but are opaque to this layer.
const (
	HazelTagBroadcast uint8 = 5
	HazelTagDirected  uint8 = 6
)

// GameMessageTag identifies the inner game sub-message tag (§3.2).
type GameMessageTag uint8

const (
	GameMessageDataUpdate  GameMessageTag = 1
	GameMessageRPC         GameMessageTag = 2
	GameMessageSpawn       GameMessageTag = 4
	GameMessageDespawn     GameMessageTag = 5
	GameMessageChangeScene GameMessageTag = 6
	GameMessageMarkReady   GameMessageTag = 7
)

// ErrNotGameLayer is returned when a Hazel sub-frame's tag is not 5 or 6 and
// therefore carries no game sub-messages.
var ErrNotGameLayer = errors.New("innernet: hazel sub-frame is not a game-layer tag")

// GameMessage is one decoded `[u16LE length, u8 tag, payload]` record nested
// inside a broadcast or directed Hazel sub-frame.
type GameMessage struct {
	Tag     GameMessageTag
	Payload []byte
}

// Envelope is the decoded payload of a broadcast (tag 5) or directed (tag 6)
// Hazel sub-frame: a game id, an optional client id, and the game
// sub-messages it carries.
type Envelope struct {
	GameID   uint32
	ClientID uint32 // only meaningful when Directed is true
	Directed bool
	Messages []GameMessage
}

// DecodeEnvelope parses the payload of a Hazel sub-frame tagged 5 or 6
// (§4.3). Any other tag is returned as ErrNotGameLayer so the caller can
// treat the sub-frame as opaque without failing the datagram.
func DecodeEnvelope(hazelTag uint8, payload []byte) (Envelope, error) {
	switch hazelTag {
	case HazelTagBroadcast:
		r := wire.NewReader(payload)
		gameID, err := r.U32LE()
		if err != nil {
			return Envelope{}, err
		}
		messages, err := decodeGameMessages(r.Remaining())
		if err != nil {
			return Envelope{}, err
		}
		return Envelope{GameID: gameID, Messages: messages}, nil
	case HazelTagDirected:
		r := wire.NewReader(payload)
		gameID, err := r.U32LE()
		if err != nil {
			return Envelope{}, err
		}
		clientID, err := r.U7V()
		if err != nil {
			return Envelope{}, err
		}
		messages, err := decodeGameMessages(r.Remaining())
		if err != nil {
			return Envelope{}, err
		}
		return Envelope{GameID: gameID, ClientID: clientID, Directed: true, Messages: messages}, nil
	default:
		return Envelope{}, ErrNotGameLayer
	}
}

// decodeGameMessages reads a concatenation of `[u16LE length, u8 tag,
// <length bytes>]` records until the buffer is exhausted.
func decodeGameMessages(buf []byte) ([]GameMessage, error) {
	r := wire.NewReader(buf)
	var messages []GameMessage
	for r.Len() > 0 {
		length, err := r.U16LE()
		if err != nil {
			return nil, wire.ErrTruncatedFrame
		}
		tag, err := r.U8()
		if err != nil {
			return nil, wire.ErrTruncatedFrame
		}
		payload, err := r.Bytes(int(length))
		if err != nil {
			return nil, wire.ErrTruncatedFrame
		}
		messages = append(messages, GameMessage{Tag: GameMessageTag(tag), Payload: payload})
	}
	return messages, nil
}

// SpawnChildRecord is one child-object record within a Spawn message.
type SpawnChildRecord struct {
	NetID   uint32
	Tag     uint8
	Payload []byte
}

// SpawnMessage is the decoded payload of a GameMessageSpawn sub-message (§4.5).
type SpawnMessage struct {
	SpawnableID      SpawnPrefab
	OwnerID          uint32
	IsClientCharacter bool
	Children         []SpawnChildRecord
}

// DecodeSpawn parses a Spawn sub-message payload.
func DecodeSpawn(payload []byte) (SpawnMessage, error) {
	r := wire.NewReader(payload)
	spawnableID, err := r.U7V()
	if err != nil {
		return SpawnMessage{}, err
	}
	ownerID, err := r.U7V()
	if err != nil {
		return SpawnMessage{}, err
	}
	flags, err := r.U8()
	if err != nil {
		return SpawnMessage{}, err
	}
	childCount, err := r.U7V()
	if err != nil {
		return SpawnMessage{}, err
	}
	children := make([]SpawnChildRecord, 0, childCount)
	for i := uint32(0); i < childCount; i++ {
		netID, err := r.U7V()
		if err != nil {
			return SpawnMessage{}, err
		}
		msgLen, err := r.U16LE()
		if err != nil {
			return SpawnMessage{}, err
		}
		tag, err := r.U8()
		if err != nil {
			return SpawnMessage{}, err
		}
		msg, err := r.Bytes(int(msgLen))
		if err != nil {
			return SpawnMessage{}, err
		}
		children = append(children, SpawnChildRecord{NetID: netID, Tag: tag, Payload: msg})
	}
	return SpawnMessage{
		SpawnableID:       SpawnPrefab(spawnableID),
		OwnerID:           ownerID,
		IsClientCharacter: flags&0x01 != 0,
		Children:          children,
	}, nil
}

// DecodeDespawn parses the payload of a GameMessageDespawn sub-message: a
// single u7v net id.
func DecodeDespawn(payload []byte) (uint32, error) {
	r := wire.NewReader(payload)
	return r.U7V()
}

// ChangeSceneMessage is the decoded payload of a GameMessageChangeScene
// sub-message.
type ChangeSceneMessage struct {
	ClientID uint32
	Scene    string
}

// DecodeChangeScene parses a ChangeScene sub-message payload.
func DecodeChangeScene(payload []byte) (ChangeSceneMessage, error) {
	r := wire.NewReader(payload)
	clientID, err := r.U7V()
	if err != nil {
		return ChangeSceneMessage{}, err
	}
	scene, err := r.ShortPrefixedString()
	if err != nil {
		return ChangeSceneMessage{}, err
	}
	return ChangeSceneMessage{ClientID: clientID, Scene: scene}, nil
}

// DecodeMarkReady parses a MarkReady sub-message payload, a lone u7v client
// id. The message is accepted and discarded (§4.7): it has no mirrored
// effect on the tracked state.
func DecodeMarkReady(payload []byte) (uint32, error) {
	r := wire.NewReader(payload)
	return r.U7V()
}

// DataUpdateMessage is the decoded envelope of a GameMessageDataUpdate
// sub-message: a target net id followed by class-specific bytes.
type DataUpdateMessage struct {
	NetID uint32
	Data  []byte
}

// DecodeDataUpdate splits a DataUpdate sub-message into its target net id and
// the remaining class-specific payload.
func DecodeDataUpdate(payload []byte) (DataUpdateMessage, error) {
	r := wire.NewReader(payload)
	netID, err := r.U7V()
	if err != nil {
		return DataUpdateMessage{}, err
	}
	return DataUpdateMessage{NetID: netID, Data: r.Remaining()}, nil
}

// RPCMessage is the decoded envelope of a GameMessageRPC sub-message: a
// target net id, an opcode, and opcode-specific payload bytes.
type RPCMessage struct {
	NetID  uint32
	Opcode RPCOpcode
	Data   []byte
}

// DecodeRPC splits an RPC sub-message into its target net id, opcode, and
// remaining opcode-specific payload.
func DecodeRPC(payload []byte) (RPCMessage, error) {
	r := wire.NewReader(payload)
	netID, err := r.U7V()
	if err != nil {
		return RPCMessage{}, err
	}
	opcode, err := r.U8()
	if err != nil {
		return RPCMessage{}, err
	}
	return RPCMessage{NetID: netID, Opcode: RPCOpcode(opcode), Data: r.Remaining()}, nil
}

// Package state maintains a live, packet-driven mirror of one game's
// InnerNet object graph: spawn/despawn lifecycle, per-class RPC and
// data-update dispatch, scene tracking, and the derived round state.
package state

import "crewwire/internal/innernet"

// GameDataAttrs mirrors the GameData net-object: an unordered collection of
// PlayerInfo records keyed by player id, created lazily on first reference.
type GameDataAttrs struct {
	Players map[uint8]*innernet.PlayerInfo
}

// MeetingHudAttrs mirrors the MeetingHud net-object: one Vote per player slot.
type MeetingHudAttrs struct {
	Votes []innernet.Vote
}

// PlayerControlAttrs mirrors the PlayerControl net-object.
type PlayerControlAttrs struct {
	PlayerID uint8
}

// PlayerPhysicsAttrs mirrors the PlayerPhysics net-object.
type PlayerPhysicsAttrs struct {
	InVent bool
}

// TransformAttrs mirrors the CustomNetworkTransform net-object.
type TransformAttrs struct {
	SequenceNum uint16
	X, Y        uint16
	XVel, YVel  int16
}

// NetObject is one entry of the NetObjectMap (§3.3): a class tag, the
// server-allocated network id, a tombstone flag, and class-specific
// attributes. Attrs holds one of *GameDataAttrs, *MeetingHudAttrs,
// *PlayerControlAttrs, *PlayerPhysicsAttrs, *TransformAttrs, or
// *innernet.ShipStatus depending on Class; it is nil for LobbyBehavior and
// VoteBanSystem, which are existence-only.
type NetObject struct {
	NetID uint32
	Class innernet.ClassTag
	Dead  bool
	Attrs any
}

// ChatEntry is one appended ADD_CHAT record.
type ChatEntry struct {
	SourcePlayerID uint8
	Text           string
}

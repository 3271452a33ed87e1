// Package innernet decodes the game-layer sub-messages carried inside Hazel
// sub-frames: spawn/despawn, RPCs, data updates, scene changes, and the
// per-class payload layouts those messages carry.
package innernet

// ClassTag identifies the type of a net-object (§3.3, AmongUsInnerNetClients).
// This is a distinct enumeration from SpawnPrefab: a single spawn can install
// several net-objects of different class tags as its children.
type ClassTag int

const (
	ClassShipStatusSkeld        ClassTag = 0
	ClassMeetingHud             ClassTag = 1
	ClassLobbyBehavior          ClassTag = 2
	ClassGameData               ClassTag = 3
	ClassVoteBanSystem          ClassTag = 4
	ClassPlayerControl          ClassTag = 5
	ClassPlayerPhysics          ClassTag = 6
	ClassCustomNetworkTransform ClassTag = 7
	ClassShipStatusMiraHQ       ClassTag = 0xF1
	ClassShipStatusPolus        ClassTag = 0xF2
)

// String returns the symbolic class name, used by the snapshot serializer.
func (c ClassTag) String() string {
	switch c {
	case ClassShipStatusSkeld:
		return "SHIP_STATUS_SKELD"
	case ClassMeetingHud:
		return "MEETING_HUD"
	case ClassLobbyBehavior:
		return "LOBBY_BEHAVIOR"
	case ClassGameData:
		return "GAME_DATA"
	case ClassVoteBanSystem:
		return "VOTE_BAN_SYSTEM"
	case ClassPlayerControl:
		return "PLAYER_CONTROL"
	case ClassPlayerPhysics:
		return "PLAYER_PHYSICS"
	case ClassCustomNetworkTransform:
		return "CUSTOM_NETWORK_TRANSFORM"
	case ClassShipStatusMiraHQ:
		return "SHIP_STATUS_MIRA_HQ"
	case ClassShipStatusPolus:
		return "SHIP_STATUS_POLUS"
	default:
		return "UNKNOWN_CLASS"
	}
}

// SpawnPrefab identifies a composite spawn that installs a fixed tuple of
// child net-objects. Prefab ids are a separate numbering from ClassTag.
type SpawnPrefab int

const (
	PrefabShipStatusSkeld  SpawnPrefab = 0
	PrefabMeetingHud       SpawnPrefab = 1
	PrefabLobbyBehavior    SpawnPrefab = 2
	PrefabGameData         SpawnPrefab = 3
	PrefabPlayer           SpawnPrefab = 4
	PrefabShipStatusMiraHQ SpawnPrefab = 5
	PrefabShipStatusPolus  SpawnPrefab = 6
)

// SpawnChildren maps a spawn prefab to its ordered list of child class tags
// (§3.3). A spawn observed with a child count that doesn't match this list's
// length is unparseable and the caller must abort that spawn's children.
var SpawnChildren = map[SpawnPrefab][]ClassTag{
	PrefabShipStatusSkeld:  {ClassShipStatusSkeld},
	PrefabMeetingHud:       {ClassMeetingHud},
	PrefabLobbyBehavior:    {ClassLobbyBehavior},
	PrefabGameData:         {ClassGameData, ClassVoteBanSystem},
	PrefabPlayer:           {ClassPlayerControl, ClassPlayerPhysics, ClassCustomNetworkTransform},
	PrefabShipStatusMiraHQ: {ClassShipStatusMiraHQ},
	PrefabShipStatusPolus:  {ClassShipStatusPolus},
}

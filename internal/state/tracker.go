package state

import (
	"crewwire/internal/innernet"
	"crewwire/internal/logging"
)

// Game is the per-lobby object graph mirror (§3.3). It is single-threaded
// cooperative by design: callers serialize access externally (§5); Game
// itself holds no lock.
type Game struct {
	logger  *logging.Logger
	Objects map[uint32]*NetObject
	Options *innernet.GameOptions
	Scene   string
	ChatLog []ChatEntry
}

// NewGame constructs an empty mirror. A nil logger is replaced with a no-op logger.
func NewGame(logger *logging.Logger) *Game {
	if logger == nil {
		logger = logging.NewTestLogger()
	}
	return &Game{
		logger:  logger,
		Objects: make(map[uint32]*NetObject),
		Scene:   "OnlineGame",
	}
}

// Reset clears the object graph and game options, used when a LobbyBehavior
// spawn is observed (§4.7).
func (g *Game) Reset() {
	g.Objects = make(map[uint32]*NetObject)
	g.Options = nil
}

// RoundState derives the current phase from scene and live LobbyBehavior/MeetingHud presence.
func (g *Game) RoundState() RoundState {
	lobbyLive, meetingLive := false, false
	for _, obj := range g.Objects {
		if obj.Dead {
			continue
		}
		switch obj.Class {
		case innernet.ClassLobbyBehavior:
			lobbyLive = true
		case innernet.ClassMeetingHud:
			meetingLive = true
		}
	}
	return deriveRoundState(g.Scene, lobbyLive, meetingLive)
}

// playerInfo returns the PlayerInfo for id from the live GameData object,
// lazily creating both the GameData object (at a synthetic net id, if none
// exists yet) and the PlayerInfo record (§3.3 "created lazily on first
// reference; lookup never fails").
func (g *Game) playerInfo(id uint8) *innernet.PlayerInfo {
	gameData := g.liveGameData()
	if gameData == nil {
		gameData = &GameDataAttrs{Players: make(map[uint8]*innernet.PlayerInfo)}
		g.Objects[syntheticGameDataNetID] = &NetObject{
			NetID: syntheticGameDataNetID,
			Class: innernet.ClassGameData,
			Attrs: gameData,
		}
	}
	info, ok := gameData.Players[id]
	if !ok {
		info = &innernet.PlayerInfo{ID: id}
		gameData.Players[id] = info
	}
	return info
}

// syntheticGameDataNetID is used only when a PlayerInfo is referenced before
// any GameData spawn has been observed; a real spawn later installs over it.
const syntheticGameDataNetID = 0xFFFFFFFF

func (g *Game) liveGameData() *GameDataAttrs {
	for _, obj := range g.Objects {
		if obj.Class == innernet.ClassGameData && !obj.Dead {
			if attrs, ok := obj.Attrs.(*GameDataAttrs); ok {
				return attrs
			}
		}
	}
	return nil
}

func (g *Game) playerControl(netID uint32) (*NetObject, *PlayerControlAttrs, bool) {
	obj, ok := g.Objects[netID]
	if !ok || obj.Class != innernet.ClassPlayerControl {
		return nil, nil, false
	}
	attrs, ok := obj.Attrs.(*PlayerControlAttrs)
	if !ok {
		return nil, nil, false
	}
	return obj, attrs, true
}

// Spawn installs the children of a Spawn sub-message (§4.5). A LobbyBehavior
// prefab resets the mirror first (§4.7).
func (g *Game) Spawn(msg innernet.SpawnMessage) {
	declared, ok := innernet.SpawnChildren[msg.SpawnableID]
	if !ok {
		g.logger.Warn("spawn: unknown prefab", logging.Int("prefab", int(msg.SpawnableID)))
		return
	}
	if msg.SpawnableID == innernet.PrefabLobbyBehavior {
		g.Reset()
	}
	if len(declared) != len(msg.Children) {
		g.logger.Warn("spawn: child count mismatch",
			logging.Int("expected", len(declared)),
			logging.Int("observed", len(msg.Children)))
		return
	}
	for i, class := range declared {
		child := msg.Children[i]
		g.installChild(class, child.NetID, child.Payload)
	}
}

func (g *Game) installChild(class innernet.ClassTag, netID uint32, payload []byte) {
	if existing, ok := g.Objects[netID]; ok && !existing.Dead {
		g.logger.Warn("spawn: overwriting live object",
			logging.Uint32("net_id", netID), logging.String("class", class.String()))
	}

	var attrs any
	if decode, ok := initialDecoders[class]; ok {
		decoded, err := decode(payload)
		if err != nil {
			g.logger.Warn("spawn: failed to decode initial payload",
				logging.Uint32("net_id", netID), logging.String("class", class.String()), logging.Error(err))
			return
		}
		attrs = decoded
	} else if len(payload) > 0 {
		g.logger.Warn("spawn: no initial decoder for class with non-empty payload",
			logging.Uint32("net_id", netID), logging.String("class", class.String()))
	}

	obj := &NetObject{NetID: netID, Class: class, Attrs: attrs}
	g.Objects[netID] = obj

	if class == innernet.ClassGameData {
		g.mergeSyntheticGameData(obj)
	}
}

// mergeSyntheticGameData folds any lazily-created PlayerInfo records created
// before the real GameData spawn arrived into the freshly-installed object,
// then discards the synthetic placeholder.
func (g *Game) mergeSyntheticGameData(real *NetObject) {
	synthetic, ok := g.Objects[syntheticGameDataNetID]
	if !ok || synthetic == real {
		return
	}
	syntheticAttrs, ok := synthetic.Attrs.(*GameDataAttrs)
	if !ok {
		delete(g.Objects, syntheticGameDataNetID)
		return
	}
	realAttrs, ok := real.Attrs.(*GameDataAttrs)
	if !ok {
		realAttrs = &GameDataAttrs{Players: make(map[uint8]*innernet.PlayerInfo)}
		real.Attrs = realAttrs
	}
	for id, info := range syntheticAttrs.Players {
		if _, exists := realAttrs.Players[id]; !exists {
			realAttrs.Players[id] = info
		}
	}
	delete(g.Objects, syntheticGameDataNetID)
}

// Despawn tombstones the object at netID, retaining it for sibling resolution (§3.3, §5).
func (g *Game) Despawn(netID uint32) {
	obj, ok := g.Objects[netID]
	if !ok {
		g.logger.Warn("despawn: unknown net id", logging.Uint32("net_id", netID))
		return
	}
	obj.Dead = true
}

// ChangeScene sets the mirrored scene string.
func (g *Game) ChangeScene(msg innernet.ChangeSceneMessage) {
	g.Scene = msg.Scene
}

// MarkReady accepts and discards a MarkReady message (§4.7): it has no
// mirrored effect.
func (g *Game) MarkReady(uint32) {}

// ApplyDataUpdate dispatches a DataUpdate sub-message to the target object's update decoder.
func (g *Game) ApplyDataUpdate(msg innernet.DataUpdateMessage) {
	obj, ok := g.Objects[msg.NetID]
	if !ok {
		g.logger.Warn("data update: unknown net id", logging.Uint32("net_id", msg.NetID))
		return
	}
	decode, ok := updateDecoders[obj.Class]
	if !ok {
		g.logger.Warn("data update: no update decoder for class",
			logging.Uint32("net_id", msg.NetID), logging.String("class", obj.Class.String()))
		return
	}
	if obj.Dead {
		g.logger.Warn("data update: target already dead", logging.Uint32("net_id", msg.NetID))
	}
	if err := decode(obj, msg.Data); err != nil {
		g.logger.Warn("data update: decode failed",
			logging.Uint32("net_id", msg.NetID), logging.Error(err))
	}
}

// ApplyRPC dispatches an RPC sub-message to the target object's class-specific handler.
func (g *Game) ApplyRPC(msg innernet.RPCMessage) {
	obj, ok := g.Objects[msg.NetID]
	if !ok {
		g.logger.Warn("rpc: unknown net id",
			logging.Uint32("net_id", msg.NetID), logging.String("opcode", msg.Opcode.String()))
		return
	}
	handlers := rpcHandlers[obj.Class]
	handler, ok := handlers[msg.Opcode]
	if !ok {
		g.logger.Debug("rpc: unhandled opcode for class",
			logging.Uint32("net_id", msg.NetID),
			logging.String("class", obj.Class.String()),
			logging.String("opcode", msg.Opcode.String()))
		return
	}
	if obj.Dead {
		g.logger.Warn("rpc: target already dead",
			logging.Uint32("net_id", msg.NetID), logging.String("opcode", msg.Opcode.String()))
	}
	if err := handler(g, obj, msg.Data); err != nil {
		g.logger.Warn("rpc: handler failed",
			logging.Uint32("net_id", msg.NetID), logging.String("opcode", msg.Opcode.String()), logging.Error(err))
	}
}

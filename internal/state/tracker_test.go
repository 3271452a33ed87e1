package state

import (
	"testing"

	"crewwire/internal/innernet"
)

func spawnMsg(prefab innernet.SpawnPrefab, owner uint32, children ...innernet.SpawnChildRecord) innernet.SpawnMessage {
	return innernet.SpawnMessage{SpawnableID: prefab, OwnerID: owner, Children: children}
}

func TestLobbySpawnThenColorSet(t *testing.T) {
	g := NewGame(nil)

	g.Spawn(spawnMsg(innernet.PrefabLobbyBehavior, 0,
		innernet.SpawnChildRecord{NetID: 7}))

	playerControlPayload := []byte{0, 3} // is_new = 0, player_id = 3
	g.Spawn(spawnMsg(innernet.PrefabPlayer, 1,
		innernet.SpawnChildRecord{NetID: 20, Payload: playerControlPayload},
		innernet.SpawnChildRecord{NetID: 21},
		innernet.SpawnChildRecord{NetID: 22, Payload: []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
	))

	g.ApplyRPC(innernet.RPCMessage{NetID: 20, Opcode: innernet.RPCSetColor, Data: []byte{4}})

	if got := g.RoundState(); got != RoundLobby {
		t.Fatalf("expected LOBBY round state, got %v", got)
	}

	info := g.playerInfo(3)
	if info.ColorID != 4 {
		t.Fatalf("expected player 3 color_id=4, got %+v", info)
	}
}

func TestMeetingVoteFlow(t *testing.T) {
	g := NewGame(nil)
	g.installChild(innernet.ClassMeetingHud, 50, []byte{0x00, 0x00, 0x00})

	g.ApplyRPC(innernet.RPCMessage{NetID: 50, Opcode: innernet.RPCCastVote, Data: []byte{0, 1}})
	g.ApplyRPC(innernet.RPCMessage{NetID: 50, Opcode: innernet.RPCCastVote, Data: []byte{2, 0xFF}})
	g.ApplyRPC(innernet.RPCMessage{NetID: 50, Opcode: innernet.RPCVotingComplete,
		Data: []byte{0, 1, 0}})

	info := g.playerInfo(1)
	if !info.IsDead {
		t.Fatalf("expected player 1 marked dead after exile, got %+v", info)
	}
	if got := g.RoundState(); got != RoundMeeting {
		t.Fatalf("expected MEETING round state before close, got %v", got)
	}

	g.ApplyRPC(innernet.RPCMessage{NetID: 50, Opcode: innernet.RPCCloseMeetingHud})
	if got := g.RoundState(); got != RoundActive {
		t.Fatalf("expected ACTIVE round state after close, got %v", got)
	}
}

func TestCustomNetworkTransformWrap(t *testing.T) {
	g := NewGame(nil)
	g.installChild(innernet.ClassCustomNetworkTransform, 100,
		encodeTransform(0xFFFE, 1, 1, 0, 0))

	g.ApplyDataUpdate(innernet.DataUpdateMessage{NetID: 100, Data: encodeTransform(0x0001, 5, 5, 0, 0)})
	attrs := g.Objects[100].Attrs.(*TransformAttrs)
	if attrs.SequenceNum != 0x0001 || attrs.X != 5 || attrs.Y != 5 {
		t.Fatalf("expected accepted update to 0x0001, got %+v", attrs)
	}

	g.ApplyDataUpdate(innernet.DataUpdateMessage{NetID: 100, Data: encodeTransform(0x7FFD, 9, 9, 0, 0)})
	attrs = g.Objects[100].Attrs.(*TransformAttrs)
	if attrs.SequenceNum != 0x7FFD || attrs.X != 9 || attrs.Y != 9 {
		t.Fatalf("expected accepted update to 0x7FFD, got %+v", attrs)
	}

	g.ApplyDataUpdate(innernet.DataUpdateMessage{NetID: 100, Data: encodeTransform(0x7FFD, 42, 42, 0, 0)})
	attrs = g.Objects[100].Attrs.(*TransformAttrs)
	if attrs.SequenceNum != 0x7FFD || attrs.X != 9 || attrs.Y != 9 {
		t.Fatalf("expected duplicate sequence rejected, got %+v", attrs)
	}
}

func TestDespawnThenTombstoneReference(t *testing.T) {
	g := NewGame(nil)
	g.installChild(innernet.ClassPlayerControl, 20, []byte{0, 3})
	g.installChild(innernet.ClassPlayerPhysics, 21, nil)

	g.Despawn(21)
	if !g.Objects[21].Dead {
		t.Fatalf("expected object 21 tombstoned")
	}

	g.ApplyRPC(innernet.RPCMessage{NetID: 21, Opcode: innernet.RPCEnterVent})
	attrs := g.Objects[21].Attrs.(*PlayerPhysicsAttrs)
	if !attrs.InVent {
		t.Fatalf("expected in_vent=true despite tombstoned target")
	}
}

func encodeTransform(seq, x, y uint16, xVel, yVel int16) []byte {
	b := make([]byte, 10)
	b[0], b[1] = byte(seq), byte(seq>>8)
	b[2], b[3] = byte(x), byte(x>>8)
	b[4], b[5] = byte(y), byte(y>>8)
	b[6], b[7] = byte(xVel), byte(xVel>>8)
	b[8], b[9] = byte(yVel), byte(yVel>>8)
	return b
}

package state

import (
	"testing"

	"crewwire/internal/innernet"
)

func TestSpawnInstallsDeclaredChildClasses(t *testing.T) {
	g := NewGame(nil)
	g.Spawn(spawnMsg(innernet.PrefabGameData, 0,
		innernet.SpawnChildRecord{NetID: 30, Payload: []byte{0x00}},
		innernet.SpawnChildRecord{NetID: 31},
	))
	if g.Objects[30].Class != innernet.ClassGameData {
		t.Fatalf("expected net id 30 installed as GameData, got %v", g.Objects[30].Class)
	}
	if g.Objects[31].Class != innernet.ClassVoteBanSystem {
		t.Fatalf("expected net id 31 installed as VoteBanSystem, got %v", g.Objects[31].Class)
	}
}

func TestSpawnChildCountMismatchAbortsChildren(t *testing.T) {
	g := NewGame(nil)
	g.Spawn(spawnMsg(innernet.PrefabGameData, 0,
		innernet.SpawnChildRecord{NetID: 30},
	))
	if len(g.Objects) != 0 {
		t.Fatalf("expected no children installed on count mismatch, got %d objects", len(g.Objects))
	}
}

func TestSpawnUnknownPrefabIsSkipped(t *testing.T) {
	g := NewGame(nil)
	g.Spawn(spawnMsg(innernet.SpawnPrefab(999), 0,
		innernet.SpawnChildRecord{NetID: 1},
	))
	if len(g.Objects) != 0 {
		t.Fatalf("expected unknown prefab to install nothing, got %d objects", len(g.Objects))
	}
}

func TestSpawnLobbyBehaviorResetsMirror(t *testing.T) {
	g := NewGame(nil)
	g.installChild(innernet.ClassMeetingHud, 50, nil)
	g.Options = &innernet.GameOptions{Version: 3}

	g.Spawn(spawnMsg(innernet.PrefabLobbyBehavior, 0,
		innernet.SpawnChildRecord{NetID: 7},
	))

	if _, ok := g.Objects[50]; ok {
		t.Fatalf("expected prior objects cleared by lobby reset")
	}
	if g.Options != nil {
		t.Fatalf("expected game options cleared by lobby reset")
	}
	if len(g.Objects) != 1 || g.Objects[7].Class != innernet.ClassLobbyBehavior {
		t.Fatalf("expected only the lobby behavior child installed, got %+v", g.Objects)
	}
}

func TestSpawnOverwritingLiveObjectStillInstalls(t *testing.T) {
	g := NewGame(nil)
	g.installChild(innernet.ClassPlayerControl, 20, []byte{0, 3})

	g.Spawn(spawnMsg(innernet.PrefabPlayer, 1,
		innernet.SpawnChildRecord{NetID: 20, Payload: []byte{0, 9}},
		innernet.SpawnChildRecord{NetID: 21},
		innernet.SpawnChildRecord{NetID: 22, Payload: nil},
	))

	attrs := g.Objects[20].Attrs.(*PlayerControlAttrs)
	if attrs.PlayerID != 9 {
		t.Fatalf("expected overwrite to install new attrs, got %+v", attrs)
	}
}

package snapshot

import (
	"testing"

	"crewwire/internal/innernet"
	"crewwire/internal/state"
)

func TestExportOmitsDeadObjectsAndBackReferences(t *testing.T) {
	g := state.NewGame(nil)
	g.Spawn(innernet.SpawnMessage{
		SpawnableID: innernet.PrefabLobbyBehavior,
		Children:    []innernet.SpawnChildRecord{{NetID: 7}},
	})
	g.Despawn(7)

	tree := Export(g)
	if tree["round_state"] == "LOBBY" {
		t.Fatalf("expected round state to no longer report LOBBY once its LobbyBehavior is dead")
	}
	objects, ok := tree["net_objects"].(map[string]any)
	if !ok {
		t.Fatalf("expected net_objects map, got %T", tree["net_objects"])
	}
	if _, present := objects["7"]; present {
		t.Fatalf("expected dead net-object 7 to be excluded from the snapshot")
	}
}

func TestProtoRoundTripsStructuralTree(t *testing.T) {
	g := state.NewGame(nil)
	g.Spawn(innernet.SpawnMessage{
		SpawnableID: innernet.PrefabLobbyBehavior,
		Children:    []innernet.SpawnChildRecord{{NetID: 7}},
	})

	s, err := Proto(g)
	if err != nil {
		t.Fatalf("Proto: %v", err)
	}
	fields := s.GetFields()
	if fields["round_state"].GetStringValue() != "LOBBY" {
		t.Fatalf("expected LOBBY round state in proto struct, got %v", fields["round_state"])
	}
}

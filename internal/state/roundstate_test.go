package state

import "testing"

func TestDeriveRoundState(t *testing.T) {
	cases := []struct {
		name        string
		scene       string
		lobbyLive   bool
		meetingLive bool
		want        RoundState
	}{
		{"lobby takes priority", "EndGame", true, true, RoundLobby},
		{"postgame over meeting", "EndGame", false, true, RoundPostgame},
		{"meeting", "OnlineGame", false, true, RoundMeeting},
		{"active default", "OnlineGame", false, false, RoundActive},
	}
	for _, c := range cases {
		if got := deriveRoundState(c.scene, c.lobbyLive, c.meetingLive); got != c.want {
			t.Fatalf("%s: expected %v, got %v", c.name, c.want, got)
		}
	}
}

func TestRoundStateString(t *testing.T) {
	cases := map[RoundState]string{
		RoundLobby:    "LOBBY",
		RoundPostgame: "POSTGAME",
		RoundMeeting:  "MEETING",
		RoundActive:   "ACTIVE",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Fatalf("expected %s, got %s", want, got)
		}
	}
}

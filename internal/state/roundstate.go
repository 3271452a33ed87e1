package state

// RoundState is the derived top-level phase of a game (§3.3, §4.7).
type RoundState int

const (
	RoundActive RoundState = iota
	RoundLobby
	RoundMeeting
	RoundPostgame
)

// String returns the symbolic round-state name used by the snapshot serializer.
func (s RoundState) String() string {
	switch s {
	case RoundLobby:
		return "LOBBY"
	case RoundPostgame:
		return "POSTGAME"
	case RoundMeeting:
		return "MEETING"
	default:
		return "ACTIVE"
	}
}

// deriveRoundState is a pure function of scene and the presence of live
// LobbyBehavior/MeetingHud objects (§3.3):
//   - LOBBY if any live LobbyBehavior exists
//   - POSTGAME if scene == "EndGame"
//   - MEETING else if any live MeetingHud exists
//   - ACTIVE otherwise
func deriveRoundState(scene string, lobbyLive, meetingLive bool) RoundState {
	switch {
	case lobbyLive:
		return RoundLobby
	case scene == "EndGame":
		return RoundPostgame
	case meetingLive:
		return RoundMeeting
	default:
		return RoundActive
	}
}

package innernet

import "crewwire/internal/wire"

// GameMap identifies which of the three maps a lobby is playing.
type GameMap uint8

const (
	MapSkeld  GameMap = 0
	MapMiraHQ GameMap = 1
	MapPolus  GameMap = 2
)

// KillDistance is the configured murder range.
type KillDistance uint8

const (
	KillDistanceShort  KillDistance = 0
	KillDistanceMedium KillDistance = 1
	KillDistanceLong   KillDistance = 2
)

// GameOptions is the fixed-layout lobby configuration block (§4.4.1).
type GameOptions struct {
	Version            uint8
	MaxPlayers         uint8
	Keywords           uint32
	Map                GameMap
	PlayerSpeed        float32
	PlayerVision       float32
	ImposterVision     float32
	KillCooldown       float32
	CommonTasks        uint8
	LongTasks          uint8
	ShortTasks         uint8
	EmergencyMeetings  uint32
	ImposterCount      uint8
	KillDistance       KillDistance
	DiscussionTime     uint32
	VotingTime         uint32
	IsDefaults         bool
	EmergencyCooldown  uint8
	ConfirmEjects      bool
	VisualTasks        bool
}

// DecodeGameOptions parses the fixed GameOptions layout carried by the
// GAME_OPTIONS RPC.
func DecodeGameOptions(payload []byte) (GameOptions, error) {
	r := wire.NewReader(payload)
	var opts GameOptions
	var err error

	if opts.Version, err = r.U8(); err != nil {
		return GameOptions{}, err
	}
	if opts.MaxPlayers, err = r.U8(); err != nil {
		return GameOptions{}, err
	}
	if opts.Keywords, err = r.U32LE(); err != nil {
		return GameOptions{}, err
	}
	mapID, err := r.U8()
	if err != nil {
		return GameOptions{}, err
	}
	opts.Map = GameMap(mapID)
	if opts.PlayerSpeed, err = r.F32LE(); err != nil {
		return GameOptions{}, err
	}
	if opts.PlayerVision, err = r.F32LE(); err != nil {
		return GameOptions{}, err
	}
	if opts.ImposterVision, err = r.F32LE(); err != nil {
		return GameOptions{}, err
	}
	if opts.KillCooldown, err = r.F32LE(); err != nil {
		return GameOptions{}, err
	}
	if opts.CommonTasks, err = r.U8(); err != nil {
		return GameOptions{}, err
	}
	if opts.LongTasks, err = r.U8(); err != nil {
		return GameOptions{}, err
	}
	if opts.ShortTasks, err = r.U8(); err != nil {
		return GameOptions{}, err
	}
	if opts.EmergencyMeetings, err = r.U32LE(); err != nil {
		return GameOptions{}, err
	}
	if opts.ImposterCount, err = r.U8(); err != nil {
		return GameOptions{}, err
	}
	killDistance, err := r.U8()
	if err != nil {
		return GameOptions{}, err
	}
	opts.KillDistance = KillDistance(killDistance)
	if opts.DiscussionTime, err = r.U32LE(); err != nil {
		return GameOptions{}, err
	}
	if opts.VotingTime, err = r.U32LE(); err != nil {
		return GameOptions{}, err
	}
	isDefaults, err := r.U8()
	if err != nil {
		return GameOptions{}, err
	}
	opts.IsDefaults = isDefaults != 0
	if opts.EmergencyCooldown, err = r.U8(); err != nil {
		return GameOptions{}, err
	}
	confirmEjects, err := r.U8()
	if err != nil {
		return GameOptions{}, err
	}
	opts.ConfirmEjects = confirmEjects != 0
	visualTasks, err := r.U8()
	if err != nil {
		return GameOptions{}, err
	}
	opts.VisualTasks = visualTasks != 0

	return opts, nil
}

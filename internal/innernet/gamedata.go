package innernet

import "crewwire/internal/wire"

// Task is one entry in a player's task list.
type Task struct {
	ID       uint8
	Done     bool
	TaskType *uint8 // nil until a SET_TASKS RPC supplies the concrete type
}

// PlayerInfo mirrors one GameData player record (§3.3).
type PlayerInfo struct {
	ID           uint8
	Name         string
	ColorID      uint8
	HatID        uint32
	PetID        uint32
	SkinID       uint32
	IsDead       bool
	IsImpostor   bool
	Disconnected bool
	Tasks        []Task
}

// DecodePlayerInfo parses one PlayerInfo body: a short-prefixed name,
// color_id, hat_id/pet_id/skin_id (each u7v), a status-flags byte, and a
// byte-counted task list (§3.3).
func DecodePlayerInfo(payload []byte) (PlayerInfo, error) {
	r := wire.NewReader(payload)
	return decodePlayerInfoFrom(r)
}

func decodePlayerInfoFrom(r *wire.Reader) (PlayerInfo, error) {
	name, err := r.ShortPrefixedString()
	if err != nil {
		return PlayerInfo{}, err
	}
	colorID, err := r.U8()
	if err != nil {
		return PlayerInfo{}, err
	}
	hatID, err := r.U7V()
	if err != nil {
		return PlayerInfo{}, err
	}
	petID, err := r.U7V()
	if err != nil {
		return PlayerInfo{}, err
	}
	skinID, err := r.U7V()
	if err != nil {
		return PlayerInfo{}, err
	}
	flags, err := r.U8()
	if err != nil {
		return PlayerInfo{}, err
	}
	taskCount, err := r.U8()
	if err != nil {
		return PlayerInfo{}, err
	}
	tasks := make([]Task, 0, taskCount)
	for i := uint8(0); i < taskCount; i++ {
		taskID, err := r.U7V()
		if err != nil {
			return PlayerInfo{}, err
		}
		done, err := r.U8()
		if err != nil {
			return PlayerInfo{}, err
		}
		tasks = append(tasks, Task{ID: uint8(taskID), Done: done != 0})
	}
	return PlayerInfo{
		Name:         name,
		ColorID:      colorID,
		HatID:        hatID,
		PetID:        petID,
		SkinID:       skinID,
		IsDead:       flags&0x04 != 0,
		IsImpostor:   flags&0x02 != 0,
		Disconnected: flags&0x01 != 0,
		Tasks:        tasks,
	}, nil
}

// GameDataInitial is the decoded initial-spawn payload for GameData: an
// ordered list of players keyed by the player id carried in each
// PlayerInfoDataMessage (§4.4.4).
type GameDataInitial struct {
	Players []PlayerInfoSubMessage
}

// DecodeGameDataInitial decodes `u7v n, n x PlayerInfoDataMessage` where each
// entry is `u8 player_id` followed by a PlayerInfo body.
func DecodeGameDataInitial(payload []byte) (GameDataInitial, error) {
	r := wire.NewReader(payload)
	count, err := r.U7V()
	if err != nil {
		return GameDataInitial{}, err
	}
	players := make([]PlayerInfoSubMessage, 0, count)
	for i := uint32(0); i < count; i++ {
		playerID, err := r.U8()
		if err != nil {
			return GameDataInitial{}, err
		}
		info, err := decodePlayerInfoFrom(r)
		if err != nil {
			return GameDataInitial{}, err
		}
		players = append(players, PlayerInfoSubMessage{PlayerID: playerID, Info: info})
	}
	return GameDataInitial{Players: players}, nil
}

package state

import (
	"testing"

	"crewwire/internal/innernet"
	"crewwire/internal/wire"
)

func gameOptionsPayload(t *testing.T) []byte {
	t.Helper()
	opts := wire.NewWriter()
	opts.PutU8(3)
	opts.PutU8(10)
	opts.PutU32LE(1)
	opts.PutU8(0)
	opts.PutF32LE(1)
	opts.PutF32LE(1)
	opts.PutF32LE(1)
	opts.PutF32LE(45)
	opts.PutU8(1)
	opts.PutU8(1)
	opts.PutU8(2)
	opts.PutU32LE(1)
	opts.PutU8(1)
	opts.PutU8(0)
	opts.PutU32LE(15)
	opts.PutU32LE(120)
	opts.PutU8(1)
	opts.PutU8(0)
	opts.PutU8(1)
	opts.PutU8(1)
	body := opts.Bytes()
	w := wire.NewWriter()
	w.PutU7V(uint32(len(body)))
	w.PutBytes(body)
	return w.Bytes()
}

func TestRPCGameOptionsInstallsOptions(t *testing.T) {
	g := NewGame(nil)
	g.installChild(innernet.ClassPlayerControl, 20, []byte{0, 1})

	g.ApplyRPC(innernet.RPCMessage{NetID: 20, Opcode: innernet.RPCGameOptions, Data: gameOptionsPayload(t)})

	if g.Options == nil || g.Options.MaxPlayers != 10 {
		t.Fatalf("expected game options installed, got %+v", g.Options)
	}
}

func TestRPCSetTasksReplacesWhenCountDiffers(t *testing.T) {
	g := NewGame(nil)
	g.installChild(innernet.ClassGameData, 30, []byte{0x00})
	info := g.playerInfo(5)
	info.Tasks = []innernet.Task{{ID: 0}}

	w := wire.NewWriter()
	w.PutU8(5)
	w.PutShortPrefixedBytes([]byte{7, 8, 9})
	g.ApplyRPC(innernet.RPCMessage{NetID: 30, Opcode: innernet.RPCSetTasks, Data: w.Bytes()})

	if len(info.Tasks) != 3 {
		t.Fatalf("expected tasks replaced with 3 entries, got %d", len(info.Tasks))
	}
	if *info.Tasks[2].TaskType != 9 {
		t.Fatalf("unexpected task type: %+v", info.Tasks[2])
	}
}

func TestRPCSetTasksOverlayPreservesCount(t *testing.T) {
	g := NewGame(nil)
	g.installChild(innernet.ClassGameData, 30, []byte{0x00})
	info := g.playerInfo(5)
	info.Tasks = []innernet.Task{{ID: 0}, {ID: 1}}

	w := wire.NewWriter()
	w.PutU8(5)
	w.PutShortPrefixedBytes([]byte{7, 8})
	g.ApplyRPC(innernet.RPCMessage{NetID: 30, Opcode: innernet.RPCSetTasks, Data: w.Bytes()})

	if len(info.Tasks) != 2 {
		t.Fatalf("expected task count preserved at 2, got %d", len(info.Tasks))
	}
	if *info.Tasks[0].TaskType != 7 || *info.Tasks[1].TaskType != 8 {
		t.Fatalf("unexpected overlay result: %+v", info.Tasks)
	}
}

func TestRPCPlayerInfoUpsertsRecords(t *testing.T) {
	g := NewGame(nil)
	g.installChild(innernet.ClassGameData, 30, []byte{0x00})

	entry := wire.NewWriter()
	entry.PutShortPrefixedString("crew1")
	entry.PutU8(1)  // color_id
	entry.PutU7V(2) // hat_id
	entry.PutU7V(3) // pet_id
	entry.PutU7V(4) // skin_id
	entry.PutU8(0x02) // is_impostor
	entry.PutU8(0)    // task_count
	entryBytes := entry.Bytes()

	w := wire.NewWriter()
	w.PutU16LE(uint16(len(entryBytes)))
	w.PutU8(5)
	w.PutBytes(entryBytes)

	g.ApplyRPC(innernet.RPCMessage{NetID: 30, Opcode: innernet.RPCPlayerInfo, Data: w.Bytes()})

	info := g.playerInfo(5)
	if info.Name != "crew1" || !info.IsImpostor {
		t.Fatalf("unexpected player info: %+v", info)
	}
}

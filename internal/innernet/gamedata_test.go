package innernet

import (
	"testing"

	"crewwire/internal/wire"
)

func putPlayerInfoBody(w *wire.Writer, name string, flags uint8) {
	w.PutShortPrefixedString(name)
	w.PutU8(1)    // color_id
	w.PutU7V(2)   // hat_id
	w.PutU7V(3)   // pet_id
	w.PutU7V(4)   // skin_id
	w.PutU8(flags)
	w.PutU8(0) // task_count
}

func TestDecodePlayerInfo(t *testing.T) {
	w := wire.NewWriter()
	putPlayerInfoBody(w, "crew1", 0x02) // is_impostor

	info, err := DecodePlayerInfo(w.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Name != "crew1" || !info.IsImpostor || info.IsDead || info.Disconnected {
		t.Fatalf("unexpected decode: %+v", info)
	}
	if info.ColorID != 1 || info.HatID != 2 || info.PetID != 3 || info.SkinID != 4 {
		t.Fatalf("unexpected cosmetic fields: %+v", info)
	}
}

func TestDecodeGameDataInitial(t *testing.T) {
	w := wire.NewWriter()
	w.PutU7V(2)
	w.PutU8(0)
	putPlayerInfoBody(w, "alpha", 0)
	w.PutU8(1)
	putPlayerInfoBody(w, "beta", 0x04) // is_dead

	data, err := DecodeGameDataInitial(w.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(data.Players))
	}
	if data.Players[0].PlayerID != 0 || data.Players[0].Info.Name != "alpha" {
		t.Fatalf("unexpected first player: %+v", data.Players[0])
	}
	if data.Players[1].PlayerID != 1 || data.Players[1].Info.Name != "beta" || !data.Players[1].Info.IsDead {
		t.Fatalf("unexpected second player: %+v", data.Players[1])
	}
}

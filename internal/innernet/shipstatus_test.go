package innernet

import (
	"testing"

	"crewwire/internal/wire"
)

func TestShipStatusPolusInitialThenPartialUpdate(t *testing.T) {
	w := wire.NewWriter()
	// switch
	w.PutU8(1)
	w.PutU8(1)
	w.PutU8(1)
	// medScan
	w.PutU7V(0)
	// securityCamera
	w.PutU7V(0)
	// hudOverride
	w.PutU8(0)
	// doorsPolus: 0 timers, 16 status bytes
	w.PutU8(0)
	w.PutBytes(make([]byte, 16))
	// sabotage
	w.PutF32LE(0)
	// reactor
	w.PutF32LE(0)
	w.PutU7V(0)

	status, err := DecodeShipStatusInitial(MapPolus, w.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Switch == nil || status.MedScan == nil || status.SecurityCamera == nil ||
		status.HudOverride == nil || status.DoorsPolus == nil || status.Sabotage == nil || status.Reactor == nil {
		t.Fatalf("expected all declared sub-systems populated, got %+v", status)
	}

	// Scenario 4: update with mask={7,17} touches only switch and sabotage.
	update := wire.NewWriter()
	update.PutBitset([]int{7, 17})
	update.PutU8(9) // switch.expected
	update.PutU8(9) // switch.active
	update.PutU8(9) // switch.value
	update.PutF32LE(42.5) // sabotage.countdown

	priorReactor := status.Reactor
	priorMedScan := status.MedScan
	priorSecurityCamera := status.SecurityCamera
	priorHudOverride := status.HudOverride
	priorDoors := status.DoorsPolus

	if err := ApplyShipStatusUpdate(status, update.Bytes()); err != nil {
		t.Fatalf("unexpected error applying update: %v", err)
	}

	if status.Switch.Expected != 9 || status.Switch.Active != 9 || status.Switch.Value != 9 {
		t.Fatalf("expected switch updated, got %+v", status.Switch)
	}
	if status.Sabotage.Countdown != 42.5 {
		t.Fatalf("expected sabotage countdown updated, got %+v", status.Sabotage)
	}
	if status.Reactor != priorReactor {
		t.Fatalf("expected reactor untouched by update")
	}
	if status.MedScan != priorMedScan {
		t.Fatalf("expected medScan untouched by update")
	}
	if status.SecurityCamera != priorSecurityCamera {
		t.Fatalf("expected securityCamera untouched by update")
	}
	if status.HudOverride != priorHudOverride {
		t.Fatalf("expected hudOverride untouched by update")
	}
	if status.DoorsPolus != priorDoors {
		t.Fatalf("expected doorsPolus untouched by update")
	}
}

func TestShipStatusSkeldInitialDoorsAreThirteenBytes(t *testing.T) {
	w := wire.NewWriter()
	w.PutF32LE(0) // reactor.countdown
	w.PutU7V(0)   // reactor.users = 0
	w.PutU8(0)    // switch.expected
	w.PutU8(0)    // switch.active
	w.PutU8(0)    // switch.value
	w.PutF32LE(0) // lifeSupport.countdown
	w.PutU7V(0)   // lifeSupport.completed = 0
	w.PutU7V(0)   // medScan = 0
	w.PutU7V(0)   // securityCamera = 0
	w.PutU8(0)    // hudOverride
	doors := make([]byte, 13)
	for i := range doors {
		doors[i] = 1
	}
	w.PutBytes(doors)
	w.PutF32LE(0) // sabotage

	status, err := DecodeShipStatusInitial(MapSkeld, w.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(status.DoorsSkeld.Open) != 13 {
		t.Fatalf("expected 13 doors, got %d", len(status.DoorsSkeld.Open))
	}
	for i, open := range status.DoorsSkeld.Open {
		if !open {
			t.Fatalf("door %d expected open", i)
		}
	}
}

func TestShipStatusSkeldUpdateDoorsBitset(t *testing.T) {
	status := &ShipStatus{Map: MapSkeld}
	update := wire.NewWriter()
	update.PutBitset([]int{16})
	update.PutBitset([]int{0, 2})
	update.PutBytes([]byte{1, 0}) // one open flag per mask entry

	if err := ApplyShipStatusUpdate(status, update.Bytes()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.DoorsSkeld == nil || len(status.DoorsSkeld.Open) != 2 {
		t.Fatalf("unexpected doors state: %+v", status.DoorsSkeld)
	}
}

func TestShipStatusMiraHQHudOverride(t *testing.T) {
	w := wire.NewWriter()
	w.PutU7V(1)
	w.PutU8(3)
	w.PutU8(7)
	w.PutU7V(2)
	w.PutBytes([]byte{1, 2})

	status := &ShipStatus{Map: MapMiraHQ}
	if err := decodeHudOverrideMira(wire.NewReader(w.Bytes()), status); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(status.HudOverrideMira.ActiveConsoles) != 1 || status.HudOverrideMira.ActiveConsoles[0].ConsoleID != 3 {
		t.Fatalf("unexpected active consoles: %+v", status.HudOverrideMira.ActiveConsoles)
	}
	if len(status.HudOverrideMira.CompletedConsoles) != 2 {
		t.Fatalf("unexpected completed consoles: %+v", status.HudOverrideMira.CompletedConsoles)
	}
}

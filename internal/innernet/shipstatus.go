package innernet

import "crewwire/internal/wire"

// ReactorStatus mirrors the reactor sabotage sub-system.
type ReactorStatus struct {
	Countdown float32
	Users     []ReactorUser
}

// ReactorUser is one (user, console) pair holding a reactor button.
type ReactorUser struct {
	UserID    uint8
	ConsoleID uint8
}

// SwitchStatus mirrors the electrical sub-system's breaker panel.
type SwitchStatus struct {
	Expected uint8
	Active   uint8
	Value    uint8
}

// LifeSupportStatus mirrors the oxygen sabotage sub-system.
type LifeSupportStatus struct {
	Countdown       float32
	CompletedConsoles []uint32
}

// MedScanStatus mirrors the medbay scanner queue.
type MedScanStatus struct {
	UserIDs []byte
}

// SecurityCameraStatus mirrors the security camera viewer list.
type SecurityCameraStatus struct {
	UserIDs []byte
}

// HudOverrideStatus mirrors the Skeld/Polus comms-sabotage override flag.
type HudOverrideStatus struct {
	Active bool
}

// HudOverrideMiraConsole is one (console, user) pair on the MiraHQ admin table.
type HudOverrideMiraConsole struct {
	ConsoleID uint8
	UserID    uint8
}

// HudOverrideStatusMiraHQ mirrors the MiraHQ comms-sabotage override table.
type HudOverrideStatusMiraHQ struct {
	ActiveConsoles    []HudOverrideMiraConsole
	CompletedConsoles []byte
}

// DoorsStatusSkeld mirrors the Skeld 13-door open/closed bitmask.
type DoorsStatusSkeld struct {
	Open []bool
}

// PolusDoorTimer is one closing-door countdown on Polus.
type PolusDoorTimer struct {
	DoorID  uint8
	Timer   float32
}

// DoorsStatusPolus mirrors the Polus door timer table and status bytes.
type DoorsStatusPolus struct {
	Timers []PolusDoorTimer
	Status []byte
}

// SabotageStatus mirrors a generic countdown-only sabotage (used standalone
// for maps whose sabotage sub-system carries no other state).
type SabotageStatus struct {
	Countdown float32
}

// shipStatusFlag pairs a sub-system's declared flag-mask index with the
// decode closure that fills that sub-system on a ShipStatus record.
// This realizes §9's "ordered list of (flag_index, decoder)" design note.
type shipStatusFlag struct {
	index  int
	decode func(r *wire.Reader, s *ShipStatus) error
}

// ShipStatus is the unified mirror record for all three maps' ship-status
// net-object. Only the sub-systems relevant to the spawning map are ever
// populated; the others remain nil forever for that instance.
type ShipStatus struct {
	Map              GameMap
	Reactor          *ReactorStatus
	Switch           *SwitchStatus
	LifeSupport      *LifeSupportStatus
	MedScan          *MedScanStatus
	SecurityCamera   *SecurityCameraStatus
	HudOverride      *HudOverrideStatus
	HudOverrideMira  *HudOverrideStatusMiraHQ
	DoorsSkeld       *DoorsStatusSkeld
	DoorsPolus       *DoorsStatusPolus
	Sabotage         *SabotageStatus
}

func decodeReactor(r *wire.Reader, s *ShipStatus) error {
	countdown, err := r.F32LE()
	if err != nil {
		return err
	}
	n, err := r.U7V()
	if err != nil {
		return err
	}
	users := make([]ReactorUser, 0, n)
	for i := uint32(0); i < n; i++ {
		user, err := r.U8()
		if err != nil {
			return err
		}
		console, err := r.U8()
		if err != nil {
			return err
		}
		users = append(users, ReactorUser{UserID: user, ConsoleID: console})
	}
	s.Reactor = &ReactorStatus{Countdown: countdown, Users: users}
	return nil
}

func decodeSwitch(r *wire.Reader, s *ShipStatus) error {
	expected, err := r.U8()
	if err != nil {
		return err
	}
	active, err := r.U8()
	if err != nil {
		return err
	}
	value, err := r.U8()
	if err != nil {
		return err
	}
	s.Switch = &SwitchStatus{Expected: expected, Active: active, Value: value}
	return nil
}

func decodeLifeSupport(r *wire.Reader, s *ShipStatus) error {
	countdown, err := r.F32LE()
	if err != nil {
		return err
	}
	n, err := r.U7V()
	if err != nil {
		return err
	}
	completed := make([]uint32, 0, n)
	for i := uint32(0); i < n; i++ {
		consoleID, err := r.U7V()
		if err != nil {
			return err
		}
		completed = append(completed, consoleID)
	}
	s.LifeSupport = &LifeSupportStatus{Countdown: countdown, CompletedConsoles: completed}
	return nil
}

func decodeMedScan(r *wire.Reader, s *ShipStatus) error {
	n, err := r.U7V()
	if err != nil {
		return err
	}
	ids, err := r.Bytes(int(n))
	if err != nil {
		return err
	}
	s.MedScan = &MedScanStatus{UserIDs: append([]byte(nil), ids...)}
	return nil
}

func decodeSecurityCamera(r *wire.Reader, s *ShipStatus) error {
	n, err := r.U7V()
	if err != nil {
		return err
	}
	ids, err := r.Bytes(int(n))
	if err != nil {
		return err
	}
	s.SecurityCamera = &SecurityCameraStatus{UserIDs: append([]byte(nil), ids...)}
	return nil
}

func decodeHudOverride(r *wire.Reader, s *ShipStatus) error {
	active, err := r.U8()
	if err != nil {
		return err
	}
	s.HudOverride = &HudOverrideStatus{Active: active != 0}
	return nil
}

func decodeHudOverrideMira(r *wire.Reader, s *ShipStatus) error {
	activeCount, err := r.U7V()
	if err != nil {
		return err
	}
	active := make([]HudOverrideMiraConsole, 0, activeCount)
	for i := uint32(0); i < activeCount; i++ {
		console, err := r.U8()
		if err != nil {
			return err
		}
		user, err := r.U8()
		if err != nil {
			return err
		}
		active = append(active, HudOverrideMiraConsole{ConsoleID: console, UserID: user})
	}
	completedCount, err := r.U7V()
	if err != nil {
		return err
	}
	completed, err := r.Bytes(int(completedCount))
	if err != nil {
		return err
	}
	s.HudOverrideMira = &HudOverrideStatusMiraHQ{
		ActiveConsoles:    active,
		CompletedConsoles: append([]byte(nil), completed...),
	}
	return nil
}

// decodeDoorsSkeldUpdate decodes the update-form doors record: a
// bitset-varint mask followed by mask.length open-flag bytes.
func decodeDoorsSkeldUpdate(r *wire.Reader, s *ShipStatus) error {
	mask, err := r.Bitset()
	if err != nil {
		return err
	}
	flags, err := r.Bytes(len(mask))
	if err != nil {
		return err
	}
	open := make([]bool, len(flags))
	for i, b := range flags {
		open[i] = b != 0
	}
	s.DoorsSkeld = &DoorsStatusSkeld{Open: open}
	return nil
}

// decodeDoorsSkeldInitial decodes the initial-form doors record: a fixed 13
// raw bytes, one per door.
func decodeDoorsSkeldInitial(r *wire.Reader, s *ShipStatus) error {
	raw, err := r.Bytes(13)
	if err != nil {
		return err
	}
	open := make([]bool, len(raw))
	for i, b := range raw {
		open[i] = b != 0
	}
	s.DoorsSkeld = &DoorsStatusSkeld{Open: open}
	return nil
}

func decodeDoorsPolus(r *wire.Reader, s *ShipStatus) error {
	timerCount, err := r.U8()
	if err != nil {
		return err
	}
	timers := make([]PolusDoorTimer, 0, timerCount)
	for i := uint8(0); i < timerCount; i++ {
		doorID, err := r.U8()
		if err != nil {
			return err
		}
		timer, err := r.F32LE()
		if err != nil {
			return err
		}
		timers = append(timers, PolusDoorTimer{DoorID: doorID, Timer: timer})
	}
	status, err := r.Bytes(16)
	if err != nil {
		return err
	}
	s.DoorsPolus = &DoorsStatusPolus{Timers: timers, Status: append([]byte(nil), status...)}
	return nil
}

func decodeSabotage(r *wire.Reader, s *ShipStatus) error {
	countdown, err := r.F32LE()
	if err != nil {
		return err
	}
	s.Sabotage = &SabotageStatus{Countdown: countdown}
	return nil
}

// Ship-status flag declarations, one ordered list per map (§4.4.2). The
// initial-form decoder ignores the index and walks the list unconditionally;
// the update-form decoder consults a bitset-varint mask first.
var skeldFlags = []shipStatusFlag{
	{3, decodeReactor},
	{7, decodeSwitch},
	{8, decodeLifeSupport},
	{10, decodeMedScan},
	{11, decodeSecurityCamera},
	{14, decodeHudOverride},
	{16, decodeDoorsSkeldUpdate},
	{17, decodeSabotage},
}

var skeldInitialDoors = shipStatusFlag{16, decodeDoorsSkeldInitial}

var miraHQFlags = []shipStatusFlag{
	{3, decodeReactor},
	{7, decodeSwitch},
	{8, decodeLifeSupport},
	{10, decodeMedScan},
	{14, decodeHudOverrideMira},
	{17, decodeSabotage},
}

var polusFlags = []shipStatusFlag{
	{7, decodeSwitch},
	{10, decodeMedScan},
	{11, decodeSecurityCamera},
	{14, decodeHudOverride},
	{16, decodeDoorsPolus},
	{17, decodeSabotage},
	{21, decodeReactor},
}

func flagsForMap(m GameMap) []shipStatusFlag {
	switch m {
	case MapSkeld:
		return skeldFlags
	case MapMiraHQ:
		return miraHQFlags
	case MapPolus:
		return polusFlags
	default:
		return nil
	}
}

// DecodeShipStatusInitial decodes the unconditional initial-spawn form: every
// declared sub-system appears in order, no flag mask prefix. Skeld's initial
// doors record is 13 raw bytes rather than the update form's bitset+flags.
func DecodeShipStatusInitial(m GameMap, payload []byte) (*ShipStatus, error) {
	r := wire.NewReader(payload)
	status := &ShipStatus{Map: m}
	flags := flagsForMap(m)
	for _, f := range flags {
		decode := f.decode
		if m == MapSkeld && f.index == skeldInitialDoors.index {
			decode = skeldInitialDoors.decode
		}
		if err := decode(r, status); err != nil {
			return nil, err
		}
	}
	return status, nil
}

// ApplyShipStatusUpdate decodes the flag-gated update form and applies it
// onto an existing ShipStatus in place, leaving sub-systems whose flag index
// is absent from the mask untouched (§4.4.2 Update).
func ApplyShipStatusUpdate(status *ShipStatus, payload []byte) error {
	r := wire.NewReader(payload)
	mask, err := r.Bitset()
	if err != nil {
		return err
	}
	for _, f := range flagsForMap(status.Map) {
		if !wire.HasBit(mask, f.index) {
			continue
		}
		if err := f.decode(r, status); err != nil {
			return err
		}
	}
	return nil
}

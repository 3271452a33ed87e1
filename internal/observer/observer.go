// Package observer implements the public boundary described in spec.md §6:
// a single ProcessDatagram entry point that folds one captured UDP payload
// into the tracked mirror, plus a read-only snapshot and change-subscription
// surface for external collaborators (voice-chat role assignment, websocket
// fan-out, ...). Those collaborators are out of scope; this package only
// exposes the boundary they consume.
package observer

import (
	"sync"

	"crewwire/internal/innernet"
	"crewwire/internal/logging"
	"crewwire/internal/snapshot"
	"crewwire/internal/state"
	"crewwire/internal/wire"
)

// Digest is the coarse change notification described in spec.md §6.2: round
// state, alive/dead player sets, and scene, without the full snapshot tree.
type Digest struct {
	RoundState   string
	Scene        string
	AlivePlayers []uint8
	DeadPlayers  []uint8
}

// ChangeFunc is a registerable callback invoked after a datagram that
// successfully updated state (§6.2). It receives the new snapshot and a
// coarse digest; either argument may be ignored by the subscriber.
type ChangeFunc func(snap map[string]any, digest Digest)

// Observer owns one game's mirror and serializes all access to it behind a
// single mutex, matching the "collaborators must serialize calls" contract
// of spec.md §5: the core itself is single-threaded cooperative.
type Observer struct {
	mu     sync.Mutex
	game   *state.Game
	logger *logging.Logger

	subMu sync.RWMutex
	subs  map[int]ChangeFunc
	nextI int
}

// New constructs an Observer with an empty mirror. A nil logger falls back
// to the process-wide default (logging.L()).
func New(logger *logging.Logger) *Observer {
	if logger == nil {
		logger = logging.L()
	}
	return &Observer{
		game:   state.NewGame(logger),
		logger: logger,
		subs:   make(map[int]ChangeFunc),
	}
}

// Subscribe registers a callback invoked after every datagram that updates
// state, and returns an unsubscribe function.
func (o *Observer) Subscribe(fn ChangeFunc) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	o.subMu.Lock()
	id := o.nextI
	o.nextI++
	o.subs[id] = fn
	o.subMu.Unlock()
	return func() {
		o.subMu.Lock()
		delete(o.subs, id)
		o.subMu.Unlock()
	}
}

// ProcessDatagram decodes one raw UDP payload through the Hazel frame layer
// and folds every recognized game sub-message into the mirror (§6.1). It
// returns true iff at least one game-layer sub-message was recognized;
// Ping/Ack/Hello/Disconnect frames, unrelated UDP, and Hazel-layer parse
// failures all return false without error. No malformed sub-message aborts
// the datagram: decode failures below the frame layer are logged and
// skipped (§7).
func (o *Observer) ProcessDatagram(payload []byte) bool {
	frame, err := wire.DecodeFrame(payload)
	if err != nil {
		o.logger.Debug("observer: dropping unparseable datagram", logging.Error(err))
		return false
	}
	if len(frame.SubFrames) == 0 {
		return false
	}

	o.mu.Lock()
	recognized := false
	for _, sub := range frame.SubFrames {
		if o.applySubFrame(sub) {
			recognized = true
		}
	}
	var snap map[string]any
	var digest Digest
	if recognized {
		snap = snapshot.Export(o.game)
		digest = o.digestLocked()
	}
	o.mu.Unlock()

	if recognized {
		o.publish(snap, digest)
	}
	return recognized
}

// applySubFrame decodes one Hazel sub-frame's game-layer envelope and folds
// its sub-messages into the mirror. Caller must hold o.mu.
func (o *Observer) applySubFrame(sub wire.SubFrame) bool {
	envelope, err := innernet.DecodeEnvelope(sub.Tag, sub.Payload)
	if err != nil {
		if err != innernet.ErrNotGameLayer {
			o.logger.Debug("observer: failed to decode hazel sub-frame", logging.Error(err))
		}
		return false
	}
	recognized := false
	for _, msg := range envelope.Messages {
		if o.applyGameMessage(msg) {
			recognized = true
		}
	}
	return recognized
}

// applyGameMessage dispatches one decoded game sub-message to the tracker.
// Caller must hold o.mu.
func (o *Observer) applyGameMessage(msg innernet.GameMessage) bool {
	switch msg.Tag {
	case innernet.GameMessageSpawn:
		spawn, err := innernet.DecodeSpawn(msg.Payload)
		if err != nil {
			o.logger.Warn("observer: failed to decode spawn", logging.Error(err))
			return false
		}
		o.game.Spawn(spawn)
		return true
	case innernet.GameMessageDespawn:
		netID, err := innernet.DecodeDespawn(msg.Payload)
		if err != nil {
			o.logger.Warn("observer: failed to decode despawn", logging.Error(err))
			return false
		}
		o.game.Despawn(netID)
		return true
	case innernet.GameMessageDataUpdate:
		update, err := innernet.DecodeDataUpdate(msg.Payload)
		if err != nil {
			o.logger.Warn("observer: failed to decode data update", logging.Error(err))
			return false
		}
		o.game.ApplyDataUpdate(update)
		return true
	case innernet.GameMessageRPC:
		rpc, err := innernet.DecodeRPC(msg.Payload)
		if err != nil {
			o.logger.Warn("observer: failed to decode rpc", logging.Error(err))
			return false
		}
		o.game.ApplyRPC(rpc)
		return true
	case innernet.GameMessageChangeScene:
		change, err := innernet.DecodeChangeScene(msg.Payload)
		if err != nil {
			o.logger.Warn("observer: failed to decode change scene", logging.Error(err))
			return false
		}
		o.game.ChangeScene(change)
		return true
	case innernet.GameMessageMarkReady:
		netID, err := innernet.DecodeMarkReady(msg.Payload)
		if err != nil {
			o.logger.Debug("observer: failed to decode mark ready", logging.Error(err))
			return false
		}
		o.game.MarkReady(netID)
		return true
	default:
		o.logger.Debug("observer: unknown game sub-message tag", logging.Int("tag", int(msg.Tag)))
		return false
	}
}

// Snapshot returns the structural export of the live mirror (§4.8, §6.2).
func (o *Observer) Snapshot() map[string]any {
	o.mu.Lock()
	defer o.mu.Unlock()
	return snapshot.Export(o.game)
}

// Digest returns the coarse change digest for the live mirror without
// building the full snapshot tree.
func (o *Observer) Digest() Digest {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.digestLocked()
}

func (o *Observer) digestLocked() Digest {
	d := Digest{
		RoundState: o.game.RoundState().String(),
		Scene:      o.game.Scene,
	}
	for _, obj := range o.game.Objects {
		if obj.Dead || obj.Class != innernet.ClassGameData {
			continue
		}
		attrs, ok := obj.Attrs.(*state.GameDataAttrs)
		if !ok {
			continue
		}
		for id, info := range attrs.Players {
			if info.IsDead {
				d.DeadPlayers = append(d.DeadPlayers, id)
			} else {
				d.AlivePlayers = append(d.AlivePlayers, id)
			}
		}
	}
	return d
}

func (o *Observer) publish(snap map[string]any, digest Digest) {
	o.subMu.RLock()
	defer o.subMu.RUnlock()
	for _, fn := range o.subs {
		fn(snap, digest)
	}
}

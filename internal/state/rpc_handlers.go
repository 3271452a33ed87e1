package state

import (
	"errors"

	"crewwire/internal/innernet"
)

// errSiblingMissing marks a PlayerPhysics RPC whose net_id−1 sibling lookup
// failed; per §7 this fails the handler entirely rather than applying a
// partial effect.
var errSiblingMissing = errors.New("state: sibling player control not found")

// rpcHandler applies the effect of one decoded RPC onto the mirror (§4.7).
type rpcHandler func(g *Game, obj *NetObject, payload []byte) error

func decodeRPC[T any](opcode innernet.RPCOpcode, payload []byte) (T, error) {
	var zero T
	decode, ok := innernet.RPCDecoders[opcode]
	if !ok {
		return zero, errors.New("state: no rpc decoder registered")
	}
	v, err := decode(payload)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, errors.New("state: unexpected rpc payload type")
	}
	return typed, nil
}

var rpcHandlers = map[innernet.ClassTag]map[innernet.RPCOpcode]rpcHandler{
	innernet.ClassPlayerControl: {
		innernet.RPCSetName: func(g *Game, obj *NetObject, payload []byte) error {
			attrs, ok := obj.Attrs.(*PlayerControlAttrs)
			if !ok {
				return nil
			}
			name, err := decodeRPC[string](innernet.RPCSetName, payload)
			if err != nil {
				return err
			}
			g.playerInfo(attrs.PlayerID).Name = name
			return nil
		},
		innernet.RPCSetColor: func(g *Game, obj *NetObject, payload []byte) error {
			attrs, ok := obj.Attrs.(*PlayerControlAttrs)
			if !ok {
				return nil
			}
			color, err := decodeRPC[uint8](innernet.RPCSetColor, payload)
			if err != nil {
				return err
			}
			g.playerInfo(attrs.PlayerID).ColorID = color
			return nil
		},
		innernet.RPCSetHat: func(g *Game, obj *NetObject, payload []byte) error {
			attrs, ok := obj.Attrs.(*PlayerControlAttrs)
			if !ok {
				return nil
			}
			hat, err := decodeRPC[uint32](innernet.RPCSetHat, payload)
			if err != nil {
				return err
			}
			g.playerInfo(attrs.PlayerID).HatID = hat
			return nil
		},
		innernet.RPCSetSkin: func(g *Game, obj *NetObject, payload []byte) error {
			attrs, ok := obj.Attrs.(*PlayerControlAttrs)
			if !ok {
				return nil
			}
			skin, err := decodeRPC[uint32](innernet.RPCSetSkin, payload)
			if err != nil {
				return err
			}
			g.playerInfo(attrs.PlayerID).SkinID = skin
			return nil
		},
		innernet.RPCSetPet: func(g *Game, obj *NetObject, payload []byte) error {
			attrs, ok := obj.Attrs.(*PlayerControlAttrs)
			if !ok {
				return nil
			}
			pet, err := decodeRPC[uint32](innernet.RPCSetPet, payload)
			if err != nil {
				return err
			}
			g.playerInfo(attrs.PlayerID).PetID = pet
			return nil
		},
		innernet.RPCCompleteTask: func(g *Game, obj *NetObject, payload []byte) error {
			attrs, ok := obj.Attrs.(*PlayerControlAttrs)
			if !ok {
				return nil
			}
			taskID, err := decodeRPC[uint32](innernet.RPCCompleteTask, payload)
			if err != nil {
				return err
			}
			info := g.playerInfo(attrs.PlayerID)
			for i := range info.Tasks {
				if uint32(info.Tasks[i].ID) == taskID {
					info.Tasks[i].Done = true
					return nil
				}
			}
			g.logger.Warn("complete_task: no matching task")
			return nil
		},
		innernet.RPCMurderPlayer: func(g *Game, obj *NetObject, payload []byte) error {
			targetNetID, err := decodeRPC[uint32](innernet.RPCMurderPlayer, payload)
			if err != nil {
				return err
			}
			_, targetAttrs, ok := g.playerControl(targetNetID)
			if !ok {
				return errSiblingMissing
			}
			g.playerInfo(targetAttrs.PlayerID).IsDead = true
			return nil
		},
		innernet.RPCGameOptions: func(g *Game, obj *NetObject, payload []byte) error {
			opts, err := decodeRPC[innernet.GameOptions](innernet.RPCGameOptions, payload)
			if err != nil {
				return err
			}
			g.Options = &opts
			return nil
		},
		innernet.RPCAddChat: func(g *Game, obj *NetObject, payload []byte) error {
			attrs, ok := obj.Attrs.(*PlayerControlAttrs)
			if !ok {
				return nil
			}
			text, err := decodeRPC[string](innernet.RPCAddChat, payload)
			if err != nil {
				return err
			}
			g.ChatLog = append(g.ChatLog, ChatEntry{SourcePlayerID: attrs.PlayerID, Text: text})
			return nil
		},
	},
	innernet.ClassPlayerPhysics: {
		innernet.RPCEnterVent: func(g *Game, obj *NetObject, _ []byte) error {
			return setInVent(g, obj, true)
		},
		innernet.RPCExitVent: func(g *Game, obj *NetObject, _ []byte) error {
			return setInVent(g, obj, false)
		},
	},
	innernet.ClassMeetingHud: {
		innernet.RPCCastVote: func(g *Game, obj *NetObject, payload []byte) error {
			_, err := decodeRPC[innernet.CastVotePayload](innernet.RPCCastVote, payload)
			return err
		},
		innernet.RPCVotingComplete: func(g *Game, obj *NetObject, payload []byte) error {
			result, err := decodeRPC[innernet.VotingCompletePayload](innernet.RPCVotingComplete, payload)
			if err != nil {
				return err
			}
			if result.ExiledID != 0xFF && !result.Tie {
				g.playerInfo(result.ExiledID).IsDead = true
			}
			return nil
		},
		innernet.RPCCloseMeetingHud: func(g *Game, obj *NetObject, _ []byte) error {
			obj.Dead = true
			return nil
		},
	},
	innernet.ClassGameData: {
		innernet.RPCPlayerInfo: func(g *Game, obj *NetObject, payload []byte) error {
			result, err := decodeRPC[innernet.PlayerInfoRPCPayload](innernet.RPCPlayerInfo, payload)
			if err != nil {
				return err
			}
			for _, entry := range result.Entries {
				info := g.playerInfo(entry.PlayerID)
				info.Name = entry.Info.Name
				info.IsDead = entry.Info.IsDead
				info.IsImpostor = entry.Info.IsImpostor
				info.Disconnected = entry.Info.Disconnected
			}
			return nil
		},
		innernet.RPCSetTasks: func(g *Game, obj *NetObject, payload []byte) error {
			result, err := decodeRPC[innernet.SetTasksPayload](innernet.RPCSetTasks, payload)
			if err != nil {
				return err
			}
			info := g.playerInfo(result.PlayerID)
			if len(info.Tasks) == len(result.TaskTypes) {
				for i := range info.Tasks {
					t := result.TaskTypes[i]
					info.Tasks[i].TaskType = &t
				}
				return nil
			}
			tasks := make([]innernet.Task, len(result.TaskTypes))
			for i := range result.TaskTypes {
				t := result.TaskTypes[i]
				tasks[i] = innernet.Task{ID: uint8(i), Done: false, TaskType: &t}
			}
			info.Tasks = tasks
			return nil
		},
	},
	innernet.ClassCustomNetworkTransform: {
		innernet.RPCCustomNetworkTransformSnapTo: func(g *Game, obj *NetObject, payload []byte) error {
			snap, err := decodeRPC[innernet.SnapToPayload](innernet.RPCCustomNetworkTransformSnapTo, payload)
			if err != nil {
				return err
			}
			attrs, ok := obj.Attrs.(*TransformAttrs)
			if !ok {
				attrs = &TransformAttrs{}
				obj.Attrs = attrs
			}
			if !innernet.AcceptsSequence(attrs.SequenceNum, snap.SequenceNum) {
				return nil
			}
			attrs.SequenceNum = snap.SequenceNum
			attrs.X, attrs.Y = snap.X, snap.Y
			attrs.XVel, attrs.YVel = 0, 0
			return nil
		},
	},
}

// setInVent resolves the PlayerPhysics object's owning PlayerControl via
// net_id−1 (§3.3, §9) and, only if the sibling resolves, sets InVent.
func setInVent(g *Game, obj *NetObject, value bool) error {
	if _, _, ok := g.playerControl(obj.NetID - 1); !ok {
		return errSiblingMissing
	}
	attrs, ok := obj.Attrs.(*PlayerPhysicsAttrs)
	if !ok {
		attrs = &PlayerPhysicsAttrs{}
		obj.Attrs = attrs
	}
	attrs.InVent = value
	return nil
}

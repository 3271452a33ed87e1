// Package snapshot exports a structural, JSON-equivalent view of a live
// state.Game mirror for external subscribers (§4.8). The format is not a
// stable contract: callers must tolerate new keys appearing between
// versions.
package snapshot

import (
	"fmt"
	"sort"
	"strconv"

	"google.golang.org/protobuf/types/known/structpb"

	"crewwire/internal/innernet"
	"crewwire/internal/state"
)

// Export produces the structural tree for g: game options, chat log, scene,
// derived round state, and every live net-object keyed by its decimal net
// id. Dead net-objects and back-references to g are omitted.
func Export(g *state.Game) map[string]any {
	tree := map[string]any{
		"scene":       g.Scene,
		"round_state": g.RoundState().String(),
		"game_options": exportGameOptions(g.Options),
		"chat_log":    exportChatLog(g.ChatLog),
		"net_objects": exportObjects(g.Objects),
	}
	return tree
}

// Proto re-encodes Export's output as a structpb.Struct: a structural,
// schema-less protobuf value, which is exactly what spec.md §4.8 calls for
// ("structural JSON-equivalent, not a stable contract"). No .proto schema or
// generated code is involved; structpb is a published well-known type.
func Proto(g *state.Game) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(Export(g))
	if err != nil {
		return nil, fmt.Errorf("snapshot: convert to structpb.Struct: %w", err)
	}
	return s, nil
}

func exportChatLog(log []state.ChatEntry) []any {
	entries := make([]any, 0, len(log))
	for _, entry := range log {
		entries = append(entries, map[string]any{
			"source_player_id": float64(entry.SourcePlayerID),
			"text":             entry.Text,
		})
	}
	return entries
}

func exportObjects(objects map[uint32]*state.NetObject) map[string]any {
	out := make(map[string]any, len(objects))
	ids := make([]uint32, 0, len(objects))
	for id := range objects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		obj := objects[id]
		if obj.Dead {
			continue
		}
		out[strconv.FormatUint(uint64(id), 10)] = exportObject(obj)
	}
	return out
}

func exportObject(obj *state.NetObject) map[string]any {
	entry := map[string]any{
		"class": obj.Class.String(),
	}
	if attrs := exportAttrs(obj.Attrs); attrs != nil {
		entry["attrs"] = attrs
	}
	return entry
}

func exportAttrs(attrs any) any {
	switch v := attrs.(type) {
	case *state.GameDataAttrs:
		return exportGameData(v)
	case *state.MeetingHudAttrs:
		return exportMeetingHud(v)
	case *state.PlayerControlAttrs:
		return map[string]any{"player_id": float64(v.PlayerID)}
	case *state.PlayerPhysicsAttrs:
		return map[string]any{"in_vent": v.InVent}
	case *state.TransformAttrs:
		return exportTransform(v)
	case *innernet.ShipStatus:
		return exportShipStatus(v)
	default:
		return nil
	}
}

func exportGameData(attrs *state.GameDataAttrs) map[string]any {
	ids := make([]uint8, 0, len(attrs.Players))
	for id := range attrs.Players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	players := make([]any, 0, len(ids))
	for _, id := range ids {
		players = append(players, exportPlayerInfo(attrs.Players[id]))
	}
	return map[string]any{"players": players}
}

func exportPlayerInfo(info *innernet.PlayerInfo) map[string]any {
	tasks := make([]any, 0, len(info.Tasks))
	for _, task := range info.Tasks {
		entry := map[string]any{
			"id":   float64(task.ID),
			"done": task.Done,
		}
		if task.TaskType != nil {
			entry["task_type"] = float64(*task.TaskType)
		}
		tasks = append(tasks, entry)
	}
	return map[string]any{
		"id":           float64(info.ID),
		"name":         info.Name,
		"color_id":     float64(info.ColorID),
		"hat_id":       float64(info.HatID),
		"pet_id":       float64(info.PetID),
		"skin_id":      float64(info.SkinID),
		"is_dead":      info.IsDead,
		"is_impostor":  info.IsImpostor,
		"disconnected": info.Disconnected,
		"tasks":        tasks,
	}
}

func exportMeetingHud(attrs *state.MeetingHudAttrs) map[string]any {
	votes := make([]any, 0, len(attrs.Votes))
	for _, v := range attrs.Votes {
		votes = append(votes, exportVote(v))
	}
	return map[string]any{"votes": votes}
}

func exportVote(v innernet.Vote) map[string]any {
	return map[string]any{
		"is_dead":      v.IsDead,
		"has_voted":    v.HasVoted,
		"was_reporter": v.WasReporter,
		"voted_for":    float64(v.VotedFor),
	}
}

func exportTransform(attrs *state.TransformAttrs) map[string]any {
	return map[string]any{
		"sequence_num": float64(attrs.SequenceNum),
		"x":            float64(attrs.X),
		"y":            float64(attrs.Y),
		"x_vel":        float64(attrs.XVel),
		"y_vel":        float64(attrs.YVel),
	}
}

func exportGameOptions(opts *innernet.GameOptions) any {
	if opts == nil {
		return nil
	}
	return map[string]any{
		"version":            float64(opts.Version),
		"max_players":        float64(opts.MaxPlayers),
		"keywords":           float64(opts.Keywords),
		"map":                mapName(opts.Map),
		"player_speed":       float64(opts.PlayerSpeed),
		"player_vision":      float64(opts.PlayerVision),
		"imposter_vision":    float64(opts.ImposterVision),
		"kill_cooldown":      float64(opts.KillCooldown),
		"common_tasks":       float64(opts.CommonTasks),
		"long_tasks":         float64(opts.LongTasks),
		"short_tasks":        float64(opts.ShortTasks),
		"emergency_meetings": float64(opts.EmergencyMeetings),
		"imposter_count":     float64(opts.ImposterCount),
		"kill_distance":      killDistanceName(opts.KillDistance),
		"discussion_time":    float64(opts.DiscussionTime),
		"voting_time":        float64(opts.VotingTime),
		"is_defaults":        opts.IsDefaults,
		"emergency_cooldown": float64(opts.EmergencyCooldown),
		"confirm_ejects":     opts.ConfirmEjects,
		"visual_tasks":       opts.VisualTasks,
	}
}

func mapName(m innernet.GameMap) string {
	switch m {
	case innernet.MapSkeld:
		return "SKELD"
	case innernet.MapMiraHQ:
		return "MIRA_HQ"
	case innernet.MapPolus:
		return "POLUS"
	default:
		return "UNKNOWN_MAP"
	}
}

func killDistanceName(k innernet.KillDistance) string {
	switch k {
	case innernet.KillDistanceShort:
		return "SHORT"
	case innernet.KillDistanceMedium:
		return "MEDIUM"
	case innernet.KillDistanceLong:
		return "LONG"
	default:
		return "UNKNOWN_KILL_DISTANCE"
	}
}

// exportShipStatus renders only the sub-systems populated for this map
// (§4.4.2): each field is omitted, not null, when the class never declares
// it, since a nil pointer there means "not part of this map" rather than
// "not yet updated".
func exportShipStatus(s *innernet.ShipStatus) map[string]any {
	out := map[string]any{"map": mapName(s.Map)}
	if s.Reactor != nil {
		users := make([]any, 0, len(s.Reactor.Users))
		for _, u := range s.Reactor.Users {
			users = append(users, map[string]any{"user_id": float64(u.UserID), "console_id": float64(u.ConsoleID)})
		}
		out["reactor"] = map[string]any{"countdown": float64(s.Reactor.Countdown), "users": users}
	}
	if s.Switch != nil {
		out["switch"] = map[string]any{
			"expected": float64(s.Switch.Expected),
			"active":   float64(s.Switch.Active),
			"value":    float64(s.Switch.Value),
		}
	}
	if s.LifeSupport != nil {
		consoles := make([]any, 0, len(s.LifeSupport.CompletedConsoles))
		for _, c := range s.LifeSupport.CompletedConsoles {
			consoles = append(consoles, float64(c))
		}
		out["life_support"] = map[string]any{
			"countdown":          float64(s.LifeSupport.Countdown),
			"completed_consoles": consoles,
		}
	}
	if s.MedScan != nil {
		out["med_scan"] = map[string]any{"user_ids": byteSliceToAny(s.MedScan.UserIDs)}
	}
	if s.SecurityCamera != nil {
		out["security_camera"] = map[string]any{"user_ids": byteSliceToAny(s.SecurityCamera.UserIDs)}
	}
	if s.HudOverride != nil {
		out["hud_override"] = map[string]any{"active": s.HudOverride.Active}
	}
	if s.HudOverrideMira != nil {
		active := make([]any, 0, len(s.HudOverrideMira.ActiveConsoles))
		for _, c := range s.HudOverrideMira.ActiveConsoles {
			active = append(active, map[string]any{"console_id": float64(c.ConsoleID), "user_id": float64(c.UserID)})
		}
		out["hud_override"] = map[string]any{
			"active_consoles":    active,
			"completed_consoles": byteSliceToAny(s.HudOverrideMira.CompletedConsoles),
		}
	}
	if s.DoorsSkeld != nil {
		doors := make([]any, 0, len(s.DoorsSkeld.Open))
		for _, o := range s.DoorsSkeld.Open {
			doors = append(doors, o)
		}
		out["doors"] = map[string]any{"open": doors}
	}
	if s.DoorsPolus != nil {
		timers := make([]any, 0, len(s.DoorsPolus.Timers))
		for _, t := range s.DoorsPolus.Timers {
			timers = append(timers, map[string]any{"door_id": float64(t.DoorID), "timer": float64(t.Timer)})
		}
		out["doors"] = map[string]any{"timers": timers, "status": byteSliceToAny(s.DoorsPolus.Status)}
	}
	if s.Sabotage != nil {
		out["sabotage"] = map[string]any{"countdown": float64(s.Sabotage.Countdown)}
	}
	return out
}

func byteSliceToAny(b []byte) []any {
	out := make([]any, len(b))
	for i, v := range b {
		out[i] = float64(v)
	}
	return out
}

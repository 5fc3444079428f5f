package signaling

import (
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/teamparakram16-pixel/Code4Bharat-sub002/pkg/internal/models"
)

// Pusher delivers one marshaled packet to a connected client. It must not
// block; a false return means the packet was dropped.
type Pusher interface {
	Push(data []byte) bool
}

type MemberInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type member struct {
	id   string
	name string
	out  Pusher
}

type room struct {
	id      string
	members map[string]*member
	order   []string
}

func (r *room) snapshot(except string) []MemberInfo {
	var infos []MemberInfo
	for _, id := range r.order {
		if id == except {
			continue
		}
		if m, ok := r.members[id]; ok {
			infos = append(infos, MemberInfo{ID: m.id, Name: m.name})
		}
	}
	return infos
}

// RoomRegistry tracks ephemeral call rooms and their members, and relays
// signaling traffic between them. It holds no media and persists nothing:
// a room exists from the first join until the last leave.
type RoomRegistry struct {
	mu       sync.RWMutex
	rooms    map[string]*room
	byClient map[string]string
	strategy NegotiationStrategy
}

func NewRoomRegistry(strategy NegotiationStrategy) *RoomRegistry {
	if strategy == nil {
		strategy = MeshStrategy{}
	}
	return &RoomRegistry{
		rooms:    make(map[string]*room),
		byClient: make(map[string]string),
		strategy: strategy,
	}
}

// Join registers the client in the room, creating the room when needed.
// The caller receives the snapshot of members that were present before it,
// and every one of those members receives a single user-joined packet.
func (v *RoomRegistry) Join(roomId, clientId, displayName string, out Pusher) []MemberInfo {
	v.mu.Lock()
	defer v.mu.Unlock()

	if prev, ok := v.byClient[clientId]; ok && prev != roomId {
		v.leaveLocked(clientId)
	}

	target, ok := v.rooms[roomId]
	if !ok {
		target = &room{
			id:      roomId,
			members: make(map[string]*member),
		}
		v.rooms[roomId] = target
	}

	existing := target.snapshot(clientId)
	initiators := v.strategy.Initiators(existing)

	if _, ok := target.members[clientId]; !ok {
		target.order = append(target.order, clientId)
	}
	target.members[clientId] = &member{id: clientId, name: displayName, out: out}
	v.byClient[clientId] = roomId

	for _, info := range existing {
		peer := target.members[info.ID]
		if peer == nil {
			continue
		}
		packet := models.UnifiedCommand{
			Action: models.CommandUserJoined,
			Payload: map[string]any{
				"id":       clientId,
				"name":     displayName,
				"initiate": lo.Contains(initiators, info.ID),
			},
		}
		if !peer.out.Push(packet.Marshal()) {
			log.Debug().Str("room", roomId).Str("peer", info.ID).Msg("Dropped user-joined packet, peer queue is full...")
		}
	}

	return existing
}

// Leave removes the client from its room and notifies the remaining members.
// The room is discarded once its membership reaches zero.
func (v *RoomRegistry) Leave(clientId string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.leaveLocked(clientId)
}

func (v *RoomRegistry) leaveLocked(clientId string) {
	roomId, ok := v.byClient[clientId]
	if !ok {
		return
	}
	delete(v.byClient, clientId)

	target, ok := v.rooms[roomId]
	if !ok {
		return
	}
	delete(target.members, clientId)
	target.order = lo.Without(target.order, clientId)

	if len(target.members) == 0 {
		delete(v.rooms, roomId)
		log.Debug().Str("room", roomId).Msg("Last member left, room discarded...")
		return
	}

	packet := models.UnifiedCommand{
		Action:  models.CommandUserLeft,
		Payload: map[string]any{"id": clientId},
	}.Marshal()
	for _, peer := range target.members {
		_ = peer.out.Push(packet)
	}
}

// Signal forwards the envelope verbatim to the target. Delivery is best
// effort: an unknown, departed, or out-of-room target is a silent no-op.
// The target must share a room with the sender or the packet is dropped.
func (v *RoomRegistry) Signal(fromId, targetId string, envelope models.SignalEnvelope) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	roomId, ok := v.byClient[fromId]
	if !ok || v.byClient[targetId] != roomId {
		return
	}
	target, ok := v.rooms[roomId]
	if !ok {
		return
	}
	peer, ok := target.members[targetId]
	if !ok {
		return
	}

	packet := models.UnifiedCommand{
		Action: models.CommandSignal,
		Payload: models.SignalPayload{
			From: fromId,
			Data: envelope,
		},
	}
	if !peer.out.Push(packet.Marshal()) {
		log.Debug().Str("room", roomId).Str("peer", targetId).Msg("Dropped signal packet, peer queue is full...")
	}
}

// BroadcastChat relays a room-scoped text message to every other member of
// the sender's room. No persistence, no delivery confirmation, no replay.
func (v *RoomRegistry) BroadcastChat(fromId, text, sender string) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	roomId, ok := v.byClient[fromId]
	if !ok {
		return
	}
	target, ok := v.rooms[roomId]
	if !ok {
		return
	}

	packet := models.UnifiedCommand{
		Action: models.CommandChatMessage,
		Payload: models.ChatMessagePayload{
			Text:   text,
			Sender: sender,
		},
	}.Marshal()
	for id, peer := range target.members {
		if id == fromId {
			continue
		}
		_ = peer.out.Push(packet)
	}
}

// Peers returns the current membership snapshot of a room, or false when the
// room does not exist.
func (v *RoomRegistry) Peers(roomId string) ([]MemberInfo, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	target, ok := v.rooms[roomId]
	if !ok {
		return nil, false
	}
	return target.snapshot(""), true
}

// RoomOf reports the room the client is currently a member of.
func (v *RoomRegistry) RoomOf(clientId string) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	roomId, ok := v.byClient[clientId]
	return roomId, ok
}

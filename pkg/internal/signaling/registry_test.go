package signaling

import (
	"sync"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/pion/webrtc/v3"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamparakram16-pixel/Code4Bharat-sub002/pkg/internal/models"
)

type fakePusher struct {
	mu      sync.Mutex
	packets [][]byte
	full    bool
}

func (f *fakePusher) Push(data []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.full {
		return false
	}
	f.packets = append(f.packets, append([]byte(nil), data...))
	return true
}

type receivedPacket struct {
	Action  string              `json:"action"`
	Message string              `json:"message"`
	Payload jsoniter.RawMessage `json:"payload"`
}

func (f *fakePusher) received(t *testing.T, action string) []receivedPacket {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []receivedPacket
	for _, raw := range f.packets {
		var packet receivedPacket
		require.NoError(t, jsoniter.Unmarshal(raw, &packet))
		if packet.Action == action {
			out = append(out, packet)
		}
	}
	return out
}

func peerIds(infos []MemberInfo) []string {
	return lo.Map(infos, func(item MemberInfo, index int) string {
		return item.ID
	})
}

func TestJoinSnapshotExcludesSelf(t *testing.T) {
	registry := NewRoomRegistry(nil)

	alice := &fakePusher{}
	bob := &fakePusher{}

	existing := registry.Join("consult-1", "alice", "Alice", alice)
	assert.Empty(t, existing)

	existing = registry.Join("consult-1", "bob", "Bob", bob)
	assert.Equal(t, []string{"alice"}, peerIds(existing))

	// Exactly one user-joined at the pre-existing member, none at the joiner.
	joins := alice.received(t, models.CommandUserJoined)
	require.Len(t, joins, 1)

	var payload struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Initiate bool   `json:"initiate"`
	}
	require.NoError(t, jsoniter.Unmarshal(joins[0].Payload, &payload))
	assert.Equal(t, "bob", payload.ID)
	assert.Equal(t, "Bob", payload.Name)
	assert.True(t, payload.Initiate)

	assert.Empty(t, bob.received(t, models.CommandUserJoined))
}

func TestMembershipFollowsJoinsAndLeaves(t *testing.T) {
	registry := NewRoomRegistry(nil)

	registry.Join("consult-1", "alice", "Alice", &fakePusher{})
	registry.Join("consult-1", "bob", "Bob", &fakePusher{})
	registry.Join("consult-1", "carol", "Carol", &fakePusher{})

	peers, ok := registry.Peers("consult-1")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"alice", "bob", "carol"}, peerIds(peers))

	registry.Leave("bob")

	peers, ok = registry.Peers("consult-1")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"alice", "carol"}, peerIds(peers))

	_, ok = registry.RoomOf("bob")
	assert.False(t, ok)
}

func TestLeaveNotifiesRemainingMembers(t *testing.T) {
	registry := NewRoomRegistry(nil)

	alice := &fakePusher{}
	registry.Join("consult-1", "alice", "Alice", alice)
	registry.Join("consult-1", "bob", "Bob", &fakePusher{})

	registry.Leave("bob")

	lefts := alice.received(t, models.CommandUserLeft)
	require.Len(t, lefts, 1)

	var payload struct {
		ID string `json:"id"`
	}
	require.NoError(t, jsoniter.Unmarshal(lefts[0].Payload, &payload))
	assert.Equal(t, "bob", payload.ID)
}

func TestRoomDiscardedAfterLastLeave(t *testing.T) {
	registry := NewRoomRegistry(nil)

	registry.Join("consult-1", "alice", "Alice", &fakePusher{})
	registry.Join("consult-1", "bob", "Bob", &fakePusher{})
	registry.Leave("alice")
	registry.Leave("bob")

	_, ok := registry.Peers("consult-1")
	assert.False(t, ok)

	// A later join with the same id starts a fresh membership.
	existing := registry.Join("consult-1", "dave", "Dave", &fakePusher{})
	assert.Empty(t, existing)
}

func TestRejoinMovesClientBetweenRooms(t *testing.T) {
	registry := NewRoomRegistry(nil)

	pusher := &fakePusher{}
	registry.Join("consult-1", "alice", "Alice", pusher)
	registry.Join("consult-2", "alice", "Alice", pusher)

	_, ok := registry.Peers("consult-1")
	assert.False(t, ok)

	roomId, ok := registry.RoomOf("alice")
	require.True(t, ok)
	assert.Equal(t, "consult-2", roomId)
}

func TestSignalDeliveredVerbatimExactlyOnce(t *testing.T) {
	registry := NewRoomRegistry(nil)

	alice := &fakePusher{}
	bob := &fakePusher{}
	carol := &fakePusher{}
	registry.Join("consult-1", "alice", "Alice", alice)
	registry.Join("consult-1", "bob", "Bob", bob)
	registry.Join("consult-1", "carol", "Carol", carol)

	envelope := models.SignalEnvelope{
		SDP: &webrtc.SessionDescription{
			Type: webrtc.SDPTypeOffer,
			SDP:  "v=0\r\no=- 46117317 2 IN IP4 127.0.0.1\r\ns=-\r\n",
		},
	}
	registry.Signal("alice", "bob", envelope)

	signals := bob.received(t, models.CommandSignal)
	require.Len(t, signals, 1)

	var payload models.SignalPayload
	require.NoError(t, jsoniter.Unmarshal(signals[0].Payload, &payload))
	assert.Equal(t, "alice", payload.From)
	require.NotNil(t, payload.Data.SDP)
	assert.Equal(t, envelope.SDP.SDP, payload.Data.SDP.SDP)
	assert.Equal(t, envelope.SDP.Type, payload.Data.SDP.Type)
	assert.Nil(t, payload.Data.ICE)

	assert.Empty(t, alice.received(t, models.CommandSignal))
	assert.Empty(t, carol.received(t, models.CommandSignal))
}

func TestSignalIceCandidateRoundtrip(t *testing.T) {
	registry := NewRoomRegistry(nil)

	bob := &fakePusher{}
	registry.Join("consult-1", "alice", "Alice", &fakePusher{})
	registry.Join("consult-1", "bob", "Bob", bob)

	mid := "0"
	envelope := models.SignalEnvelope{
		ICE: &webrtc.ICECandidateInit{
			Candidate: "candidate:1 1 UDP 2122252543 192.0.2.1 55400 typ host",
			SDPMid:    &mid,
		},
	}
	registry.Signal("alice", "bob", envelope)

	signals := bob.received(t, models.CommandSignal)
	require.Len(t, signals, 1)

	var payload models.SignalPayload
	require.NoError(t, jsoniter.Unmarshal(signals[0].Payload, &payload))
	require.NotNil(t, payload.Data.ICE)
	assert.Equal(t, envelope.ICE.Candidate, payload.Data.ICE.Candidate)
	require.NotNil(t, payload.Data.ICE.SDPMid)
	assert.Equal(t, mid, *payload.Data.ICE.SDPMid)
	assert.Nil(t, payload.Data.SDP)
}

func TestSignalOutsideSharedRoomDropped(t *testing.T) {
	registry := NewRoomRegistry(nil)

	stranger := &fakePusher{}
	registry.Join("consult-1", "alice", "Alice", &fakePusher{})
	registry.Join("consult-2", "mallory", "Mallory", stranger)

	registry.Signal("alice", "mallory", models.SignalEnvelope{})

	assert.Empty(t, stranger.received(t, models.CommandSignal))
}

func TestSignalToDepartedTargetIsNoop(t *testing.T) {
	registry := NewRoomRegistry(nil)

	registry.Join("consult-1", "alice", "Alice", &fakePusher{})
	registry.Join("consult-1", "bob", "Bob", &fakePusher{})
	registry.Leave("bob")

	// Must not panic, must not surface an error anywhere.
	registry.Signal("alice", "bob", models.SignalEnvelope{})
	registry.Signal("alice", "never-existed", models.SignalEnvelope{})
}

func TestChatBroadcastSkipsSender(t *testing.T) {
	registry := NewRoomRegistry(nil)

	alice := &fakePusher{}
	bob := &fakePusher{}
	carol := &fakePusher{}
	registry.Join("consult-1", "alice", "Alice", alice)
	registry.Join("consult-1", "bob", "Bob", bob)
	registry.Join("consult-1", "carol", "Carol", carol)

	registry.BroadcastChat("alice", "hello there", "Alice")

	for _, peer := range []*fakePusher{bob, carol} {
		messages := peer.received(t, models.CommandChatMessage)
		require.Len(t, messages, 1)

		var payload models.ChatMessagePayload
		require.NoError(t, jsoniter.Unmarshal(messages[0].Payload, &payload))
		assert.Equal(t, "hello there", payload.Text)
		assert.Equal(t, "Alice", payload.Sender)
	}

	assert.Empty(t, alice.received(t, models.CommandChatMessage))
}

func TestFullQueueDropsWithoutDisturbingMembership(t *testing.T) {
	registry := NewRoomRegistry(nil)

	deaf := &fakePusher{full: true}
	registry.Join("consult-1", "alice", "Alice", deaf)
	registry.Join("consult-1", "bob", "Bob", &fakePusher{})

	registry.Signal("bob", "alice", models.SignalEnvelope{})
	registry.BroadcastChat("bob", "anyone?", "Bob")

	peers, ok := registry.Peers("consult-1")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"alice", "bob"}, peerIds(peers))
}

func TestConcurrentJoinLeaveKeepsRegistryConsistent(t *testing.T) {
	registry := NewRoomRegistry(nil)

	var wg sync.WaitGroup
	clients := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for _, id := range clients {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			registry.Join("consult-1", id, id, &fakePusher{})
		}(id)
	}
	wg.Wait()

	peers, ok := registry.Peers("consult-1")
	require.True(t, ok)
	assert.Len(t, peers, len(clients))

	for _, id := range clients {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			registry.Leave(id)
		}(id)
	}
	wg.Wait()

	_, ok = registry.Peers("consult-1")
	assert.False(t, ok)
}

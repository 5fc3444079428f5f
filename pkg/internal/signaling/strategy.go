package signaling

import "github.com/samber/lo"

// NegotiationStrategy decides which current members open the offer toward a
// newcomer. The registry only relays; topology is a policy of the strategy,
// so a routed (SFU-style) strategy can replace the mesh without touching
// the membership or signaling primitives.
type NegotiationStrategy interface {
	Initiators(existing []MemberInfo) []string
}

// MeshStrategy connects every participant with every other one. Each
// pre-existing member creates an offer toward the newcomer and the newcomer
// answers, yielding O(N²) peer connections. Fine for consultation-sized
// rooms only.
type MeshStrategy struct{}

func (MeshStrategy) Initiators(existing []MemberInfo) []string {
	return lo.Map(existing, func(item MemberInfo, index int) string {
		return item.ID
	})
}

// HostStrategy routes every negotiation through the first member of the
// room. Late joiners only exchange offers with the host.
type HostStrategy struct{}

func (HostStrategy) Initiators(existing []MemberInfo) []string {
	if len(existing) == 0 {
		return nil
	}
	return []string{existing[0].ID}
}

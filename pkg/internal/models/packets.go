package models

import (
	"github.com/pion/webrtc/v3"

	jsoniter "github.com/json-iterator/go"
)

// Client to server actions
const (
	CommandJoinCall    = "join-call"
	CommandLeaveCall   = "leave-call"
	CommandSignal      = "signal"
	CommandChatMessage = "chat-message"
)

// Server to client actions
const (
	CommandExistingUsers = "existing-users"
	CommandUserJoined    = "user-joined"
	CommandUserLeft      = "user-left"
)

type UnifiedCommand struct {
	Action  string `json:"action"`
	Message string `json:"message,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

func (v UnifiedCommand) Marshal() []byte {
	data, _ := jsoniter.Marshal(v)
	return data
}

func UnifiedCommandFromError(err error) UnifiedCommand {
	return UnifiedCommand{
		Action:  "error",
		Message: err.Error(),
	}
}

// SignalEnvelope carries exactly one negotiation payload between two peers.
// The relay forwards it verbatim and never inspects the inner data.
type SignalEnvelope struct {
	SDP *webrtc.SessionDescription `json:"sdp,omitempty"`
	ICE *webrtc.ICECandidateInit   `json:"ice,omitempty"`
}

// Command payloads

type JoinCallPayload struct {
	Room        string `json:"room"`
	DisplayName string `json:"display_name"`
}

type SignalPayload struct {
	To   string         `json:"to,omitempty"`
	From string         `json:"from,omitempty"`
	Data SignalEnvelope `json:"data"`
}

type ChatMessagePayload struct {
	Text   string `json:"text"`
	Sender string `json:"sender"`
}

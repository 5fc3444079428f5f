package models

import (
	"gorm.io/datatypes"
)

type ChatType = string

const (
	ChatTypePrivate = ChatType("private")
	ChatTypeGroup   = ChatType("group")
)

type InviteStatus = string

const (
	InviteStatusPending  = InviteStatus("pending")
	InviteStatusAccepted = InviteStatus("accepted")
	InviteStatusRejected = InviteStatus("rejected")
)

// ChatRequest is an invitation to chat, private or group. Invitees settle
// their own entry via accept or reject; the owner never mutates the request
// after creation. ChatID is monotonic: once set it is never overwritten.
type ChatRequest struct {
	BaseModel

	Type       ChatType          `json:"type"`
	GroupName  string            `json:"group_name"`
	ChatReason string            `json:"chat_reason"`
	Metadata   datatypes.JSONMap `json:"metadata"`
	Users      []ChatRequestUser `json:"users" gorm:"foreignKey:RequestID"`
	OwnerType  AccountType       `json:"owner_type"`
	OwnerID    uint              `json:"owner_id"`
	Owner      Account           `json:"owner"`
	ChatID     *uint             `json:"chat_id"`
	Chat       *Chat             `json:"chat"`
}

func (v ChatRequest) IsGroup() bool {
	return v.Type == ChatTypeGroup
}

type ChatRequestUser struct {
	BaseModel

	RequestID uint         `json:"request_id"`
	AccountID uint         `json:"account_id"`
	Account   Account      `json:"account"`
	UserType  AccountType  `json:"user_type"`
	Status    InviteStatus `json:"status"`

	SimilarPrakrithiPercentage *float64 `json:"similar_prakrithi_percentage,omitempty"`
}

// Chat is materialized at most once per ChatRequest, the first time an
// invitee accepts. Its participant set only ever grows via later acceptances.
type Chat struct {
	BaseModel

	Uuid          string            `json:"uuid"`
	Name          string            `json:"name"`
	IsGroup       bool              `json:"is_group"`
	LatestMessage string            `json:"latest_message"`
	Participants  []ChatParticipant `json:"participants" gorm:"foreignKey:ChatID"`
	OwnerID       uint              `json:"owner_id"`
	Owner         Account           `json:"owner"`
	RequestID     uint              `json:"request_id"`
}

func (v Chat) DisplayText() string {
	if v.IsGroup {
		return v.Name
	}
	return "DM"
}

type ChatParticipant struct {
	BaseModel

	ChatID    uint        `json:"chat_id"`
	AccountID uint        `json:"account_id"`
	Account   Account     `json:"account"`
	UserType  AccountType `json:"user_type"`
}

package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/teamparakram16-pixel/Code4Bharat-sub002/pkg/internal/cache"
	"github.com/teamparakram16-pixel/Code4Bharat-sub002/pkg/internal/database"
	"github.com/teamparakram16-pixel/Code4Bharat-sub002/pkg/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Group invitations cap out at five invitees, matching the tagging surface
// of the rest of the platform.
const MaxGroupInvitees = 5

type ChatRequestInvitee struct {
	AccountID                  uint               `json:"account_id"`
	UserType                   models.AccountType `json:"user_type"`
	SimilarPrakrithiPercentage *float64           `json:"similar_prakrithi_percentage,omitempty"`
}

func GetChatRequest(id uint) (models.ChatRequest, error) {
	var request models.ChatRequest
	// Explicit condition; a struct condition drops a zero id and matches
	// whatever row comes first.
	if err := database.C.
		Where("id = ?", id).
		Preload("Owner").
		Preload("Users").
		Preload("Users.Account").
		Preload("Chat").
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return request, ErrRequestNotFound
		}
		return request, err
	}
	return request, nil
}

// NewChatRequest creates an invitation with every entry pending. A private
// request targets exactly one user; a group request carries a name and one
// to five users.
func NewChatRequest(owner models.Account, chatType models.ChatType, groupName, chatReason string, metadata datatypes.JSONMap, invitees []ChatRequestInvitee) (models.ChatRequest, error) {
	switch chatType {
	case models.ChatTypePrivate:
		if len(invitees) != 1 {
			return models.ChatRequest{}, ValidationError{Field: "users", Reason: "private chat request targets exactly one user"}
		}
	case models.ChatTypeGroup:
		if len(groupName) == 0 {
			return models.ChatRequest{}, ValidationError{Field: "group_name", Reason: "group chat request requires a name"}
		}
		if len(invitees) == 0 {
			return models.ChatRequest{}, ValidationError{Field: "users", Reason: "group chat request requires at least one user"}
		}
		if len(invitees) > MaxGroupInvitees {
			return models.ChatRequest{}, ValidationError{Field: "users", Reason: fmt.Sprintf("group chat request allows up to %d users", MaxGroupInvitees)}
		}
	default:
		return models.ChatRequest{}, ValidationError{Field: "type", Reason: "chat type must be private or group"}
	}

	seen := make(map[uint]bool)
	for _, invitee := range invitees {
		if invitee.AccountID == 0 {
			return models.ChatRequest{}, ValidationError{Field: "users", Reason: "invitee account is required"}
		}
		if invitee.AccountID == owner.ID {
			return models.ChatRequest{}, ValidationError{Field: "users", Reason: "you cannot invite yourself"}
		}
		if seen[invitee.AccountID] {
			return models.ChatRequest{}, ValidationError{Field: "users", Reason: "duplicated invitee"}
		}
		seen[invitee.AccountID] = true
	}

	request := models.ChatRequest{
		Type:       chatType,
		GroupName:  groupName,
		ChatReason: chatReason,
		Metadata:   metadata,
		OwnerID:    owner.ID,
		OwnerType:  owner.Type,
		Users: lo.Map(invitees, func(item ChatRequestInvitee, index int) models.ChatRequestUser {
			return models.ChatRequestUser{
				AccountID:                  item.AccountID,
				UserType:                   item.UserType,
				Status:                     models.InviteStatusPending,
				SimilarPrakrithiPercentage: item.SimilarPrakrithiPercentage,
			}
		}),
	}

	if err := database.C.Save(&request).Error; err != nil {
		return request, err
	}

	return GetChatRequest(request.ID)
}

// AcceptChatRequest settles the caller's pending entry and materializes the
// chat. A private request materializes on its single acceptance; a group
// request materializes on whichever acceptance lands first, and every later
// acceptance joins the chat that first one created.
func AcceptChatRequest(requestId uint, user models.Account) (models.ChatRequest, error) {
	request, err := GetChatRequest(requestId)
	if err != nil {
		return request, err
	}

	entry, ok := lo.Find(request.Users, func(item models.ChatRequestUser) bool {
		return item.AccountID == user.ID
	})
	if !ok {
		return request, ErrNotInvited
	}

	// Single conditional statement so a double accept can never settle twice.
	res := database.C.Model(&models.ChatRequestUser{}).
		Where("id = ? AND status = ?", entry.ID, models.InviteStatusPending).
		Update("status", models.InviteStatusAccepted)
	if res.Error != nil {
		return request, res.Error
	}
	if res.RowsAffected == 0 {
		// An entry accepted with no chat claimed means an earlier acceptance
		// settled and then failed before materializing. Resume it; anything
		// else is terminal.
		if entry.Status != models.InviteStatusAccepted || request.ChatID != nil {
			return request, ErrAlreadySettled
		}
	}

	if request.ChatID == nil {
		if _, err := materializeChat(request, entry); err != nil {
			return request, err
		}
	} else if err := AddChatParticipant(*request.ChatID, entry); err != nil {
		return request, err
	}

	cache.Forget(ChatsCacheKey(request.OwnerID), ChatsCacheKey(user.ID))

	return GetChatRequest(requestId)
}

// DeclineChatRequest settles the caller's pending entry as rejected. The
// chat reference of the request is never touched.
func DeclineChatRequest(requestId uint, user models.Account) (models.ChatRequest, error) {
	request, err := GetChatRequest(requestId)
	if err != nil {
		return request, err
	}

	entry, ok := lo.Find(request.Users, func(item models.ChatRequestUser) bool {
		return item.AccountID == user.ID
	})
	if !ok {
		return request, ErrNotInvited
	}

	res := database.C.Model(&models.ChatRequestUser{}).
		Where("id = ? AND status = ?", entry.ID, models.InviteStatusPending).
		Update("status", models.InviteStatusRejected)
	if res.Error != nil {
		return request, res.Error
	}
	if res.RowsAffected == 0 {
		return request, ErrAlreadySettled
	}

	return GetChatRequest(requestId)
}

// materializeChat creates the chat and claims the request's chat reference
// in one transaction. The claim is a set-if-null update keyed by request id,
// so concurrent accepts on the same group request serialize: the loser rolls
// its chat back and joins the winner's instead.
func materializeChat(request models.ChatRequest, acceptor models.ChatRequestUser) (uint, error) {
	chat := models.Chat{
		Uuid:      uuid.NewString(),
		Name:      request.GroupName,
		IsGroup:   request.IsGroup(),
		OwnerID:   request.OwnerID,
		RequestID: request.ID,
		Participants: []models.ChatParticipant{
			{AccountID: request.OwnerID, UserType: request.OwnerType},
			{AccountID: acceptor.AccountID, UserType: acceptor.UserType},
		},
	}

	err := database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&chat).Error; err != nil {
			return err
		}
		res := tx.Model(&models.ChatRequest{}).
			Where("id = ? AND chat_id IS NULL", request.ID).
			Update("chat_id", chat.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrMaterializeConflict
		}
		return nil
	})
	if err == nil {
		return chat.ID, nil
	}
	if !errors.Is(err, ErrMaterializeConflict) {
		return 0, err
	}

	// Lost the race. Read back the winner's chat and join it.
	var fresh models.ChatRequest
	if err := database.C.First(&fresh, request.ID).Error; err != nil {
		return 0, err
	}
	if fresh.ChatID == nil {
		return 0, ErrMaterializeConflict
	}
	if err := AddChatParticipant(*fresh.ChatID, acceptor); err != nil {
		return 0, err
	}
	return *fresh.ChatID, nil
}

func ListReceivedChatRequests(user models.Account, chatType ...models.ChatType) ([]models.ChatRequest, error) {
	var entries []models.ChatRequestUser
	if err := database.C.Where(models.ChatRequestUser{
		AccountID: user.ID,
	}).Find(&entries).Error; err != nil {
		return nil, err
	}

	idx := lo.Map(entries, func(item models.ChatRequestUser, index int) uint {
		return item.RequestID
	})

	var requests []models.ChatRequest
	tx := database.C.Where("id IN ?", idx).
		Preload("Owner").
		Preload("Users").
		Preload("Users.Account").
		Preload("Chat").
		Order("created_at DESC")
	if len(chatType) > 0 {
		tx = tx.Where("type = ?", chatType[0])
	}
	if err := tx.Find(&requests).Error; err != nil {
		return requests, err
	}
	return requests, nil
}

func ListSentChatRequests(user models.Account, chatType ...models.ChatType) ([]models.ChatRequest, error) {
	var requests []models.ChatRequest
	tx := database.C.Where(models.ChatRequest{OwnerID: user.ID}).
		Preload("Users").
		Preload("Users.Account").
		Preload("Chat").
		Order("created_at DESC")
	if len(chatType) > 0 {
		tx = tx.Where("type = ?", chatType[0])
	}
	if err := tx.Find(&requests).Error; err != nil {
		return requests, err
	}
	return requests, nil
}

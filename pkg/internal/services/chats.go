package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/teamparakram16-pixel/Code4Bharat-sub002/pkg/internal/cache"
	"github.com/teamparakram16-pixel/Code4Bharat-sub002/pkg/internal/database"
	"github.com/teamparakram16-pixel/Code4Bharat-sub002/pkg/internal/models"
	"gorm.io/gorm"
)

const chatsCacheLifespan = 5 * time.Minute

func ChatsCacheKey(user uint) string {
	return fmt.Sprintf("chats-user#%d", user)
}

func GetChat(id uint) (models.Chat, error) {
	var chat models.Chat
	if err := database.C.
		Where("id = ?", id).
		Preload("Owner").
		Preload("Participants").
		Preload("Participants.Account").
		First(&chat).Error; err != nil {
		return chat, err
	}
	return chat, nil
}

// ListChats returns every chat the user participates in, newest activity
// first. Listings are cached per user and dropped whenever a materialization
// or later acceptance changes a participant set.
func ListChats(user models.Account) ([]models.Chat, error) {
	var chats []models.Chat
	if cache.Get(ChatsCacheKey(user.ID), &chats) {
		return chats, nil
	}

	var rows []models.ChatParticipant
	if err := database.C.Where(models.ChatParticipant{
		AccountID: user.ID,
	}).Find(&rows).Error; err != nil {
		return nil, err
	}

	idx := lo.Map(rows, func(item models.ChatParticipant, index int) uint {
		return item.ChatID
	})

	if err := database.C.Where("id IN ?", idx).
		Preload("Owner").
		Preload("Participants").
		Preload("Participants.Account").
		Order("updated_at DESC").
		Find(&chats).Error; err != nil {
		return chats, err
	}

	cache.Set(ChatsCacheKey(user.ID), chats, chatsCacheLifespan)

	return chats, nil
}

// AddChatParticipant joins an accepting invitee into an already materialized
// chat. Re-joining is a no-op, so replayed acceptances stay harmless.
func AddChatParticipant(chatId uint, entry models.ChatRequestUser) error {
	var participant models.ChatParticipant
	if err := database.C.Where(models.ChatParticipant{
		ChatID:    chatId,
		AccountID: entry.AccountID,
	}).First(&participant).Error; err == nil || !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	participant = models.ChatParticipant{
		ChatID:    chatId,
		AccountID: entry.AccountID,
		UserType:  entry.UserType,
	}

	if err := database.C.Save(&participant).Error; err != nil {
		return err
	}

	// Everyone already in the chat is serving a stale participant set now.
	cache.Forget(ChatListingCacheKeys(chatId)...)

	return nil
}

// ChatListingCacheKeys returns the cached listing key of every current
// participant of the chat.
func ChatListingCacheKeys(chatId uint) []string {
	var rows []models.ChatParticipant
	if err := database.C.Where(models.ChatParticipant{
		ChatID: chatId,
	}).Find(&rows).Error; err != nil {
		return nil
	}
	return lo.Map(rows, func(item models.ChatParticipant, index int) string {
		return ChatsCacheKey(item.AccountID)
	})
}

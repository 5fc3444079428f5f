package services

import (
	"errors"

	"github.com/teamparakram16-pixel/Code4Bharat-sub002/pkg/internal/database"
	"github.com/teamparakram16-pixel/Code4Bharat-sub002/pkg/internal/models"
	"gorm.io/gorm"
)

func GetAccount(id uint) (models.Account, error) {
	var account models.Account
	if id == 0 {
		return account, gorm.ErrRecordNotFound
	}
	if err := database.C.Where("id = ?", id).First(&account).Error; err != nil {
		return account, err
	}
	return account, nil
}

// LoadAccount upserts the profile summary carried by the caller's token, so
// requests and chats can preload it for listings.
func LoadAccount(id uint, name, nick string, avatar *string, accountType models.AccountType) (models.Account, error) {
	var account models.Account
	if id == 0 {
		return account, gorm.ErrRecordNotFound
	}
	if err := database.C.Where("id = ?", id).First(&account).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return account, err
		}
		account = models.Account{
			BaseModel: models.BaseModel{ID: id},
			Name:      name,
			Nick:      nick,
			Avatar:    avatar,
			Type:      accountType,
		}
		return account, database.C.Create(&account).Error
	}

	if account.Name != name || account.Nick != nick || account.Type != accountType {
		account.Name = name
		account.Nick = nick
		account.Avatar = avatar
		account.Type = accountType
		return account, database.C.Save(&account).Error
	}

	return account, nil
}

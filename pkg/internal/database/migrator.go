package database

import (
	"github.com/teamparakram16-pixel/Code4Bharat-sub002/pkg/internal/models"
	"gorm.io/gorm"
)

var AutoMaintainRange = []any{
	&models.Account{},
	&models.ChatRequest{},
	&models.ChatRequestUser{},
	&models.Chat{},
	&models.ChatParticipant{},
}

func RunMigration(source *gorm.DB) error {
	if err := source.AutoMigrate(AutoMaintainRange...); err != nil {
		return err
	}

	return nil
}

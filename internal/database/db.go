package database

import (
	"go-cloud-drive/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Initialize(cfg *config.Config) error {
	var err error
	// TranslateError turns driver duplicate-key failures into
	// gorm.ErrDuplicatedKey so the store can map the uniqueness backstop
	// index to a conflict.
	DB, err = gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return err
	}
	return nil
}

func GetDB() *gorm.DB {
	return DB
}

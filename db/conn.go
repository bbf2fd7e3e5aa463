// Package db contains the database connection and the query layer
// used by the handlers
package db

import (
	"fmt"

	"campusmarket/account-api/model"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func New() (*gorm.DB, error) {
	var dial gorm.Dialector

	dsn := viper.GetString("db.dsn")

	switch viper.GetString("db.driver") {
	case "postgres":
		dial = postgres.Open(dsn)
	default:
		dial = sqlite.Open(dsn)
	}

	// TranslateError makes unique index violations surface as
	// gorm.ErrDuplicatedKey on both drivers. Duplicate-user prevention
	// relies on that, not on the existence pre-checks
	conn, err := gorm.Open(dial, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	err = conn.AutoMigrate(model.User{}, model.OTP{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return conn, nil
}

package inits

import (
	"e-voting/app/server/config"
	"e-voting/app/server/constants"
	"e-voting/app/server/models"
	"errors"
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func DB(cfg *config.Config) (db *gorm.DB, err error) {
	gcfg := &gorm.Config{
		TranslateError: true, // unique violations surface as gorm.ErrDuplicatedKey
	}
	if cfg.System.IsProd {
		gcfg.Logger = logger.Default.LogMode(logger.Warn)
	}

	if db, err = gorm.Open(postgres.Open(cfg.System.DBConnectionString), gcfg); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// the pool bounds how many vote transactions run at once
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.System.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.System.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err = Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if err = SeedAdmin(db, cfg.Bootstrap.AdminIdentifier, cfg.Bootstrap.AdminPassword); err != nil {
		return nil, fmt.Errorf("failed to init data into database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Voting{},
		&models.Candidate{},
		&models.Vote{},
	)
}

// SeedAdmin creates the first admin account when there are no users at all.
func SeedAdmin(db *gorm.DB, identifier, password string) (err error) {
	var counter int64

	if err = db.Model(&models.User{}).Count(&counter).Error; err != nil {
		return fmt.Errorf("failed to get user count: %w", err)
	} else if counter > 0 {
		return nil
	}

	if identifier == "" || password == "" {
		return errors.New("bootstrap admin identifier and password are required")
	}

	var hash string
	if hash, err = argon2id.CreateHash(password, argon2id.DefaultParams); err != nil {
		return fmt.Errorf("failed to generate password: %w", err)
	}

	if err = db.Create(&models.User{
		Identifier: identifier,
		Name:       "Voting Admin",
		Role:       constants.RoleAdmin,
		Password:   hash,
	}).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	return nil
}

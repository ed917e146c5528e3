package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is one login. Valid is flipped to false at logout and right after the owner votes.
type Session struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserIdentifier string    `gorm:"column:user_identifier;index"`
	Token          string    `gorm:"column:token"`
	Valid          bool      `gorm:"column:valid"`

	CreatedAt time.Time
}

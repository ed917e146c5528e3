package models

import "time"

type User struct {
	Identifier string `gorm:"column:identifier;primaryKey"` // student number or similar, globally unique
	Name       string `gorm:"column:name"`                  // display name
	Role       string `gorm:"column:role;default:user"`     // user or admin

	Password string `gorm:"column:password"` // argon2id hash; bcrypt hashes from older deployments are still accepted

	CreatedAt time.Time
	UpdatedAt time.Time
}

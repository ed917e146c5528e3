package models

import "time"

type Voting struct {
	ID       uint      `gorm:"column:id;primaryKey"`
	Title    string    `gorm:"column:title"`
	StartsAt time.Time `gorm:"column:starts_at;index"`
	EndsAt   time.Time `gorm:"column:ends_at"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

package models

import "time"

type Candidate struct {
	ID       uint `gorm:"column:id;primaryKey"`
	VotingID uint `gorm:"column:voting_id;index;not null"` // owning voting

	Name          string `gorm:"column:name"`
	ExternalID    string `gorm:"column:external_id"` // candidate's own student number
	PhotoRef      string `gorm:"column:photo_ref"`   // opaque reference to an uploaded photo
	Description   string `gorm:"column:description"`
	VisionMission string `gorm:"column:vision_mission"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Voting Voting `gorm:"foreignKey:VotingID"`
}

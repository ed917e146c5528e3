package models

import "time"

// Vote rows are written once and never updated. The unique index on
// (user_identifier, voting_id) is what finally guarantees one vote per user per voting.
type Vote struct {
	ID             uint   `gorm:"column:id;primaryKey"`
	UserIdentifier string `gorm:"column:user_identifier;not null;uniqueIndex:idx_votes_voter_voting"`
	VotingID       uint   `gorm:"column:voting_id;not null;uniqueIndex:idx_votes_voter_voting;index"`
	CandidateID    uint   `gorm:"column:candidate_id;not null;index"`

	CreatedAt time.Time

	Candidate Candidate `gorm:"foreignKey:CandidateID"`
	Voting    Voting    `gorm:"foreignKey:VotingID"`
}

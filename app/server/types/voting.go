package types

import "time"

type VotingInput struct {
	Title    string    `json:"title"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

type VotingInfo struct {
	ID       uint      `json:"id"`
	Title    string    `json:"title"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

type CandidateInput struct {
	Name          *string `json:"name"`
	ExternalID    *string `json:"external_id"`
	PhotoRef      *string `json:"photo_ref"`
	Description   *string `json:"description"`
	VisionMission *string `json:"vision_mission"`
}

type CandidateInfo struct {
	ID            uint   `json:"id"`
	VotingID      uint   `json:"voting_id"`
	Name          string `json:"name"`
	ExternalID    string `json:"external_id"`
	PhotoRef      string `json:"photo_ref,omitempty"`
	Description   string `json:"description,omitempty"`
	VisionMission string `json:"vision_mission,omitempty"`
}

type VoteRequest struct {
	CandidateID uint `json:"candidate_id"`
}

type VoteReceipt struct {
	Message  string    `json:"message"`
	VotingID uint      `json:"voting_id"`
	VotedAt  time.Time `json:"voted_at"`
}

type ResultRow struct {
	CandidateInfo
	Votes int64 `json:"votes"`
}

type ResultsResponse struct {
	VotingID   uint        `json:"voting_id"`
	TotalVotes int64       `json:"total_votes"`
	Results    []ResultRow `json:"results"`
}

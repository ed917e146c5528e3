// Package ledger stores votings, their candidates and the cast votes, and
// computes tallies.
package ledger

import (
	"context"
	"e-voting/app/server/apperr"
	"e-voting/app/server/models"
	"e-voting/app/server/utils"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Ledger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

type VotingInput struct {
	Title    string
	StartsAt time.Time
	EndsAt   time.Time
}

type CandidateInput struct {
	Name          string
	ExternalID    string
	PhotoRef      string
	Description   string
	VisionMission string
}

type CandidatePatch struct {
	Name          *string
	ExternalID    *string
	PhotoRef      *string
	Description   *string
	VisionMission *string
}

type TallyRow struct {
	CandidateID   uint
	Name          string
	ExternalID    string
	PhotoRef      string
	Description   string
	VisionMission string
	Votes         int64 `gorm:"column:vote_count"`
}

type Tally struct {
	VotingID   uint
	TotalVotes int64
	Results    []TallyRow
}

func (in *VotingInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	switch {
	case in.Title == "":
		return fmt.Errorf("%w: title is required", apperr.ErrValidation)
	case in.StartsAt.IsZero() || in.EndsAt.IsZero():
		return fmt.Errorf("%w: start and end time are required", apperr.ErrValidation)
	case in.EndsAt.Before(in.StartsAt):
		return fmt.Errorf("%w: end time is before start time", apperr.ErrValidation)
	}
	return nil
}

func (l *Ledger) ListEvents(ctx context.Context) ([]models.Voting, error) {
	var votings []models.Voting
	if err := l.db.WithContext(ctx).Order("starts_at DESC, id DESC").Find(&votings).Error; err != nil {
		return nil, fmt.Errorf("list votings: %w", err)
	}
	return votings, nil
}

func (l *Ledger) GetEvent(ctx context.Context, id uint) (*models.Voting, error) {
	return getVoting(l.db.WithContext(ctx), id)
}

func getVoting(db *gorm.DB, id uint) (*models.Voting, error) {
	var voting models.Voting
	if err := db.First(&voting, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("voting %d: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("get voting: %w", err)
	}
	return &voting, nil
}

func (l *Ledger) CreateEvent(ctx context.Context, in VotingInput) (*models.Voting, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	voting := models.Voting{Title: in.Title, StartsAt: in.StartsAt, EndsAt: in.EndsAt}
	if err := l.db.WithContext(ctx).Create(&voting).Error; err != nil {
		return nil, fmt.Errorf("create voting: %w", err)
	}
	return &voting, nil
}

func (l *Ledger) UpdateEvent(ctx context.Context, id uint, in VotingInput) (*models.Voting, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var voting *models.Voting
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if voting, err = getVoting(tx, id); err != nil {
			return err
		}

		voting.Title, voting.StartsAt, voting.EndsAt = in.Title, in.StartsAt, in.EndsAt
		if err := tx.Model(voting).Select("title", "starts_at", "ends_at").Updates(voting).Error; err != nil {
			return fmt.Errorf("update voting: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return voting, nil
}

// DeleteEvent removes the voting with its votes and candidates, in that order.
func (l *Ledger) DeleteEvent(ctx context.Context, id uint) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("voting_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return fmt.Errorf("delete votes: %w", err)
		}
		if err := tx.Where("voting_id = ?", id).Delete(&models.Candidate{}).Error; err != nil {
			return fmt.Errorf("delete candidates: %w", err)
		}

		res := tx.Delete(&models.Voting{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("delete voting: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("voting %d: %w", id, apperr.ErrNotFound)
		}
		return nil
	})
}

func (l *Ledger) ListCandidates(ctx context.Context, votingID uint) ([]models.Candidate, error) {
	var candidates []models.Candidate
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getVoting(tx, votingID); err != nil {
			return err
		}
		if err := tx.Where("voting_id = ?", votingID).Order("id ASC").Find(&candidates).Error; err != nil {
			return fmt.Errorf("list candidates: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

func (l *Ledger) GetCandidate(ctx context.Context, votingID, candidateID uint) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := l.db.WithContext(ctx).
		First(&candidate, "id = ? AND voting_id = ?", candidateID, votingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("candidate %d in voting %d: %w", candidateID, votingID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("get candidate: %w", err)
	}
	return &candidate, nil
}

func (l *Ledger) AddCandidate(ctx context.Context, votingID uint, in CandidateInput) (*models.Candidate, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.ExternalID = strings.TrimSpace(in.ExternalID)
	if in.Name == "" || in.ExternalID == "" {
		return nil, fmt.Errorf("%w: candidate name and external id are required", apperr.ErrValidation)
	}

	candidate := models.Candidate{
		VotingID:      votingID,
		Name:          in.Name,
		ExternalID:    in.ExternalID,
		PhotoRef:      in.PhotoRef,
		Description:   in.Description,
		VisionMission: in.VisionMission,
	}

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getVoting(tx, votingID); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&candidate).Error; err != nil {
			return fmt.Errorf("create candidate: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &candidate, nil
}

func (l *Ledger) UpdateCandidate(ctx context.Context, votingID, candidateID uint, p CandidatePatch) (*models.Candidate, error) {
	updates := map[string]any{}
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			return nil, fmt.Errorf("%w: candidate name must not be empty", apperr.ErrValidation)
		}
		updates["name"] = strings.TrimSpace(*p.Name)
	}
	if p.ExternalID != nil {
		if strings.TrimSpace(*p.ExternalID) == "" {
			return nil, fmt.Errorf("%w: candidate external id must not be empty", apperr.ErrValidation)
		}
		updates["external_id"] = strings.TrimSpace(*p.ExternalID)
	}
	if p.PhotoRef != nil {
		updates["photo_ref"] = *p.PhotoRef
	}
	if p.Description != nil {
		updates["description"] = *p.Description
	}
	if p.VisionMission != nil {
		updates["vision_mission"] = *p.VisionMission
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no fields provided for update", apperr.ErrValidation)
	}

	var candidate models.Candidate
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Candidate{}).
			Where("id = ? AND voting_id = ?", candidateID, votingID).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("update candidate: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("candidate %d in voting %d: %w", candidateID, votingID, apperr.ErrNotFound)
		}
		if err := tx.First(&candidate, "id = ?", candidateID).Error; err != nil {
			return fmt.Errorf("reload candidate: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &candidate, nil
}

// DeleteCandidate removes the candidate after the votes cast for it.
func (l *Ledger) DeleteCandidate(ctx context.Context, candidateID, votingID uint) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("candidate_id = ? AND voting_id = ?", candidateID, votingID).
			Delete(&models.Vote{}).Error; err != nil {
			return fmt.Errorf("delete votes: %w", err)
		}

		res := tx.Delete(&models.Candidate{}, "id = ? AND voting_id = ?", candidateID, votingID)
		if res.Error != nil {
			return fmt.Errorf("delete candidate: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("candidate %d in voting %d: %w", candidateID, votingID, apperr.ErrNotFound)
		}
		return nil
	})
}

// Tally counts votes per candidate. Every candidate of the voting appears,
// most votes first, ties in candidate id order.
func (l *Ledger) Tally(ctx context.Context, votingID uint) (*Tally, error) {
	tally := Tally{VotingID: votingID, Results: []TallyRow{}}

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getVoting(tx, votingID); err != nil {
			return err
		}

		if err := tx.Model(&models.Candidate{}).
			Select("candidates.id AS candidate_id, candidates.name, candidates.external_id, candidates.photo_ref, "+
				"candidates.description, candidates.vision_mission, COUNT(votes.id) AS vote_count").
			Joins("LEFT JOIN votes ON votes.candidate_id = candidates.id AND votes.voting_id = ?", votingID).
			Where("candidates.voting_id = ?", votingID).
			Group("candidates.id, candidates.name, candidates.external_id, candidates.photo_ref, " +
				"candidates.description, candidates.vision_mission").
			Order("vote_count DESC, candidates.id ASC").
			Scan(&tally.Results).Error; err != nil {
			return fmt.Errorf("tally votes: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if tally.Results == nil {
		tally.Results = []TallyRow{}
	}
	for _, r := range tally.Results {
		tally.TotalVotes += r.Votes
	}
	return &tally, nil
}

// CandidateInVotingTx reports whether candidateID belongs to votingID.
func CandidateInVotingTx(tx *gorm.DB, votingID, candidateID uint) (bool, error) {
	var n int64
	if err := tx.Model(&models.Candidate{}).
		Where("id = ? AND voting_id = ?", candidateID, votingID).
		Count(&n).Error; err != nil {
		return false, fmt.Errorf("check candidate: %w", err)
	}
	return n > 0, nil
}

// HasVotedTx reports whether voter already has a vote in votingID.
func HasVotedTx(tx *gorm.DB, voter string, votingID uint) (bool, error) {
	var n int64
	if err := tx.Model(&models.Vote{}).
		Where("user_identifier = ? AND voting_id = ?", voter, votingID).
		Count(&n).Error; err != nil {
		return false, fmt.Errorf("check previous vote: %w", err)
	}
	return n > 0, nil
}

// RecordVoteTx inserts vote. A unique violation on (voter, voting) is
// reported as AlreadyVoted.
func RecordVoteTx(tx *gorm.DB, vote *models.Vote) error {
	if err := tx.Omit(clause.Associations).Create(vote).Error; err != nil {
		if utils.IsUniqueViolation(err) {
			return &apperr.AlreadyVotedError{Check: apperr.CheckConstraint}
		}
		return fmt.Errorf("record vote: %w", err)
	}
	return nil
}

// Ping checks that the database answers.
func (l *Ledger) Ping(ctx context.Context) error {
	sqlDB, err := l.db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

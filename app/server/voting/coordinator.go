// Package voting casts votes: one transaction that checks the candidate,
// records the vote and revokes the voter's session, or does none of it.
package voting

import (
	"context"
	"database/sql"
	"e-voting/app/server/apperr"
	"e-voting/app/server/events"
	"e-voting/app/server/gate"
	"e-voting/app/server/ledger"
	"e-voting/app/server/models"
	"e-voting/app/server/utils"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SessionRevoker revokes a session as part of an outer transaction.
type SessionRevoker interface {
	InvalidateTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	DropRevocation(ctx context.Context, id uuid.UUID)
}

type Coordinator struct {
	l         *zap.Logger
	db        *gorm.DB
	sessions  SessionRevoker
	publisher events.Publisher
	timeout   time.Duration
	txOpts    *sql.TxOptions
}

// New builds a coordinator. A zero timeout leaves only the caller's deadline;
// nil txOpts uses the driver's default isolation.
func New(l *zap.Logger, db *gorm.DB, sessions SessionRevoker, publisher events.Publisher, timeout time.Duration, txOpts *sql.TxOptions) *Coordinator {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Coordinator{
		l:         l,
		db:        db,
		sessions:  sessions,
		publisher: publisher,
		timeout:   timeout,
		txOpts:    txOpts,
	}
}

// CastVote records id's vote for candidateID in votingID and revokes the
// session that cast it. On any error nothing is recorded and the session
// stays valid.
func (c *Coordinator) CastVote(ctx context.Context, votingID, candidateID uint, id *gate.Identity) (*models.Vote, error) {
	if id == nil {
		return nil, apperr.ErrUnauthenticated
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	log := c.l.With(
		zap.String("voter", id.UserIdentifier),
		zap.Uint("voting", votingID),
		zap.Uint("candidate", candidateID),
	)

	vote := models.Vote{
		UserIdentifier: id.UserIdentifier,
		VotingID:       votingID,
		CandidateID:    candidateID,
	}

	revoked := false
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := ledger.CandidateInVotingTx(tx, votingID, candidateID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.ErrCandidateNotFound
		}

		voted, err := ledger.HasVotedTx(tx, id.UserIdentifier, votingID)
		if err != nil {
			return err
		}
		if voted {
			return &apperr.AlreadyVotedError{Check: apperr.CheckPrecheck}
		}

		if err := ledger.RecordVoteTx(tx, &vote); err != nil {
			return err
		}

		if err := c.sessions.InvalidateTx(ctx, tx, id.SessionID); err != nil {
			return err
		}
		revoked = true
		return nil
	}, c.txOpts)

	if err != nil {
		if revoked {
			c.sessions.DropRevocation(context.WithoutCancel(ctx), id.SessionID)
		}
		if utils.IsSerializationFailure(err) {
			// raised by any statement or by the commit itself
			err = fmt.Errorf("%w: concurrent vote, please retry", apperr.ErrConflict)
		}

		var already *apperr.AlreadyVotedError
		switch {
		case errors.As(err, &already):
			log.Debug("Vote rejected: already voted", zap.String("check", string(already.Check)))
		case apperr.IsExpected(err):
			log.Debug("Vote rejected", zap.Error(err))
		default:
			log.Error("Failed to cast vote", zap.Error(err))
		}
		return nil, err
	}

	log.Info("Vote recorded", zap.Uint("vote", vote.ID))

	ev := &events.VoteRecorded{
		VoteID:         vote.ID,
		VotingID:       vote.VotingID,
		CandidateID:    vote.CandidateID,
		UserIdentifier: vote.UserIdentifier,
		RecordedAt:     vote.CreatedAt,
	}
	if err := c.publisher.PublishVoteRecorded(context.WithoutCancel(ctx), ev); err != nil {
		log.Warn("Failed to publish vote event", zap.Error(err))
	}

	return &vote, nil
}

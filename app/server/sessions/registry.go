// Package sessions issues, checks and revokes login sessions.
//
// Postgres is the source of truth. When a Redis client is supplied, positive
// lookups are cached and every revocation first writes a tombstone that is
// checked before the cache, so a cached "valid" can never outlive a revocation.
package sessions

import (
	"context"
	"e-voting/app/server/constants"
	"e-voting/app/server/jwt"
	"e-voting/app/server/models"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Registry struct {
	l   *zap.Logger
	db  *gorm.DB
	rdb *redis.Client // optional
	jwt *jwt.JWT
}

func New(l *zap.Logger, db *gorm.DB, rdb *redis.Client, j *jwt.JWT) *Registry {
	return &Registry{l: l, db: db, rdb: rdb, jwt: j}
}

// Create opens a session for user and returns it with its signed token. The
// session id is generated up front, so the row is written once with its token.
func (r *Registry) Create(ctx context.Context, user *models.User) (*models.Session, string, error) {
	session := models.Session{
		ID:             uuid.New(),
		UserIdentifier: user.Identifier,
		Valid:          true,
	}

	token, err := r.jwt.SignToken(&jwt.User{
		Identifier: user.Identifier,
		Role:       user.Role,
		SessionID:  session.ID,
	})
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	session.Token = token

	if err := r.db.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, "", fmt.Errorf("create session: %w", err)
	}

	return &session, token, nil
}

// IsValid reports whether id is a live session whose stored token is exactly token.
func (r *Registry) IsValid(ctx context.Context, id uuid.UUID, token string) (bool, error) {
	if r.rdb != nil {
		revoked, err := r.rdb.Exists(ctx, revokedKey(id)).Result()
		if err != nil {
			r.l.Warn("failed to query session tombstone", zap.Stringer("sid", id), zap.Error(err))
		} else if revoked > 0 {
			return false, nil
		} else if cached, err := r.rdb.Get(ctx, cacheKey(id)).Result(); err != nil {
			if !errors.Is(err, redis.Nil) {
				r.l.Warn("failed to query session cache", zap.Stringer("sid", id), zap.Error(err))
			}
		} else if cached == token {
			return true, nil
		}
	}

	var session models.Session
	if err := r.db.WithContext(ctx).First(&session, "id = ? AND token = ?", id, token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("query session: %w", err)
	}

	if session.Valid && r.rdb != nil {
		if err := r.rdb.Set(ctx, cacheKey(id), token, constants.CacheExpireSession).Err(); err != nil {
			r.l.Warn("failed to cache session", zap.Stringer("sid", id), zap.Error(err))
		}
	}

	return session.Valid, nil
}

// Invalidate revokes one session on its own. Revoking twice is not an error.
func (r *Registry) Invalidate(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.InvalidateTx(ctx, tx, id)
	})
	if err != nil {
		r.DropRevocation(context.WithoutCancel(ctx), id)
	}
	return err
}

// InvalidateTx revokes id as part of tx. The tombstone is written before the
// row flips; if tx later rolls back the caller must call DropRevocation.
func (r *Registry) InvalidateTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if err := r.markRevoked(ctx, id); err != nil {
		return err
	}

	if err := tx.Model(&models.Session{}).Where("id = ?", id).Update("valid", false).Error; err != nil {
		r.DropRevocation(context.WithoutCancel(ctx), id)
		return fmt.Errorf("invalidate session: %w", err)
	}

	return nil
}

// InvalidateUserTx revokes every live session of userIdentifier as part of tx.
func (r *Registry) InvalidateUserTx(ctx context.Context, tx *gorm.DB, userIdentifier string) error {
	var ids []uuid.UUID
	if err := tx.Model(&models.Session{}).
		Where("user_identifier = ? AND valid = ?", userIdentifier, true).
		Pluck("id", &ids).Error; err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	for _, id := range ids {
		if err := r.InvalidateTx(ctx, tx, id); err != nil {
			return err
		}
	}
	return nil
}

// DropRevocation removes a tombstone written for a transaction that did not commit.
func (r *Registry) DropRevocation(ctx context.Context, id uuid.UUID) {
	if r.rdb == nil {
		return
	}
	if err := r.rdb.Del(ctx, revokedKey(id)).Err(); err != nil {
		r.l.Warn("failed to drop session tombstone", zap.Stringer("sid", id), zap.Error(err))
	}
}

func (r *Registry) markRevoked(ctx context.Context, id uuid.UUID) error {
	if r.rdb == nil {
		return nil
	}

	// outlive any token that could name this session
	pipe := r.rdb.TxPipeline()
	pipe.Set(ctx, revokedKey(id), 1, r.jwt.Lifetime())
	pipe.Del(ctx, cacheKey(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("mark session revoked: %w", err)
	}
	return nil
}

func cacheKey(id uuid.UUID) string {
	return fmt.Sprintf(constants.CacheKeySession, id)
}

func revokedKey(id uuid.UUID) string {
	return fmt.Sprintf(constants.CacheKeySessionRevoked, id)
}

// Package testutil provides database, cache and fixture helpers for tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"e-voting/app/server/inits"
	"e-voting/app/server/models"

	"github.com/alexedwards/argon2id"
	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const TestSecret = "test-signature-secret"

// SetupTestDB opens a fresh migrated SQLite database in a temp dir.
// The pool is limited to one connection so transactions serialize the way
// a serializable Postgres transaction would for the same key.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "evote.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := inits.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// SetupTestRedis starts an in-process Redis server.
func SetupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return rdb, mr
}

// CreateTestUser inserts a user with an argon2id hash of password.
func CreateTestUser(t *testing.T, db *gorm.DB, identifier, role, password string) *models.User {
	t.Helper()

	hash, err := argon2id.CreateHash(password, &argon2id.Params{
		Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32,
	})
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		Identifier: identifier,
		Name:       "User " + identifier,
		Role:       role,
		Password:   hash,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// CreateTestVoting inserts a voting that is open for the next day.
func CreateTestVoting(t *testing.T, db *gorm.DB, title string) *models.Voting {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	voting := &models.Voting{
		Title:    title,
		StartsAt: now.Add(-time.Hour),
		EndsAt:   now.Add(24 * time.Hour),
	}
	if err := db.Create(voting).Error; err != nil {
		t.Fatalf("Failed to create test voting: %v", err)
	}
	return voting
}

// AddTestCandidate inserts a candidate into votingID.
func AddTestCandidate(t *testing.T, db *gorm.DB, votingID uint, name string) *models.Candidate {
	t.Helper()

	candidate := &models.Candidate{
		VotingID:   votingID,
		Name:       name,
		ExternalID: "ext-" + name,
	}
	if err := db.Omit("Voting").Create(candidate).Error; err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}
	return candidate
}

// CountVotes counts vote rows for (voter, voting).
func CountVotes(t *testing.T, db *gorm.DB, voter string, votingID uint) int64 {
	t.Helper()

	var n int64
	if err := db.Model(&models.Vote{}).
		Where("user_identifier = ? AND voting_id = ?", voter, votingID).
		Count(&n).Error; err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	return n
}


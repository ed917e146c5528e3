// Package credentials is the user store: lookups for login, password checks,
// and the admin user management operations.
package credentials

import (
	"context"
	"e-voting/app/server/apperr"
	"e-voting/app/server/constants"
	"e-voting/app/server/models"
	"e-voting/app/server/utils"
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SessionRevoker revokes every session of a user inside tx.
type SessionRevoker interface {
	InvalidateUserTx(ctx context.Context, tx *gorm.DB, userIdentifier string) error
}

type Store struct {
	db       *gorm.DB
	sessions SessionRevoker
	params   *argon2id.Params
}

func New(db *gorm.DB, sessions SessionRevoker) *Store {
	return &Store{db: db, sessions: sessions, params: argon2id.DefaultParams}
}

// WithHashParams overrides the argon2id parameters used for new hashes.
func (s *Store) WithHashParams(p *argon2id.Params) *Store {
	s.params = p
	return s
}

type CreateInput struct {
	Identifier string
	Name       string
	Password   string
	Role       string
}

type UpdateInput struct {
	Name     *string
	Role     *string
	Password *string
}

func (s *Store) FindUserByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "identifier = ?", identifier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", identifier, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// VerifyPassword checks password against the stored hash. Hashes written by
// the previous bcrypt-based deployment are still accepted.
func (s *Store) VerifyPassword(user *models.User, password string) (bool, error) {
	if isBcrypt(user.Password) {
		err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("check bcrypt hash: %w", err)
		}
		return true, nil
	}

	match, _, err := argon2id.CheckHash(password, user.Password)
	if err != nil {
		return false, fmt.Errorf("check argon2id hash: %w", err)
	}
	return match, nil
}

func isBcrypt(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$")
}

func (s *Store) ListUsers(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	var (
		users []models.User
		count int64
	)

	q := s.db.WithContext(ctx).Model(&models.User{}).Order("identifier ASC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	return users, count, nil
}

func (s *Store) CreateUser(ctx context.Context, in CreateInput) (*models.User, error) {
	in.Identifier = strings.TrimSpace(in.Identifier)
	in.Name = strings.TrimSpace(in.Name)
	if in.Identifier == "" || in.Name == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: identifier, name and password are required", apperr.ErrValidation)
	}
	if in.Role == "" {
		in.Role = constants.RoleUser
	}
	if err := validateRole(in.Role); err != nil {
		return nil, err
	}

	hash, err := argon2id.CreateHash(in.Password, s.params)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Identifier: in.Identifier,
		Name:       in.Name,
		Role:       in.Role,
		Password:   hash,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if utils.IsUniqueViolation(err) {
			return nil, fmt.Errorf("user %s already exists: %w", in.Identifier, apperr.ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &user, nil
}

// UpdateUser applies the non-nil fields. Changing role or password revokes
// the user's sessions, since tokens carry the role.
func (s *Store) UpdateUser(ctx context.Context, identifier string, in UpdateInput) (*models.User, error) {
	if in.Name == nil && in.Role == nil && in.Password == nil {
		return nil, fmt.Errorf("%w: no fields to update", apperr.ErrValidation)
	}

	updates := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", apperr.ErrValidation)
		}
		updates["name"] = name
	}
	if in.Role != nil {
		if err := validateRole(*in.Role); err != nil {
			return nil, err
		}
		updates["role"] = *in.Role
	}
	if in.Password != nil {
		if *in.Password == "" {
			return nil, fmt.Errorf("%w: password must not be empty", apperr.ErrValidation)
		}
		hash, err := argon2id.CreateHash(*in.Password, s.params)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		updates["password"] = hash
	}

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "identifier = ?", identifier).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("user %s: %w", identifier, apperr.ErrNotFound)
			}
			return fmt.Errorf("find user: %w", err)
		}

		if err := tx.Model(&models.User{}).Where("identifier = ?", identifier).Updates(updates).Error; err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		if err := tx.First(&user, "identifier = ?", identifier).Error; err != nil {
			return fmt.Errorf("reload user: %w", err)
		}

		if in.Role != nil || in.Password != nil {
			return s.sessions.InvalidateUserTx(ctx, tx, identifier)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// DeleteUser removes the user and revokes their sessions. Cast votes stay in
// the tallies.
func (s *Store) DeleteUser(ctx context.Context, identifier string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.User{}, "identifier = ?", identifier)
		if res.Error != nil {
			return fmt.Errorf("delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user %s: %w", identifier, apperr.ErrNotFound)
		}
		return s.sessions.InvalidateUserTx(ctx, tx, identifier)
	})
}

func validateRole(role string) error {
	if role != constants.RoleUser && role != constants.RoleAdmin {
		return fmt.Errorf("%w: role must be %q or %q", apperr.ErrValidation, constants.RoleUser, constants.RoleAdmin)
	}
	return nil
}

package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type JWT struct {
	key     []byte
	expires time.Duration
}

// User is the claim set carried by a session token.
type User struct {
	Identifier string
	Role       string
	SessionID  uuid.UUID
	Expires    int64 // Unix second
}

type claims struct {
	Identifier string `json:"uid"`
	Role       string `json:"role"`
	SessionID  string `json:"sid"`
	jwt.RegisteredClaims
}

func New(key string, expires time.Duration) (*JWT, error) {
	if len(key) == 0 {
		return nil, errors.New("key is empty")
	}
	if expires <= 0 {
		return nil, errors.New("token lifetime must be positive")
	}

	return &JWT{key: []byte(key), expires: expires}, nil
}

// Lifetime is how long a freshly signed token stays acceptable.
func (j *JWT) Lifetime() time.Duration {
	return j.expires
}

func (j *JWT) ParseUser(tokenString string) (*User, error) {
	if len(tokenString) == 0 {
		return nil, errors.New("token string is empty")
	}

	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (interface{}, error) {
		return j.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse jwt failed: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	if c.Identifier == "" || c.Role == "" {
		return nil, errors.New("token is missing identity claims")
	}
	sid, err := uuid.Parse(c.SessionID)
	if err != nil {
		return nil, fmt.Errorf("invalid session id claim: %w", err)
	}

	return &User{
		Identifier: c.Identifier,
		Role:       c.Role,
		SessionID:  sid,
		Expires:    c.ExpiresAt.Unix(),
	}, nil
}

// SignToken signs user. A zero Expires is filled in from the configured lifetime.
func (j *JWT) SignToken(user *User) (string, error) {
	now := time.Now()
	if user.Expires == 0 {
		user.Expires = now.Add(j.expires).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		Identifier: user.Identifier,
		Role:       user.Role,
		SessionID:  user.SessionID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Unix(user.Expires, 0)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})

	return token.SignedString(j.key)
}

package constants

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	DefaultTokenExpiresIn = 7 * 24 * time.Hour
	DefaultVoteTxTimeout  = 10 * time.Second
)

// ContextKeyIdentity is where the auth middleware stores the *gate.Identity.
const ContextKeyIdentity = "identity"

package model

import "time"

// Role values stored in users.role. The JWT "role" claim carries the same
// strings so the middleware can gate routes without a DB lookup.
const (
	RoleMember  = "MEMBER"
	RoleTrainer = "TRAINER"
	RoleAdmin   = "ADMIN"
)

// User mirrors a row of the `users` table. PasswordHash is a bcrypt hash
// and must never be serialized into API responses; handlers build their
// own response types.
type User struct {
	ID           uint64
	Email        string
	PasswordHash string
	FullName     string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsTrainer reports whether the user can be assigned to a session as its
// instructor.
func (u *User) IsTrainer() bool { return u.Role == RoleTrainer }

// RefreshToken models an entry in the `refresh_tokens` table. Only the
// SHA-256 hash of the raw token is stored; RevokedAt is nil while the
// token is still active.
type RefreshToken struct {
	ID        uint64
	UserID    uint64
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

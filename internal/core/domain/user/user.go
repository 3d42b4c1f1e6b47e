package user

import (
	c "passreset/internal/core/domain/common"
	"time"
)

type ID int64

type PasswordHash string

func (p PasswordHash) String() string {
	return "***"
}

type RawPassword string

func (p RawPassword) String() string {
	return "***"
}

type User struct {
	ID           ID
	Email        c.Email
	Name         string
	PasswordHash c.Optional[PasswordHash]
	IsActive     bool
	CreatedAt    time.Time
}

// HasUsablePassword reports whether the user authenticates with a local
// password. Accounts provisioned through external identity providers have
// no hash stored and must never go through the reset flow.
func (u *User) HasUsablePassword() bool {
	return u.PasswordHash.IsPresent
}

func (u *User) CanResetPassword() bool {
	return u.IsActive && u.HasUsablePassword()
}

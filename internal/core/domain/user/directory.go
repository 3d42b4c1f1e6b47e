package user

import (
	"context"
	c "passreset/internal/core/domain/common"
)

// Directory is the external user store this service consults. It does not
// create or delete accounts; it only resolves them and updates passwords.
type Directory interface {
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email c.Email) (User, error)
	GetByID(ctx context.Context, id ID) (User, error)
	// SetPassword receives the plaintext; hashing is the directory's concern.
	SetPassword(ctx context.Context, id ID, password RawPassword) error
}

type PasswordHasher interface {
	HashPassword(password RawPassword) (PasswordHash, error)
	ValidatePassword(password RawPassword, hash PasswordHash) bool
}

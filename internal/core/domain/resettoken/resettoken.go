package resettoken

import (
	"passreset/internal/core/domain/user"
	"time"
)

// Token is the opaque identifier mailed to the user: 32 random bytes,
// lower-case hex encoded, 64 characters.
type Token string

const TokenLength = 64

func (t Token) String() string {
	return "***"
}

type ResetToken struct {
	Token   Token
	OwnerID user.ID
	// IssuedAt is set once at creation and never mutated afterwards.
	IssuedAt time.Time
	// Request provenance, kept for the audit trail only. Never used to
	// authorize redemption.
	RequestIP        string
	RequestUserAgent string
}

// IsLive reports whether the token is still within the expiry window.
func (t *ResetToken) IsLive(now time.Time, validDuration time.Duration) bool {
	return !t.IssuedAt.Before(now.Add(-validDuration))
}

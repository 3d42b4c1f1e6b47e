package resettoken

import (
	"context"
	"passreset/internal/core/domain/user"
	"time"
)

type CreateInput struct {
	OwnerID  user.ID
	IssuedAt time.Time
	// NotBefore bounds the live window. Create must return an already stored
	// token issued at or after this instant instead of inserting a second
	// one, so that two concurrent requests for the same owner converge on a
	// single live token.
	NotBefore        time.Time
	RequestIP        string
	RequestUserAgent string
}

type Repository interface {
	// Create generates a fresh token identifier and persists it. Identifier
	// collisions are retried with a new token a bounded number of times.
	Create(ctx context.Context, input CreateInput) (ResetToken, error)
	// GetLiveByOwner returns the most recent token for the owner issued at or
	// after notBefore, or ErrTokenDoesNotExist.
	GetLiveByOwner(ctx context.Context, owner user.ID, notBefore time.Time) (ResetToken, error)
	// GetByToken does not filter by freshness; callers check expiry themselves.
	GetByToken(ctx context.Context, token Token) (ResetToken, error)
	Delete(ctx context.Context, token Token) error
	// DeleteExpired removes every token issued before the given instant and
	// returns the number of rows removed.
	DeleteExpired(ctx context.Context, issuedBefore time.Time) (int64, error)
}

type Generator interface {
	GenerateToken() (Token, error)
}

// Sender delivers the reset token to the owner out of band. The token never
// travels through the HTTP response.
type Sender interface {
	SendToken(ctx context.Context, u user.User, token ResetToken) error
}

package audit

import (
	"context"
	"passreset/internal/core/domain/user"
	"time"
)

type Kind string

const (
	KindResetRequested  Kind = "password_reset.requested"
	KindPasswordChanged Kind = "password_reset.completed"
	KindTokensPurged    Kind = "password_reset.tokens_purged"
)

// Event carries request provenance for the security trail. It never carries
// the token value itself.
type Event struct {
	Kind             Kind
	UserID           user.ID
	RequestIP        string
	RequestUserAgent string
	At               time.Time
	PurgedCount      int64
}

// Trail records security events. Recording is best effort: callers log a
// failed Record but never fail the user-facing operation because of it.
type Trail interface {
	Record(ctx context.Context, event Event) error
}

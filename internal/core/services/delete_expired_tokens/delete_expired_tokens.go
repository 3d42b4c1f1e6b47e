package deleteexpiredtokens

import (
	"context"
	"time"

	"passreset/internal/core/domain/audit"
	e "passreset/internal/core/domain/errors"
	"passreset/internal/core/domain/logging"
	"passreset/internal/core/domain/resettoken"
)

type Input struct{}

type Result struct {
	DeletedCount int64
}

type service struct {
	log             logging.Logger
	tokenRepository resettoken.Repository
	auditTrail      audit.Trail
	validDuration   time.Duration
	now             func() time.Time
}

func New(
	log logging.Logger,
	tokenRepository resettoken.Repository,
	auditTrail audit.Trail,
	validDuration time.Duration,
	now func() time.Time,
) *service {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if tokenRepository == nil {
		panic(e.NewNilArgumentError("tokenRepository"))
	}
	if auditTrail == nil {
		panic(e.NewNilArgumentError("auditTrail"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:             log,
		tokenRepository: tokenRepository,
		auditTrail:      auditTrail,
		validDuration:   validDuration,
		now:             now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	now := s.now()
	deleted, err := s.tokenRepository.DeleteExpired(ctx, now.Add(-s.validDuration))
	if err != nil {
		s.log.Error(ctx, "Could not delete expired tokens.", logging.Entry("err", err))
		return result, err
	}
	result.DeletedCount = deleted

	if deleted == 0 {
		return result, nil
	}
	if err := s.auditTrail.Record(ctx, audit.Event{
		Kind:        audit.KindTokensPurged,
		At:          now,
		PurgedCount: deleted,
	}); err != nil {
		s.log.Warning(ctx, "Could not record audit event.", logging.Entry("err", err))
	}
	s.log.Info(ctx, "Expired password reset tokens deleted.", logging.Entry("count", deleted))
	return result, nil
}

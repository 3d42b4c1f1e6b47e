package resetpassword

import (
	"context"
	"errors"
	"time"

	"passreset/internal/core/domain/audit"
	e "passreset/internal/core/domain/errors"
	"passreset/internal/core/domain/logging"
	"passreset/internal/core/domain/resettoken"
	"passreset/internal/core/domain/user"
)

type Input struct {
	Token       resettoken.Token
	NewPassword user.RawPassword
}

type Result struct{}

type service struct {
	log             logging.Logger
	tokenRepository resettoken.Repository
	userDirectory   user.Directory
	auditTrail      audit.Trail
	validDuration   time.Duration
	now             func() time.Time
}

func New(
	log logging.Logger,
	tokenRepository resettoken.Repository,
	userDirectory user.Directory,
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
	if userDirectory == nil {
		panic(e.NewNilArgumentError("userDirectory"))
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
		userDirectory:   userDirectory,
		auditTrail:      auditTrail,
		validDuration:   validDuration,
		now:             now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	token, err := s.tokenRepository.GetByToken(ctx, input.Token)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, resettoken.ErrTokenDoesNotExist) {
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not get password reset token.", logging.Entry("err", err))
		return result, err
	}

	// The store lookup does not filter by freshness; an expired token is
	// indistinguishable from an absent one for the caller.
	if !token.IsLive(s.now(), s.validDuration) {
		s.log.Info(
			ctx,
			"Attempt to redeem an expired password reset token.",
			logging.Entry("userID", token.OwnerID),
			logging.Entry("issuedAt", token.IssuedAt),
		)
		return result, resettoken.ErrTokenDoesNotExist
	}

	u, err := s.userDirectory.GetByID(ctx, token.OwnerID)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(ctx, "Token owner not found.", logging.Entry("userID", token.OwnerID))
		return result, resettoken.ErrTokenDoesNotExist
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get user for password reset.",
			logging.Entry("userID", token.OwnerID),
			logging.Entry("err", err),
		)
		return result, err
	}
	if !u.CanResetPassword() {
		s.log.Info(
			ctx,
			"Attempt to redeem a token for an ineligible user.",
			logging.Entry("userID", u.ID),
		)
		return result, resettoken.ErrTokenDoesNotExist
	}

	// Consume the token before changing the password. If the password update
	// then fails the token is burned rather than left replayable; the user
	// requests a new one.
	err = s.tokenRepository.Delete(ctx, token.Token)
	if errors.Is(err, resettoken.ErrTokenDoesNotExist) {
		// A concurrent redemption got here first.
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not consume password reset token.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	err = s.userDirectory.SetPassword(ctx, u.ID, input.NewPassword)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		return result, resettoken.ErrTokenDoesNotExist
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not update user password.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	if err := s.auditTrail.Record(ctx, audit.Event{
		Kind:             audit.KindPasswordChanged,
		UserID:           u.ID,
		RequestIP:        token.RequestIP,
		RequestUserAgent: token.RequestUserAgent,
		At:               s.now(),
	}); err != nil {
		s.log.Warning(ctx, "Could not record audit event.", logging.Entry("err", err))
	}

	s.log.Info(
		ctx,
		"New password has been successfully set.",
		logging.Entry("userID", u.ID),
	)
	return result, nil
}

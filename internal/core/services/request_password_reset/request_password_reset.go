package requestpasswordreset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"passreset/internal/core/domain/audit"
	c "passreset/internal/core/domain/common"
	e "passreset/internal/core/domain/errors"
	"passreset/internal/core/domain/logging"
	"passreset/internal/core/domain/resettoken"
	"passreset/internal/core/domain/user"
)

type Input struct {
	Email            c.Email
	RequestIP        string
	RequestUserAgent string
}

func (i Input) GetRateLimitKey() string {
	return fmt.Sprintf("request-password-reset::%s", i.RequestIP)
}

type Result struct {
	Token resettoken.ResetToken
	// Reused is true when an earlier token was still live and got re-sent
	// instead of a new one being minted.
	Reused bool
}

type service struct {
	log             logging.Logger
	userDirectory   user.Directory
	tokenRepository resettoken.Repository
	tokenSender     resettoken.Sender
	auditTrail      audit.Trail
	validDuration   time.Duration
	now             func() time.Time
}

func New(
	log logging.Logger,
	userDirectory user.Directory,
	tokenRepository resettoken.Repository,
	tokenSender resettoken.Sender,
	auditTrail audit.Trail,
	validDuration time.Duration,
	now func() time.Time,
) *service {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userDirectory == nil {
		panic(e.NewNilArgumentError("userDirectory"))
	}
	if tokenRepository == nil {
		panic(e.NewNilArgumentError("tokenRepository"))
	}
	if tokenSender == nil {
		panic(e.NewNilArgumentError("tokenSender"))
	}
	if auditTrail == nil {
		panic(e.NewNilArgumentError("auditTrail"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:             log,
		userDirectory:   userDirectory,
		tokenRepository: tokenRepository,
		tokenSender:     tokenSender,
		auditTrail:      auditTrail,
		validDuration:   validDuration,
		now:             now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	u, err := s.userDirectory.GetByEmail(ctx, input.Email)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(ctx, "Password reset requested for unknown email.", logging.Entry("ip", input.RequestIP))
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get user for password reset request.",
			logging.Entry("err", err),
		)
		return result, err
	}

	if !u.CanResetPassword() {
		// Same outcome as an unknown email, so that probing responses never
		// reveal whether an account exists or is eligible.
		s.log.Info(
			ctx,
			"Password reset requested for ineligible user.",
			logging.Entry("userID", u.ID),
			logging.Entry("isActive", u.IsActive),
			logging.Entry("hasUsablePassword", u.HasUsablePassword()),
		)
		return result, user.ErrUserDoesNotExist
	}

	now := s.now()
	notBefore := now.Add(-s.validDuration)

	token, err := s.tokenRepository.GetLiveByOwner(ctx, u.ID, notBefore)
	switch {
	case err == nil:
		result.Reused = true
	case errors.Is(err, resettoken.ErrTokenDoesNotExist):
		token, err = s.tokenRepository.Create(ctx, resettoken.CreateInput{
			OwnerID:          u.ID,
			IssuedAt:         now,
			NotBefore:        notBefore,
			RequestIP:        input.RequestIP,
			RequestUserAgent: input.RequestUserAgent,
		})
		if err != nil {
			s.log.Error(
				ctx,
				"Could not create password reset token.",
				logging.Entry("userID", u.ID),
				logging.Entry("err", err),
			)
			return result, err
		}
	default:
		s.log.Error(
			ctx,
			"Could not check for a live password reset token.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}
	result.Token = token

	if err := s.auditTrail.Record(ctx, audit.Event{
		Kind:             audit.KindResetRequested,
		UserID:           u.ID,
		RequestIP:        input.RequestIP,
		RequestUserAgent: input.RequestUserAgent,
		At:               now,
	}); err != nil {
		s.log.Warning(ctx, "Could not record audit event.", logging.Entry("err", err))
	}

	if err := s.tokenSender.SendToken(ctx, u, token); err != nil {
		// The token stays live: a repeated request inside the window re-sends
		// the same token, which is the resend path.
		s.log.Error(
			ctx,
			"Could not send password reset token.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, fmt.Errorf("%w: %v", resettoken.ErrDeliveryFailed, err)
	}

	s.log.Info(
		ctx,
		"Password reset token has been sent.",
		logging.Entry("userID", u.ID),
		logging.Entry("reused", result.Reused),
	)
	return result, nil
}

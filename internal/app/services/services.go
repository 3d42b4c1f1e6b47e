package services

import (
	"passreset/internal/app/deps"
	drl "passreset/internal/core/domain/ratelimiter"
	"passreset/internal/core/services"
	deleteexpiredtokens "passreset/internal/core/services/delete_expired_tokens"
	ratelimiting "passreset/internal/core/services/rate_limiting"
	requestpasswordreset "passreset/internal/core/services/request_password_reset"
	resetpassword "passreset/internal/core/services/reset_password"
)

type Services struct {
	RequestPasswordReset services.Service[requestpasswordreset.Input, requestpasswordreset.Result]
	ResetPassword        services.Service[resetpassword.Input, resetpassword.Result]
	DeleteExpiredTokens  services.Service[deleteexpiredtokens.Input, deleteexpiredtokens.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.RequestPasswordReset = ratelimiting.WithRateLimiting[requestpasswordreset.Input, requestpasswordreset.Result](
		deps.Logger,
		deps.RateLimiter,
		drl.Limit{Interval: drl.Hour, Value: 3},
		requestpasswordreset.New(
			deps.Logger,
			deps.UserDirectory,
			deps.TokenRepository,
			deps.TokenSender,
			deps.AuditTrail,
			deps.Config.PasswordResetValidDuration(),
			deps.Now,
		),
	)
	s.ResetPassword = resetpassword.New(
		deps.Logger,
		deps.TokenRepository,
		deps.UserDirectory,
		deps.AuditTrail,
		deps.Config.PasswordResetValidDuration(),
		deps.Now,
	)
	s.DeleteExpiredTokens = deleteexpiredtokens.New(
		deps.Logger,
		deps.TokenRepository,
		deps.AuditTrail,
		deps.Config.PasswordResetValidDuration(),
		deps.Now,
	)

	return s
}

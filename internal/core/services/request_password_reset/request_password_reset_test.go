package requestpasswordreset

import (
	"context"
	"testing"
	"time"

	"passreset/internal/core/domain/audit"
	c "passreset/internal/core/domain/common"
	"passreset/internal/core/domain/logging"
	"passreset/internal/core/domain/resettoken"
	"passreset/internal/core/domain/user"
	"passreset/internal/core/services"

	"github.com/stretchr/testify/require"
)

const ACTIVE_USER_ID = 1
const INACTIVE_USER_ID = 2
const EXTERNAL_AUTH_USER_ID = 3

const ACTIVE_USER_EMAIL = "user@example.com"

const VALID_DURATION = 24 * time.Hour

type suite struct {
	log       *logging.FakeLogger
	directory *user.FakeDirectory
	tokens    *resettoken.FakeRepository
	sender    *resettoken.FakeSender
	trail     *audit.FakeTrail
	now       time.Time
}

func setupSuite() *suite {
	directory := user.NewFakeDirectory()
	directory.Users = []user.User{
		{
			ID:           ACTIVE_USER_ID,
			Email:        c.NewEmail(ACTIVE_USER_EMAIL),
			Name:         "Test User",
			PasswordHash: c.NewOptional(user.PasswordHash("hash-1"), true),
			IsActive:     true,
		},
		{
			ID:           INACTIVE_USER_ID,
			Email:        c.NewEmail("inactive@example.com"),
			PasswordHash: c.NewOptional(user.PasswordHash("hash-2"), true),
			IsActive:     false,
		},
		{
			ID:       EXTERNAL_AUTH_USER_ID,
			Email:    c.NewEmail("sso@example.com"),
			IsActive: true,
		},
	}
	return &suite{
		log:       logging.NewFakeLogger(),
		directory: directory,
		tokens:    resettoken.NewFakeRepository(resettoken.NewFakeGenerator("test-token")),
		sender:    resettoken.NewFakeSender(),
		trail:     audit.NewFakeTrail(),
		now:       time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *suite) createService() services.Service[Input, Result] {
	return New(
		s.log,
		s.directory,
		s.tokens,
		s.sender,
		s.trail,
		VALID_DURATION,
		func() time.Time { return s.now },
	)
}

func TestTokenCreatedAndSent(t *testing.T) {
	// Setup ---
	suite := setupSuite()
	service := suite.createService()

	// Exercise ---
	result, err := service.Run(context.Background(), Input{
		Email:            c.NewEmail(ACTIVE_USER_EMAIL),
		RequestIP:        "203.0.113.7",
		RequestUserAgent: "test-agent",
	})

	// Verify ---
	require.NoError(t, err)
	require.False(t, result.Reused)
	require.Equal(t, 1, suite.tokens.TokenCount())
	require.Equal(t, 1, suite.sender.SentCount())

	stored := suite.tokens.Tokens[0]
	require.Equal(t, user.ID(ACTIVE_USER_ID), stored.OwnerID)
	require.Equal(t, suite.now, stored.IssuedAt)
	require.Equal(t, "203.0.113.7", stored.RequestIP)
	require.Equal(t, "test-agent", stored.RequestUserAgent)
	require.Equal(t, stored.Token, suite.sender.LastSent().Token.Token)
	require.Equal(t, 1, suite.trail.RecordedCount())
	require.Equal(t, audit.KindResetRequested, suite.trail.Recorded[0].Kind)
}

func TestEmailMatchIsCaseInsensitive(t *testing.T) {
	// Setup ---
	suite := setupSuite()
	service := suite.createService()

	// Exercise ---
	_, err := service.Run(context.Background(), Input{Email: c.NewEmail("USER@Example.COM")})

	// Verify ---
	require.NoError(t, err)
	require.Equal(t, 1, suite.tokens.TokenCount())
}

func TestSecondRequestWithinWindowReusesToken(t *testing.T) {
	// Setup ---
	suite := setupSuite()
	service := suite.createService()
	input := Input{Email: c.NewEmail(ACTIVE_USER_EMAIL)}

	// Exercise ---
	first, err := service.Run(context.Background(), input)
	require.NoError(t, err)
	suite.now = suite.now.Add(time.Hour)
	second, err := service.Run(context.Background(), input)

	// Verify ---
	require.NoError(t, err)
	require.False(t, first.Reused)
	require.True(t, second.Reused)
	require.Equal(t, first.Token.Token, second.Token.Token)
	require.Equal(t, 1, suite.tokens.TokenCount())
	require.Equal(t, 2, suite.sender.SentCount())
}

func TestExpiredTokenIsNotReused(t *testing.T) {
	// Setup ---
	suite := setupSuite()
	service := suite.createService()
	input := Input{Email: c.NewEmail(ACTIVE_USER_EMAIL)}

	// Exercise ---
	first, err := service.Run(context.Background(), input)
	require.NoError(t, err)
	suite.now = suite.now.Add(VALID_DURATION + time.Hour)
	second, err := service.Run(context.Background(), input)

	// Verify ---
	require.NoError(t, err)
	require.False(t, second.Reused)
	require.NotEqual(t, first.Token.Token, second.Token.Token)
	require.Equal(t, 2, suite.tokens.TokenCount())
}

func TestUnknownEmail(t *testing.T) {
	// Setup ---
	suite := setupSuite()
	service := suite.createService()

	// Exercise ---
	_, err := service.Run(context.Background(), Input{Email: c.NewEmail("nobody@example.com")})

	// Verify ---
	require.ErrorIs(t, err, user.ErrUserDoesNotExist)
	require.Equal(t, 0, suite.tokens.TokenCount())
	require.Equal(t, 0, suite.sender.SentCount())
}

func TestIneligibleUsersLookLikeUnknownEmails(t *testing.T) {
	cases := []struct {
		id    string
		email string
	}{
		{id: "inactive", email: "inactive@example.com"},
		{id: "no usable password", email: "sso@example.com"},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			// Setup ---
			suite := setupSuite()
			service := suite.createService()

			// Exercise ---
			_, err := service.Run(context.Background(), Input{Email: c.NewEmail(testcase.email)})

			// Verify ---
			require.ErrorIs(t, err, user.ErrUserDoesNotExist)
			require.Equal(t, 0, suite.tokens.TokenCount())
			require.Equal(t, 0, suite.sender.SentCount())
		})
	}
}

func TestSenderFailureKeepsTokenLive(t *testing.T) {
	// Setup ---
	suite := setupSuite()
	suite.sender.ReturnError = true
	service := suite.createService()

	// Exercise ---
	_, err := service.Run(context.Background(), Input{Email: c.NewEmail(ACTIVE_USER_EMAIL)})

	// Verify ---
	require.ErrorIs(t, err, resettoken.ErrDeliveryFailed)
	require.Equal(t, 1, suite.tokens.TokenCount())
}

func TestRepositoryFailure(t *testing.T) {
	// Setup ---
	suite := setupSuite()
	suite.tokens.ReturnError = true
	service := suite.createService()

	// Exercise ---
	_, err := service.Run(context.Background(), Input{Email: c.NewEmail(ACTIVE_USER_EMAIL)})

	// Verify ---
	require.Error(t, err)
	require.Equal(t, 0, suite.sender.SentCount())
}

func TestAuditFailureDoesNotFailRequest(t *testing.T) {
	// Setup ---
	suite := setupSuite()
	suite.trail.ReturnError = true
	service := suite.createService()

	// Exercise ---
	_, err := service.Run(context.Background(), Input{Email: c.NewEmail(ACTIVE_USER_EMAIL)})

	// Verify ---
	require.NoError(t, err)
	require.Equal(t, 1, suite.sender.SentCount())
}

package resetpassword

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

const NEW_PASSWORD = "NewPass123"

const VALID_DURATION = 24 * time.Hour

type suite struct {
	log       *logging.FakeLogger
	tokens    *resettoken.FakeRepository
	directory *user.FakeDirectory
	trail     *audit.FakeTrail
	now       time.Time
}

func setupSuite() *suite {
	directory := user.NewFakeDirectory()
	directory.Users = []user.User{
		{
			ID:           ACTIVE_USER_ID,
			Email:        c.NewEmail("user@example.com"),
			PasswordHash: c.NewOptional(user.PasswordHash("old-hash"), true),
			IsActive:     true,
		},
		{
			ID:           INACTIVE_USER_ID,
			Email:        c.NewEmail("inactive@example.com"),
			PasswordHash: c.NewOptional(user.PasswordHash("old-hash"), true),
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
		tokens:    resettoken.NewFakeRepository(resettoken.NewFakeGenerator("test-token")),
		directory: directory,
		trail:     audit.NewFakeTrail(),
		now:       time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *suite) createService() services.Service[Input, Result] {
	return New(
		s.log,
		s.tokens,
		s.directory,
		s.trail,
		VALID_DURATION,
		func() time.Time { return s.now },
	)
}

func (s *suite) issueToken(t *testing.T, owner user.ID, issuedAt time.Time) resettoken.ResetToken {
	t.Helper()
	token, err := s.tokens.Create(context.Background(), resettoken.CreateInput{
		OwnerID:   owner,
		IssuedAt:  issuedAt,
		NotBefore: issuedAt,
		RequestIP: "203.0.113.7",
	})
	require.NoError(t, err)
	return token
}

func TestPasswordSuccessfullyReset(t *testing.T) {
	// Setup ---
	suite := setupSuite()
	service := suite.createService()
	token := suite.issueToken(t, ACTIVE_USER_ID, suite.now.Add(-time.Hour))

	// Exercise ---
	_, err := service.Run(context.Background(), Input{
		Token:       token.Token,
		NewPassword: user.RawPassword(NEW_PASSWORD),
	})

	// Verify ---
	require.NoError(t, err)

	hasher := user.NewFakePasswordHasher()
	u, err := suite.directory.GetByID(context.Background(), ACTIVE_USER_ID)
	require.NoError(t, err)
	require.True(t, u.PasswordHash.IsPresent)
	require.True(t, hasher.ValidatePassword(NEW_PASSWORD, u.PasswordHash.Value))

	require.Equal(t, 0, suite.tokens.TokenCount())
	require.Equal(t, 1, suite.trail.RecordedCount())
	require.Equal(t, audit.KindPasswordChanged, suite.trail.Recorded[0].Kind)
}

func TestTokenCannotBeReplayed(t *testing.T) {
	// Setup ---
	suite := setupSuite()
	service := suite.createService()
	token := suite.issueToken(t, ACTIVE_USER_ID, suite.now.Add(-time.Hour))
	input := Input{Token: token.Token, NewPassword: user.RawPassword(NEW_PASSWORD)}

	// Exercise ---
	_, err := service.Run(context.Background(), input)
	require.NoError(t, err)
	_, err = service.Run(context.Background(), input)

	// Verify ---
	require.ErrorIs(t, err, resettoken.ErrTokenDoesNotExist)
}

func TestExpiredToken(t *testing.T) {
	// Setup ---
	suite := setupSuite()
	service := suite.createService()
	token := suite.issueToken(t, ACTIVE_USER_ID, suite.now.Add(-VALID_DURATION-time.Hour))

	// Exercise ---
	_, err := service.Run(context.Background(), Input{
		Token:       token.Token,
		NewPassword: user.RawPassword(NEW_PASSWORD),
	})

	// Verify ---
	require.ErrorIs(t, err, resettoken.ErrTokenDoesNotExist)
	u, getErr := suite.directory.GetByID(context.Background(), ACTIVE_USER_ID)
	require.NoError(t, getErr)
	require.Equal(t, user.PasswordHash("old-hash"), u.PasswordHash.Value)
}

func TestUnknownToken(t *testing.T) {
	// Setup ---
	suite := setupSuite()
	service := suite.createService()

	// Exercise ---
	_, err := service.Run(context.Background(), Input{
		Token:       resettoken.Token("does-not-exist"),
		NewPassword: user.RawPassword(NEW_PASSWORD),
	})

	// Verify ---
	require.ErrorIs(t, err, resettoken.ErrTokenDoesNotExist)
}

func TestIneligibleOwners(t *testing.T) {
	cases := []struct {
		id    string
		owner user.ID
	}{
		{id: "inactive", owner: INACTIVE_USER_ID},
		{id: "no usable password", owner: EXTERNAL_AUTH_USER_ID},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			// Setup ---
			suite := setupSuite()
			service := suite.createService()
			token := suite.issueToken(t, testcase.owner, suite.now.Add(-time.Hour))

			// Exercise ---
			_, err := service.Run(context.Background(), Input{
				Token:       token.Token,
				NewPassword: user.RawPassword(NEW_PASSWORD),
			})

			// Verify ---
			require.ErrorIs(t, err, resettoken.ErrTokenDoesNotExist)
		})
	}
}

func TestOwnerMissingFromDirectory(t *testing.T) {
	// Setup ---
	suite := setupSuite()
	service := suite.createService()
	token := suite.issueToken(t, user.ID(999), suite.now.Add(-time.Hour))

	// Exercise ---
	_, err := service.Run(context.Background(), Input{
		Token:       token.Token,
		NewPassword: user.RawPassword(NEW_PASSWORD),
	})

	// Verify ---
	require.ErrorIs(t, err, resettoken.ErrTokenDoesNotExist)
}

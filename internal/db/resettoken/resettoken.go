package resettoken

import (
	"context"
	"errors"
	"fmt"
	"time"

	e "passreset/internal/core/domain/errors"
	"passreset/internal/core/domain/resettoken"
	"passreset/internal/core/domain/user"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const PG_UNIQUE_CONSTRAINT_ERR_CODE = "23505"
const TOKEN_PK_CONSTRAINT_NAME = "password_reset_token_pkey"

// With 256 bits of entropy a collision is astronomically unlikely; the retry
// exists so a duplicate INSERT degrades into a regenerate instead of a 500.
const createMaxAttempts = 3

const lockOwner = `SELECT pg_advisory_xact_lock($1)`

const insertToken = `
INSERT INTO password_reset_token (token, owner_id, issued_at, request_ip, request_user_agent)
VALUES ($1, $2, $3, $4, $5)
`

const getLiveByOwner = `
SELECT token, owner_id, issued_at, request_ip, request_user_agent
FROM password_reset_token
WHERE owner_id = $1 AND issued_at >= $2
ORDER BY issued_at DESC
LIMIT 1
`

const getByToken = `
SELECT token, owner_id, issued_at, request_ip, request_user_agent
FROM password_reset_token
WHERE token = $1
`

const deleteByToken = `DELETE FROM password_reset_token WHERE token = $1`

const deleteExpired = `DELETE FROM password_reset_token WHERE issued_at < $1`

type PgxRepository struct {
	db        *pgxpool.Pool
	generator resettoken.Generator
}

func NewPgxRepository(db *pgxpool.Pool, generator resettoken.Generator) *PgxRepository {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	if generator == nil {
		panic(e.NewNilArgumentError("generator"))
	}
	return &PgxRepository{db: db, generator: generator}
}

// Create inserts a freshly generated token inside a transaction that holds an
// advisory lock on the owner id. The live-token re-check under the lock means
// two concurrent requests for the same owner converge on one stored token.
func (r *PgxRepository) Create(
	ctx context.Context,
	input resettoken.CreateInput,
) (t resettoken.ResetToken, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return t, err
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx, lockOwner, int64(input.OwnerID)); err != nil {
		return t, err
	}

	row := tx.QueryRow(ctx, getLiveByOwner, int64(input.OwnerID), input.NotBefore)
	t, err = scanToken(row)
	if err == nil {
		return t, tx.Commit(ctx)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return t, err
	}

	for attempt := 1; ; attempt++ {
		var token resettoken.Token
		token, err = r.generator.GenerateToken()
		if err != nil {
			return t, err
		}
		_, err = tx.Exec(
			ctx,
			insertToken,
			string(token),
			int64(input.OwnerID),
			input.IssuedAt,
			input.RequestIP,
			input.RequestUserAgent,
		)
		if err == nil {
			t = resettoken.ResetToken{
				Token:            token,
				OwnerID:          input.OwnerID,
				IssuedAt:         input.IssuedAt,
				RequestIP:        input.RequestIP,
				RequestUserAgent: input.RequestUserAgent,
			}
			return t, tx.Commit(ctx)
		}
		if !isTokenCollision(err) {
			return t, err
		}
		if attempt >= createMaxAttempts {
			return t, fmt.Errorf("%w: %v", resettoken.ErrTokenAlreadyExists, err)
		}
	}
}

func (r *PgxRepository) GetLiveByOwner(
	ctx context.Context,
	owner user.ID,
	notBefore time.Time,
) (t resettoken.ResetToken, err error) {
	row := r.db.QueryRow(ctx, getLiveByOwner, int64(owner), notBefore)
	t, err = scanToken(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return t, resettoken.ErrTokenDoesNotExist
	}
	return t, err
}

func (r *PgxRepository) GetByToken(
	ctx context.Context,
	token resettoken.Token,
) (t resettoken.ResetToken, err error) {
	row := r.db.QueryRow(ctx, getByToken, string(token))
	t, err = scanToken(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return t, resettoken.ErrTokenDoesNotExist
	}
	return t, err
}

func (r *PgxRepository) Delete(ctx context.Context, token resettoken.Token) error {
	commandTag, err := r.db.Exec(ctx, deleteByToken, string(token))
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return resettoken.ErrTokenDoesNotExist
	}
	return nil
}

func (r *PgxRepository) DeleteExpired(ctx context.Context, issuedBefore time.Time) (int64, error) {
	commandTag, err := r.db.Exec(ctx, deleteExpired, issuedBefore)
	if err != nil {
		return 0, err
	}
	return commandTag.RowsAffected(), nil
}

func isTokenCollision(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == PG_UNIQUE_CONSTRAINT_ERR_CODE && pgErr.ConstraintName == TOKEN_PK_CONSTRAINT_NAME
}

func scanToken(row pgx.Row) (t resettoken.ResetToken, err error) {
	var (
		token     string
		ownerID   int64
		issuedAt  time.Time
		ip        string
		userAgent string
	)
	if err = row.Scan(&token, &ownerID, &issuedAt, &ip, &userAgent); err != nil {
		return t, err
	}
	return resettoken.ResetToken{
		Token:            resettoken.Token(token),
		OwnerID:          user.ID(ownerID),
		IssuedAt:         issuedAt,
		RequestIP:        ip,
		RequestUserAgent: userAgent,
	}, nil
}

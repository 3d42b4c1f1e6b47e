package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	c "passreset/internal/core/domain/common"
	e "passreset/internal/core/domain/errors"
	"passreset/internal/core/domain/user"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const getUserByEmail = `
SELECT id, email, name, password_hash, is_active, created_at
FROM "user"
WHERE lower(email) = lower($1)
`

const getUserByID = `
SELECT id, email, name, password_hash, is_active, created_at
FROM "user"
WHERE id = $1
`

const setUserPassword = `
UPDATE "user"
SET password_hash = $2
WHERE id = $1
`

// PgxDirectory adapts the shared user table to the user.Directory port.
// It hashes passwords itself; callers hand over the plaintext.
type PgxDirectory struct {
	db     *pgxpool.Pool
	hasher user.PasswordHasher
}

func NewPgxDirectory(db *pgxpool.Pool, hasher user.PasswordHasher) *PgxDirectory {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	if hasher == nil {
		panic(e.NewNilArgumentError("hasher"))
	}
	return &PgxDirectory{db: db, hasher: hasher}
}

func (d *PgxDirectory) GetByEmail(ctx context.Context, email c.Email) (u user.User, err error) {
	row := d.db.QueryRow(ctx, getUserByEmail, string(email))
	u, err = scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrUserDoesNotExist
	}
	return u, err
}

func (d *PgxDirectory) GetByID(ctx context.Context, id user.ID) (u user.User, err error) {
	row := d.db.QueryRow(ctx, getUserByID, int64(id))
	u, err = scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrUserDoesNotExist
	}
	return u, err
}

func (d *PgxDirectory) SetPassword(ctx context.Context, id user.ID, password user.RawPassword) error {
	hash, err := d.hasher.HashPassword(password)
	if err != nil {
		return err
	}
	commandTag, err := d.db.Exec(ctx, setUserPassword, int64(id), string(hash))
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

func scanUser(row pgx.Row) (u user.User, err error) {
	var (
		id           int64
		email        string
		name         string
		passwordHash sql.NullString
		isActive     bool
		createdAt    time.Time
	)
	if err = row.Scan(&id, &email, &name, &passwordHash, &isActive, &createdAt); err != nil {
		return u, err
	}
	return user.User{
		ID:           user.ID(id),
		Email:        c.NewEmail(email),
		Name:         name,
		PasswordHash: c.NewOptional(user.PasswordHash(passwordHash.String), passwordHash.Valid),
		IsActive:     isActive,
		CreatedAt:    createdAt,
	}, nil
}

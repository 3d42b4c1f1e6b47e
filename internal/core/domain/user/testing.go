package user

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	c "passreset/internal/core/domain/common"
	"strings"
	"sync"
)

type FakeDirectory struct {
	Users       []User
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeDirectory() *FakeDirectory {
	return &FakeDirectory{Users: make([]User, 0, 10)}
}

func (d *FakeDirectory) GetByEmail(ctx context.Context, email c.Email) (u User, err error) {
	if d.ReturnError {
		return u, fmt.Errorf("could not get user by email %s", email)
	}
	d.lock.Lock()
	defer d.lock.Unlock()
	for _, u := range d.Users {
		if strings.EqualFold(string(u.Email), string(email)) {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (d *FakeDirectory) GetByID(ctx context.Context, id ID) (u User, err error) {
	if d.ReturnError {
		return u, fmt.Errorf("could not get user by id %d", id)
	}
	d.lock.Lock()
	defer d.lock.Unlock()
	for _, u := range d.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (d *FakeDirectory) SetPassword(ctx context.Context, id ID, password RawPassword) error {
	if d.ReturnError {
		return fmt.Errorf("could not set password for user %d", id)
	}
	d.lock.Lock()
	defer d.lock.Unlock()
	for ix := range d.Users {
		if d.Users[ix].ID == id {
			hasher := NewFakePasswordHasher()
			hash, err := hasher.HashPassword(password)
			if err != nil {
				return err
			}
			d.Users[ix].PasswordHash = c.NewOptional(hash, true)
			return nil
		}
	}
	return ErrUserDoesNotExist
}

type FakePasswordHasher struct{}

func NewFakePasswordHasher() *FakePasswordHasher {
	return &FakePasswordHasher{}
}

func (h *FakePasswordHasher) HashPassword(password RawPassword) (PasswordHash, error) {
	hash := md5.New()
	io.WriteString(hash, string(password))
	return PasswordHash(fmt.Sprintf("%x", hash.Sum(nil))), nil
}

func (h *FakePasswordHasher) ValidatePassword(password RawPassword, hash PasswordHash) bool {
	actualHash, err := h.HashPassword(password)
	if err != nil {
		return false
	}
	return actualHash == hash
}

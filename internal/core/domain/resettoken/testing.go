package resettoken

import (
	"context"
	"fmt"
	"passreset/internal/core/domain/user"
	"sync"
	"time"
)

type FakeRepository struct {
	Tokens      []ResetToken
	Generator   Generator
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeRepository(generator Generator) *FakeRepository {
	return &FakeRepository{Tokens: make([]ResetToken, 0, 10), Generator: generator}
}

func (r *FakeRepository) Create(ctx context.Context, input CreateInput) (t ResetToken, err error) {
	if r.ReturnError {
		return t, fmt.Errorf("could not create token for owner %d", input.OwnerID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	if existing, ok := r.liveByOwner(input.OwnerID, input.NotBefore); ok {
		return existing, nil
	}
	token, err := r.Generator.GenerateToken()
	if err != nil {
		return t, err
	}
	t = ResetToken{
		Token:            token,
		OwnerID:          input.OwnerID,
		IssuedAt:         input.IssuedAt,
		RequestIP:        input.RequestIP,
		RequestUserAgent: input.RequestUserAgent,
	}
	r.Tokens = append(r.Tokens, t)
	return t, nil
}

func (r *FakeRepository) GetLiveByOwner(
	ctx context.Context,
	owner user.ID,
	notBefore time.Time,
) (t ResetToken, err error) {
	if r.ReturnError {
		return t, fmt.Errorf("could not get live token for owner %d", owner)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	if existing, ok := r.liveByOwner(owner, notBefore); ok {
		return existing, nil
	}
	return t, ErrTokenDoesNotExist
}

func (r *FakeRepository) GetByToken(ctx context.Context, token Token) (t ResetToken, err error) {
	if r.ReturnError {
		return t, fmt.Errorf("could not get token")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, stored := range r.Tokens {
		if stored.Token == token {
			return stored, nil
		}
	}
	return t, ErrTokenDoesNotExist
}

func (r *FakeRepository) Delete(ctx context.Context, token Token) error {
	if r.ReturnError {
		return fmt.Errorf("could not delete token")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, stored := range r.Tokens {
		if stored.Token == token {
			r.Tokens = append(r.Tokens[:ix], r.Tokens[ix+1:]...)
			return nil
		}
	}
	return ErrTokenDoesNotExist
}

func (r *FakeRepository) DeleteExpired(ctx context.Context, issuedBefore time.Time) (int64, error) {
	if r.ReturnError {
		return 0, fmt.Errorf("could not delete expired tokens")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	kept := r.Tokens[:0]
	deleted := int64(0)
	for _, stored := range r.Tokens {
		if stored.IssuedAt.Before(issuedBefore) {
			deleted++
			continue
		}
		kept = append(kept, stored)
	}
	r.Tokens = kept
	return deleted, nil
}

func (r *FakeRepository) TokenCount() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.Tokens)
}

func (r *FakeRepository) liveByOwner(owner user.ID, notBefore time.Time) (ResetToken, bool) {
	var found ResetToken
	ok := false
	for _, stored := range r.Tokens {
		if stored.OwnerID != owner || stored.IssuedAt.Before(notBefore) {
			continue
		}
		if !ok || stored.IssuedAt.After(found.IssuedAt) {
			found = stored
			ok = true
		}
	}
	return found, ok
}

type SentToken struct {
	User  user.User
	Token ResetToken
}

type FakeSender struct {
	Sent        []SentToken
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeSender() *FakeSender {
	return &FakeSender{}
}

func (s *FakeSender) SendToken(ctx context.Context, u user.User, token ResetToken) error {
	if s.ReturnError {
		return fmt.Errorf("could not send token to user %d", u.ID)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Sent = append(s.Sent, SentToken{User: u, Token: token})
	return nil
}

func (s *FakeSender) SentCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.Sent)
}

func (s *FakeSender) LastSent() SentToken {
	s.lock.Lock()
	defer s.lock.Unlock()
	l := len(s.Sent)
	if l == 0 {
		panic("Sent count is 0.")
	}
	return s.Sent[l-1]
}

type FakeGenerator struct {
	Token Token
	Err   error
	calls int
	lock  sync.Mutex
}

func NewFakeGenerator(token string) *FakeGenerator {
	return &FakeGenerator{Token: Token(token)}
}

func (g *FakeGenerator) GenerateToken() (Token, error) {
	g.lock.Lock()
	defer g.lock.Unlock()
	if g.Err != nil {
		return "", g.Err
	}
	g.calls++
	return Token(fmt.Sprintf("%s-%d", g.Token, g.calls)), nil
}

package ratelimiter

import (
	"context"
	"sync"
)

type FakeRateLimiter struct {
	Keys     []string
	Disallow bool
	lock     sync.Mutex
}

func NewFakeRateLimiter(disallow bool) *FakeRateLimiter {
	return &FakeRateLimiter{Disallow: disallow}
}

func (r *FakeRateLimiter) CheckLimit(ctx context.Context, key string, limit Limit) Result {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.Keys = append(r.Keys, key)
	if r.Disallow {
		return NotAllowed()
	}
	return Allowed()
}

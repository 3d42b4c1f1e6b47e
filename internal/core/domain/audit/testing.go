package audit

import (
	"context"
	"fmt"
	"sync"
)

type FakeTrail struct {
	Recorded    []Event
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeTrail() *FakeTrail {
	return &FakeTrail{}
}

func (t *FakeTrail) Record(ctx context.Context, event Event) error {
	if t.ReturnError {
		return fmt.Errorf("could not record event %s", event.Kind)
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	t.Recorded = append(t.Recorded, event)
	return nil
}

func (t *FakeTrail) RecordedCount() int {
	t.lock.Lock()
	defer t.lock.Unlock()
	return len(t.Recorded)
}

package agent

import (
	"sync"

	"golang.org/x/sync/semaphore"
)

// InFlight allows at most one pending generation per session.
// A slot only exists while it is held, so idle sessions cost nothing.
type InFlight struct {
	mu    sync.Mutex
	slots map[string]*semaphore.Weighted
}

func NewInFlight() *InFlight {
	return &InFlight{slots: make(map[string]*semaphore.Weighted)}
}

// TryAcquire marks the session busy. It returns ErrInFlight if it already is.
func (f *InFlight) TryAcquire(key string) (release func(), err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot, ok := f.slots[key]
	if !ok {
		slot = semaphore.NewWeighted(1)
	}
	if !slot.TryAcquire(1) {
		return nil, ErrInFlight
	}
	f.slots[key] = slot

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			if f.slots[key] == slot {
				delete(f.slots, key)
			}
			f.mu.Unlock()
			slot.Release(1)
		})
	}, nil
}

func (f *InFlight) Busy(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.slots[key]
	return ok
}

func (f *InFlight) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.slots)
}

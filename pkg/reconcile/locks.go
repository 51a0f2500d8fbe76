package reconcile

import (
	"context"
	"sync"
)

// scopeLocks serializes work per inventory scope. Waiting for a scope can be
// abandoned through the context; idle scopes are dropped from the map.
type scopeLocks struct {
	mu    sync.Mutex
	slots map[string]*scopeSlot
}

type scopeSlot struct {
	ch   chan struct{}
	refs int
}

func newScopeLocks() *scopeLocks {
	return &scopeLocks{slots: make(map[string]*scopeSlot)}
}

func (l *scopeLocks) acquire(ctx context.Context, scope string) (func(), error) {
	l.mu.Lock()
	slot, ok := l.slots[scope]
	if !ok {
		slot = &scopeSlot{ch: make(chan struct{}, 1)}
		l.slots[scope] = slot
	}
	slot.refs++
	l.mu.Unlock()

	select {
	case slot.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-slot.ch
				l.drop(scope, slot)
			})
		}, nil
	case <-ctx.Done():
		l.drop(scope, slot)
		return nil, ctx.Err()
	}
}

func (l *scopeLocks) drop(scope string, slot *scopeSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	slot.refs--
	if slot.refs == 0 {
		delete(l.slots, scope)
	}
}

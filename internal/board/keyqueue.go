package board

import (
	"context"
	"sync"
)

// queueKey identifies in-flight work on one facet of one entity.
type queueKey struct {
	entity string
	kind   MutationKind
}

// keyQueue serializes work per key in registration order. Each ticket waits
// for the previous holder of every key it holds, plus the current holder of
// each key it only needs to follow.
type keyQueue struct {
	mu    sync.Mutex
	tails map[queueKey]chan struct{}
}

func newKeyQueue() *keyQueue {
	return &keyQueue{tails: make(map[queueKey]chan struct{})}
}

type ticket struct {
	q     *keyQueue
	hold  []queueKey
	waits []chan struct{}
	done  chan struct{}
	once  sync.Once
}

// enter registers a ticket. Registration order is dispatch order for
// tickets sharing a key.
func (q *keyQueue) enter(hold, follow []queueKey) *ticket {
	t := &ticket{q: q, hold: hold, done: make(chan struct{})}

	q.mu.Lock()
	defer q.mu.Unlock()
	for _, k := range follow {
		if prev, ok := q.tails[k]; ok {
			t.waits = append(t.waits, prev)
		}
	}
	for _, k := range hold {
		if prev, ok := q.tails[k]; ok {
			t.waits = append(t.waits, prev)
		}
		q.tails[k] = t.done
	}
	return t
}

// wait blocks until every predecessor has released. If ctx ends first the
// ticket still releases, but only after its predecessors, so the order seen
// by later tickets is unchanged.
func (t *ticket) wait(ctx context.Context) error {
	for i, w := range t.waits {
		select {
		case <-w:
		case <-ctx.Done():
			rest := t.waits[i:]
			go func() {
				for _, w := range rest {
					<-w
				}
				t.release()
			}()
			return ctx.Err()
		}
	}
	return nil
}

func (t *ticket) release() {
	t.once.Do(func() {
		close(t.done)
		t.q.mu.Lock()
		for _, k := range t.hold {
			if t.q.tails[k] == t.done {
				delete(t.q.tails, k)
			}
		}
		t.q.mu.Unlock()
	})
}

// busy reports whether any ticket currently holds k.
func (q *keyQueue) busy(k queueKey) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.tails[k]
	return ok
}

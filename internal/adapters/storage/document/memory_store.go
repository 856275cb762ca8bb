package document

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryBackend is process-local storage shared by any number of views.
type MemoryBackend struct {
	mu   sync.RWMutex
	docs map[string]string
	subs map[int]*memorySub
	next int
}

type memorySub struct {
	origin string
	ch     chan Change
}

// watchBuffer bounds the pending changes per watcher; overflow is dropped.
const watchBuffer = 64

// NewMemoryBackend creates an empty backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		docs: make(map[string]string),
		subs: make(map[int]*memorySub),
	}
}

// View opens a new view with its own origin, like a browser tab.
func (b *MemoryBackend) View() *MemoryStore {
	return &MemoryStore{backend: b, origin: uuid.NewString()}
}

// MemoryStore is one view onto a MemoryBackend. It implements Store and Watcher.
type MemoryStore struct {
	backend *MemoryBackend
	origin  string
}

// NewMemoryStore creates a single view over a fresh backend.
func NewMemoryStore() *MemoryStore {
	return NewMemoryBackend().View()
}

// Origin identifies this view in Change records.
func (s *MemoryStore) Origin() string { return s.origin }

// Read returns the document at key.
func (s *MemoryStore) Read(_ context.Context, key string) (string, bool, error) {
	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()
	v, ok := s.backend.docs[key]
	return v, ok, nil
}

// Write stores value under key and notifies the other views.
func (s *MemoryStore) Write(_ context.Context, key, value string) error {
	s.backend.mu.Lock()
	s.backend.docs[key] = value
	s.backend.mu.Unlock()
	s.backend.publish(Change{Key: key, Value: value, Origin: s.origin, At: time.Now()})
	return nil
}

// Remove deletes key and notifies the other views.
func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.backend.mu.Lock()
	_, existed := s.backend.docs[key]
	delete(s.backend.docs, key)
	s.backend.mu.Unlock()
	if existed {
		s.backend.publish(Change{Key: key, Removed: true, Origin: s.origin, At: time.Now()})
	}
	return nil
}

// Watch delivers changes made by other views until ctx is done.
func (s *MemoryStore) Watch(ctx context.Context, fn func(Change)) error {
	sub := &memorySub{origin: s.origin, ch: make(chan Change, watchBuffer)}
	b := s.backend
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = sub
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-sub.ch:
			fn(c)
		}
	}
}

func (b *MemoryBackend) publish(c Change) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs {
		if sub.origin == c.Origin {
			continue
		}
		select {
		case sub.ch <- c:
		default:
		}
	}
}

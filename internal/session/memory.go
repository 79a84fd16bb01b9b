package session

import (
	"container/list"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/fusion-ai/internal/models"
)

type memoryEntry struct {
	id        string
	data      []byte
	expiresAt time.Time
}

// MemoryStore is an in-process session store with least-recently-used
// eviction once capacity is reached and a fixed time-to-live per session.
type MemoryStore struct {
	capacity int
	ttl      time.Duration
	now      func() time.Time
	logger   *logrus.Logger

	mu      sync.Mutex
	order   *list.List // front is most recently used
	entries map[string]*list.Element

	janitor *cron.Cron
}

// MemoryOption customizes a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock replaces the time source.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

// NewMemoryStore creates a store holding at most capacity sessions.
func NewMemoryStore(capacity int, ttl time.Duration, logger *logrus.Logger, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Name() string { return "memory" }

// Get returns a copy of the session and marks it recently used.
func (s *MemoryStore) Get(ctx context.Context, id string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.entries[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	entry := el.Value.(*memoryEntry)
	if !s.now().Before(entry.expiresAt) {
		s.removeElement(el)
		return nil, ErrSessionNotFound
	}
	s.order.MoveToFront(el)

	var sess models.Session
	if err := json.Unmarshal(entry.data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	return &sess, nil
}

// Save stores a snapshot of the session, refreshing its expiry.
func (s *MemoryStore) Save(ctx context.Context, sess *models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", sess.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt := s.now().Add(s.ttl)
	if el, ok := s.entries[sess.ID]; ok {
		entry := el.Value.(*memoryEntry)
		entry.data = data
		entry.expiresAt = expiresAt
		s.order.MoveToFront(el)
		return nil
	}

	for s.order.Len() >= s.capacity {
		oldest := s.order.Back()
		if oldest == nil {
			break
		}
		evicted := oldest.Value.(*memoryEntry).id
		s.removeElement(oldest)
		s.logger.WithField("session_id", evicted).Debug("Evicted least recently used session")
	}

	s.entries[sess.ID] = s.order.PushFront(&memoryEntry{id: sess.ID, data: data, expiresAt: expiresAt})
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.entries[id]; ok {
		s.removeElement(el)
	}
	return nil
}

func (s *MemoryStore) Len(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries), nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Sweep drops every expired session and reports how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for el := s.order.Back(); el != nil; {
		prev := el.Prev()
		if !now.Before(el.Value.(*memoryEntry).expiresAt) {
			s.removeElement(el)
			removed++
		}
		el = prev
	}
	return removed
}

// StartJanitor schedules Sweep on a cron spec such as "@every 1m".
func (s *MemoryStore) StartJanitor(spec string) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if removed := s.Sweep(); removed > 0 {
			s.logger.WithField("expired_sessions", removed).Debug("Swept expired sessions")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid session sweep schedule %q: %w", spec, err)
	}
	c.Start()

	s.mu.Lock()
	s.janitor = c
	s.mu.Unlock()
	return nil
}

// StopJanitor halts the sweep schedule and waits for a running sweep.
func (s *MemoryStore) StopJanitor() {
	s.mu.Lock()
	c := s.janitor
	s.janitor = nil
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}

func (s *MemoryStore) removeElement(el *list.Element) {
	entry := el.Value.(*memoryEntry)
	delete(s.entries, entry.id)
	s.order.Remove(el)
}

package site

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SabirovSR/portfolio/internal/contact"
)

// Factory builds the controller for a new visitor session.
type Factory func() *contact.Controller

type session struct {
	ctl      *contact.Controller
	lastSeen time.Time
}

// Sessions maps opaque visitor ids to their contact form controllers.
// Every controller it drops, by expiry or shutdown, is closed.
type Sessions struct {
	newController Factory
	ttl           time.Duration
	now           func() time.Time

	mu    sync.Mutex
	items map[string]*session
}

func NewSessions(f Factory, ttl time.Duration) *Sessions {
	return &Sessions{
		newController: f,
		ttl:           ttl,
		now:           time.Now,
		items:         make(map[string]*session),
	}
}

func (s *Sessions) TTL() time.Duration { return s.ttl }

// Get returns the controller for id, creating a session under a fresh id
// when id is empty or unknown. The returned id is the one to hand back to
// the client.
func (s *Sessions) Get(id string) (*contact.Controller, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.items[id]; ok && id != "" {
		sess.lastSeen = s.now()
		return sess.ctl, id
	}
	id = uuid.NewString()
	sess := &session{ctl: s.newController(), lastSeen: s.now()}
	s.items[id] = sess
	return sess.ctl, id
}

// Peek returns an existing controller without creating one.
func (s *Sessions) Peek(id string) (*contact.Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.items[id]
	if !ok {
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess.ctl, true
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sweep closes and forgets sessions idle for longer than the TTL.
func (s *Sessions) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	var expired []*contact.Controller
	for id, sess := range s.items {
		if sess.lastSeen.Before(cutoff) {
			expired = append(expired, sess.ctl)
			delete(s.items, id)
		}
	}
	s.mu.Unlock()

	for _, ctl := range expired {
		ctl.Close()
	}
	return len(expired)
}

// CloseAll closes every controller; used on shutdown.
func (s *Sessions) CloseAll() {
	s.mu.Lock()
	items := s.items
	s.items = make(map[string]*session)
	s.mu.Unlock()

	for _, sess := range items {
		sess.ctl.Close()
	}
}

// Run sweeps periodically until ctx is done, then closes everything.
func (s *Sessions) Run(ctx context.Context) {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.CloseAll()
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

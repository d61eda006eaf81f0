package calculator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultSessionTTL is how long an untouched session survives.
const DefaultSessionTTL = 30 * time.Minute

type entry struct {
	pad      *Pad
	lastUsed time.Time
}

// Store owns one Pad per widget session.
type Store struct {
	mu   sync.Mutex
	pads map[string]*entry

	ttl     time.Duration
	padOpts []PadOption
	logger  *zap.Logger
	now     func() time.Time
}

// NewStore returns an empty store. Pads it creates are built with padOpts.
func NewStore(ttl time.Duration, logger *zap.Logger, padOpts ...PadOption) *Store {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		pads:    make(map[string]*entry),
		ttl:     ttl,
		padOpts: padOpts,
		logger:  logger,
		now:     time.Now,
	}
}

// Create starts a session and returns its id.
func (s *Store) Create() (string, *Pad) {
	id := uuid.New().String()
	pad := NewPad(s.padOpts...)

	s.mu.Lock()
	s.pads[id] = &entry{pad: pad, lastUsed: s.now()}
	s.mu.Unlock()

	return id, pad
}

// Get returns the session's pad and marks it used.
func (s *Store) Get(id string) (*Pad, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.pads[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.lastUsed = s.now()
	return e.pad, nil
}

// Delete closes and forgets a session.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	e, ok := s.pads[id]
	delete(s.pads, id)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	e.pad.Close()
	return nil
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pads)
}

// Sweep closes sessions idle for longer than the TTL and returns how many
// were removed.
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	var expired []*Pad
	s.mu.Lock()
	for id, e := range s.pads {
		if e.lastUsed.Before(cutoff) {
			expired = append(expired, e.pad)
			delete(s.pads, id)
		}
	}
	s.mu.Unlock()

	for _, pad := range expired {
		pad.Close()
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done, then closes every session.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Info("expired idle sessions",
					zap.Int("expired", n),
					zap.Int("remaining", s.Len()),
				)
			}
		}
	}
}

func (s *Store) closeAll() {
	s.mu.Lock()
	pads := s.pads
	s.pads = make(map[string]*entry)
	s.mu.Unlock()

	for _, e := range pads {
		e.pad.Close()
	}
}

// Package session holds the participant's experiment progress and notifies
// subscribers whenever it changes.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/patrickmn/go-cache"

	"trialheader/internal/logging"
	"trialheader/internal/progress"
)

const (
	KeyTrialsCompleted = progress.KeyTrialsCompleted
	KeyN               = progress.KeyN
)

var (
	ErrUnknownKey = errors.New("unknown session key")
	ErrClosed     = errors.New("session store closed")
)

// Change is published to subscribers after every mutation.
type Change struct {
	Key   string
	Value int
}

type Option func(*Store)

func WithLogger(logger logging.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithParticipantID(id string) Option {
	return func(s *Store) {
		if id != "" {
			s.participantID = id
		}
	}
}

// Store is an in-memory progress store. It is safe for concurrent use.
type Store struct {
	mu            sync.Mutex
	values        *cache.Cache
	subscribers   map[int]chan Change
	nextID        int
	closed        bool
	participantID string
	logger        logging.Logger
}

func New(opts ...Option) *Store {
	s := &Store{
		values:      cache.New(cache.NoExpiration, 0),
		subscribers: map[int]chan Change{},
		logger:      logging.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.participantID == "" {
		id, err := GenerateID(defaultIDLength)
		if err != nil {
			s.logger.Warn("participant id unavailable", logging.F("err", err))
		}
		s.participantID = id
	}
	s.logger = s.logger.With(logging.F("participant", s.participantID))
	return s
}

func (s *Store) ParticipantID() string {
	return s.participantID
}

// Int implements progress.Reader.
func (s *Store) Int(key string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.intLocked(key)
}

// Snapshot reads both keys under one lock, so it never mixes the values of
// two different mutations.
func (s *Store) Snapshot() (progress.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return progress.Load(lockedReader{s})
}

func (s *Store) intLocked(key string) (int, bool) {
	raw, ok := s.values.Get(key)
	if !ok {
		return 0, false
	}
	value, ok := raw.(int)
	return value, ok
}

// lockedReader reads the store while the caller holds s.mu.
type lockedReader struct {
	s *Store
}

func (r lockedReader) Int(key string) (int, bool) {
	return r.s.intLocked(key)
}

func (s *Store) Set(key string, value int) error {
	if err := validate(key, value); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.setLocked(key, value)
	return nil
}

// Start sets the trial count and seeds trialsCompleted with either the
// not-started sentinel or zero.
func (s *Store) Start(n int, notStarted bool) error {
	if err := validate(KeyN, n); err != nil {
		return err
	}
	completed := 0
	if notStarted {
		completed = progress.NotStarted
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.setLocked(KeyN, n)
	s.setLocked(KeyTrialsCompleted, completed)
	return nil
}

// Advance begins the experiment when it has not started, otherwise records
// one more completed trial. It never moves past N.
func (s *Store) Advance() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	snap, err := progress.Load(lockedReader{s})
	if err != nil {
		return 0, err
	}
	switch {
	case !snap.Started():
		s.setLocked(KeyTrialsCompleted, 0)
		return 0, nil
	case snap.TrialsCompleted >= snap.N:
		return snap.TrialsCompleted, nil
	}
	next, err := s.values.IncrementInt(KeyTrialsCompleted, 1)
	if err != nil {
		return 0, fmt.Errorf("advance %s: %w", KeyTrialsCompleted, err)
	}
	s.publishLocked(KeyTrialsCompleted, next)
	return next, nil
}

// Undo takes back one completed trial. It never goes below zero and leaves a
// not-started session alone.
func (s *Store) Undo() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	snap, err := progress.Load(lockedReader{s})
	if err != nil {
		return 0, err
	}
	if snap.TrialsCompleted <= 0 {
		return snap.TrialsCompleted, nil
	}
	next, err := s.values.DecrementInt(KeyTrialsCompleted, 1)
	if err != nil {
		return 0, fmt.Errorf("undo %s: %w", KeyTrialsCompleted, err)
	}
	s.publishLocked(KeyTrialsCompleted, next)
	return next, nil
}

func (s *Store) Reset() error {
	return s.Set(KeyTrialsCompleted, progress.NotStarted)
}

// Subscribe returns a channel that receives the latest change. A slow reader
// only sees the most recent change. Call the returned func to unsubscribe.
func (s *Store) Subscribe() (<-chan Change, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Change, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextID
	s.nextID++
	s.subscribers[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subscribers[id]; ok {
				delete(s.subscribers, id)
				close(sub)
			}
		})
	}
}

func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
}

func (s *Store) setLocked(key string, value int) {
	s.values.Set(key, value, cache.NoExpiration)
	s.publishLocked(key, value)
}

func (s *Store) publishLocked(key string, value int) {
	s.logger.Debug("session updated", logging.F("key", key), logging.F("value", value))
	change := Change{Key: key, Value: value}
	for _, ch := range s.subscribers {
		select {
		case ch <- change:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- change:
		default:
		}
	}
}

func validate(key string, value int) error {
	switch key {
	case KeyN:
		if value < 0 {
			return progress.InvalidValueError(key, fmt.Errorf("%d is negative", value))
		}
	case KeyTrialsCompleted:
		if value < progress.NotStarted {
			return progress.InvalidValueError(key, fmt.Errorf("%d is below %d", value, progress.NotStarted))
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return nil
}

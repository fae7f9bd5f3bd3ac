package ratelimit

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultCategory is used for clients whose category has no configured rate.
const DefaultCategory = "default"

// Store hands out one limiter per (category, client) pair and forgets
// limiters that have been idle for longer than the configured TTL.
type Store struct {
	limiters        map[string]*Limiter
	rates           map[string]Rate
	mu              sync.RWMutex
	cleanupInterval time.Duration
	idleTTL         time.Duration
	now             func() time.Time
	stop            chan struct{}
	stopOnce        sync.Once
}

// NewStore creates a store and starts its cleanup goroutine. Call Close to stop it.
func NewStore(defaultRate Rate, cleanupInterval, idleTTL time.Duration) *Store {
	store := &Store{
		limiters:        make(map[string]*Limiter),
		rates:           map[string]Rate{DefaultCategory: defaultRate},
		cleanupInterval: cleanupInterval,
		idleTTL:         idleTTL,
		now:             time.Now,
		stop:            make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go store.cleanupRoutine()
	}

	return store
}

func storeKey(category, clientID string) string {
	return category + "|" + clientID
}

// GetLimiter returns the limiter for clientID within category, creating it on first use.
func (s *Store) GetLimiter(clientID string, category string) *Limiter {
	key := storeKey(category, clientID)

	s.mu.RLock()
	limiter, exists := s.limiters[key]
	s.mu.RUnlock()
	if exists {
		return limiter
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another request may have created it between the two locks
	if limiter, exists = s.limiters[key]; exists {
		return limiter
	}

	rate, ok := s.rates[category]
	if !ok {
		rate = s.rates[DefaultCategory]
	}

	limiter = newLimiterWithClock(rate.RequestsPerSecond, rate.Burst, s.now)
	s.limiters[key] = limiter
	return limiter
}

// SetRate sets a rate limit for a specific category. Existing limiters keep their old rate.
func (s *Store) SetRate(category string, rate Rate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates[category] = rate
}

// Len returns the number of tracked limiters.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.limiters)
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Store) cleanupRoutine() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stop:
			return
		}
	}
}

// cleanup drops limiters idle for longer than idleTTL.
func (s *Store) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, limiter := range s.limiters {
		if limiter.idleFor() > s.idleTTL {
			delete(s.limiters, key)
			removed++
		}
	}

	if removed > 0 {
		log.Debug().Int("removed", removed).Int("remaining", len(s.limiters)).Msg("Rate limiter cleanup")
	}
}

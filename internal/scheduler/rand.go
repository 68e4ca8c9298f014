package scheduler

import (
	"math/rand"
	"sync"
)

// lockedSource serializes access to a rand.Source64 so a single generator can
// be shared across concurrent requests. math/rand.Rand is not safe for
// concurrent use on its own.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source64
}

func (s *lockedSource) Int63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int63()
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

func (s *lockedSource) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src.Seed(seed)
}

// NewLockedRand returns a seeded *rand.Rand backed by a mutex-protected
// source, safe to share between goroutines. It yields the same sequence as an
// unsynchronized generator with the same seed.
func NewLockedRand(seed int64) *rand.Rand {
	return rand.New(&lockedSource{src: rand.NewSource(seed).(rand.Source64)})
}

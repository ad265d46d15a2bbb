package services

import (
	"math/rand/v2"
	"sync"
	"time"
)

// lockedSource makes a rand.Source safe for concurrent requests.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

// NewRand returns a goroutine-safe generator with a fixed seed.
func NewRand(seed1, seed2 uint64) *rand.Rand {
	return rand.New(&lockedSource{src: rand.NewPCG(seed1, seed2)})
}

// NewTimeSeededRand is the production generator used for shuffles.
func NewTimeSeededRand() *rand.Rand {
	now := uint64(time.Now().UnixNano())
	return NewRand(now, now>>17|now<<47)
}

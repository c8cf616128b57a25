package engine

import (
	"math/rand/v2"
	"sync"
)

// lockedSource makes a rand.Source safe for use from every channel worker
// and command goroutine at once.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

func newLockedRand(seed1, seed2 uint64) *rand.Rand {
	return rand.New(&lockedSource{src: rand.NewPCG(seed1, seed2)})
}

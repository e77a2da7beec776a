package layout

import (
	"sync"

	"github.com/google/uuid"
)

var (
	idMu  sync.RWMutex
	idGen = uuid.NewString
)

// NewID returns a fresh node id.
func NewID() string {
	idMu.RLock()
	gen := idGen
	idMu.RUnlock()
	return gen()
}

// SetIDGenerator swaps the id source and returns a func restoring the previous
// one. Used by tests that need stable ids.
func SetIDGenerator(gen func() string) (restore func()) {
	idMu.Lock()
	prev := idGen
	if gen == nil {
		gen = uuid.NewString
	}
	idGen = gen
	idMu.Unlock()
	return func() {
		idMu.Lock()
		idGen = prev
		idMu.Unlock()
	}
}

package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDGenerator returns "<prefix>-0001", "<prefix>-0002", ...
//
// Event ids end up in golden traces, so tests need them stable across runs.
//
// Thread-safety: SequentialIDGenerator is safe for concurrent use via internal mutex.
type SequentialIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDGenerator creates a generator. An empty prefix becomes "evt".
func NewSequentialIDGenerator(prefix string) *SequentialIDGenerator {
	if prefix == "" {
		prefix = "evt"
	}
	return &SequentialIDGenerator{prefix: prefix}
}

// Generate returns the next id in sequence.
func (g *SequentialIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}

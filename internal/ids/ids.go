// Package ids allocates opaque identifiers for stored entities.
package ids

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Generator produces opaque string identifiers.
type Generator interface {
	Next() string
}

// UUID generates random (version 4) UUID strings.
type UUID struct{}

func (UUID) Next() string { return uuid.NewString() }

// Sequence generates "<prefix>-1", "<prefix>-2", ... and is meant for tests.
type Sequence struct {
	mu     sync.Mutex
	prefix string
	n      int
}

func NewSequence(prefix string) *Sequence { return &Sequence{prefix: prefix} }

func (s *Sequence) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%d", s.prefix, s.n)
}

// maxAttempts bounds Allocate when the generator keeps colliding.
const maxAttempts = 16

// Allocate draws ids from g until one is not taken.
func Allocate[K ~string](g Generator, taken func(K) bool) (K, error) {
	for i := 0; i < maxAttempts; i++ {
		id := K(g.Next())
		if !taken(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("ids: no free identifier after %d attempts", maxAttempts)
}

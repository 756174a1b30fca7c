package services

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/promptlab/promptlab/internal/ids"
	"github.com/promptlab/promptlab/internal/store/memory"
)

// stepClock advances by one second on every reading.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type harness struct {
	store       *memory.Store
	prompts     *PromptService
	collections *CollectionService
	tags        *TagService
	versions    *VersionService
}

func newHarness(t *testing.T) harness {
	t.Helper()
	clock := &stepClock{t: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)}
	d := Deps{
		Store: memory.New(),
		IDs:   ids.NewSequence("id"),
		Now:   clock.Now,
		Log:   zerolog.Nop(),
	}
	return harness{
		store:       d.Store.(*memory.Store),
		prompts:     NewPromptService(d),
		collections: NewCollectionService(d),
		tags:        NewTagService(d),
		versions:    NewVersionService(d),
	}
}

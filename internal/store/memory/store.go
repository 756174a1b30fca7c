// Package memory is an in-process implementation of store.Store. One
// read/write lock guards every table, so a transaction sees and produces a
// consistent state across all entity types.
package memory

import (
	"context"
	"sync"

	"github.com/promptlab/promptlab/internal/model"
	"github.com/promptlab/promptlab/internal/store"
)

// Store keeps all entities in memory. The zero value is not usable; call New.
type Store struct {
	mu          sync.RWMutex
	prompts     *table[model.PromptID, model.Prompt]
	collections *table[model.CollectionID, model.Collection]
	tags        *table[model.TagID, model.Tag]
	promptTags  *table[model.PromptTagID, model.PromptTag]
	versions    *table[model.VersionID, model.PromptVersion]
}

var (
	_ store.Store       = (*Store)(nil)
	_ store.Snapshotter = (*Store)(nil)
)

// New returns an empty store.
func New() *Store {
	return &Store{
		prompts: newTable("prompts",
			func(p model.Prompt) model.PromptID { return p.ID }, model.Prompt.Clone),
		collections: newTable("collections",
			func(c model.Collection) model.CollectionID { return c.ID }, model.Collection.Clone),
		tags: newTable[model.TagID, model.Tag]("tags",
			func(t model.Tag) model.TagID { return t.ID }, nil),
		promptTags: newTable[model.PromptTagID, model.PromptTag]("prompt_tags",
			func(pt model.PromptTag) model.PromptTagID { return pt.ID }, nil),
		versions: newTable[model.VersionID, model.PromptVersion]("versions",
			func(v model.PromptVersion) model.VersionID { return v.ID }, nil),
	}
}

// View runs fn under the shared lock. Writes inside fn panic.
func (s *Store) View(ctx context.Context, fn func(tx store.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.bind(&txn{}))
}

// Update runs fn under the exclusive lock and undoes its writes if fn fails
// or panics. A panic is re-raised after the rollback.
func (s *Store) Update(ctx context.Context, fn func(tx store.Tx) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &txn{writable: true}
	defer func() {
		if r := recover(); r != nil {
			t.rollback()
			panic(r)
		}
	}()
	if err = fn(s.bind(t)); err != nil {
		t.rollback()
	}
	return err
}

// HealthPing takes and releases the read lock.
func (s *Store) HealthPing(ctx context.Context) error {
	return s.View(ctx, func(store.Tx) error { return nil })
}

func (s *Store) bind(t *txn) store.Tx { return &tx{s: s, t: t} }

type tx struct {
	s *Store
	t *txn
}

func (x *tx) Prompts() store.Prompts {
	return handle[model.PromptID, model.Prompt]{t: x.s.prompts, tx: x.t}
}

func (x *tx) Collections() store.Collections {
	return handle[model.CollectionID, model.Collection]{t: x.s.collections, tx: x.t}
}

func (x *tx) Tags() store.Tags {
	return handle[model.TagID, model.Tag]{t: x.s.tags, tx: x.t}
}

func (x *tx) PromptTags() store.PromptTags {
	return handle[model.PromptTagID, model.PromptTag]{t: x.s.promptTags, tx: x.t}
}

func (x *tx) Versions() store.Versions {
	return handle[model.VersionID, model.PromptVersion]{t: x.s.versions, tx: x.t}
}

package store

import (
	"context"

	"github.com/promptlab/promptlab/internal/model"
)

// Store exposes the entity tables required by the engines and services.
// All access goes through a transaction so that a check and the write that
// depends on it are never interleaved with another writer.
// Implementations live under internal/store/<driver>/.
type Store interface {
	// View runs fn with read access. Concurrent Views may run together.
	View(ctx context.Context, fn func(tx Tx) error) error
	// Update runs fn with exclusive write access. If fn returns an error or
	// panics, every write it made is undone.
	Update(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of tables visible inside a transaction.
type Tx interface {
	Prompts() Prompts
	Collections() Collections
	Tags() Tags
	PromptTags() PromptTags
	Versions() Versions
}

// Table is a keyed table with O(1) lookup by id. Values are copied on the
// way in and out.
type Table[K ~string, V any] interface {
	// Put inserts or overwrites by id and returns the stored value. An
	// overwrite keeps the row's original position in List.
	Put(v V) V
	// Get returns the value and whether it was found.
	Get(id K) (V, bool)
	// List returns all rows in insertion order.
	List() []V
	// Delete removes by id and reports whether a row existed.
	Delete(id K) bool
	Len() int
}

type (
	Prompts     = Table[model.PromptID, model.Prompt]
	Collections = Table[model.CollectionID, model.Collection]
	Tags        = Table[model.TagID, model.Tag]
	PromptTags  = Table[model.PromptTagID, model.PromptTag]
	Versions    = Table[model.VersionID, model.PromptVersion]
)

// Snapshot is the whole store state, one map per table keyed by id.
type Snapshot struct {
	Prompts     map[model.PromptID]model.Prompt         `json:"prompts"`
	Collections map[model.CollectionID]model.Collection `json:"collections"`
	Tags        map[model.TagID]model.Tag               `json:"tags"`
	PromptTags  map[model.PromptTagID]model.PromptTag   `json:"prompt_tags"`
	Versions    map[model.VersionID]model.PromptVersion `json:"versions"`
}

// Snapshotter is implemented by stores that can export and replace their
// full state.
type Snapshotter interface {
	Snapshot(ctx context.Context) (Snapshot, error)
	Restore(ctx context.Context, s Snapshot) error
}

package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/promptlab/promptlab/internal/core"
	"github.com/promptlab/promptlab/internal/model"
	"github.com/promptlab/promptlab/internal/store"
)

// Snapshot copies the full state into one map per table.
func (s *Store) Snapshot(ctx context.Context) (store.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return store.Snapshot{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return store.Snapshot{
		Prompts:     snapshotTable(s.prompts),
		Collections: snapshotTable(s.collections),
		Tags:        snapshotTable(s.tags),
		PromptTags:  snapshotTable(s.promptTags),
		Versions:    snapshotTable(s.versions),
	}, nil
}

// Restore replaces the full state with snap after checking that it is
// internally consistent. On error the current state is left untouched.
// Rows are re-inserted in created_at order, ties broken by id.
func (s *Store) Restore(ctx context.Context, snap store.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkSnapshot(snap); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	restoreTable(s.collections, snap.Collections, func(c model.Collection) time.Time { return c.CreatedAt })
	restoreTable(s.prompts, snap.Prompts, func(p model.Prompt) time.Time { return p.CreatedAt })
	restoreTable(s.tags, snap.Tags, func(t model.Tag) time.Time { return t.CreatedAt })
	restoreTable(s.promptTags, snap.PromptTags, func(pt model.PromptTag) time.Time { return pt.CreatedAt })
	restoreTable(s.versions, snap.Versions, func(v model.PromptVersion) time.Time { return v.CreatedAt })
	return nil
}

func snapshotTable[K ~string, V any](t *table[K, V]) map[K]V {
	out := make(map[K]V, len(t.rows))
	for id, e := range t.rows {
		out[id] = t.clone(e.val)
	}
	return out
}

func restoreTable[K ~string, V any](t *table[K, V], rows map[K]V, createdAt func(V) time.Time) {
	vals := make([]V, 0, len(rows))
	for _, v := range rows {
		vals = append(vals, v)
	}
	sort.Slice(vals, func(i, j int) bool {
		ci, cj := createdAt(vals[i]), createdAt(vals[j])
		if !ci.Equal(cj) {
			return ci.Before(cj)
		}
		return t.keyOf(vals[i]) < t.keyOf(vals[j])
	})
	t.reset()
	for _, v := range vals {
		t.insert(v)
	}
}

func invalidSnapshot(format string, args ...any) error {
	return core.NewValidationError("snapshot", fmt.Sprintf(format, args...))
}

func checkKeys[K ~string, V any](name string, rows map[K]V, keyOf func(V) K) error {
	for id, v := range rows {
		if id == "" || keyOf(v) != id {
			return invalidSnapshot("%s row keyed %q carries id %q", name, id, keyOf(v))
		}
	}
	return nil
}

func checkSnapshot(snap store.Snapshot) error {
	if err := checkKeys("collection", snap.Collections, func(c model.Collection) model.CollectionID { return c.ID }); err != nil {
		return err
	}
	if err := checkKeys("prompt", snap.Prompts, func(p model.Prompt) model.PromptID { return p.ID }); err != nil {
		return err
	}
	if err := checkKeys("tag", snap.Tags, func(t model.Tag) model.TagID { return t.ID }); err != nil {
		return err
	}
	if err := checkKeys("prompt tag", snap.PromptTags, func(pt model.PromptTag) model.PromptTagID { return pt.ID }); err != nil {
		return err
	}
	if err := checkKeys("version", snap.Versions, func(v model.PromptVersion) model.VersionID { return v.ID }); err != nil {
		return err
	}

	names := make(map[string]bool, len(snap.Collections))
	for _, c := range snap.Collections {
		if names[c.Name] {
			return invalidSnapshot("duplicate collection name %q", c.Name)
		}
		names[c.Name] = true
	}
	for _, p := range snap.Prompts {
		if p.CollectionID == nil {
			continue
		}
		if _, ok := snap.Collections[*p.CollectionID]; !ok {
			return invalidSnapshot("prompt %s references missing collection %s", p.ID, *p.CollectionID)
		}
	}

	tagNames := make(map[string]bool, len(snap.Tags))
	for _, t := range snap.Tags {
		key := strings.ToLower(strings.TrimSpace(t.Name))
		if tagNames[key] {
			return invalidSnapshot("duplicate tag name %q", t.Name)
		}
		tagNames[key] = true
	}
	pairs := make(map[[2]string]bool, len(snap.PromptTags))
	for _, pt := range snap.PromptTags {
		if _, ok := snap.Prompts[pt.PromptID]; !ok {
			return invalidSnapshot("prompt tag %s references missing prompt %s", pt.ID, pt.PromptID)
		}
		if _, ok := snap.Tags[pt.TagID]; !ok {
			return invalidSnapshot("prompt tag %s references missing tag %s", pt.ID, pt.TagID)
		}
		pair := [2]string{string(pt.PromptID), string(pt.TagID)}
		if pairs[pair] {
			return invalidSnapshot("tag %s assigned twice to prompt %s", pt.TagID, pt.PromptID)
		}
		pairs[pair] = true
	}

	numbers := make(map[model.PromptID][]int)
	for _, v := range snap.Versions {
		if _, ok := snap.Prompts[v.PromptID]; !ok {
			return invalidSnapshot("version %s references missing prompt %s", v.ID, v.PromptID)
		}
		numbers[v.PromptID] = append(numbers[v.PromptID], v.VersionNumber)
	}
	for promptID, ns := range numbers {
		sort.Ints(ns)
		for i, n := range ns {
			if n != i+1 {
				return invalidSnapshot("versions of prompt %s are not numbered 1..%d", promptID, len(ns))
			}
		}
	}
	return nil
}

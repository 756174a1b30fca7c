package tagging

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptlab/promptlab/internal/core"
	"github.com/promptlab/promptlab/internal/ids"
	"github.com/promptlab/promptlab/internal/model"
	"github.com/promptlab/promptlab/internal/store"
	"github.com/promptlab/promptlab/internal/store/memory"
)

var t0 = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*memory.Store, *Engine) {
	t.Helper()
	s := memory.New()
	require.NoError(t, s.Update(context.Background(), func(tx store.Tx) error {
		tx.Prompts().Put(model.Prompt{ID: "p1", Title: "t", Content: "c", CreatedAt: t0, UpdatedAt: t0})
		tx.Prompts().Put(model.Prompt{ID: "p2", Title: "t", Content: "c", CreatedAt: t0, UpdatedAt: t0})
		return nil
	}))
	return s, New(ids.NewSequence("id"))
}

func do[T any](t *testing.T, s *memory.Store, fn func(tx store.Tx) (T, error)) (T, error) {
	t.Helper()
	var (
		out T
		err error
	)
	_ = s.Update(context.Background(), func(tx store.Tx) error {
		out, err = fn(tx)
		return err
	})
	return out, err
}

func TestCreate_CaseInsensitiveUniqueness(t *testing.T) {
	s, e := setup(t)
	tag, err := do(t, s, func(tx store.Tx) (model.Tag, error) { return e.Create(tx, " urgent ", "alice", t0) })
	require.NoError(t, err)
	assert.Equal(t, "urgent", tag.Name)
	assert.Equal(t, "alice", tag.CreatedBy)
	assert.Equal(t, t0, tag.UpdatedAt)

	_, err = do(t, s, func(tx store.Tx) (model.Tag, error) { return e.Create(tx, "Urgent", "bob", t0) })
	assert.True(t, core.IsDuplicateTagName(err))
}

func TestRename(t *testing.T) {
	s, e := setup(t)
	a, err := do(t, s, func(tx store.Tx) (model.Tag, error) { return e.Create(tx, "alpha", "u", t0) })
	require.NoError(t, err)
	_, err = do(t, s, func(tx store.Tx) (model.Tag, error) { return e.Create(tx, "beta", "u", t0) })
	require.NoError(t, err)

	_, err = do(t, s, func(tx store.Tx) (model.Tag, error) { return e.Rename(tx, a.ID, "BETA", t0) })
	assert.True(t, core.IsDuplicateTagName(err))

	renamed, err := do(t, s, func(tx store.Tx) (model.Tag, error) { return e.Rename(tx, a.ID, "Alpha", t0) })
	require.NoError(t, err)
	assert.Equal(t, "Alpha", renamed.Name)
	assert.True(t, renamed.UpdatedAt.After(a.UpdatedAt))

	_, err = do(t, s, func(tx store.Tx) (model.Tag, error) { return e.Rename(tx, "missing", "x", t0) })
	assert.True(t, core.IsTagNotFound(err))
}

func TestAssign(t *testing.T) {
	s, e := setup(t)
	tag, err := do(t, s, func(tx store.Tx) (model.Tag, error) { return e.Create(tx, "urgent", "u", t0) })
	require.NoError(t, err)

	pt, err := do(t, s, func(tx store.Tx) (model.PromptTag, error) { return e.Assign(tx, "p1", tag.ID, t0) })
	require.NoError(t, err)
	assert.Equal(t, model.PromptID("p1"), pt.PromptID)
	assert.Equal(t, tag.ID, pt.TagID)

	_, err = do(t, s, func(tx store.Tx) (model.PromptTag, error) { return e.Assign(tx, "p1", tag.ID, t0) })
	assert.True(t, core.IsDuplicateAssignment(err))

	_, err = do(t, s, func(tx store.Tx) (model.PromptTag, error) { return e.Assign(tx, "missing", tag.ID, t0) })
	assert.True(t, core.IsPromptNotFound(err))

	_, err = do(t, s, func(tx store.Tx) (model.PromptTag, error) { return e.Assign(tx, "p1", "missing", t0) })
	assert.True(t, core.IsTagNotFound(err))
}

func TestUnassign(t *testing.T) {
	s, e := setup(t)
	tag, _ := do(t, s, func(tx store.Tx) (model.Tag, error) { return e.Create(tx, "urgent", "u", t0) })
	assigned, err := do(t, s, func(tx store.Tx) (model.PromptTag, error) { return e.Assign(tx, "p1", tag.ID, t0) })
	require.NoError(t, err)

	removed, err := do(t, s, func(tx store.Tx) (model.PromptTag, error) { return e.Unassign(tx, "p1", tag.ID) })
	require.NoError(t, err)
	assert.Equal(t, assigned, removed)

	_, err = do(t, s, func(tx store.Tx) (model.PromptTag, error) { return e.Unassign(tx, "p1", tag.ID) })
	assert.True(t, core.IsAssignmentNotFound(err))

	// can be assigned again once removed
	_, err = do(t, s, func(tx store.Tx) (model.PromptTag, error) { return e.Assign(tx, "p1", tag.ID, t0) })
	assert.NoError(t, err)
}

func TestDelete_CascadesAssignments(t *testing.T) {
	s, e := setup(t)
	tag, _ := do(t, s, func(tx store.Tx) (model.Tag, error) { return e.Create(tx, "urgent", "u", t0) })
	other, _ := do(t, s, func(tx store.Tx) (model.Tag, error) { return e.Create(tx, "later", "u", t0) })
	for _, p := range []model.PromptID{"p1", "p2"} {
		_, err := do(t, s, func(tx store.Tx) (model.PromptTag, error) { return e.Assign(tx, p, tag.ID, t0) })
		require.NoError(t, err)
	}
	_, err := do(t, s, func(tx store.Tx) (model.PromptTag, error) { return e.Assign(tx, "p1", other.ID, t0) })
	require.NoError(t, err)

	require.NoError(t, s.Update(context.Background(), func(tx store.Tx) error {
		existed, n := e.Delete(tx, tag.ID)
		assert.True(t, existed)
		assert.Equal(t, 2, n)
		return nil
	}))

	require.NoError(t, s.View(context.Background(), func(tx store.Tx) error {
		tags, err := e.TagsForPrompt(tx, "p1")
		require.NoError(t, err)
		require.Len(t, tags, 1)
		assert.Equal(t, other.ID, tags[0].ID)

		tags, err = e.TagsForPrompt(tx, "p2")
		require.NoError(t, err)
		assert.Empty(t, tags)

		_, err = e.TagsForPrompt(tx, "missing")
		assert.True(t, core.IsPromptNotFound(err))
		return nil
	}))

	// the name is free again
	_, err = do(t, s, func(tx store.Tx) (model.Tag, error) { return e.Create(tx, "URGENT", "u", t0) })
	assert.NoError(t, err)
}

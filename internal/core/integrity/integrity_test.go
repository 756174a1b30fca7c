package integrity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptlab/promptlab/internal/core"
	"github.com/promptlab/promptlab/internal/model"
	"github.com/promptlab/promptlab/internal/store"
	"github.com/promptlab/promptlab/internal/store/memory"
)

var t0 = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func update(t *testing.T, s store.Store, fn func(tx store.Tx) error) error {
	t.Helper()
	return s.Update(context.Background(), fn)
}

func newStoreWithMarketing(t *testing.T) store.Store {
	t.Helper()
	s := memory.New()
	require.NoError(t, update(t, s, func(tx store.Tx) error {
		tx.Collections().Put(model.Collection{ID: "c1", Name: "Marketing", CreatedAt: t0})
		tx.Collections().Put(model.Collection{ID: "c2", Name: "Support", CreatedAt: t0})
		tx.Prompts().Put(model.Prompt{ID: "p1", Title: "a", Content: "a", CollectionID: model.Ptr(model.CollectionID("c1")), CreatedAt: t0, UpdatedAt: t0})
		tx.Prompts().Put(model.Prompt{ID: "p2", Title: "b", Content: "b", CollectionID: model.Ptr(model.CollectionID("c1")), CreatedAt: t0, UpdatedAt: t0})
		tx.Prompts().Put(model.Prompt{ID: "p3", Title: "c", Content: "c", CollectionID: model.Ptr(model.CollectionID("c2")), CreatedAt: t0, UpdatedAt: t0})
		tx.Prompts().Put(model.Prompt{ID: "p4", Title: "d", Content: "d", CreatedAt: t0, UpdatedAt: t0})
		return nil
	}))
	return s
}

func TestCheckCollectionRef(t *testing.T) {
	s := newStoreWithMarketing(t)
	_ = s.View(context.Background(), func(tx store.Tx) error {
		assert.NoError(t, CheckCollectionRef(tx, nil))
		assert.NoError(t, CheckCollectionRef(tx, model.Ptr(model.CollectionID("c1"))))

		err := CheckCollectionRef(tx, model.Ptr(model.CollectionID("nope")))
		require.Error(t, err)
		assert.True(t, core.IsReferenceNotFound(err))
		return nil
	})
}

func TestCheckCollectionName(t *testing.T) {
	s := newStoreWithMarketing(t)
	_ = s.View(context.Background(), func(tx store.Tx) error {
		assert.True(t, core.IsDuplicateName(CheckCollectionName(tx, "Marketing")))
		// uniqueness is exact
		assert.NoError(t, CheckCollectionName(tx, "marketing"))
		assert.NoError(t, CheckCollectionName(tx, "Sales"))
		return nil
	})
}

func TestDeleteCollection_OrphansMembers(t *testing.T) {
	s := newStoreWithMarketing(t)
	now := t0.Add(time.Hour)

	var res CollectionDeletion
	require.NoError(t, update(t, s, func(tx store.Tx) error {
		res = DeleteCollection(tx, "c1", now)
		return nil
	}))
	assert.True(t, res.Existed)
	assert.ElementsMatch(t, []model.PromptID{"p1", "p2"}, res.Orphaned)

	_ = s.View(context.Background(), func(tx store.Tx) error {
		_, ok := tx.Collections().Get("c1")
		assert.False(t, ok)
		for _, p := range tx.Prompts().List() {
			assert.False(t, p.InCollection("c1"), "prompt %s still references c1", p.ID)
		}
		p1, _ := tx.Prompts().Get("p1")
		assert.Nil(t, p1.CollectionID)
		assert.Equal(t, now, p1.UpdatedAt)

		p3, _ := tx.Prompts().Get("p3")
		assert.True(t, p3.InCollection("c2"))
		assert.Equal(t, t0, p3.UpdatedAt)
		return nil
	})
}

func TestDeleteCollection_Missing(t *testing.T) {
	s := newStoreWithMarketing(t)
	require.NoError(t, update(t, s, func(tx store.Tx) error {
		res := DeleteCollection(tx, "missing", t0)
		assert.False(t, res.Existed)
		assert.Empty(t, res.Orphaned)
		return nil
	}))
}

func TestDeletePrompt_RemovesOwnedRows(t *testing.T) {
	s := newStoreWithMarketing(t)
	require.NoError(t, update(t, s, func(tx store.Tx) error {
		tx.Tags().Put(model.Tag{ID: "t1", Name: "urgent"})
		tx.PromptTags().Put(model.PromptTag{ID: "pt1", PromptID: "p1", TagID: "t1"})
		tx.PromptTags().Put(model.PromptTag{ID: "pt2", PromptID: "p2", TagID: "t1"})
		tx.Versions().Put(model.PromptVersion{ID: "v1", PromptID: "p1", VersionNumber: 1})
		tx.Versions().Put(model.PromptVersion{ID: "v2", PromptID: "p1", VersionNumber: 2})
		tx.Versions().Put(model.PromptVersion{ID: "v3", PromptID: "p2", VersionNumber: 1})
		return nil
	}))

	var res PromptDeletion
	require.NoError(t, update(t, s, func(tx store.Tx) error {
		res = DeletePrompt(tx, "p1")
		return nil
	}))
	assert.Equal(t, PromptDeletion{Existed: true, RemovedVersions: 2, RemovedTags: 1}, res)

	_ = s.View(context.Background(), func(tx store.Tx) error {
		assert.Equal(t, 1, tx.Versions().Len())
		assert.Equal(t, 1, tx.PromptTags().Len())
		_, ok := tx.Tags().Get("t1")
		assert.True(t, ok)
		return nil
	})

	require.NoError(t, update(t, s, func(tx store.Tx) error {
		assert.False(t, DeletePrompt(tx, "p1").Existed)
		return nil
	}))
}

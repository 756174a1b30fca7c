package versioning

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

type fixture struct {
	s   *memory.Store
	eng *Engine
}

func newFixture(t *testing.T, content string) fixture {
	t.Helper()
	s := memory.New()
	require.NoError(t, s.Update(context.Background(), func(tx store.Tx) error {
		tx.Prompts().Put(model.Prompt{ID: "p1", Title: "t", Content: content, CreatedAt: t0, UpdatedAt: t0})
		tx.Prompts().Put(model.Prompt{ID: "p2", Title: "t", Content: "other", CreatedAt: t0, UpdatedAt: t0})
		return nil
	}))
	return fixture{s: s, eng: New(ids.NewSequence("v"))}
}

func (f fixture) record(t *testing.T, content string, at time.Time) (model.PromptVersion, model.Prompt, error) {
	t.Helper()
	var (
		v   model.PromptVersion
		p   model.Prompt
		err error
	)
	_ = f.s.Update(context.Background(), func(tx store.Tx) error {
		v, p, err = f.eng.Record(tx, "p1", content, "edit", at)
		return err
	})
	return v, p, err
}

func (f fixture) list(t *testing.T, id model.PromptID) []model.PromptVersion {
	t.Helper()
	var out []model.PromptVersion
	require.NoError(t, f.s.View(context.Background(), func(tx store.Tx) error {
		var err error
		out, err = f.eng.List(tx, id)
		return err
	}))
	return out
}

func (f fixture) revert(t *testing.T, target model.VersionID, at time.Time) (RevertResult, error) {
	t.Helper()
	var (
		res RevertResult
		err error
	)
	_ = f.s.Update(context.Background(), func(tx store.Tx) error {
		res, err = f.eng.Revert(tx, "p1", target, at)
		return err
	})
	return res, err
}

func TestRecord_StoresPriorContent(t *testing.T) {
	f := newFixture(t, "A")
	v, p, err := f.record(t, "B", t0.Add(time.Minute))
	require.NoError(t, err)

	assert.Equal(t, 1, v.VersionNumber)
	assert.Equal(t, "A", v.Content)
	assert.Equal(t, "edit", v.ChangesSummary)
	assert.Equal(t, model.PromptID("p1"), v.PromptID)
	assert.Equal(t, "B", p.Content)
	assert.Equal(t, t0.Add(time.Minute), p.UpdatedAt)
}

func TestRecord_NumbersAreContiguous(t *testing.T) {
	f := newFixture(t, "c0")
	for i, c := range []string{"c1", "c2", "c3", "c4"} {
		_, _, err := f.record(t, c, t0.Add(time.Duration(i+1)*time.Second))
		require.NoError(t, err)
	}

	got := f.list(t, "p1")
	require.Len(t, got, 4)
	for i, v := range got {
		assert.Equal(t, i+1, v.VersionNumber)
		assert.Equal(t, "c"+string(rune('0'+i)), v.Content)
	}
	assert.Empty(t, f.list(t, "p2"))
}

func TestRecord_RejectsWhitespaceOnlyChange(t *testing.T) {
	f := newFixture(t, "Hello")
	_, _, err := f.record(t, "  Hello \n", t0.Add(time.Second))
	assert.True(t, core.IsNoContentChange(err))
	assert.Empty(t, f.list(t, "p1"))
}

func TestRecord_UnknownPrompt(t *testing.T) {
	f := newFixture(t, "A")
	err := f.s.Update(context.Background(), func(tx store.Tx) error {
		_, _, err := f.eng.Record(tx, "missing", "B", "", t0)
		return err
	})
	assert.True(t, core.IsPromptNotFound(err))
}

func TestList_UnknownPrompt(t *testing.T) {
	f := newFixture(t, "A")
	err := f.s.View(context.Background(), func(tx store.Tx) error {
		_, err := f.eng.List(tx, "missing")
		return err
	})
	assert.True(t, core.IsPromptNotFound(err))
}

func TestRevert_RestoresAndRecords(t *testing.T) {
	f := newFixture(t, "A")
	v1, _, err := f.record(t, "B", t0.Add(time.Second))
	require.NoError(t, err)

	res, err := f.revert(t, v1.ID, t0.Add(2*time.Second))
	require.NoError(t, err)
	require.True(t, res.Changed)
	require.NotNil(t, res.Version)

	assert.Equal(t, "A", res.Prompt.Content)
	assert.Equal(t, 2, res.Version.VersionNumber)
	assert.Equal(t, "B", res.Version.Content)
	assert.Equal(t, RevertSummary(v1.ID), res.Version.ChangesSummary)
	assert.Contains(t, res.Version.ChangesSummary, string(v1.ID))
}

func TestRevert_IdenticalContentIsNoop(t *testing.T) {
	f := newFixture(t, "A")
	v1, _, err := f.record(t, "B", t0.Add(time.Second))
	require.NoError(t, err)
	_, _, err = f.record(t, "A ", t0.Add(2*time.Second))
	require.NoError(t, err)

	res, err := f.revert(t, v1.ID, t0.Add(3*time.Second))
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Nil(t, res.Version)
	assert.Equal(t, "A ", res.Prompt.Content)
	assert.Len(t, f.list(t, "p1"), 2)
}

func TestRevert_VersionOfAnotherPrompt(t *testing.T) {
	f := newFixture(t, "A")
	var foreign model.PromptVersion
	require.NoError(t, f.s.Update(context.Background(), func(tx store.Tx) error {
		var err error
		foreign, _, err = f.eng.Record(tx, "p2", "changed", "", t0.Add(time.Second))
		return err
	}))

	_, err := f.revert(t, foreign.ID, t0.Add(2*time.Second))
	assert.True(t, core.IsVersionNotFound(err))
	assert.False(t, core.IsPromptNotFound(err))

	_, err = f.revert(t, "no-such-version", t0.Add(2*time.Second))
	assert.True(t, core.IsVersionNotFound(err))
}

func TestRevert_UnknownPrompt(t *testing.T) {
	f := newFixture(t, "A")
	err := f.s.Update(context.Background(), func(tx store.Tx) error {
		_, err := f.eng.Revert(tx, "missing", "v-1", t0)
		return err
	})
	assert.True(t, core.IsPromptNotFound(err))
}

func TestContentChanged(t *testing.T) {
	assert.False(t, ContentChanged("abc", " abc\t"))
	assert.True(t, ContentChanged("abc", "abd"))
}

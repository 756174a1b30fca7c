package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptlab/promptlab/internal/core"
	"github.com/promptlab/promptlab/internal/model"
)

func TestTagService_DuplicateNameIgnoresCase(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.tags.Create(ctx, "urgent", "alice")
	require.NoError(t, err)
	_, err = h.tags.Create(ctx, "Urgent", "bob")
	assert.True(t, core.IsDuplicateTagName(err))

	all, err := h.tags.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestTagService_CreateValidates(t *testing.T) {
	h := newHarness(t)
	_, err := h.tags.Create(context.Background(), "", "alice")
	assert.True(t, core.IsValidationError(err))
	_, err = h.tags.Create(context.Background(), "ok", "")
	assert.True(t, core.IsValidationError(err))
}

func TestTagService_Rename(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a, _ := h.tags.Create(ctx, "draft", "alice")
	_, _ = h.tags.Create(ctx, "final", "alice")

	_, err := h.tags.Rename(ctx, a.ID, "FINAL")
	assert.True(t, core.IsDuplicateTagName(err))

	renamed, err := h.tags.Rename(ctx, a.ID, "reviewed")
	require.NoError(t, err)
	assert.Equal(t, "reviewed", renamed.Name)
	assert.True(t, renamed.UpdatedAt.After(a.UpdatedAt))
	assert.Equal(t, a.CreatedAt, renamed.CreatedAt)

	_, err = h.tags.Rename(ctx, "missing", "x")
	assert.True(t, core.IsTagNotFound(err))
}

func TestTagService_AssignmentLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	p, _ := h.prompts.Create(ctx, model.PromptInput{Title: "t", Content: "c"})
	tag, _ := h.tags.Create(ctx, "urgent", "alice")

	pt, err := h.tags.Assign(ctx, p.ID, tag.ID)
	require.NoError(t, err)

	_, err = h.tags.Assign(ctx, p.ID, tag.ID)
	assert.True(t, core.IsDuplicateAssignment(err))

	tags, err := h.tags.ListForPrompt(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.Tag{tag}, tags)

	removed, err := h.tags.Unassign(ctx, p.ID, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, pt.ID, removed.ID)

	_, err = h.tags.Unassign(ctx, p.ID, tag.ID)
	assert.True(t, core.IsAssignmentNotFound(err))

	_, err = h.tags.Assign(ctx, "missing", tag.ID)
	assert.True(t, core.IsPromptNotFound(err))
	_, err = h.tags.Assign(ctx, p.ID, "missing")
	assert.True(t, core.IsTagNotFound(err))
}

func TestTagService_DeleteRemovesAssignments(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	p, _ := h.prompts.Create(ctx, model.PromptInput{Title: "t", Content: "c"})
	tag, _ := h.tags.Create(ctx, "urgent", "alice")
	_, err := h.tags.Assign(ctx, p.ID, tag.ID)
	require.NoError(t, err)

	existed, err := h.tags.Delete(ctx, tag.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	tags, err := h.tags.ListForPrompt(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, tags)

	existed, err = h.tags.Delete(ctx, tag.ID)
	require.NoError(t, err)
	assert.False(t, existed)
}

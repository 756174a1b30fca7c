package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func basePrompt() Prompt {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return Prompt{
		ID:           "p1",
		Title:        "Summarize",
		Content:      "Summarize {{text}}",
		Description:  Ptr("short summaries"),
		CollectionID: Ptr(CollectionID("c1")),
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

func TestPromptPatch_DecodeDistinguishesAbsentAndNull(t *testing.T) {
	var p PromptPatch
	require.NoError(t, json.Unmarshal([]byte(`{"title":"New","description":null}`), &p))

	assert.True(t, p.Title.Set)
	assert.Equal(t, "New", p.Title.Value)
	assert.False(t, p.Content.Set)
	assert.True(t, p.Description.Set)
	assert.True(t, p.Description.Null)
	assert.False(t, p.CollectionID.Set)
	assert.False(t, p.Empty())
}

func TestPromptPatch_NullTitleIsAbsent(t *testing.T) {
	var p PromptPatch
	require.NoError(t, json.Unmarshal([]byte(`{"title":null}`), &p))
	assert.False(t, p.Title.Set)
	assert.True(t, p.Empty())
}

func TestApplyPatch_OnlyTouchesPresentFields(t *testing.T) {
	existing := basePrompt()
	now := existing.UpdatedAt.Add(time.Minute)

	out := ApplyPatch(existing, PromptPatch{Title: Some("Renamed")}, now)

	assert.Equal(t, "Renamed", out.Title)
	assert.Equal(t, existing.Content, out.Content)
	require.NotNil(t, out.CollectionID)
	assert.Equal(t, CollectionID("c1"), *out.CollectionID)
	assert.Equal(t, now, out.UpdatedAt)
	assert.Equal(t, existing.CreatedAt, out.CreatedAt)
}

func TestApplyPatch_NullClearsNullableFields(t *testing.T) {
	existing := basePrompt()
	out := ApplyPatch(existing, PromptPatch{
		Description:  Null[string](),
		CollectionID: Null[CollectionID](),
	}, existing.UpdatedAt.Add(time.Second))

	assert.Nil(t, out.Description)
	assert.Nil(t, out.CollectionID)
	// the input value is left alone
	require.NotNil(t, existing.CollectionID)
	assert.Equal(t, "short summaries", *existing.Description)
}

func TestApplyPatch_ResultDoesNotAliasExisting(t *testing.T) {
	existing := basePrompt()
	out := ApplyPatch(existing, PromptPatch{}, existing.UpdatedAt)
	*out.Description = "changed"
	assert.Equal(t, "short summaries", *existing.Description)
}

func TestTouch_StrictlyAdvances(t *testing.T) {
	prev := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, prev.Add(time.Hour), Touch(prev, prev.Add(time.Hour)))
	assert.Equal(t, prev.Add(time.Nanosecond), Touch(prev, prev))
	assert.Equal(t, prev.Add(time.Nanosecond), Touch(prev, prev.Add(-time.Hour)))
}

func TestApplyInput_ReplacesCallerFields(t *testing.T) {
	existing := basePrompt()
	out := ApplyInput(existing, PromptInput{Title: "T", Content: "C"}, existing.UpdatedAt.Add(time.Second))

	assert.Equal(t, "T", out.Title)
	assert.Equal(t, "C", out.Content)
	assert.Nil(t, out.Description)
	assert.Nil(t, out.CollectionID)
	assert.Equal(t, existing.ID, out.ID)
}

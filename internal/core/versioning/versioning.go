// Package versioning keeps the revision history of prompt content. Each
// version stores the content a prompt had before a change; numbers run
// 1, 2, 3, ... per prompt with no gaps.
package versioning

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/promptlab/promptlab/internal/core"
	"github.com/promptlab/promptlab/internal/ids"
	"github.com/promptlab/promptlab/internal/model"
	"github.com/promptlab/promptlab/internal/store"
)

// SummaryContentUpdated is recorded when a replace or patch changes content.
const SummaryContentUpdated = "Content updated"

// RevertSummary is the changes summary of a version recorded by a revert.
func RevertSummary(target model.VersionID) string {
	return fmt.Sprintf("Reverted to version %s", target)
}

// ContentChanged compares content ignoring surrounding whitespace.
func ContentChanged(current, next string) bool {
	return strings.TrimSpace(current) != strings.TrimSpace(next)
}

// Engine records, lists and reverts prompt versions.
type Engine struct {
	ids ids.Generator
}

func New(gen ids.Generator) *Engine { return &Engine{ids: gen} }

// Snapshot stores prior.Content as the prompt's next version. It performs no
// checks; callers decide whether the content is actually changing.
func (e *Engine) Snapshot(tx store.Tx, prior model.Prompt, summary string, now time.Time) (model.PromptVersion, error) {
	versions := tx.Versions()
	id, err := ids.Allocate(e.ids, func(id model.VersionID) bool {
		_, taken := versions.Get(id)
		return taken
	})
	if err != nil {
		return model.PromptVersion{}, err
	}
	v := model.PromptVersion{
		ID:             id,
		PromptID:       prior.ID,
		VersionNumber:  len(forPrompt(versions, prior.ID)) + 1,
		Content:        prior.Content,
		ChangesSummary: summary,
		CreatedAt:      now,
	}
	return versions.Put(v), nil
}

// Record replaces the prompt's content with newContent after snapshotting
// the current content. It fails with ErrNoContentChange when the two are
// equal ignoring surrounding whitespace.
func (e *Engine) Record(tx store.Tx, promptID model.PromptID, newContent, summary string, now time.Time) (model.PromptVersion, model.Prompt, error) {
	p, ok := tx.Prompts().Get(promptID)
	if !ok {
		return model.PromptVersion{}, model.Prompt{}, core.NewNotFoundError(core.KindPrompt, promptID)
	}
	if !ContentChanged(p.Content, newContent) {
		return model.PromptVersion{}, model.Prompt{}, core.ErrNoContentChange
	}
	v, err := e.Snapshot(tx, p, summary, now)
	if err != nil {
		return model.PromptVersion{}, model.Prompt{}, err
	}
	p.Content = newContent
	p.UpdatedAt = model.Touch(p.UpdatedAt, now)
	return v, tx.Prompts().Put(p), nil
}

// List returns the prompt's versions ordered by version number.
func (e *Engine) List(tx store.Tx, promptID model.PromptID) ([]model.PromptVersion, error) {
	if _, ok := tx.Prompts().Get(promptID); !ok {
		return nil, core.NewNotFoundError(core.KindPrompt, promptID)
	}
	out := forPrompt(tx.Versions(), promptID)
	sort.Slice(out, func(i, j int) bool { return out[i].VersionNumber < out[j].VersionNumber })
	return out, nil
}

// RevertResult is the outcome of Revert. Version is nil when no change was needed.
type RevertResult struct {
	Prompt  model.Prompt         `json:"prompt"`
	Version *model.PromptVersion `json:"version,omitempty"`
	Changed bool                 `json:"changed"`
}

// Revert restores the content stored in target. A version belonging to a
// different prompt is reported as not found. Reverting to content equal to
// the current one is a no-op.
func (e *Engine) Revert(tx store.Tx, promptID model.PromptID, target model.VersionID, now time.Time) (RevertResult, error) {
	p, ok := tx.Prompts().Get(promptID)
	if !ok {
		return RevertResult{}, core.NewNotFoundError(core.KindPrompt, promptID)
	}
	v, ok := tx.Versions().Get(target)
	if !ok || v.PromptID != promptID {
		return RevertResult{}, core.NewNotFoundError(core.KindVersion, target)
	}
	if !ContentChanged(p.Content, v.Content) {
		return RevertResult{Prompt: p}, nil
	}
	rec, updated, err := e.Record(tx, promptID, v.Content, RevertSummary(target), now)
	if err != nil {
		return RevertResult{}, err
	}
	return RevertResult{Prompt: updated, Version: &rec, Changed: true}, nil
}

func forPrompt(versions store.Versions, promptID model.PromptID) []model.PromptVersion {
	out := []model.PromptVersion{}
	for _, v := range versions.List() {
		if v.PromptID == promptID {
			out = append(out, v)
		}
	}
	return out
}

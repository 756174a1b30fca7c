// Package tagging manages tags and their assignment to prompts. Tag names
// are unique ignoring case, and a tag is assigned to a prompt at most once.
package tagging

import (
	"strings"
	"time"

	"github.com/promptlab/promptlab/internal/core"
	"github.com/promptlab/promptlab/internal/ids"
	"github.com/promptlab/promptlab/internal/model"
	"github.com/promptlab/promptlab/internal/store"
)

type Engine struct {
	ids ids.Generator
}

func New(gen ids.Generator) *Engine { return &Engine{ids: gen} }

// SameName reports whether two tag names collide.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func checkName(tx store.Tx, name string, self model.TagID) error {
	for _, t := range tx.Tags().List() {
		if t.ID != self && SameName(t.Name, name) {
			return core.NewConflictError(core.CodeDuplicateTagName, "name", "tag "+t.Name+" already exists")
		}
	}
	return nil
}

// Create stores a new tag with a trimmed name.
func (e *Engine) Create(tx store.Tx, name, createdBy string, now time.Time) (model.Tag, error) {
	name = strings.TrimSpace(name)
	if err := checkName(tx, name, ""); err != nil {
		return model.Tag{}, err
	}
	tags := tx.Tags()
	id, err := ids.Allocate(e.ids, func(id model.TagID) bool {
		_, taken := tags.Get(id)
		return taken
	})
	if err != nil {
		return model.Tag{}, err
	}
	return tags.Put(model.Tag{
		ID:        id,
		Name:      name,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}), nil
}

// Rename changes a tag's name. Renaming to a case variant of its own name
// is allowed.
func (e *Engine) Rename(tx store.Tx, id model.TagID, newName string, now time.Time) (model.Tag, error) {
	t, ok := tx.Tags().Get(id)
	if !ok {
		return model.Tag{}, core.NewNotFoundError(core.KindTag, id)
	}
	newName = strings.TrimSpace(newName)
	if err := checkName(tx, newName, id); err != nil {
		return model.Tag{}, err
	}
	t.Name = newName
	t.UpdatedAt = model.Touch(t.UpdatedAt, now)
	return tx.Tags().Put(t), nil
}

// Delete removes the tag and every assignment of it.
func (e *Engine) Delete(tx store.Tx, id model.TagID) (existed bool, unassigned int) {
	if !tx.Tags().Delete(id) {
		return false, 0
	}
	assignments := tx.PromptTags()
	for _, pt := range assignments.List() {
		if pt.TagID == id && assignments.Delete(pt.ID) {
			unassigned++
		}
	}
	return true, unassigned
}

func find(tx store.Tx, promptID model.PromptID, tagID model.TagID) (model.PromptTag, bool) {
	for _, pt := range tx.PromptTags().List() {
		if pt.PromptID == promptID && pt.TagID == tagID {
			return pt, true
		}
	}
	return model.PromptTag{}, false
}

// Assign attaches a tag to a prompt.
func (e *Engine) Assign(tx store.Tx, promptID model.PromptID, tagID model.TagID, now time.Time) (model.PromptTag, error) {
	if _, ok := tx.Prompts().Get(promptID); !ok {
		return model.PromptTag{}, core.NewNotFoundError(core.KindPrompt, promptID)
	}
	if _, ok := tx.Tags().Get(tagID); !ok {
		return model.PromptTag{}, core.NewNotFoundError(core.KindTag, tagID)
	}
	if _, exists := find(tx, promptID, tagID); exists {
		return model.PromptTag{}, core.NewConflictError(core.CodeDuplicateAssignment, "tag_id", "tag is already assigned to this prompt")
	}
	assignments := tx.PromptTags()
	id, err := ids.Allocate(e.ids, func(id model.PromptTagID) bool {
		_, taken := assignments.Get(id)
		return taken
	})
	if err != nil {
		return model.PromptTag{}, err
	}
	return assignments.Put(model.PromptTag{
		ID:        id,
		PromptID:  promptID,
		TagID:     tagID,
		CreatedAt: now,
	}), nil
}

// Unassign removes the assignment and returns the removed row.
func (e *Engine) Unassign(tx store.Tx, promptID model.PromptID, tagID model.TagID) (model.PromptTag, error) {
	pt, ok := find(tx, promptID, tagID)
	if !ok {
		return model.PromptTag{}, core.NewNotFoundError(core.KindAssignment, string(promptID)+"/"+string(tagID))
	}
	tx.PromptTags().Delete(pt.ID)
	return pt, nil
}

// TagsForPrompt returns the prompt's tags in assignment order.
func (e *Engine) TagsForPrompt(tx store.Tx, promptID model.PromptID) ([]model.Tag, error) {
	if _, ok := tx.Prompts().Get(promptID); !ok {
		return nil, core.NewNotFoundError(core.KindPrompt, promptID)
	}
	out := []model.Tag{}
	for _, pt := range tx.PromptTags().List() {
		if pt.PromptID != promptID {
			continue
		}
		if t, ok := tx.Tags().Get(pt.TagID); ok {
			out = append(out, t)
		}
	}
	return out, nil
}

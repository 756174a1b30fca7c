// Package integrity enforces the cross-entity reference rules: prompts may
// only point at live collections, collection names are unique, and removing
// a collection or prompt leaves nothing pointing at it.
//
// Every function runs inside a caller-supplied transaction so the check and
// the dependent write are one atomic step.
package integrity

import (
	"time"

	"github.com/promptlab/promptlab/internal/core"
	"github.com/promptlab/promptlab/internal/model"
	"github.com/promptlab/promptlab/internal/store"
)

// CheckCollectionRef fails with a ReferenceNotFoundError when id is set but
// does not resolve to a live collection.
func CheckCollectionRef(tx store.Tx, id *model.CollectionID) error {
	if id == nil {
		return nil
	}
	if _, ok := tx.Collections().Get(*id); !ok {
		return core.NewReferenceNotFoundError(core.KindCollection, *id)
	}
	return nil
}

// CheckCollectionName fails with DUPLICATE_NAME when a live collection
// already uses name.
func CheckCollectionName(tx store.Tx, name string) error {
	for _, c := range tx.Collections().List() {
		if c.Name == name {
			return core.NewConflictError(core.CodeDuplicateName, "name", "a collection named "+name+" already exists")
		}
	}
	return nil
}

// CollectionDeletion describes the effect of DeleteCollection.
type CollectionDeletion struct {
	Existed  bool
	Orphaned []model.PromptID
}

// DeleteCollection removes the collection and detaches every member prompt
// (collection_id becomes null, updated_at advances) in the same transaction.
func DeleteCollection(tx store.Tx, id model.CollectionID, now time.Time) CollectionDeletion {
	if !tx.Collections().Delete(id) {
		return CollectionDeletion{}
	}
	res := CollectionDeletion{Existed: true}
	prompts := tx.Prompts()
	for _, p := range prompts.List() {
		if !p.InCollection(id) {
			continue
		}
		p.CollectionID = nil
		p.UpdatedAt = model.Touch(p.UpdatedAt, now)
		prompts.Put(p)
		res.Orphaned = append(res.Orphaned, p.ID)
	}
	return res
}

// PromptDeletion describes the effect of DeletePrompt.
type PromptDeletion struct {
	Existed         bool
	RemovedVersions int
	RemovedTags     int
}

// DeletePrompt removes the prompt together with the versions and tag
// assignments it owns.
func DeletePrompt(tx store.Tx, id model.PromptID) PromptDeletion {
	if !tx.Prompts().Delete(id) {
		return PromptDeletion{}
	}
	res := PromptDeletion{Existed: true}
	versions := tx.Versions()
	for _, v := range versions.List() {
		if v.PromptID == id && versions.Delete(v.ID) {
			res.RemovedVersions++
		}
	}
	assignments := tx.PromptTags()
	for _, pt := range assignments.List() {
		if pt.PromptID == id && assignments.Delete(pt.ID) {
			res.RemovedTags++
		}
	}
	return res
}

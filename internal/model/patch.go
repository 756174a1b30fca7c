package model

import (
	"bytes"
	"encoding/json"
	"time"
)

var jsonNull = []byte("null")

// Optional distinguishes a field that was supplied from one that was left out.
// A JSON null leaves the field absent.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] { return Optional[T]{Value: v, Set: true} }

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), jsonNull) {
		return nil
	}
	if err := json.Unmarshal(b, &o.Value); err != nil {
		return err
	}
	o.Set = true
	return nil
}

// Nullable is an Optional that can also be explicitly cleared with null.
type Nullable[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Value returns a Nullable holding v.
func Value[T any](v T) Nullable[T] { return Nullable[T]{Value: v, Set: true} }

// Null returns a Nullable that clears the field.
func Null[T any]() Nullable[T] { return Nullable[T]{Set: true, Null: true} }

func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), jsonNull) {
		n.Null = true
		return nil
	}
	return json.Unmarshal(b, &n.Value)
}

// Pointer returns nil for a null value and a pointer to the value otherwise.
func (n Nullable[T]) Pointer() *T {
	if n.Null {
		return nil
	}
	v := n.Value
	return &v
}

// PromptPatch is a partial prompt update. Absent fields keep their value.
type PromptPatch struct {
	Title        Optional[string]       `json:"title"`
	Content      Optional[string]       `json:"content"`
	Description  Nullable[string]       `json:"description"`
	CollectionID Nullable[CollectionID] `json:"collection_id"`
}

// Empty reports whether the patch changes nothing.
func (p PromptPatch) Empty() bool {
	return !p.Title.Set && !p.Content.Set && !p.Description.Set && !p.CollectionID.Set
}

// ApplyPatch merges patch over existing and advances UpdatedAt.
// It has no side effects; existing is not modified.
func ApplyPatch(existing Prompt, patch PromptPatch, now time.Time) Prompt {
	out := existing.Clone()
	if patch.Title.Set {
		out.Title = patch.Title.Value
	}
	if patch.Content.Set {
		out.Content = patch.Content.Value
	}
	if patch.Description.Set {
		out.Description = patch.Description.Pointer()
	}
	if patch.CollectionID.Set {
		out.CollectionID = patch.CollectionID.Pointer()
	}
	out.UpdatedAt = Touch(existing.UpdatedAt, now)
	return out
}

// ApplyInput overwrites every caller-owned field of existing with in.
func ApplyInput(existing Prompt, in PromptInput, now time.Time) Prompt {
	out := existing.Clone()
	out.Title = in.Title
	out.Content = in.Content
	out.Description = cloneptr(in.Description)
	out.CollectionID = cloneptr(in.CollectionID)
	out.UpdatedAt = Touch(existing.UpdatedAt, now)
	return out
}

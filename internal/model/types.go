package model

import "time"

// Typed identifiers keep ids of different entities from being mixed up.
type (
	PromptID     string
	CollectionID string
	TagID        string
	PromptTagID  string
	VersionID    string
)

// Prompt is a stored text template, optionally grouped into a collection.
type Prompt struct {
	ID           PromptID      `json:"id"`
	Title        string        `json:"title"`
	Content      string        `json:"content"`
	Description  *string       `json:"description,omitempty"`
	CollectionID *CollectionID `json:"collection_id"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Clone returns a copy that shares no pointers with p.
func (p Prompt) Clone() Prompt {
	p.Description = cloneptr(p.Description)
	p.CollectionID = cloneptr(p.CollectionID)
	return p
}

// InCollection reports whether the prompt belongs to the collection id.
func (p Prompt) InCollection(id CollectionID) bool {
	return p.CollectionID != nil && *p.CollectionID == id
}

// PromptInput carries the caller-supplied fields of a create or full replace.
type PromptInput struct {
	Title        string        `json:"title"`
	Content      string        `json:"content"`
	Description  *string       `json:"description,omitempty"`
	CollectionID *CollectionID `json:"collection_id,omitempty"`
}

// Collection is a named grouping of prompts. Collections are never edited in place.
type Collection struct {
	ID          CollectionID `json:"id"`
	Name        string       `json:"name"`
	Description *string      `json:"description,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Clone returns a copy that shares no pointers with c.
func (c Collection) Clone() Collection {
	c.Description = cloneptr(c.Description)
	return c
}

// CollectionInput carries the caller-supplied fields of a collection create.
type CollectionInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// Tag is a label that can be assigned to any number of prompts.
type Tag struct {
	ID        TagID     `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PromptTag associates one tag with one prompt.
type PromptTag struct {
	ID        PromptTagID `json:"id"`
	PromptID  PromptID    `json:"prompt_id"`
	TagID     TagID       `json:"tag_id"`
	CreatedAt time.Time   `json:"created_at"`
}

// PromptVersion holds the content a prompt had before a change.
type PromptVersion struct {
	ID             VersionID `json:"version_id"`
	PromptID       PromptID  `json:"prompt_id"`
	VersionNumber  int       `json:"version_number"`
	Content        string    `json:"content"`
	ChangesSummary string    `json:"changes_summary"`
	CreatedAt      time.Time `json:"created_at"`
}

// Touch returns the next updated_at value given the previous one and the
// current clock reading. The result is always strictly after prev.
func Touch(prev, now time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Nanosecond)
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

func cloneptr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Package validate checks field-length and format rules before a write is
// attempted. Every failure is a core.ValidationError naming the field.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/promptlab/promptlab/internal/core"
	"github.com/promptlab/promptlab/internal/model"
)

const (
	MaxTitleLen          = 200
	MaxDescriptionLen    = 500
	MaxCollectionNameLen = 100
	MaxTagNameLen        = 50
)

// collectionNameRx allows letters, digits, space, hyphen, underscore and period.
var collectionNameRx = regexp.MustCompile(`^[\p{L}\p{N} _.\-]+$`)

func required(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return core.NewValidationError(field, field+" is required")
	}
	return nil
}

func maxLen(field, v string, limit int) error {
	if utf8.RuneCountInString(v) > limit {
		return core.NewValidationError(field, fmt.Sprintf("%s exceeds %d characters", field, limit))
	}
	return nil
}

func description(v *string) error {
	if v == nil {
		return nil
	}
	return maxLen("description", *v, MaxDescriptionLen)
}

// Title requires 1-200 characters, not all whitespace.
func Title(v string) error {
	if err := required("title", v); err != nil {
		return err
	}
	return maxLen("title", v, MaxTitleLen)
}

// Content requires at least one non-whitespace character.
func Content(v string) error {
	return required("content", v)
}

// PromptInput validates a create or full replace.
func PromptInput(in model.PromptInput) error {
	if err := Title(in.Title); err != nil {
		return err
	}
	if err := Content(in.Content); err != nil {
		return err
	}
	if in.CollectionID != nil && *in.CollectionID == "" {
		return core.NewValidationError("collection_id", "collection_id must not be empty")
	}
	return description(in.Description)
}

// PromptPatch validates only the fields present in p.
func PromptPatch(p model.PromptPatch) error {
	if p.Title.Set {
		if err := Title(p.Title.Value); err != nil {
			return err
		}
	}
	if p.Content.Set {
		if err := Content(p.Content.Value); err != nil {
			return err
		}
	}
	if p.Description.Set && !p.Description.Null {
		if err := maxLen("description", p.Description.Value, MaxDescriptionLen); err != nil {
			return err
		}
	}
	if p.CollectionID.Set && !p.CollectionID.Null && p.CollectionID.Value == "" {
		return core.NewValidationError("collection_id", "collection_id must not be empty")
	}
	return nil
}

// CollectionName requires 1-100 characters from the allowed set with no
// leading or trailing whitespace.
func CollectionName(v string) error {
	if err := required("name", v); err != nil {
		return err
	}
	if err := maxLen("name", v, MaxCollectionNameLen); err != nil {
		return err
	}
	if strings.TrimSpace(v) != v {
		return core.NewValidationError("name", "name must not start or end with whitespace")
	}
	if !collectionNameRx.MatchString(v) {
		return core.NewValidationError("name", "name contains invalid characters; allowed letters, digits, space, hyphen, underscore, period")
	}
	return nil
}

// CollectionInput validates a collection create.
func CollectionInput(in model.CollectionInput) error {
	if err := CollectionName(in.Name); err != nil {
		return err
	}
	return description(in.Description)
}

// TagName requires 1-50 characters after trimming.
func TagName(v string) error {
	if err := required("name", v); err != nil {
		return err
	}
	return maxLen("name", strings.TrimSpace(v), MaxTagNameLen)
}

// CreatedBy requires a non-blank author.
func CreatedBy(v string) error {
	return required("created_by", v)
}

// Summary limits a version's changes summary.
func Summary(v string) error {
	return maxLen("changes_summary", v, MaxDescriptionLen)
}

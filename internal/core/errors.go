// Package core holds the error kinds shared by the storage engines.
package core

import (
	"errors"
	"fmt"
)

// Kind names the entity an error refers to.
type Kind string

const (
	KindPrompt     Kind = "prompt"
	KindCollection Kind = "collection"
	KindTag        Kind = "tag"
	KindVersion    Kind = "version"
	KindAssignment Kind = "assignment"
)

// Conflict codes.
const (
	CodeDuplicateName       = "DUPLICATE_NAME"
	CodeDuplicateTagName    = "DUPLICATE_TAG_NAME"
	CodeDuplicateAssignment = "DUPLICATE_ASSIGNMENT"
)

// ErrNoContentChange is returned when a content change is identical to the
// current content once surrounding whitespace is ignored.
var ErrNoContentChange = errors.New("content is unchanged")

// ValidationError represents a field that failed a length or format rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) ValidationError {
	return ValidationError{Field: field, Message: message}
}

// NotFoundError reports an unknown id of the addressed entity.
type NotFoundError struct {
	Kind Kind
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func NewNotFoundError[K ~string](kind Kind, id K) NotFoundError {
	return NotFoundError{Kind: kind, ID: string(id)}
}

// ReferenceNotFoundError reports a foreign id, such as a prompt's
// collection_id, that does not resolve.
type ReferenceNotFoundError struct {
	Kind Kind
	ID   string
}

func (e ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("referenced %s not found: %s", e.Kind, e.ID)
}

func NewReferenceNotFoundError[K ~string](kind Kind, id K) ReferenceNotFoundError {
	return ReferenceNotFoundError{Kind: kind, ID: string(id)}
}

// ConflictError represents a uniqueness violation.
type ConflictError struct {
	Code    string
	Field   string
	Message string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s: %s", e.Field, e.Message)
}

// NewConflictError constructs ConflictError
func NewConflictError(code, field, message string) ConflictError {
	return ConflictError{Code: code, Field: field, Message: message}
}

// IsValidationError checks if an error is a validation error (including wrapped errors)
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError of any kind.
func IsNotFound(err error) bool {
	var ne NotFoundError
	return errors.As(err, &ne)
}

// IsNotFoundKind reports whether err is a NotFoundError for kind.
func IsNotFoundKind(err error, kind Kind) bool {
	var ne NotFoundError
	return errors.As(err, &ne) && ne.Kind == kind
}

func IsPromptNotFound(err error) bool     { return IsNotFoundKind(err, KindPrompt) }
func IsTagNotFound(err error) bool        { return IsNotFoundKind(err, KindTag) }
func IsVersionNotFound(err error) bool    { return IsNotFoundKind(err, KindVersion) }
func IsAssignmentNotFound(err error) bool { return IsNotFoundKind(err, KindAssignment) }

// IsReferenceNotFound checks if error is ReferenceNotFoundError
func IsReferenceNotFound(err error) bool {
	var re ReferenceNotFoundError
	return errors.As(err, &re)
}

// IsConflict checks if error is ConflictError
func IsConflict(err error) bool {
	var ce ConflictError
	return errors.As(err, &ce)
}

// IsConflictCode reports whether err is a ConflictError with the given code.
func IsConflictCode(err error, code string) bool {
	var ce ConflictError
	return errors.As(err, &ce) && ce.Code == code
}

func IsDuplicateName(err error) bool       { return IsConflictCode(err, CodeDuplicateName) }
func IsDuplicateTagName(err error) bool    { return IsConflictCode(err, CodeDuplicateTagName) }
func IsDuplicateAssignment(err error) bool { return IsConflictCode(err, CodeDuplicateAssignment) }

// IsNoContentChange reports whether err wraps ErrNoContentChange.
func IsNoContentChange(err error) bool { return errors.Is(err, ErrNoContentChange) }

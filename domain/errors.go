package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrEmptyContent indicates the user submitted an empty post or reply.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrContentTooLong indicates the post exceeds the character limit.
	ErrContentTooLong = errors.New("content exceeds character limit")

	// ErrMissingID indicates a server record without identity.
	ErrMissingID = errors.New("record has no id")

	// ErrNoProfile indicates the viewer has not created a MUD profile yet.
	ErrNoProfile = errors.New("mud profile not found")
)

// MaxContentLength is the backend's limit in runes.
const MaxContentLength = 2000

// MappingError reports a server record that cannot be projected.
type MappingError struct {
	Record string // Which record kind, e.g. "post" or "reply"
	Err    error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("mapping %s: %v", e.Record, e.Err)
}

func (e *MappingError) Unwrap() error { return e.Err }

// LoadError reports a failed fetch. Page fetches set Page and Filter;
// other fetches name the Resource instead.
type LoadError struct {
	Resource string
	Page     int
	Filter   Filter
	Err      error
}

func (e *LoadError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("load %s: %v", e.Resource, e.Err)
	}
	return fmt.Sprintf("load page %d (%s): %v", e.Page, e.Filter, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ToggleError reports a failed interaction toggle.
type ToggleError struct {
	PostID string
	Kind   InteractionKind
	Err    error
}

func (e *ToggleError) Error() string {
	return fmt.Sprintf("toggle %s on %s: %v", e.Kind, e.PostID, e.Err)
}

func (e *ToggleError) Unwrap() error { return e.Err }

// SubmitError reports a failed post or reply creation.
type SubmitError struct {
	ParentID string
	Err      error
}

func (e *SubmitError) Error() string {
	if e.ParentID == "" {
		return fmt.Sprintf("submit post: %v", e.Err)
	}
	return fmt.Sprintf("submit reply to %s: %v", e.ParentID, e.Err)
}

func (e *SubmitError) Unwrap() error { return e.Err }

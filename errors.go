package sapling

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/phanxgames/sapling/script"
)

// ErrNotFound is returned (wrapped) when a sprite, room or object script
// does not exist.
var ErrNotFound = script.ErrNotFound

// ErrClosed is returned by Game.Update once the window asked to close or a
// script called game.quit().
var ErrClosed = errors.New("sapling: closed")

// SchemaError reports a well-formed value of the wrong shape.
type SchemaError struct {
	Resource string // e.g. `sprite "hero"`
	Field    string // dotted path; empty for the value itself
	Expected string
	Got      string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("sapling: %s: expected %s, got %s", e.Resource, e.Expected, e.Got)
	}
	return fmt.Sprintf("sapling: %s: %s: expected %s, got %s", e.Resource, e.Field, e.Expected, e.Got)
}

func schemaError(resource, field, expected string, got script.Value) *SchemaError {
	return &SchemaError{Resource: resource, Field: field, Expected: expected, Got: got.TypeName()}
}

// SourceLoadError reports a sprite whose backing image is missing or
// cannot be decoded.
type SourceLoadError struct {
	Sprite string
	Source string
	Err    error
}

func (e *SourceLoadError) Error() string {
	return fmt.Sprintf("sapling: sprite %q: load source %q: %v", e.Sprite, e.Source, e.Err)
}

func (e *SourceLoadError) Unwrap() error { return e.Err }

// ManifestError reports an unreadable or invalid manifest.
type ManifestError struct {
	Path string
	Err  error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("sapling: manifest %s: %v", e.Path, e.Err)
}

func (e *ManifestError) Unwrap() error { return e.Err }

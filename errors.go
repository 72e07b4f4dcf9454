package tmxmap

import (
	"errors"
	"fmt"
)

var (
	// ErrImageLoad is returned when a referenced image cannot be resolved or
	// decoded
	ErrImageLoad = errors.New("tmxmap: cannot load image")

	// ErrIndexOutOfRange is returned when a tile gid does not resolve to a
	// tile in the tileset
	ErrIndexOutOfRange = errors.New("tmxmap: tile index out of range")

	// ErrMalformedAttribute is returned when a required attribute is missing
	// or cannot be parsed
	ErrMalformedAttribute = errors.New("tmxmap: malformed attribute")

	// ErrCursorOverflow is returned when a layer contains more tiles than
	// the map grid can hold
	ErrCursorOverflow = errors.New("tmxmap: too many tiles")

	// ErrOutOfOrder is returned when an element arrives before the elements
	// it depends on, or after the map has been finished
	ErrOutOfOrder = errors.New("tmxmap: element out of order")
)

// ElementError records the position in the document of the element that
// caused a build to fail.
type ElementError struct {
	Name   string
	Line   int
	Column int
	Err    error
}

func (e *ElementError) Error() string {
	if e.Column == 0 {
		return fmt.Sprintf("line %d: <%s>: %v", e.Line, e.Name, e.Err)
	}
	return fmt.Sprintf("line %d, column %d: <%s>: %v", e.Line, e.Column, e.Name, e.Err)
}

func (e *ElementError) Unwrap() error {
	return e.Err
}

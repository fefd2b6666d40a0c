package vfs

import "errors"

// Structural error taxonomy. Callers match with errors.Is; the HTTP
// layer maps these to status codes.
var (
	// ErrNotFound indicates an id or path that does not resolve to a node.
	ErrNotFound = errors.New("node not found")

	// ErrInvalidParent indicates a create target that is missing or not a folder.
	ErrInvalidParent = errors.New("parent is missing or not a folder")

	// ErrDuplicateName indicates a sibling with the same name already exists.
	ErrDuplicateName = errors.New("sibling with this name already exists")

	// ErrNotAFile indicates a content operation aimed at a folder.
	ErrNotAFile = errors.New("node is not a file")

	// ErrInvalidName indicates an empty name or one containing a path separator.
	ErrInvalidName = errors.New("invalid node name")
)

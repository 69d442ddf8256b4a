package store

import "errors"

var (
	// ErrUnknownContentType is returned when a content type id or name
	// doesn't resolve.
	ErrUnknownContentType = errors.New("unknown content type")

	// ErrNotFound is returned when an instance doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrSystemType is returned on attempts to delete a system type.
	ErrSystemType = errors.New("system content type is protected")

	// ErrTypeInUse is returned on attempts to delete a type that still
	// has instances. No cascade: instances must be removed first.
	ErrTypeInUse = errors.New("content type still has instances")

	// ErrDuplicate is returned by guarded creates when the uniqueness
	// invariant would be violated.
	ErrDuplicate = errors.New("already exists")
)

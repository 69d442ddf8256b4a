package store

import "github.com/pauljbernard/content-sub002/pkg/model"

// TypesStore abstracts content-type registry operations.
type TypesStore interface {
	// CreateType registers a new content type.
	CreateType(ct *model.ContentType) error

	// UpdateType replaces a type's definition wholesale; the attributes
	// list is swapped, not diffed per field.
	UpdateType(ct *model.ContentType) error

	// DeleteType removes a type. Returns ErrSystemType for system types
	// and ErrTypeInUse when instances still reference it.
	DeleteType(id string) error

	// GetType retrieves a type by id. Returns ErrUnknownContentType.
	GetType(id string) (*model.ContentType, error)

	// GetTypeByName retrieves a type by its unique human-facing name.
	GetTypeByName(name string) (*model.ContentType, error)

	// ListTypes returns all registered types.
	ListTypes() ([]model.ContentType, error)
}

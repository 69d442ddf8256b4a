package store

import "github.com/pauljbernard/content-sub002/pkg/model"

// ListOptions narrow an instance listing. A zero value lists everything
// except archived rows; archived exclusion is centralized here so query
// sites cannot forget it.
type ListOptions struct {
	// TenantID filters by tenant when non-empty. Callers must leave it
	// empty for tenant-exempt (system) types.
	TenantID string

	// Status filters to a single lifecycle state when non-empty.
	Status model.InstanceStatus

	// IncludeArchived opts archived rows back in.
	IncludeArchived bool

	Limit  int
	Offset int
}

// InstancesStore abstracts content-instance CRUD. The store does not
// validate payloads and is not permission-aware; the API layer is the
// sole enforcement point for both.
type InstancesStore interface {
	// CreateInstance inserts a new instance.
	CreateInstance(inst *model.ContentInstance) error

	// CreateInstanceGuarded inserts inst only if no live instance of the
	// same type and tenant has the same payload value for guardField.
	// The check and insert run in one transaction; returns ErrDuplicate.
	CreateInstanceGuarded(inst *model.ContentInstance, guardField string) error

	// UpdateInstance persists changed payload/status/audit fields.
	UpdateInstance(inst *model.ContentInstance) error

	// DeleteInstance removes an instance by id.
	DeleteInstance(id string) error

	// GetInstance retrieves an instance by id. Returns ErrNotFound.
	GetInstance(id string) (*model.ContentInstance, error)

	// FindInstance returns the first live instance of the named type
	// whose payload field equals value, optionally filtered by tenant.
	// Ordering is deterministic (created_at, id). Returns
	// ErrUnknownContentType or ErrNotFound.
	FindInstance(contentTypeName, field, value, tenantID string) (*model.ContentInstance, error)

	// ListInstances returns instances of a type per opts.
	ListInstances(contentTypeID string, opts ListOptions) ([]model.ContentInstance, error)

	// CountInstances counts all instances of a type, archived included.
	CountInstances(contentTypeID string) (int64, error)

	// ReplaceRelationships rewrites the outgoing edges of sourceID for
	// one referencing attribute.
	ReplaceRelationships(sourceID, attribute string, targetIDs []string) error

	// ListRelationships returns all outgoing edges of sourceID.
	ListRelationships(sourceID string) ([]model.ContentRelationship, error)
}

// Package model defines the gorm-mapped persistence types.
//
// Two generic tables back the entire dynamic data model: content_types
// holds schema definitions and content_instances holds every record,
// with every entity kind (tenants, organizations, users, roles, audit
// events, curriculum content) distinguished only by content_type_id.
// content_relationships stores the edges created for reference-typed
// attributes.
package model

// Package store provides storage abstractions for the content engine.
//
// This package defines interfaces for database operations, allowing the
// server endpoints to be decoupled from the specific database
// implementation. This enables easier testing with mocks and potential
// support for different storage backends.
//
// # Available Stores
//
//   - TypesStore: content-type registry operations
//   - InstancesStore: content-instance CRUD and derived queries
//
// # Usage
//
//	instances := gorm.NewInstancesStore(db)
//	account, err := instances.FindInstance("UserAccount", "user_id", "user-7", "")
//	if err != nil {
//	    if errors.Is(err, store.ErrNotFound) {
//	        // Handle not found
//	    }
//	}
package store

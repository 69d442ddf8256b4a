package identity

import (
	"context"
	"fmt"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Identity is the resolved caller for a request: account coordinates from
// the UserAccount instance and role/flags from the UserProfile instance.
type Identity struct {
	UserID        string
	TenantID      string
	OrgID         string
	AccountStatus string

	Role      string
	Superuser bool
	Attrs     map[string]any
}

// UserIDString converts a legacy numeric identity to the stable
// "user-{id}" form used throughout instance payloads.
func UserIDString(legacyID int64) string {
	return fmt.Sprintf("user-%d", legacyID)
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}

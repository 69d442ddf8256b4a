package access

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pauljbernard/content-sub002/pkg/identity"
	"github.com/pauljbernard/content-sub002/pkg/store"
)

// Well-known system content types. Instances of these are exempt from
// tenant isolation because identity resolution has to work before a
// tenant is known.
const (
	TypeTenant         = "Tenant"
	TypeOrganization   = "Organization"
	TypeUserAccount    = "UserAccount"
	TypeUserProfile    = "UserProfile"
	TypeRoleDefinition = "RoleDefinition"
	TypePermission     = "Permission"
	TypeAuditEvent     = "AuditEvent"
)

// ErrUnauthenticated is returned when no UserAccount or UserProfile
// exists for the caller. Resolution fails closed.
var ErrUnauthenticated = errors.New("unauthenticated")

// DefaultSystemTypes returns the standard tenant-exempt allowlist.
func DefaultSystemTypes() []string {
	return []string{
		TypeTenant, TypeOrganization, TypeUserAccount, TypeUserProfile,
		TypeRoleDefinition, TypePermission, TypeAuditEvent,
	}
}

// Service resolves caller identity and answers permission checks. The
// system-type allowlist is injected rather than read from global state so
// tests can override it.
type Service struct {
	instances   store.InstancesStore
	systemTypes map[string]bool
}

func NewService(instances store.InstancesStore, systemTypes []string) *Service {
	allowed := make(map[string]bool, len(systemTypes))
	for _, name := range systemTypes {
		allowed[name] = true
	}
	return &Service{instances: instances, systemTypes: allowed}
}

// IsSystemType reports whether a content type name is tenant-exempt.
func (s *Service) IsSystemType(name string) bool {
	return s.systemTypes[name]
}

// ResolveIdentity chains UserAccount and UserProfile lookups for a
// "user-{id}" identity. A missing account or profile means the caller is
// unauthenticated; there is no partial identity.
func (s *Service) ResolveIdentity(userID string) (*identity.Identity, error) {
	account, err := s.instances.FindInstance(TypeUserAccount, "user_id", userID, "")
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrUnknownContentType) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("resolve account: %w", err)
	}

	profile, err := s.instances.FindInstance(TypeUserProfile, "user_id", userID, "")
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrUnknownContentType) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("resolve profile: %w", err)
	}

	id := &identity.Identity{
		UserID:        userID,
		TenantID:      account.Field("tenant_id"),
		OrgID:         account.Field("primary_org_id"),
		AccountStatus: account.Field("status"),
		Role:          profile.Field("role"),
	}

	if attrs, ok := profile.Data["attrs"].(map[string]any); ok {
		id.Attrs = attrs
		id.Superuser, _ = attrs["is_superuser"].(bool)
	}

	return id, nil
}

// CheckPermission decides whether the caller may perform action on
// resource. Superusers always pass. Otherwise the caller's role
// definition supplies default_permissions, extended by the permissions of
// directly inherited roles. The inheritance walk is one level deep: the
// original system never recursed past direct parents, and recursing here
// would silently over-grant.
func (s *Service) CheckPermission(id *identity.Identity, action, resource string) bool {
	if id == nil {
		return false
	}
	if id.Superuser {
		return true
	}
	if id.Role == "" {
		return false
	}

	roleDef, err := s.instances.FindInstance(TypeRoleDefinition, "role_id", id.Role, "")
	if err != nil {
		// No role definition: deny.
		return false
	}

	perms := stringSlice(roleDef.Data["default_permissions"])

	for _, parent := range stringSlice(roleDef.Data["inherits"]) {
		parentDef, err := s.instances.FindInstance(TypeRoleDefinition, "role_id", parent, "")
		if err != nil {
			continue
		}
		perms = append(perms, stringSlice(parentDef.Data["default_permissions"])...)
	}

	for _, perm := range perms {
		if matchPermission(perm, action, resource) {
			return true
		}
	}
	return false
}

// matchPermission matches "{action}:{resource}" against one permission
// string. Supported forms: exact, "*:resource", "action:*" (including a
// trailing-* resource prefix such as "read:content:*"), and the full
// wildcard "*:*:*".
func matchPermission(perm, action, resource string) bool {
	if perm == "*:*:*" || perm == "*:*" || perm == "*" {
		return true
	}

	permAction, permResource, found := strings.Cut(perm, ":")
	if !found {
		return false
	}

	if permAction != "*" && permAction != action {
		return false
	}

	if permResource == "*" || permResource == resource {
		return true
	}
	if prefix, ok := strings.CutSuffix(permResource, "*"); ok {
		return strings.HasPrefix(resource, prefix)
	}
	return false
}

func stringSlice(value any) []string {
	switch items := value.(type) {
	case []string:
		return items
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

package bootstrap

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pauljbernard/content-sub002/pkg/access"
	"github.com/pauljbernard/content-sub002/pkg/auth"
	"github.com/pauljbernard/content-sub002/pkg/config"
	"github.com/pauljbernard/content-sub002/pkg/model"
	"github.com/pauljbernard/content-sub002/pkg/schema"
	"github.com/pauljbernard/content-sub002/pkg/standards"
	"github.com/pauljbernard/content-sub002/pkg/store"
)

// SystemTypeDefinitions returns the attribute sets for every system
// content type. Bootstrap installs these; the API refuses to create or
// delete them.
func SystemTypeDefinitions() map[string][]schema.AttributeDefinition {
	return map[string][]schema.AttributeDefinition{
		access.TypeTenant: {
			{Name: "tenant_id", Label: "Tenant ID", Type: schema.AttributeTypeText, Required: true},
			{Name: "name", Label: "Name", Type: schema.AttributeTypeText, Required: true},
			{Name: "domain", Label: "Domain", Type: schema.AttributeTypeText},
		},
		access.TypeOrganization: {
			{Name: "org_id", Label: "Organization ID", Type: schema.AttributeTypeText, Required: true},
			{Name: "tenant_id", Label: "Tenant", Type: schema.AttributeTypeText, Required: true},
			{Name: "name", Label: "Name", Type: schema.AttributeTypeText, Required: true},
		},
		access.TypeUserAccount: {
			{Name: "user_id", Label: "User ID", Type: schema.AttributeTypeText, Required: true},
			{Name: "email", Label: "Email", Type: schema.AttributeTypeText, Required: true},
			{Name: "password_hash", Label: "Password Hash", Type: schema.AttributeTypeText, Required: true},
			{Name: "tenant_id", Label: "Tenant", Type: schema.AttributeTypeText, Required: true},
			{Name: "primary_org_id", Label: "Primary Organization", Type: schema.AttributeTypeText},
			{Name: "status", Label: "Status", Type: schema.AttributeTypeChoice, Required: true,
				Config: schema.AttributeConfig{Choices: []string{"active", "suspended", "deactivated"}},
				DefaultValue: "active"},
		},
		access.TypeUserProfile: {
			{Name: "user_id", Label: "User ID", Type: schema.AttributeTypeText, Required: true},
			{Name: "tenant_id", Label: "Tenant", Type: schema.AttributeTypeText},
			{Name: "role", Label: "Role", Type: schema.AttributeTypeText, Required: true},
			{Name: "attrs", Label: "Attributes", Type: schema.AttributeTypeJSON},
		},
		access.TypeRoleDefinition: {
			{Name: "role_id", Label: "Role ID", Type: schema.AttributeTypeText, Required: true},
			{Name: "description", Label: "Description", Type: schema.AttributeTypeText},
			{Name: "inherits", Label: "Inherits", Type: schema.AttributeTypeJSON},
			{Name: "default_permissions", Label: "Default Permissions", Type: schema.AttributeTypeJSON},
		},
		access.TypePermission: {
			{Name: "permission", Label: "Permission", Type: schema.AttributeTypeText, Required: true},
			{Name: "description", Label: "Description", Type: schema.AttributeTypeText},
		},
		access.TypeAuditEvent: {
			{Name: "who", Label: "Who", Type: schema.AttributeTypeText, Required: true},
			{Name: "action", Label: "Action", Type: schema.AttributeTypeText, Required: true},
			{Name: "resource", Label: "Resource", Type: schema.AttributeTypeText, Required: true},
			{Name: "decision", Label: "Decision", Type: schema.AttributeTypeText, Required: true},
			{Name: "reason", Label: "Reason", Type: schema.AttributeTypeText},
			{Name: "actor_id", Label: "Actor", Type: schema.AttributeTypeText},
			{Name: "timestamp", Label: "Timestamp", Type: schema.AttributeTypeText},
		},
		standards.StandardType: standards.TypeDefinition(),
	}
}

// DefaultRoles returns the role definitions installed at bootstrap.
func DefaultRoles() []map[string]any {
	return []map[string]any{
		{
			"role_id":     "admin",
			"description": "Full control within a tenant",
			"inherits":    []any{"teacher"},
			"default_permissions": []any{
				"*:content-types", "*:content:*", "import:standards",
				"reveal:content:*", "view:kb:*",
			},
		},
		{
			"role_id":     "teacher",
			"description": "Creates and manages curriculum content",
			"inherits":    []any{"viewer"},
			"default_permissions": []any{
				"read:content-types", "create:content-types",
				"create:content:*", "read:content:*", "update:content:*",
				"import:standards",
			},
		},
		{
			"role_id":             "viewer",
			"description":         "Read-only access to published content",
			"inherits":            []any{},
			"default_permissions": []any{"read:content-types", "read:content:*", "view:kb:*"},
		},
	}
}

// Install sets up system content types, the default tenant and
// organization, and the default role definitions. It is idempotent:
// everything already present is left alone.
func Install(types store.TypesStore, instances store.InstancesStore, cfg *config.PlatformConfig) error {
	for name, attrs := range SystemTypeDefinitions() {
		if _, err := types.GetTypeByName(name); err == nil {
			continue
		} else if !errors.Is(err, store.ErrUnknownContentType) && !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("bootstrap: looking up %s: %w", name, err)
		}
		ct := &model.ContentType{
			Name:       name,
			IsSystem:   name != standards.StandardType,
			Attributes: attrs,
			CreatedBy:  "bootstrap",
		}
		if err := types.CreateType(ct); err != nil {
			return fmt.Errorf("bootstrap: creating type %s: %w", name, err)
		}
	}

	if err := ensureInstance(types, instances, access.TypeTenant, "tenant_id", cfg.DefaultTenantID, model.JSONMap{
		"tenant_id": cfg.DefaultTenantID,
		"name":      "Default Tenant",
	}); err != nil {
		return err
	}
	if err := ensureInstance(types, instances, access.TypeOrganization, "org_id", cfg.DefaultOrgID, model.JSONMap{
		"org_id":    cfg.DefaultOrgID,
		"tenant_id": cfg.DefaultTenantID,
		"name":      "Default Organization",
	}); err != nil {
		return err
	}

	for _, role := range DefaultRoles() {
		roleID, _ := role["role_id"].(string)
		if err := ensureInstance(types, instances, access.TypeRoleDefinition, "role_id", roleID, model.JSONMap(role)); err != nil {
			return err
		}
	}
	return nil
}

// CreateSuperuser creates an account/profile pair with the superuser
// flag set. Returns the new user id, or ErrDuplicate when the email is
// taken.
func CreateSuperuser(types store.TypesStore, instances store.InstancesStore, cfg *config.PlatformConfig, email, password string) (string, error) {
	accountType, err := types.GetTypeByName(access.TypeUserAccount)
	if err != nil {
		return "", fmt.Errorf("bootstrap: %w", err)
	}
	profileType, err := types.GetTypeByName(access.TypeUserProfile)
	if err != nil {
		return "", fmt.Errorf("bootstrap: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}

	userID := "user-" + uuid.NewString()
	account := &model.ContentInstance{
		ContentTypeID: accountType.ID,
		TenantID:      cfg.DefaultTenantID,
		Status:        model.StatusPublished,
		CreatedBy:     "bootstrap",
		UpdatedBy:     "bootstrap",
		Data: model.JSONMap{
			"user_id":        userID,
			"email":          email,
			"password_hash":  hash,
			"tenant_id":      cfg.DefaultTenantID,
			"primary_org_id": cfg.DefaultOrgID,
			"status":         "active",
		},
	}
	if err := instances.CreateInstanceGuarded(account, "email"); err != nil {
		return "", err
	}

	profile := &model.ContentInstance{
		ContentTypeID: profileType.ID,
		TenantID:      cfg.DefaultTenantID,
		Status:        model.StatusPublished,
		CreatedBy:     "bootstrap",
		UpdatedBy:     "bootstrap",
		Data: model.JSONMap{
			"user_id":   userID,
			"tenant_id": cfg.DefaultTenantID,
			"role":      "admin",
			"attrs":     map[string]any{"is_superuser": true},
		},
	}
	if err := instances.CreateInstance(profile); err != nil {
		return "", err
	}
	return userID, nil
}

func ensureInstance(types store.TypesStore, instances store.InstancesStore, typeName, field, value string, data model.JSONMap) error {
	if _, err := instances.FindInstance(typeName, field, value, ""); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("bootstrap: looking up %s %s: %w", typeName, value, err)
	}

	ct, err := types.GetTypeByName(typeName)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	inst := &model.ContentInstance{
		ContentTypeID: ct.ID,
		Status:        model.StatusPublished,
		CreatedBy:     "bootstrap",
		UpdatedBy:     "bootstrap",
		Data:          data,
	}
	if err := instances.CreateInstance(inst); err != nil {
		return fmt.Errorf("bootstrap: creating %s %s: %w", typeName, value, err)
	}
	return nil
}

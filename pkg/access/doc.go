// Package access resolves caller identity and evaluates permissions.
//
// Identity is not a dedicated table: it is chained lookups across
// UserAccount, UserProfile and RoleDefinition content instances. A fixed
// allowlist of system content types is exempt from tenant isolation so
// that resolution works before the caller's tenant is known. All failure
// paths deny.
package access

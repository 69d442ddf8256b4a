// Package bootstrap installs the data a fresh deployment needs before
// the first request: system content types, the default tenant and
// organization, role definitions and, via the CLI, the first superuser.
// All of it is idempotent so re-running against a live database is safe.
package bootstrap

// Package db embeds the SQL migrations so production builds carry their
// schema with them.
package db

import "embed"

// Migrations contains the SQL migration files
//
//go:embed migrations/*.sql
var Migrations embed.FS

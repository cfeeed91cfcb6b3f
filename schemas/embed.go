// Package schemas provides embedded SQL migration files.
package schemas

import "embed"

// Migrations contains the history archive schema.
//
//go:embed migrations/*.sql
var Migrations embed.FS

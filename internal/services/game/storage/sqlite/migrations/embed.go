// Package migrations contains embedded SQL migrations for the SQLite store.
package migrations

import "embed"

// FS holds the game schema migrations.
//
//go:embed *.sql
var FS embed.FS

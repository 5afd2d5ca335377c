// filepath: internal/db/migrations/embed.go
package migrations

import "embed"

// FS embeds the SQL migrations of the reporting export schema.
//
//go:embed *.sql
var FS embed.FS

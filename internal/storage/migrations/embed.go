// Package migrations embeds the goose SQL migrations for the console's
// SQLite datastore.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS

// Package migrations embeds the directory server's goose SQL migrations.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS

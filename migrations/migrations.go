// Package migrations embeds the MySQL schema for db:migrate.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

// Package migrations embeds the SQL schema so deployments need no external
// migration files.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

// Package migrations embeds the goose SQL migration files so they travel
// with the binary.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

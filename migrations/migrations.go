// Package migrations embeds the goose SQL migrations for the review pipeline schema.
package migrations

import "embed"

// FS holds every migration file; goose reads it from the root directory ".".
//
//go:embed *.sql
var FS embed.FS

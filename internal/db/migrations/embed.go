// Package migrations holds the goose SQL migrations for the Posterr schema.
package migrations

import "embed"

// FS contains every migration file, so binaries do not depend on the working directory
//
//go:embed *.sql
var FS embed.FS

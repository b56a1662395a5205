// Package migrations holds the goose SQL migrations, applied in version order.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

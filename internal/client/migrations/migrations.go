// Package migrations embeds the client's schema migrations. SQL steps live
// in this directory and are applied in version order by goose; the seed step
// is a Go migration registered in this package.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS

// Package patches holds the goose SQL migrations of the portal database.
package patches

import "embed"

//go:embed *.sql
var FS embed.FS

package migrations

import "embed"

// FS contains the embedded PostgreSQL migrations for the prediction audit table.
//
//go:embed *.sql
var FS embed.FS

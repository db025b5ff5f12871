// Package migrations embeds the goose schema migrations for every supported
// SQL dialect. Each dialect has its own directory inside the FS.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS

const (
	PostgresDir = "postgres"
	SQLiteDir   = "sqlite"
)

package migrations

import "github.com/uptrace/bun/migrate"

// Migrations is the registry applied by the migrate CLI subcommand and the
// server at startup.
var Migrations = migrate.NewMigrations()

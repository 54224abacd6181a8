package config

import (
	"flag"
)

// parses CLI flags for a migrate subcommand (init, drop)
func ParseMigrateFlags(name string, args []string) Flags {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	databaseURL := fs.String("database-url", getEnv("DATABASE_URL", defaultDatabaseURL), "session store connection string")
	force := fs.Bool("force", false, "allow dropping existing sessions (init recreates the table, drop requires it)")
	fs.Parse(args) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return Flags{DatabaseURL: *databaseURL, Force: *force}
}

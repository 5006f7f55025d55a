// Package main is the leapsheet command.
package main

import (
	"os"

	"github.com/leapstack-labs/leapsheet/internal/cli"

	// Register database adapters.
	_ "github.com/leapstack-labs/leapsheet/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapsheet/pkg/adapters/mssql"
	_ "github.com/leapstack-labs/leapsheet/pkg/adapters/mysql"
	_ "github.com/leapstack-labs/leapsheet/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/leapsheet/pkg/adapters/sqlite"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

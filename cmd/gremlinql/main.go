// Package main provides the gremlinql command.
package main

import (
	"os"

	"github.com/leapstack-labs/gremlinql/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

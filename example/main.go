package main

import (
	"fmt"
	"os"

	"go.aporeto.io/tapcheck"

	// Import all the test suites
	_ "go.aporeto.io/tapcheck/example/suite1"
	_ "go.aporeto.io/tapcheck/example/suite2"
)

func main() {

	if err := tapcheck.NewCommand("pt", "this is a test", "1.0").Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err) // nolint
		os.Exit(1)
	}
}

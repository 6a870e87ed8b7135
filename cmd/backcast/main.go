// Package main is the entry point for the backcast CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/backcast-labs/backcast/internal/cli"
	"github.com/backcast-labs/backcast/internal/config"
	"github.com/backcast-labs/backcast/internal/runner"
	"github.com/backcast-labs/backcast/internal/schema"
)

// Exit codes distinguish configuration mistakes from data-validation
// failures so pipelines can react to each.
const (
	exitError      = 1
	exitConfig     = 2
	exitValidation = 3
)

func main() {
	err := cli.Execute()
	if err == nil {
		return
	}

	var cfgErr *config.Error
	var schemaErr *schema.Error
	switch {
	case errors.As(err, &cfgErr):
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(exitConfig)
	case errors.Is(err, runner.ErrRunFailed), errors.As(err, &schemaErr):
		fmt.Fprintf(os.Stderr, "validation failed: %v\n", err)
		os.Exit(exitValidation)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitError)
	}
}

// Package main implements catalogd.
package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/m-lab/go/flagx"

	"github.com/mgorsk1/amundsenmetadatalibrary/internal/catalog"
	"github.com/mgorsk1/amundsenmetadatalibrary/internal/proxy"
	"github.com/mgorsk1/amundsenmetadatalibrary/internal/testhelper"
)

var (
	// Flags related to the Data Catalog client.
	projectID       string
	credentialsFile string
	pageSize        int

	// Flags related to serving.
	listenAddr string

	// Flags related to program's execution.
	verbose bool

	// Errors related to command line parsing and validation.
	errExtraArgs   = errors.New("extra arguments on the command line")
	errNoProject   = errors.New("must specify project-id")
	errBadPageSize = errors.New("page-size must be positive")
)

func initFlags() {
	flag.StringVar(&projectID, "project-id", "", "required - GCP project whose catalog is searched")
	flag.StringVar(&credentialsFile, "credentials-file", "", "service account credentials file (default application credentials if empty)")
	flag.IntVar(&pageSize, "page-size", 10, "number of search results returned when a request carries no limit of its own")
	flag.StringVar(&listenAddr, "listen-addr", ":8080", "address to serve the metadata API on")
	flag.BoolVar(&verbose, "verbose", false, "enable verbose mode")
}

// parseAndValidateCLI parses and validates the command line.
func parseAndValidateCLI() error {
	initFlags()
	flag.Parse()
	if flag.NArg() != 0 {
		return errExtraArgs
	}

	// Now, check if some flags were set in the environment instead
	// of on the command line.
	if err := flagx.ArgsFromEnv(flag.CommandLine); err != nil {
		return fmt.Errorf("failed to get args from the environment: %w", err)
	}

	// Enable verbose mode in all packages as soon as the flags are
	// parsed.
	if verbose {
		catalog.Verbose(testhelper.VLogf)
		proxy.Verbose(testhelper.VLogf)
	}

	if projectID == "" {
		return errNoProject
	}
	if pageSize <= 0 {
		return errBadPageSize
	}
	return nil
}

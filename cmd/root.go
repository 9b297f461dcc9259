package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KostasZigo/govcs/internal/objects"
	"github.com/KostasZigo/govcs/internal/repository"
)

// rootCmd defines the base command for the govcs CLI.
// All subcommands (init, hash-object, cat-file, etc.) register under this
// root. Uses cobra for command parsing, flag handling, and help generation.
var rootCmd = &cobra.Command{
	Use:   "govcs",
	Short: "A content-addressed version control store in GO",
	Long: `Govcs is a simplified version-control data layer developed in GO. It stores
immutable blobs, trees, commits and tags in a content-addressed object store
and can materialize any stored tree back into a working directory.`,
}

// Execute runs the root command and handles exit codes.
// Called from main.go to start CLI execution.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openStore locates the enclosing repository and wires an object store over
// its layout. Shared by every command except init.
func openStore() (*repository.Repository, *objects.ObjectStore, error) {
	workingDir, err := os.Getwd()
	if err != nil {
		return nil, nil, err
	}

	repo, err := repository.FindRepository(workingDir)
	if err != nil {
		return nil, nil, err
	}

	return repo, objects.NewObjectStore(repo), nil
}

// requireArgs validates command receives exactly n positional arguments.
// Enables usage printing in case of error.
func requireArgs(cmdName string, n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			cmd.SilenceUsage = false
			return fmt.Errorf("%s command requires exactly %d argument(s) (%s), received %d",
				cmdName, n, usage, len(args))
		}
		return nil
	}
}
